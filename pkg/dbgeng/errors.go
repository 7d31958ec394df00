package dbgeng

import "fmt"

// HRESULT is a status code returned by the engine.
type HRESULT uint32

// Well-known HRESULT values.
const (
	S_OK           HRESULT = 0x00000000
	S_FALSE        HRESULT = 0x00000001
	E_PENDING      HRESULT = 0x8000000A
	E_NOTIMPL      HRESULT = 0x80004001
	E_NOINTERFACE  HRESULT = 0x80004002
	E_ABORT        HRESULT = 0x80004004
	E_FAIL         HRESULT = 0x80004005
	E_UNEXPECTED   HRESULT = 0x8000FFFF
	E_ACCESSDENIED HRESULT = 0x80070005
	E_OUTOFMEMORY  HRESULT = 0x8007000E
	E_INVALIDARG   HRESULT = 0x80070057
)

var hresultNames = map[HRESULT]string{
	S_OK:           "S_OK",
	S_FALSE:        "S_FALSE",
	E_PENDING:      "E_PENDING",
	E_NOTIMPL:      "E_NOTIMPL",
	E_NOINTERFACE:  "E_NOINTERFACE",
	E_ABORT:        "E_ABORT",
	E_FAIL:         "E_FAIL",
	E_UNEXPECTED:   "E_UNEXPECTED",
	E_ACCESSDENIED: "E_ACCESSDENIED",
	E_OUTOFMEMORY:  "E_OUTOFMEMORY",
	E_INVALIDARG:   "E_INVALIDARG",
}

// Failed reports whether hr is a failure code (severity bit set).
func (hr HRESULT) Failed() bool {
	return hr&0x80000000 != 0
}

func (hr HRESULT) String() string {
	if name, ok := hresultNames[hr]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(hr))
}

// CallError is returned when an engine call fails. The failure comes from
// the engine itself; Op names the method that was called and HR carries the
// status code it returned.
type CallError struct {
	Op string
	HR HRESULT
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.HR)
}

// ArgumentError is returned when an argument cannot be marshaled for the
// engine, before any engine call is made.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

// checkHR converts the result of an engine call into an error.
func checkHR(op string, hr uintptr) error {
	if h := HRESULT(hr); h.Failed() {
		return &CallError{Op: op, HR: h}
	}
	return nil
}
