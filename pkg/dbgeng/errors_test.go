package dbgeng

import (
	"errors"
	"testing"
)

func TestHRESULTFailed(t *testing.T) {
	for _, tc := range []struct {
		hr     HRESULT
		failed bool
	}{
		{S_OK, false},
		{S_FALSE, false},
		{E_FAIL, true},
		{E_INVALIDARG, true},
		{E_NOINTERFACE, true},
		{HRESULT(0x80004099), true},
		{HRESULT(0x00040001), false},
	} {
		if got := tc.hr.Failed(); got != tc.failed {
			t.Errorf("%s: Failed() = %v, want %v", tc.hr, got, tc.failed)
		}
	}
}

func TestHRESULTString(t *testing.T) {
	if s := E_INVALIDARG.String(); s != "E_INVALIDARG" {
		t.Errorf("got %q", s)
	}
	if s := HRESULT(0x80070490).String(); s != "0x80070490" {
		t.Errorf("got %q", s)
	}
}

func TestCheckHR(t *testing.T) {
	if err := checkHR("IDebugControl::Execute", uintptr(S_OK)); err != nil {
		t.Errorf("S_OK should not produce an error: %v", err)
	}
	if err := checkHR("IDebugControl::Execute", uintptr(S_FALSE)); err != nil {
		t.Errorf("S_FALSE is a success code: %v", err)
	}

	err := checkHR("IDebugControl::Execute", uintptr(E_FAIL))
	if err == nil {
		t.Fatal("E_FAIL should produce an error")
	}
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %T", err)
	}
	if callErr.Op != "IDebugControl::Execute" || callErr.HR != E_FAIL {
		t.Errorf("unexpected CallError: %+v", callErr)
	}
	want := "IDebugControl::Execute failed: E_FAIL"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestArgumentError(t *testing.T) {
	err := &ArgumentError{Arg: "command", Reason: "string contains a NUL byte"}
	want := "invalid argument command: string contains a NUL byte"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
