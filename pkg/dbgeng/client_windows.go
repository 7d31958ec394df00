//go:build windows

package dbgeng

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/go-dbgeng/dbgeng/pkg/logflags"
)

// ErrClosed is returned by any operation on a closed Client.
var ErrClosed = errors.New("dbgeng: client is closed")

// Client owns one engine client object together with the control, symbol,
// data space and register interfaces obtained from it. The engine retains
// ownership of everything behind these interfaces; Client only manages the
// COM reference counts and must not be used after Close.
type Client struct {
	raw       *debugClient
	control   *debugControl
	symbols   *debugSymbols
	data      *debugDataSpaces
	registers *debugRegisters

	log    logflags.Logger
	closed bool
}

// Create asks dbgeng.dll for a fresh client object and wraps it. The
// returned Client owns the object and releases it on Close.
func Create() (*Client, error) {
	p, err := debugCreate(&iidDebugClient)
	if err != nil {
		return nil, err
	}
	return wrap((*debugClient)(p))
}

// NewClient wraps a client object owned by someone else, typically the
// IDebugClient pointer handed to a WinDbg extension entry point. The
// object is AddRef'd; the caller's reference is untouched.
func NewClient(p unsafe.Pointer) (*Client, error) {
	if p == nil {
		return nil, &ArgumentError{Arg: "client", Reason: "nil interface pointer"}
	}
	raw := (*debugClient)(p)
	raw.unknown().addRef()
	return wrap(raw)
}

// wrap queries the secondary interfaces off raw. It takes ownership of the
// reference held on raw and releases everything on failure.
func wrap(raw *debugClient) (*Client, error) {
	c := &Client{raw: raw, log: logflags.DbgengLogger()}

	var p unsafe.Pointer
	if err := raw.unknown().queryInterface(&iidDebugControl3, &p); err != nil {
		c.Close()
		return nil, err
	}
	c.control = (*debugControl)(p)
	if err := raw.unknown().queryInterface(&iidDebugSymbols3, &p); err != nil {
		c.Close()
		return nil, err
	}
	c.symbols = (*debugSymbols)(p)
	if err := raw.unknown().queryInterface(&iidDebugDataSpaces4, &p); err != nil {
		c.Close()
		return nil, err
	}
	c.data = (*debugDataSpaces)(p)
	if err := raw.unknown().queryInterface(&iidDebugRegisters, &p); err != nil {
		c.Close()
		return nil, err
	}
	c.registers = (*debugRegisters)(p)
	return c, nil
}

// Close releases every interface held by the Client. It is safe to call
// more than once; any other method called after Close returns ErrClosed.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.registers != nil {
		c.registers.unknown().release()
	}
	if c.data != nil {
		c.data.unknown().release()
	}
	if c.symbols != nil {
		c.symbols.unknown().release()
	}
	if c.control != nil {
		c.control.unknown().release()
	}
	if c.raw != nil {
		c.raw.unknown().release()
	}
	c.registers, c.data, c.symbols, c.control, c.raw = nil, nil, nil, nil, nil
	return nil
}

func (c *Client) live() error {
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Command execution.

// Execute runs a command in the engine's own command language. Output goes
// to all clients.
func (c *Client) Execute(cmd string) error {
	return c.execute(cmd, DEBUG_EXECUTE_DEFAULT)
}

// ExecuteEcho is Execute with the command echoed to the output before it
// runs.
func (c *Client) ExecuteEcho(cmd string) error {
	return c.execute(cmd, DEBUG_EXECUTE_ECHO)
}

func (c *Client) execute(cmd string, flags uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("command", cmd)
	if err != nil {
		return err
	}
	c.log.Debugf("Execute(%q)", cmd)
	hr, _, _ := syscallN(c.control.vtbl.Execute,
		uintptr(unsafe.Pointer(c.control)),
		DEBUG_OUTCTL_ALL_CLIENTS,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(flags))
	return checkHR("IDebugControl::Execute", hr)
}

// Output.

var percentS = []byte("%s\x00")

// Output sends s to the engine output sink under the given mask. The
// string is passed as a %s argument so the engine's formatter never
// interprets it.
func (c *Client) Output(mask uint32, s string) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("text", s)
	if err != nil {
		return err
	}
	hr, _, _ := syscallN(c.control.vtbl.Output,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(mask),
		uintptr(unsafe.Pointer(&percentS[0])),
		uintptr(unsafe.Pointer(&buf[0])))
	return checkHR("IDebugControl::Output", hr)
}

// Print logs s to the normal engine output. On failure an error message is
// sent to the engine's error output instead; Print never fails the caller.
func (c *Client) Print(s string) {
	if err := c.Output(DEBUG_OUTPUT_NORMAL, s); err != nil {
		c.Output(DEBUG_OUTPUT_ERROR, fmt.Sprintf("failed to log message: %v\n", err))
	}
}

// Println is Print with a trailing newline.
func (c *Client) Println(s string) {
	c.Print(s + "\n")
}

// Printf formats in Sprintf style and prints to the normal engine output.
func (c *Client) Printf(format string, args ...interface{}) {
	c.Print(fmt.Sprintf(format, args...))
}

// Expression evaluation.

// Evaluate asks the engine to evaluate expr, requesting the given
// DEBUG_VALUE type (DEBUG_VALUE_INVALID lets the engine choose).
func (c *Client) Evaluate(expr string, desiredType uint32) (Value, error) {
	var v Value
	if err := c.live(); err != nil {
		return v, err
	}
	buf, err := cString("expression", expr)
	if err != nil {
		return v, err
	}
	c.log.Debugf("Evaluate(%q, %d)", expr, desiredType)
	hr, _, _ := syscallN(c.control.vtbl.Evaluate,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(desiredType),
		uintptr(unsafe.Pointer(&v)),
		0)
	if err := checkHR("IDebugControl::Evaluate", hr); err != nil {
		return Value{}, err
	}
	return v, nil
}

// EvaluateUint64 evaluates expr as a 64-bit integer.
func (c *Client) EvaluateUint64(expr string) (uint64, error) {
	v, err := c.Evaluate(expr, DEBUG_VALUE_INT64)
	if err != nil {
		return 0, err
	}
	return v.Uint64()
}

// EvaluateUint32 evaluates expr as a 32-bit integer.
func (c *Client) EvaluateUint32(expr string) (uint32, error) {
	v, err := c.Evaluate(expr, DEBUG_VALUE_INT32)
	if err != nil {
		return 0, err
	}
	return v.Uint32()
}

// EvaluateFloat64 evaluates expr as a 64-bit float.
func (c *Client) EvaluateFloat64(expr string) (float64, error) {
	v, err := c.Evaluate(expr, DEBUG_VALUE_FLOAT64)
	if err != nil {
		return 0, err
	}
	return v.Float64()
}

// EvaluateFloat32 evaluates expr as a 32-bit float.
func (c *Client) EvaluateFloat32(expr string) (float32, error) {
	v, err := c.Evaluate(expr, DEBUG_VALUE_FLOAT32)
	if err != nil {
		return 0, err
	}
	return v.Float32()
}

// Control and system state.

// NumberProcessors returns the number of processors in the target system.
func (c *Client) NumberProcessors() (uint32, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var n uint32
	hr, _, _ := syscallN(c.control.vtbl.GetNumberProcessors,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(unsafe.Pointer(&n)))
	if err := checkHR("IDebugControl::GetNumberProcessors", hr); err != nil {
		return 0, err
	}
	return n, nil
}

// DebuggeeType returns the class and qualifier of the current target.
func (c *Client) DebuggeeType() (class, qualifier uint32, err error) {
	if err := c.live(); err != nil {
		return 0, 0, err
	}
	hr, _, _ := syscallN(c.control.vtbl.GetDebuggeeType,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(unsafe.Pointer(&class)),
		uintptr(unsafe.Pointer(&qualifier)))
	if err := checkHR("IDebugControl::GetDebuggeeType", hr); err != nil {
		return 0, 0, err
	}
	return class, qualifier, nil
}

// ExecutionStatus returns the engine's current DEBUG_STATUS value.
func (c *Client) ExecutionStatus() (uint32, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var status uint32
	hr, _, _ := syscallN(c.control.vtbl.GetExecutionStatus,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(unsafe.Pointer(&status)))
	if err := checkHR("IDebugControl::GetExecutionStatus", hr); err != nil {
		return 0, err
	}
	return status, nil
}

// SetExecutionStatus requests a change of execution status (go, step,
// break).
func (c *Client) SetExecutionStatus(status uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.control.vtbl.SetExecutionStatus,
		uintptr(unsafe.Pointer(c.control)),
		uintptr(status))
	return checkHR("IDebugControl::SetExecutionStatus", hr)
}

// WaitForEvent blocks until the next engine event or until timeoutMillis
// elapses. Use WaitTimeoutInfinite to wait forever.
func (c *Client) WaitForEvent(timeoutMillis uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	c.log.Debugf("WaitForEvent(%d)", timeoutMillis)
	hr, _, _ := syscallN(c.control.vtbl.WaitForEvent,
		uintptr(unsafe.Pointer(c.control)),
		0,
		uintptr(timeoutMillis))
	return checkHR("IDebugControl::WaitForEvent", hr)
}

// Interrupt requests an active break into the engine.
func (c *Client) Interrupt() error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.control.vtbl.SetInterrupt,
		uintptr(unsafe.Pointer(c.control)),
		DEBUG_INTERRUPT_ACTIVE)
	return checkHR("IDebugControl::SetInterrupt", hr)
}

// Symbols.

// SymbolAddress resolves a symbol name ("ntdll!NtCreateFile") to its
// address.
func (c *Client) SymbolAddress(name string) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	buf, err := cString("symbol", name)
	if err != nil {
		return 0, err
	}
	var offset uint64
	hr, _, _ := syscallN(c.symbols.vtbl.GetOffsetByName,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&offset)))
	if err := checkHR("IDebugSymbols::GetOffsetByName", hr); err != nil {
		return 0, err
	}
	return offset, nil
}

// SymbolName resolves addr to the nearest symbol, returning the name and
// the displacement of addr from the symbol's start.
func (c *Client) SymbolName(addr uint64) (string, uint64, error) {
	if err := c.live(); err != nil {
		return "", 0, err
	}
	buf := make([]byte, 1024)
	var size uint32
	var displacement uint64
	hr, _, _ := syscallN(c.symbols.vtbl.GetNameByOffset,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&size)),
		uintptr(unsafe.Pointer(&displacement)))
	if err := checkHR("IDebugSymbols::GetNameByOffset", hr); err != nil {
		return "", 0, err
	}
	if size == 0 {
		return "", 0, &ArgumentError{Arg: "address", Reason: "no symbol name returned"}
	}
	return cStringToGo(buf), displacement, nil
}

// NumberModules returns the counts of loaded and unloaded modules.
func (c *Client) NumberModules() (loaded, unloaded uint32, err error) {
	if err := c.live(); err != nil {
		return 0, 0, err
	}
	hr, _, _ := syscallN(c.symbols.vtbl.GetNumberModules,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&loaded)),
		uintptr(unsafe.Pointer(&unloaded)))
	if err := checkHR("IDebugSymbols::GetNumberModules", hr); err != nil {
		return 0, 0, err
	}
	return loaded, unloaded, nil
}

// ModuleBase returns the base address of the module at index.
func (c *Client) ModuleBase(index uint32) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var base uint64
	hr, _, _ := syscallN(c.symbols.vtbl.GetModuleByIndex,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(index),
		uintptr(unsafe.Pointer(&base)))
	if err := checkHR("IDebugSymbols::GetModuleByIndex", hr); err != nil {
		return 0, err
	}
	return base, nil
}

// ModuleBaseByName resolves a module name to its base address.
func (c *Client) ModuleBaseByName(name string) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	buf, err := cString("module", name)
	if err != nil {
		return 0, err
	}
	var base uint64
	hr, _, _ := syscallN(c.symbols.vtbl.GetModuleByModuleName,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])),
		0,
		0,
		uintptr(unsafe.Pointer(&base)))
	if err := checkHR("IDebugSymbols::GetModuleByModuleName", hr); err != nil {
		return 0, err
	}
	return base, nil
}

// Modules lists the loaded modules of the target, skipping entries the
// engine reports as unloaded.
func (c *Client) Modules() ([]ModuleInfo, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	var mods []ModuleInfo
	for index := uint32(0); ; index++ {
		base, err := c.ModuleBase(index)
		if err != nil {
			break // no more modules
		}
		name, _, err := c.SymbolName(base)
		if err != nil {
			name = "<unknown>"
		}
		if strings.Contains(name, "<Unloaded_") {
			continue
		}
		if i := strings.IndexByte(name, '!'); i >= 0 {
			name = name[:i]
		}
		mods = append(mods, ModuleInfo{Index: index, Base: base, Name: strings.TrimSpace(name)})
	}
	return mods, nil
}

// AddSyntheticModule registers a synthetic module with the engine's symbol
// table. The base address is computed by evaluating expr.
func (c *Client) AddSyntheticModule(expr string, size uint32, name, path string) error {
	if err := c.live(); err != nil {
		return err
	}
	base, err := c.EvaluateUint64(expr)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return &ArgumentError{Arg: "path", Reason: err.Error()}
	}
	imagePath, err := cString("path", abs)
	if err != nil {
		return err
	}
	moduleName, err := cString("name", name)
	if err != nil {
		return err
	}
	hr, _, _ := syscallN(c.symbols.vtbl.AddSyntheticModule,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(base),
		uintptr(size),
		uintptr(unsafe.Pointer(&imagePath[0])),
		uintptr(unsafe.Pointer(&moduleName[0])),
		DEBUG_ADDSYNTHMOD_DEFAULT)
	return checkHR("IDebugSymbols3::AddSyntheticModule", hr)
}

// RemoveSyntheticModule removes a synthetic module identified by base
// address or by name.
func (c *Client) RemoveSyntheticModule(module ModuleRef) error {
	if err := c.live(); err != nil {
		return err
	}
	base := module.base
	if module.byName {
		var err error
		base, err = c.ModuleBaseByName(module.name)
		if err != nil {
			return err
		}
	}
	hr, _, _ := syscallN(c.symbols.vtbl.RemoveSyntheticModule,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(base))
	return checkHR("IDebugSymbols3::RemoveSyntheticModule", hr)
}

// SymbolPath returns the engine's symbol search path.
func (c *Client) SymbolPath() (string, error) {
	if err := c.live(); err != nil {
		return "", err
	}
	buf := make([]byte, 4096)
	var size uint32
	hr, _, _ := syscallN(c.symbols.vtbl.GetSymbolPath,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&size)))
	if err := checkHR("IDebugSymbols::GetSymbolPath", hr); err != nil {
		return "", err
	}
	return cStringToGo(buf), nil
}

// SetSymbolPath replaces the engine's symbol search path.
func (c *Client) SetSymbolPath(path string) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("path", path)
	if err != nil {
		return err
	}
	hr, _, _ := syscallN(c.symbols.vtbl.SetSymbolPath,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])))
	return checkHR("IDebugSymbols::SetSymbolPath", hr)
}

// AppendSymbolPath appends to the engine's symbol search path.
func (c *Client) AppendSymbolPath(path string) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("path", path)
	if err != nil {
		return err
	}
	hr, _, _ := syscallN(c.symbols.vtbl.AppendSymbolPath,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])))
	return checkHR("IDebugSymbols::AppendSymbolPath", hr)
}

// ReloadSymbols asks the engine to reload module symbols; args follows the
// engine's .reload syntax ("" reloads everything lazily).
func (c *Client) ReloadSymbols(args string) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("args", args)
	if err != nil {
		return err
	}
	hr, _, _ := syscallN(c.symbols.vtbl.Reload,
		uintptr(unsafe.Pointer(c.symbols)),
		uintptr(unsafe.Pointer(&buf[0])))
	return checkHR("IDebugSymbols::Reload", hr)
}

// Memory.

// ReadVirtual reads target memory at addr into buf and returns the number
// of bytes read.
func (c *Client) ReadVirtual(addr uint64, buf []byte) (int, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, &ArgumentError{Arg: "buffer", Reason: "zero length read"}
	}
	var n uint32
	hr, _, _ := syscallN(c.data.vtbl.ReadVirtual,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&n)))
	if err := checkHR("IDebugDataSpaces::ReadVirtual", hr); err != nil {
		return 0, err
	}
	return int(n), nil
}

// WriteVirtual writes buf to target memory at addr and returns the number
// of bytes written.
func (c *Client) WriteVirtual(addr uint64, buf []byte) (int, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, &ArgumentError{Arg: "buffer", Reason: "zero length write"}
	}
	var n uint32
	hr, _, _ := syscallN(c.data.vtbl.WriteVirtual,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&n)))
	if err := checkHR("IDebugDataSpaces::WriteVirtual", hr); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadPointer reads one pointer-sized value at addr, letting the engine
// apply the target's pointer size.
func (c *Client) ReadPointer(addr uint64) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var ptr uint64
	hr, _, _ := syscallN(c.data.vtbl.ReadPointersVirtual,
		uintptr(unsafe.Pointer(c.data)),
		1,
		uintptr(addr),
		uintptr(unsafe.Pointer(&ptr)))
	if err := checkHR("IDebugDataSpaces::ReadPointersVirtual", hr); err != nil {
		return 0, err
	}
	return ptr, nil
}

// ReadCString reads a NUL terminated string from target memory, reading at
// most max bytes.
func (c *Client) ReadCString(addr uint64, max int) (string, error) {
	if err := c.live(); err != nil {
		return "", err
	}
	if max <= 0 {
		return "", &ArgumentError{Arg: "max", Reason: "must be positive"}
	}
	buf := make([]byte, max)
	var size uint32
	hr, _, _ := syscallN(c.data.vtbl.ReadMultiByteStringVirtual,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(addr),
		uintptr(uint32(max)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&size)))
	if err := checkHR("IDebugDataSpaces4::ReadMultiByteStringVirtual", hr); err != nil {
		return "", err
	}
	if size == 0 {
		return "", &ArgumentError{Arg: "address", Reason: "no string bytes returned"}
	}
	return cStringToGo(buf), nil
}

// SearchVirtual scans length bytes of target memory starting at addr for
// pattern and returns the address of the first match.
func (c *Client) SearchVirtual(addr, length uint64, pattern []byte) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	if len(pattern) == 0 {
		return 0, &ArgumentError{Arg: "pattern", Reason: "empty search pattern"}
	}
	var match uint64
	hr, _, _ := syscallN(c.data.vtbl.SearchVirtual,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(addr),
		uintptr(length),
		uintptr(unsafe.Pointer(&pattern[0])),
		uintptr(uint32(len(pattern))),
		1,
		uintptr(unsafe.Pointer(&match)))
	if err := checkHR("IDebugDataSpaces::SearchVirtual", hr); err != nil {
		return 0, err
	}
	return match, nil
}

// ReadMSR reads a model specific register. Kernel targets only.
func (c *Client) ReadMSR(msr uint32) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var value uint64
	hr, _, _ := syscallN(c.data.vtbl.ReadMsr,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(msr),
		uintptr(unsafe.Pointer(&value)))
	if err := checkHR("IDebugDataSpaces::ReadMsr", hr); err != nil {
		return 0, err
	}
	return value, nil
}

// WriteMSR writes a model specific register. Kernel targets only.
func (c *Client) WriteMSR(msr uint32, value uint64) error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.data.vtbl.WriteMsr,
		uintptr(unsafe.Pointer(c.data)),
		uintptr(msr),
		uintptr(value))
	return checkHR("IDebugDataSpaces::WriteMsr", hr)
}

// Registers.

// NumberRegisters returns how many registers the target describes.
func (c *Client) NumberRegisters() (uint32, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var n uint32
	hr, _, _ := syscallN(c.registers.vtbl.GetNumberRegisters,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(unsafe.Pointer(&n)))
	if err := checkHR("IDebugRegisters::GetNumberRegisters", hr); err != nil {
		return 0, err
	}
	return n, nil
}

// RegisterIndex resolves a register name to its engine index.
func (c *Client) RegisterIndex(name string) (uint32, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	buf, err := cString("register", name)
	if err != nil {
		return 0, err
	}
	var index uint32
	hr, _, _ := syscallN(c.registers.vtbl.GetIndexByName,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&index)))
	if err := checkHR("IDebugRegisters::GetIndexByName", hr); err != nil {
		return 0, err
	}
	return index, nil
}

// RegisterIndices resolves a list of register names to engine indices.
func (c *Client) RegisterIndices(names []string) ([]uint32, error) {
	indices := make([]uint32, 0, len(names))
	for _, name := range names {
		index, err := c.RegisterIndex(name)
		if err != nil {
			return nil, err
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// RegisterDescriptionAt returns the name and description of the register
// at index.
func (c *Client) RegisterDescriptionAt(index uint32) (string, RegisterDescription, error) {
	var desc RegisterDescription
	if err := c.live(); err != nil {
		return "", desc, err
	}
	buf := make([]byte, 64)
	var size uint32
	hr, _, _ := syscallN(c.registers.vtbl.GetDescription,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(index),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&size)),
		uintptr(unsafe.Pointer(&desc)))
	if err := checkHR("IDebugRegisters::GetDescription", hr); err != nil {
		return "", desc, err
	}
	return cStringToGo(buf), desc, nil
}

// RegisterValue reads the value of the register at index.
func (c *Client) RegisterValue(index uint32) (Value, error) {
	var v Value
	if err := c.live(); err != nil {
		return v, err
	}
	hr, _, _ := syscallN(c.registers.vtbl.GetValue,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(index),
		uintptr(unsafe.Pointer(&v)))
	if err := checkHR("IDebugRegisters::GetValue", hr); err != nil {
		return Value{}, err
	}
	return v, nil
}

// RegisterValues reads the values of the registers at the given indices in
// one engine call.
func (c *Client) RegisterValues(indices []uint32) ([]Value, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, &ArgumentError{Arg: "indices", Reason: "no registers requested"}
	}
	values := make([]Value, len(indices))
	hr, _, _ := syscallN(c.registers.vtbl.GetValues,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(uint32(len(indices))),
		uintptr(unsafe.Pointer(&indices[0])),
		0,
		uintptr(unsafe.Pointer(&values[0])))
	if err := checkHR("IDebugRegisters::GetValues", hr); err != nil {
		return nil, err
	}
	return values, nil
}

// SetRegisterValue writes a register.
func (c *Client) SetRegisterValue(index uint32, v Value) error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.registers.vtbl.SetValue,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(index),
		uintptr(unsafe.Pointer(&v)))
	return checkHR("IDebugRegisters::SetValue", hr)
}

// Registers reads the name and value of every register the target
// describes.
func (c *Client) Registers() ([]Register, error) {
	n, err := c.NumberRegisters()
	if err != nil {
		return nil, err
	}
	regs := make([]Register, 0, n)
	for i := uint32(0); i < n; i++ {
		name, _, err := c.RegisterDescriptionAt(i)
		if err != nil {
			return nil, err
		}
		v, err := c.RegisterValue(i)
		if err != nil {
			return nil, err
		}
		regs = append(regs, Register{Name: name, Value: v})
	}
	return regs, nil
}

// InstructionOffset returns the address of the current instruction.
func (c *Client) InstructionOffset() (uint64, error) {
	return c.regOffset("IDebugRegisters::GetInstructionOffset", c.registers.vtbl.GetInstructionOffset)
}

// StackOffset returns the current stack pointer.
func (c *Client) StackOffset() (uint64, error) {
	return c.regOffset("IDebugRegisters::GetStackOffset", c.registers.vtbl.GetStackOffset)
}

// FrameOffset returns the current frame pointer.
func (c *Client) FrameOffset() (uint64, error) {
	return c.regOffset("IDebugRegisters::GetFrameOffset", c.registers.vtbl.GetFrameOffset)
}

func (c *Client) regOffset(op string, fn uintptr) (uint64, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var offset uint64
	hr, _, _ := syscallN(fn,
		uintptr(unsafe.Pointer(c.registers)),
		uintptr(unsafe.Pointer(&offset)))
	if err := checkHR(op, hr); err != nil {
		return 0, err
	}
	return offset, nil
}

// Session management (IDebugClient).

// AttachProcess attaches the engine to a running process.
func (c *Client) AttachProcess(pid uint32, flags uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	c.log.Debugf("AttachProcess(%d, %#x)", pid, flags)
	hr, _, _ := syscallN(c.raw.vtbl.AttachProcess,
		uintptr(unsafe.Pointer(c.raw)),
		0,
		uintptr(pid),
		uintptr(flags))
	return checkHR("IDebugClient::AttachProcess", hr)
}

// CreateProcessAndAttach launches cmdline under the engine's control.
func (c *Client) CreateProcessAndAttach(cmdline string, createFlags uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("cmdline", cmdline)
	if err != nil {
		return err
	}
	c.log.Debugf("CreateProcessAndAttach(%q, %#x)", cmdline, createFlags)
	hr, _, _ := syscallN(c.raw.vtbl.CreateProcessAndAttach,
		uintptr(unsafe.Pointer(c.raw)),
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(createFlags),
		0,
		DEBUG_ATTACH_DEFAULT)
	return checkHR("IDebugClient::CreateProcessAndAttach", hr)
}

// OpenDumpFile opens a crash dump as the target.
func (c *Client) OpenDumpFile(path string) error {
	if err := c.live(); err != nil {
		return err
	}
	buf, err := cString("path", path)
	if err != nil {
		return err
	}
	c.log.Debugf("OpenDumpFile(%q)", path)
	hr, _, _ := syscallN(c.raw.vtbl.OpenDumpFile,
		uintptr(unsafe.Pointer(c.raw)),
		uintptr(unsafe.Pointer(&buf[0])))
	return checkHR("IDebugClient::OpenDumpFile", hr)
}

// DetachProcesses detaches from all targets, leaving them running.
func (c *Client) DetachProcesses() error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.raw.vtbl.DetachProcesses,
		uintptr(unsafe.Pointer(c.raw)))
	return checkHR("IDebugClient::DetachProcesses", hr)
}

// TerminateProcesses terminates all targets.
func (c *Client) TerminateProcesses() error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.raw.vtbl.TerminateProcesses,
		uintptr(unsafe.Pointer(c.raw)))
	return checkHR("IDebugClient::TerminateProcesses", hr)
}

// EndSession ends the debugging session with the given DEBUG_END flags.
func (c *Client) EndSession(flags uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.raw.vtbl.EndSession,
		uintptr(unsafe.Pointer(c.raw)),
		uintptr(flags))
	return checkHR("IDebugClient::EndSession", hr)
}

// OutputMask returns the client's output mask.
func (c *Client) OutputMask() (uint32, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	var mask uint32
	hr, _, _ := syscallN(c.raw.vtbl.GetOutputMask,
		uintptr(unsafe.Pointer(c.raw)),
		uintptr(unsafe.Pointer(&mask)))
	if err := checkHR("IDebugClient::GetOutputMask", hr); err != nil {
		return 0, err
	}
	return mask, nil
}

// SetOutputMask sets the client's output mask.
func (c *Client) SetOutputMask(mask uint32) error {
	if err := c.live(); err != nil {
		return err
	}
	hr, _, _ := syscallN(c.raw.vtbl.SetOutputMask,
		uintptr(unsafe.Pointer(c.raw)),
		uintptr(mask))
	return checkHR("IDebugClient::SetOutputMask", hr)
}

// Identity returns the engine's description of this client.
func (c *Client) Identity() (string, error) {
	if err := c.live(); err != nil {
		return "", err
	}
	buf := make([]byte, 256)
	var size uint32
	hr, _, _ := syscallN(c.raw.vtbl.GetIdentity,
		uintptr(unsafe.Pointer(c.raw)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&size)))
	if err := checkHR("IDebugClient::GetIdentity", hr); err != nil {
		return "", err
	}
	return cStringToGo(buf), nil
}

// ReadVirtualType reads one value of type T from target memory at addr.
// T must not contain pointers into the host address space.
func ReadVirtualType[T any](c *Client, addr uint64) (T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return zero, &ArgumentError{Arg: "type", Reason: "zero sized type"}
	}
	buf := make([]byte, size)
	n, err := c.ReadVirtual(addr, buf)
	if err != nil {
		return zero, err
	}
	if n < size {
		return zero, &ArgumentError{Arg: "address", Reason: fmt.Sprintf("short read: %d of %d bytes", n, size)}
	}
	return *(*T)(unsafe.Pointer(&buf[0])), nil
}
