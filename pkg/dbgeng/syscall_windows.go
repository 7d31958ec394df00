//go:build windows

package dbgeng

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	moddbgeng       = windows.NewLazySystemDLL("dbgeng.dll")
	procDebugCreate = moddbgeng.NewProc("DebugCreate")
)

// syscallN dispatches a vtable call. All engine methods are stdcall and
// return an HRESULT in the first result.
func syscallN(fn uintptr, args ...uintptr) (uintptr, uintptr, syscall.Errno) {
	return syscall.SyscallN(fn, args...)
}

// debugCreate asks dbgeng.dll for a new client object implementing iid.
func debugCreate(iid *windows.GUID) (unsafe.Pointer, error) {
	if err := procDebugCreate.Find(); err != nil {
		return nil, err
	}
	var out unsafe.Pointer
	hr, _, _ := procDebugCreate.Call(
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&out)))
	if err := checkHR("DebugCreate", hr); err != nil {
		return nil, err
	}
	return out, nil
}
