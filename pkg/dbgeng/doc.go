// Package dbgeng provides bindings for the COM interfaces exposed by the
// Windows debugger engine (dbgeng.dll).
//
// The engine implements the actual debugging functionality: command
// execution, expression evaluation, symbol resolution, breakpoints. This
// package only owns the lifetime of the COM objects it holds and translates
// HRESULT failures into Go errors; every operation is a direct call into the
// engine.
//
// A Client can wrap a client object received from the engine (for example
// the IDebugClient pointer passed to a WinDbg extension entry point) or
// create a fresh one with Create. The engine requires that its interfaces
// are called from a single thread; callers must respect that.
package dbgeng
