package terminal

import "github.com/go-dbgeng/dbgeng/pkg/dbgeng"

// Engine is the surface of the debugger engine the shell needs. On Windows
// *dbgeng.Client implements it; tests use a fake.
type Engine interface {
	// Execute forwards a command to the engine's own command language.
	Execute(cmd string) error
	// EvaluateUint64 evaluates an expression as a 64-bit integer.
	EvaluateUint64(expr string) (uint64, error)
	// ReadVirtual reads target memory.
	ReadVirtual(addr uint64, buf []byte) (int, error)
	// WriteVirtual writes target memory.
	WriteVirtual(addr uint64, buf []byte) (int, error)
	// SymbolAddress resolves a symbol name to an address.
	SymbolAddress(name string) (uint64, error)
	// SymbolName resolves an address to the nearest symbol.
	SymbolName(addr uint64) (string, uint64, error)
	// Modules lists the loaded modules of the target.
	Modules() ([]dbgeng.ModuleInfo, error)
	// Registers reads all target registers.
	Registers() ([]dbgeng.Register, error)
	// ReloadSymbols reloads module symbols.
	ReloadSymbols(args string) error
	// Interrupt breaks into the engine.
	Interrupt() error
	// DetachProcesses detaches from all targets.
	DetachProcesses() error
	// EndSession ends the session with the given DEBUG_END flags.
	EndSession(flags uint32) error
}
