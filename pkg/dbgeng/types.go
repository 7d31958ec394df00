package dbgeng

import "fmt"

// ModuleRef identifies a module either by base address or by name.
type ModuleRef struct {
	base   uint64
	name   string
	byName bool
}

// ModuleByBase references a module by its base address.
func ModuleByBase(base uint64) ModuleRef {
	return ModuleRef{base: base}
}

// ModuleByName references a module by name.
func ModuleByName(name string) ModuleRef {
	return ModuleRef{name: name, byName: true}
}

func (m ModuleRef) String() string {
	if m.byName {
		return m.name
	}
	return fmt.Sprintf("%#x", m.base)
}

// ModuleInfo describes one loaded module of the target.
type ModuleInfo struct {
	Index uint32
	Base  uint64
	Name  string
}

// Register is a named register together with its current value.
type Register struct {
	Name  string
	Value Value
}

// RegisterDescription mirrors DEBUG_REGISTER_DESCRIPTION.
type RegisterDescription struct {
	Type         uint32
	Flags        uint32
	SubregMaster uint64
	SubregLength uint32
	_            uint32
	SubregMask   uint64
	SubregShift  uint32
	Reserved0    uint32
}
