package dbgeng

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value mirrors the engine's DEBUG_VALUE structure: a 24 byte union
// followed by the number of valid tail bytes and the type tag. The engine
// fills it on evaluation and register reads and consumes it on register
// writes.
type Value struct {
	Raw            [24]byte
	TailOfRawBytes uint32
	Type           uint32
}

func (v Value) typeErr(arg string, want uint32) error {
	return &ArgumentError{
		Arg:    arg,
		Reason: fmt.Sprintf("value has type %d, want %d", v.Type, want),
	}
}

// Uint8 extracts an 8-bit integer. The value must be tagged
// DEBUG_VALUE_INT8.
func (v Value) Uint8() (uint8, error) {
	if v.Type != DEBUG_VALUE_INT8 {
		return 0, v.typeErr("value", DEBUG_VALUE_INT8)
	}
	return v.Raw[0], nil
}

// Uint16 extracts a 16-bit integer.
func (v Value) Uint16() (uint16, error) {
	if v.Type != DEBUG_VALUE_INT16 {
		return 0, v.typeErr("value", DEBUG_VALUE_INT16)
	}
	return binary.LittleEndian.Uint16(v.Raw[:2]), nil
}

// Uint32 extracts a 32-bit integer.
func (v Value) Uint32() (uint32, error) {
	if v.Type != DEBUG_VALUE_INT32 {
		return 0, v.typeErr("value", DEBUG_VALUE_INT32)
	}
	return binary.LittleEndian.Uint32(v.Raw[:4]), nil
}

// Uint64 extracts a 64-bit integer.
func (v Value) Uint64() (uint64, error) {
	if v.Type != DEBUG_VALUE_INT64 {
		return 0, v.typeErr("value", DEBUG_VALUE_INT64)
	}
	return binary.LittleEndian.Uint64(v.Raw[:8]), nil
}

// Float32 extracts a 32-bit float.
func (v Value) Float32() (float32, error) {
	if v.Type != DEBUG_VALUE_FLOAT32 {
		return 0, v.typeErr("value", DEBUG_VALUE_FLOAT32)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(v.Raw[:4])), nil
}

// Float64 extracts a 64-bit float.
func (v Value) Float64() (float64, error) {
	if v.Type != DEBUG_VALUE_FLOAT64 {
		return 0, v.typeErr("value", DEBUG_VALUE_FLOAT64)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Raw[:8])), nil
}

// AsUint64 widens a value with any integer tag to 64 bits.
func (v Value) AsUint64() (uint64, error) {
	switch v.Type {
	case DEBUG_VALUE_INT8:
		return uint64(v.Raw[0]), nil
	case DEBUG_VALUE_INT16:
		return uint64(binary.LittleEndian.Uint16(v.Raw[:2])), nil
	case DEBUG_VALUE_INT32:
		return uint64(binary.LittleEndian.Uint32(v.Raw[:4])), nil
	case DEBUG_VALUE_INT64:
		return binary.LittleEndian.Uint64(v.Raw[:8]), nil
	default:
		return 0, &ArgumentError{
			Arg:    "value",
			Reason: fmt.Sprintf("value has type %d, want an integer type", v.Type),
		}
	}
}

// Uint64Value builds a Value tagged DEBUG_VALUE_INT64, suitable for
// SetRegisterValue.
func Uint64Value(u uint64) Value {
	var v Value
	binary.LittleEndian.PutUint64(v.Raw[:8], u)
	v.Type = DEBUG_VALUE_INT64
	return v
}

// Uint32Value builds a Value tagged DEBUG_VALUE_INT32.
func Uint32Value(u uint32) Value {
	var v Value
	binary.LittleEndian.PutUint32(v.Raw[:4], u)
	v.Type = DEBUG_VALUE_INT32
	return v
}

// Float64Value builds a Value tagged DEBUG_VALUE_FLOAT64.
func Float64Value(f float64) Value {
	var v Value
	binary.LittleEndian.PutUint64(v.Raw[:8], math.Float64bits(f))
	v.Type = DEBUG_VALUE_FLOAT64
	return v
}
