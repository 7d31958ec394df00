package dbgeng

import (
	"errors"
	"math"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	v := Uint64Value(0xdeadbeefcafef00d)
	if v.Type != DEBUG_VALUE_INT64 {
		t.Fatalf("wrong type tag: %d", v.Type)
	}
	u, err := v.Uint64()
	if err != nil {
		t.Fatal(err)
	}
	if u != 0xdeadbeefcafef00d {
		t.Errorf("got %#x", u)
	}

	v32 := Uint32Value(0x41424344)
	u32, err := v32.Uint32()
	if err != nil {
		t.Fatal(err)
	}
	if u32 != 0x41424344 {
		t.Errorf("got %#x", u32)
	}

	f := Float64Value(3.5)
	fv, err := f.Float64()
	if err != nil {
		t.Fatal(err)
	}
	if fv != 3.5 {
		t.Errorf("got %v", fv)
	}
}

func TestValueTypeMismatch(t *testing.T) {
	v := Uint64Value(1)
	if _, err := v.Uint32(); err == nil {
		t.Error("Uint32 on an INT64 value should fail")
	}
	if _, err := v.Float64(); err == nil {
		t.Error("Float64 on an INT64 value should fail")
	}
	var argErr *ArgumentError
	_, err := v.Uint8()
	if !errors.As(err, &argErr) {
		t.Errorf("expected ArgumentError, got %T", err)
	}
}

func TestValueAsUint64(t *testing.T) {
	var v16 Value
	v16.Raw[0] = 0x34
	v16.Raw[1] = 0x12
	v16.Type = DEBUG_VALUE_INT16
	u, err := v16.AsUint64()
	if err != nil {
		t.Fatal(err)
	}
	if u != 0x1234 {
		t.Errorf("got %#x", u)
	}

	f := Float64Value(3.5)
	if _, err := f.AsUint64(); err == nil {
		t.Error("AsUint64 on a FLOAT64 value should fail")
	}
}

func TestValueSmallInts(t *testing.T) {
	var v Value
	v.Raw[0] = 0x7f
	v.Type = DEBUG_VALUE_INT8
	b, err := v.Uint8()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x7f {
		t.Errorf("got %#x", b)
	}

	var v16 Value
	v16.Raw[0] = 0x34
	v16.Raw[1] = 0x12
	v16.Type = DEBUG_VALUE_INT16
	h, err := v16.Uint16()
	if err != nil {
		t.Fatal(err)
	}
	if h != 0x1234 {
		t.Errorf("got %#x", h)
	}
}

func TestValueFloat32(t *testing.T) {
	var v Value
	bits := math.Float32bits(1.25)
	v.Raw[0] = byte(bits)
	v.Raw[1] = byte(bits >> 8)
	v.Raw[2] = byte(bits >> 16)
	v.Raw[3] = byte(bits >> 24)
	v.Type = DEBUG_VALUE_FLOAT32
	f, err := v.Float32()
	if err != nil {
		t.Fatal(err)
	}
	if f != 1.25 {
		t.Errorf("got %v", f)
	}
}
