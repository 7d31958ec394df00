package dbgeng

import (
	"errors"
	"testing"
)

func TestCString(t *testing.T) {
	buf, err := cString("command", ".echo hi")
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != len(".echo hi")+1 {
		t.Errorf("buffer length %d", len(buf))
	}
	if buf[len(buf)-1] != 0 {
		t.Error("buffer is not NUL terminated")
	}
	if string(buf[:len(buf)-1]) != ".echo hi" {
		t.Errorf("buffer content %q", buf)
	}
}

func TestCStringInteriorNUL(t *testing.T) {
	_, err := cString("command", "bad\x00string")
	if err == nil {
		t.Fatal("interior NUL should be rejected")
	}
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %T", err)
	}
	if argErr.Arg != "command" {
		t.Errorf("wrong argument name %q", argErr.Arg)
	}
}

func TestCStringToGo(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want string
	}{
		{[]byte("ntdll\x00junk"), "ntdll"},
		{[]byte("no terminator"), "no terminator"},
		{[]byte{0}, ""},
		{nil, ""},
	} {
		if got := cStringToGo(tc.in); got != tc.want {
			t.Errorf("cStringToGo(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestModuleRef(t *testing.T) {
	byBase := ModuleByBase(0x7fff0000)
	if byBase.byName {
		t.Error("ModuleByBase should not be a name reference")
	}
	if byBase.String() != "0x7fff0000" {
		t.Errorf("got %q", byBase.String())
	}

	byName := ModuleByName("example.dll")
	if !byName.byName {
		t.Error("ModuleByName should be a name reference")
	}
	if byName.String() != "example.dll" {
		t.Errorf("got %q", byName.String())
	}
}
