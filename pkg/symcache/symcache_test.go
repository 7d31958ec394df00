package symcache

import (
	"errors"
	"testing"
)

type fakeResolver struct {
	addrCalls int
	nameCalls int
	symbols   map[string]uint64
}

func (r *fakeResolver) SymbolAddress(name string) (uint64, error) {
	r.addrCalls++
	addr, ok := r.symbols[name]
	if !ok {
		return 0, errors.New("symbol not found")
	}
	return addr, nil
}

func (r *fakeResolver) SymbolName(addr uint64) (string, uint64, error) {
	r.nameCalls++
	for name, base := range r.symbols {
		if addr >= base && addr < base+0x100 {
			return name, addr - base, nil
		}
	}
	return "", 0, errors.New("no symbol at address")
}

func newFake() *fakeResolver {
	return &fakeResolver{symbols: map[string]uint64{
		"ntdll!NtCreateFile":   0x7fff1000,
		"kernel32!LoadLibrary": 0x7ffe2000,
	}}
}

func TestAddressCaching(t *testing.T) {
	r := newFake()
	c, err := New(r, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		addr, err := c.Address("ntdll!NtCreateFile")
		if err != nil {
			t.Fatal(err)
		}
		if addr != 0x7fff1000 {
			t.Fatalf("got %#x", addr)
		}
	}
	if r.addrCalls != 1 {
		t.Errorf("resolver called %d times, want 1", r.addrCalls)
	}
}

func TestNameCaching(t *testing.T) {
	r := newFake()
	c, err := New(r, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		name, disp, err := c.Name(0x7fff1010)
		if err != nil {
			t.Fatal(err)
		}
		if name != "ntdll!NtCreateFile" || disp != 0x10 {
			t.Fatalf("got %q+%#x", name, disp)
		}
	}
	if r.nameCalls != 1 {
		t.Errorf("resolver called %d times, want 1", r.nameCalls)
	}
}

func TestFailedLookupsNotCached(t *testing.T) {
	r := newFake()
	c, err := New(r, 16)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Address("nosuch!symbol"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := c.Address("nosuch!symbol"); err == nil {
		t.Fatal("expected an error")
	}
	if r.addrCalls != 2 {
		t.Errorf("resolver called %d times, want 2", r.addrCalls)
	}
}

func TestFlush(t *testing.T) {
	r := newFake()
	c, err := New(r, 16)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Address("ntdll!NtCreateFile"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Name(0x7ffe2000); err != nil {
		t.Fatal(err)
	}
	names, addrs := c.Len()
	if names != 1 || addrs != 1 {
		t.Fatalf("unexpected cache sizes %d/%d", names, addrs)
	}

	c.Flush()
	names, addrs = c.Len()
	if names != 0 || addrs != 0 {
		t.Fatalf("cache not empty after flush: %d/%d", names, addrs)
	}

	if _, err := c.Address("ntdll!NtCreateFile"); err != nil {
		t.Fatal(err)
	}
	if r.addrCalls != 2 {
		t.Errorf("resolver called %d times after flush, want 2", r.addrCalls)
	}
}

func TestEviction(t *testing.T) {
	r := newFake()
	r.symbols["a!b"] = 0x1000
	r.symbols["c!d"] = 0x2000
	c, err := New(r, 2)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a!b", "c!d", "ntdll!NtCreateFile"} {
		if _, err := c.Address(name); err != nil {
			t.Fatal(err)
		}
	}
	names, _ := c.Len()
	if names != 2 {
		t.Errorf("cache grew past its size: %d", names)
	}
}
