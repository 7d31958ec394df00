package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-dbgeng/dbgeng/pkg/config"
	"github.com/go-dbgeng/dbgeng/pkg/dbgeng"
	"github.com/go-dbgeng/dbgeng/pkg/symcache"
)

type fakeEngine struct {
	executed []string
	mem      map[uint64][]byte
	syms     map[string]uint64
	reloaded []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		mem:  map[uint64][]byte{0x1000: []byte("Hello, world\x00\x01\x02\x03\xff more bytes here")},
		syms: map[string]uint64{"ntdll!NtClose": 0x1000},
	}
}

func (e *fakeEngine) Execute(cmd string) error {
	e.executed = append(e.executed, cmd)
	return nil
}

func (e *fakeEngine) EvaluateUint64(expr string) (uint64, error) {
	if addr, ok := e.syms[expr]; ok {
		return addr, nil
	}
	return 0, &dbgengError{expr}
}

func (e *fakeEngine) ReadVirtual(addr uint64, buf []byte) (int, error) {
	mem, ok := e.mem[addr]
	if !ok {
		return 0, &dbgengError{"read"}
	}
	return copy(buf, mem), nil
}

func (e *fakeEngine) WriteVirtual(addr uint64, buf []byte) (int, error) {
	e.mem[addr] = append([]byte(nil), buf...)
	return len(buf), nil
}

func (e *fakeEngine) SymbolAddress(name string) (uint64, error) {
	if addr, ok := e.syms[name]; ok {
		return addr, nil
	}
	return 0, &dbgengError{name}
}

func (e *fakeEngine) SymbolName(addr uint64) (string, uint64, error) {
	for name, base := range e.syms {
		if addr >= base && addr < base+0x100 {
			return name, addr - base, nil
		}
	}
	return "", 0, &dbgengError{"name"}
}

func (e *fakeEngine) Modules() ([]dbgeng.ModuleInfo, error) {
	return []dbgeng.ModuleInfo{
		{Index: 0, Base: 0x140000000, Name: "target"},
		{Index: 1, Base: 0x7ff800000000, Name: "ntdll"},
	}, nil
}

func (e *fakeEngine) Registers() ([]dbgeng.Register, error) {
	return []dbgeng.Register{
		{Name: "rax", Value: dbgeng.Uint64Value(0x1f)},
		{Name: "rip", Value: dbgeng.Uint64Value(0x140001000)},
	}, nil
}

func (e *fakeEngine) ReloadSymbols(args string) error {
	e.reloaded = append(e.reloaded, args)
	return nil
}

func (e *fakeEngine) Interrupt() error { return nil }

func (e *fakeEngine) DetachProcesses() error { return nil }

func (e *fakeEngine) EndSession(flags uint32) error { return nil }

type dbgengError struct {
	what string
}

func (e *dbgengError) Error() string { return "engine error: " + e.what }

func testTerm(t *testing.T) (*Term, *fakeEngine, *bytes.Buffer) {
	t.Helper()
	engine := newFakeEngine()
	out := new(bytes.Buffer)
	syms, err := symcache.New(engine, 16)
	if err != nil {
		t.Fatal(err)
	}
	term := &Term{
		engine: engine,
		conf:   &config.Config{},
		syms:   syms,
		stdout: out,
		dumb:   true,
	}
	term.cmds = ShellCommands(engine)
	return term, engine, out
}

func TestCallLocalCommand(t *testing.T) {
	term, engine, out := testTerm(t)
	if err := term.cmds.Call("modules", term); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ntdll") {
		t.Errorf("modules output missing ntdll: %q", out.String())
	}
	if len(engine.executed) != 0 {
		t.Errorf("local command was forwarded to the engine: %v", engine.executed)
	}
}

func TestCallForwardsUnknown(t *testing.T) {
	term, engine, _ := testTerm(t)
	if err := term.cmds.Call(".symopt+0x40", term); err != nil {
		t.Fatal(err)
	}
	if len(engine.executed) != 1 || engine.executed[0] != ".symopt+0x40" {
		t.Errorf("executed = %v", engine.executed)
	}
}

func TestCallEmpty(t *testing.T) {
	term, engine, _ := testTerm(t)
	if err := term.cmds.Call("   ", term); err != nil {
		t.Fatal(err)
	}
	if len(engine.executed) != 0 {
		t.Errorf("blank line was forwarded: %v", engine.executed)
	}
}

func TestEvalCommand(t *testing.T) {
	term, _, out := testTerm(t)
	if err := term.cmds.Call("? ntdll!NtClose", term); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "0x1000 = 4096" {
		t.Errorf("eval output = %q", got)
	}
}

func TestSymCommand(t *testing.T) {
	term, _, out := testTerm(t)
	if err := term.cmds.Call("sym ntdll!NtClose", term); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "ntdll!NtClose = 0x1000" {
		t.Errorf("sym output = %q", got)
	}

	out.Reset()
	if err := term.cmds.Call("sym ntdll!NtClose", term); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "ntdll!NtClose = 0x1000" {
		t.Errorf("cached sym output = %q", got)
	}
}

func TestRegsCommand(t *testing.T) {
	term, _, out := testTerm(t)
	if err := term.cmds.Call("regs", term); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("regs printed %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "rax") || !strings.Contains(lines[0], "0x000000000000001f") {
		t.Errorf("regs line = %q", lines[0])
	}
}

func TestExamineCommand(t *testing.T) {
	term, _, out := testTerm(t)
	if err := term.cmds.Call("x ntdll!NtClose 16", term); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "0000000000001000  48 65 6c 6c 6f") {
		t.Errorf("examine output = %q", got)
	}
	if !strings.Contains(got, "Hello, world") {
		t.Errorf("examine output missing ASCII column: %q", got)
	}
}

func TestExamineBadLength(t *testing.T) {
	term, _, _ := testTerm(t)
	if err := term.cmds.Call("x ntdll!NtClose zero", term); err == nil {
		t.Error("invalid length should error")
	}
}

func TestReloadFlushesCache(t *testing.T) {
	term, engine, _ := testTerm(t)
	if _, err := term.syms.Address("ntdll!NtClose"); err != nil {
		t.Fatal(err)
	}
	if names, _ := term.syms.Len(); names == 0 {
		t.Fatal("cache should hold the lookup")
	}
	if err := term.cmds.Call("reload /f ntdll.dll", term); err != nil {
		t.Fatal(err)
	}
	if names, addrs := term.syms.Len(); names != 0 || addrs != 0 {
		t.Error("reload did not flush the symbol cache")
	}
	if len(engine.reloaded) != 1 || engine.reloaded[0] != "/f ntdll.dll" {
		t.Errorf("reloaded = %v", engine.reloaded)
	}
}

func TestComplete(t *testing.T) {
	term, _, _ := testTerm(t)
	matches := term.cmds.Complete("re")
	found := false
	for _, m := range matches {
		if m == "regs" {
			found = true
		}
	}
	if !found {
		t.Errorf("Complete(\"re\") = %v, want it to include regs", matches)
	}
	if got := term.cmds.Complete(""); got != nil {
		t.Errorf("Complete(\"\") = %v", got)
	}
}

func TestAliasCommand(t *testing.T) {
	term, _, _ := testTerm(t)
	if err := term.cmds.Call("alias dd examine", term); err != nil {
		t.Fatal(err)
	}
	if cmd := term.cmds.find("dd"); cmd == nil || cmd.aliases[0] != "examine" {
		t.Error("alias dd was not added to examine")
	}
	if err := term.cmds.Call("alias x2 nosuchcmd", term); err == nil {
		t.Error("aliasing an unknown command should error")
	}
	if err := term.cmds.Call("alias justone", term); err == nil {
		t.Error("alias with one argument should error")
	}
}

func TestMergeAliases(t *testing.T) {
	term, _, _ := testTerm(t)
	term.cmds.Merge(map[string][]string{"modules": {"mods"}})
	if cmd := term.cmds.find("mods"); cmd == nil || cmd.aliases[0] != "modules" {
		t.Error("configured alias mods was not merged")
	}
}

func TestExecuteFile(t *testing.T) {
	term, engine, _ := testTerm(t)
	path := filepath.Join(t.TempDir(), "init.txt")
	script := "# startup\n\n.symopt+0x40\n.echo ready\n"
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	if err := term.cmds.executeFile(term, path); err != nil {
		t.Fatal(err)
	}
	if len(engine.executed) != 2 || engine.executed[0] != ".symopt+0x40" || engine.executed[1] != ".echo ready" {
		t.Errorf("executed = %v", engine.executed)
	}
}

func TestExitCommand(t *testing.T) {
	term, _, _ := testTerm(t)
	err := term.cmds.Call("q", term)
	if _, ok := err.(ExitRequestError); !ok {
		t.Errorf("exit returned %v", err)
	}
}

func TestHelp(t *testing.T) {
	term, _, out := testTerm(t)
	if err := term.cmds.Call("help", term); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "examine") {
		t.Errorf("help output missing examine: %q", out.String())
	}
	out.Reset()
	if err := term.cmds.Call("help regs", term); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "register") {
		t.Errorf("help regs output = %q", out.String())
	}
	if err := term.cmds.Call("help nosuchcmd", term); err == nil {
		t.Error("help for an unknown command should error")
	}
}

func TestHexdump(t *testing.T) {
	got := hexdump(0x1000, []byte("Hello\x00\xff"))
	want := "0000000000001000  48 65 6c 6c 6f 00 ff" + strings.Repeat(" ", 30) + "Hello..\n"
	if got != want {
		t.Errorf("hexdump:\n got %q\nwant %q", got, want)
	}
}

func TestHexdumpMultiline(t *testing.T) {
	data := make([]byte, 17)
	for i := range data {
		data[i] = byte('A' + i)
	}
	got := hexdump(0x2000, data)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "0000000000002010  51") {
		t.Errorf("second line = %q", lines[1])
	}
}
