package starbind

import (
	"bytes"
	"strings"
	"testing"

	"go.starlark.net/starlark"

	"github.com/go-dbgeng/dbgeng/pkg/dbgeng"
)

type fakeEngine struct {
	mem  map[uint64][]byte
	syms map[string]uint64
}

func (e *fakeEngine) EvaluateUint64(expr string) (uint64, error) {
	if addr, ok := e.syms[expr]; ok {
		return addr, nil
	}
	return 0, &dbgeng.CallError{Op: "IDebugControl3::Evaluate", HR: dbgeng.E_FAIL}
}

func (e *fakeEngine) ReadVirtual(addr uint64, buf []byte) (int, error) {
	mem, ok := e.mem[addr]
	if !ok {
		return 0, &dbgeng.CallError{Op: "IDebugDataSpaces4::ReadVirtual", HR: dbgeng.E_FAIL}
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
	return 0, &dbgeng.CallError{Op: "IDebugSymbols3::GetOffsetByName", HR: dbgeng.E_FAIL}
}

func (e *fakeEngine) SymbolName(addr uint64) (string, uint64, error) {
	for name, base := range e.syms {
		if addr >= base && addr < base+0x100 {
			return name, addr - base, nil
		}
	}
	return "", 0, &dbgeng.CallError{Op: "IDebugSymbols3::GetNameByOffset", HR: dbgeng.E_FAIL}
}

func (e *fakeEngine) Registers() ([]dbgeng.Register, error) {
	return []dbgeng.Register{
		{Name: "rax", Value: dbgeng.Uint64Value(1)},
		{Name: "rip", Value: dbgeng.Uint64Value(0x1000)},
	}, nil
}

type fakeContext struct {
	engine   *fakeEngine
	commands map[string]func(args string) error
	called   []string
}

func (ctx *fakeContext) Engine() Engine { return ctx.engine }

func (ctx *fakeContext) RegisterCommand(name, helpMsg string, cmdfn func(args string) error) {
	ctx.commands[name] = cmdfn
}

func (ctx *fakeContext) CallCommand(cmdstr string) error {
	ctx.called = append(ctx.called, cmdstr)
	return nil
}

func testEnv(t *testing.T) (*Env, *fakeContext, *bytes.Buffer) {
	t.Helper()
	ctx := &fakeContext{
		engine: &fakeEngine{
			mem:  map[uint64][]byte{0x1000: []byte("\x90\x90\xc3")},
			syms: map[string]uint64{"ntdll!NtClose": 0x1000},
		},
		commands: make(map[string]func(args string) error),
	}
	out := new(bytes.Buffer)
	return New(ctx, out), ctx, out
}

func TestExecuteEval(t *testing.T) {
	env, _, out := testEnv(t)
	script := `print(eval("ntdll!NtClose"))`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "4096" {
		t.Errorf("output = %q, want 4096", got)
	}
}

func TestExecuteReadWriteMemory(t *testing.T) {
	env, ctx, out := testEnv(t)
	script := `
buf = read_memory(0x1000, 3)
print(len(buf))
write_memory(0x2000, buf)
`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "3" {
		t.Errorf("output = %q, want 3", got)
	}
	if got := ctx.engine.mem[0x2000]; string(got) != "\x90\x90\xc3" {
		t.Errorf("write_memory stored %x", got)
	}
}

func TestExecuteSymbols(t *testing.T) {
	env, _, out := testEnv(t)
	script := `
name, disp = symbol_name(0x1004)
print(name, disp)
print(symbol_address("ntdll!NtClose"))
`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != "ntdll!NtClose 4" || lines[1] != "4096" {
		t.Errorf("output = %q", out.String())
	}
}

func TestExecuteRegisters(t *testing.T) {
	env, _, out := testEnv(t)
	script := `
regs = registers()
print(regs["rip"])
`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "4096" {
		t.Errorf("output = %q, want 4096", got)
	}
}

func TestExecuteDbgCommand(t *testing.T) {
	env, ctx, _ := testEnv(t)
	script := `dbg_command("lm")`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	if len(ctx.called) != 1 || ctx.called[0] != "lm" {
		t.Errorf("commands called: %v", ctx.called)
	}
}

func TestRegisterCommand(t *testing.T) {
	env, ctx, out := testEnv(t)
	script := `
def command_echoback(args):
	"""prints the argument string"""
	print(args)
`
	if _, err := env.Execute("test.star", script, "", nil); err != nil {
		t.Fatal(err)
	}
	fn := ctx.commands["echoback"]
	if fn == nil {
		t.Fatal("command_echoback was not registered")
	}
	if err := fn("hello"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello" {
		t.Errorf("output = %q, want hello", got)
	}
}

func TestCallMain(t *testing.T) {
	env, _, out := testEnv(t)
	script := `
def main():
	print("main ran")
`
	if _, err := env.Execute("test.star", script, "main", nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "main ran" {
		t.Errorf("output = %q", got)
	}
}

func TestEvalError(t *testing.T) {
	env, _, _ := testEnv(t)
	script := `eval("no!such_symbol")`
	_, err := env.Execute("test.star", script, "", nil)
	if err == nil {
		t.Fatal("expected error from eval of unknown expression")
	}
	if !strings.Contains(err.Error(), "E_FAIL") {
		t.Errorf("error %q does not mention the failure code", err)
	}
}

func TestInterfaceToStarlarkValue(t *testing.T) {
	v := interfaceToStarlarkValue(uint64(42))
	n, ok := v.(starlark.Int)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if u, _ := n.Uint64(); u != 42 {
		t.Errorf("got %v", n)
	}
	if s, ok := interfaceToStarlarkValue("x").(starlark.String); !ok || string(s) != "x" {
		t.Errorf("string conversion got %v", s)
	}
	if interfaceToStarlarkValue(nil) != starlark.None {
		t.Error("nil should convert to None")
	}
}
