// Package starbind exposes the debugger engine to starlark scripts.
package starbind

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	startime "go.starlark.net/lib/time"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/go-dbgeng/dbgeng/pkg/dbgeng"
)

const (
	dbgCommandBuiltinName    = "dbg_command"
	evalBuiltinName          = "eval"
	readMemoryBuiltinName    = "read_memory"
	writeMemoryBuiltinName   = "write_memory"
	symbolAddressBuiltinName = "symbol_address"
	symbolNameBuiltinName    = "symbol_name"
	registersBuiltinName     = "registers"
	readFileBuiltinName      = "read_file"
	writeFileBuiltinName     = "write_file"
	sleepBuiltinName         = "sleep"
	helpBuiltinName          = "help"

	commandPrefix  = "command_"
	dbgContextName = "dbg_context"
)

func init() {
	resolve.AllowNestedDef = true
	resolve.AllowLambda = true
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowBitwise = true
	resolve.AllowRecursion = true
	resolve.AllowGlobalReassign = true
}

// Engine is the slice of the debugger engine that scripts can reach.
type Engine interface {
	EvaluateUint64(expr string) (uint64, error)
	ReadVirtual(addr uint64, buf []byte) (int, error)
	WriteVirtual(addr uint64, buf []byte) (int, error)
	SymbolAddress(name string) (uint64, error)
	SymbolName(addr uint64) (string, uint64, error)
	Registers() ([]dbgeng.Register, error)
}

// Context is the context in which starlark scripts are evaluated.
// It contains methods to reach the engine and the shell's command table.
type Context interface {
	Engine() Engine
	RegisterCommand(name, helpMsg string, cmdfn func(args string) error)
	CallCommand(cmdstr string) error
}

// Env is the environment used to evaluate starlark scripts.
type Env struct {
	env       starlark.StringDict
	contextMu sync.Mutex
	thread    *starlark.Thread
	cancelfn  context.CancelFunc

	ctx Context
	out io.Writer
}

// New creates a new starlark binding environment.
func New(ctx Context, out io.Writer) *Env {
	env := &Env{}

	env.ctx = ctx
	env.out = out

	// Make the "time" module available to starlark scripts.
	starlark.Universe["time"] = startime.Module

	env.env = starlark.StringDict{}
	doc := map[string]string{}

	builtindoc := func(name, args, descr string) {
		doc[name] = name + args + "\n\n" + name + " " + descr
	}

	env.env[dbgCommandBuiltinName] = starlark.NewBuiltin(dbgCommandBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := isCancelled(thread); err != nil {
			return starlark.None, err
		}
		argstrs := make([]string, len(args))
		for i := range args {
			a, ok := args[i].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("argument of %s is not a string", dbgCommandBuiltinName)
			}
			argstrs[i] = string(a)
		}
		err := env.ctx.CallCommand(strings.Join(argstrs, " "))
		return starlark.None, decorateError(thread, err)
	})
	builtindoc(dbgCommandBuiltinName, "(Command)", "executes a shell command as if typed at the prompt.")

	env.env[evalBuiltinName] = starlark.NewBuiltin(evalBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := isCancelled(thread); err != nil {
			return starlark.None, err
		}
		expr, err := stringArg(args, 0, evalBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		v, err := env.ctx.Engine().EvaluateUint64(expr)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.MakeUint64(v), nil
	})
	builtindoc(evalBuiltinName, "(Expr)", "evaluates an engine expression to an integer.")

	env.env[readMemoryBuiltinName] = starlark.NewBuiltin(readMemoryBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := isCancelled(thread); err != nil {
			return starlark.None, err
		}
		if len(args) != 2 {
			return nil, decorateError(thread, fmt.Errorf("wrong number of arguments"))
		}
		addr, err := uint64Arg(args, 0, readMemoryBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		size, err := uint64Arg(args, 1, readMemoryBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		buf := make([]byte, size)
		n, err := env.ctx.Engine().ReadVirtual(addr, buf)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.Bytes(buf[:n]), nil
	})
	builtindoc(readMemoryBuiltinName, "(Address, Size)", "reads target memory and returns it as bytes.")

	env.env[writeMemoryBuiltinName] = starlark.NewBuiltin(writeMemoryBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := isCancelled(thread); err != nil {
			return starlark.None, err
		}
		if len(args) != 2 {
			return nil, decorateError(thread, fmt.Errorf("wrong number of arguments"))
		}
		addr, err := uint64Arg(args, 0, writeMemoryBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		buf, err := bytesArg(args, 1, writeMemoryBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		n, err := env.ctx.Engine().WriteVirtual(addr, buf)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.MakeInt(n), nil
	})
	builtindoc(writeMemoryBuiltinName, "(Address, Bytes)", "writes bytes to target memory and returns the count written.")

	env.env[symbolAddressBuiltinName] = starlark.NewBuiltin(symbolAddressBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		name, err := stringArg(args, 0, symbolAddressBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		addr, err := env.ctx.Engine().SymbolAddress(name)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.MakeUint64(addr), nil
	})
	builtindoc(symbolAddressBuiltinName, "(Name)", "resolves a symbol name to its address.")

	env.env[symbolNameBuiltinName] = starlark.NewBuiltin(symbolNameBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		addr, err := uint64Arg(args, 0, symbolNameBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		name, disp, err := env.ctx.Engine().SymbolName(addr)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.Tuple{starlark.String(name), starlark.MakeUint64(disp)}, nil
	})
	builtindoc(symbolNameBuiltinName, "(Address)", "resolves an address to the nearest symbol, returning (name, displacement).")

	env.env[registersBuiltinName] = starlark.NewBuiltin(registersBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		regs, err := env.ctx.Engine().Registers()
		if err != nil {
			return nil, decorateError(thread, err)
		}
		var r starlark.Dict
		for _, reg := range regs {
			switch reg.Value.Type {
			case dbgeng.DEBUG_VALUE_FLOAT32:
				f, _ := reg.Value.Float32()
				r.SetKey(starlark.String(reg.Name), starlark.Float(f))
			case dbgeng.DEBUG_VALUE_FLOAT64:
				f, _ := reg.Value.Float64()
				r.SetKey(starlark.String(reg.Name), starlark.Float(f))
			default:
				v, err := reg.Value.AsUint64()
				if err != nil {
					continue
				}
				r.SetKey(starlark.String(reg.Name), starlark.MakeUint64(v))
			}
		}
		return &r, nil
	})
	builtindoc(registersBuiltinName, "()", "returns a dict of register names to values.")

	env.env[readFileBuiltinName] = starlark.NewBuiltin(readFileBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		path, err := stringArg(args, 0, readFileBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		return starlark.String(string(buf)), nil
	})
	builtindoc(readFileBuiltinName, "(Path)", "reads a file.")

	env.env[writeFileBuiltinName] = starlark.NewBuiltin(writeFileBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 {
			return nil, decorateError(thread, fmt.Errorf("wrong number of arguments"))
		}
		path, err := stringArg(args, 0, writeFileBuiltinName)
		if err != nil {
			return nil, decorateError(thread, err)
		}
		err = os.WriteFile(path, []byte(args[1].String()), 0640)
		return starlark.None, decorateError(thread, err)
	})
	builtindoc(writeFileBuiltinName, "(Path, Text)", "writes text to the specified file.")

	env.env[sleepBuiltinName] = starlark.NewBuiltin(sleepBuiltinName, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var seconds float64
		if err := starlark.UnpackPositionalArgs(sleepBuiltinName, args, kwargs, 1, &seconds); err != nil {
			return nil, decorateError(thread, err)
		}
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		defer timer.Stop()
		if ctx, ok := thread.Local(dbgContextName).(context.Context); ok {
			select {
			case <-timer.C:
			case <-ctx.Done():
				return starlark.None, ctx.Err()
			}
		} else {
			<-timer.C
		}
		return starlark.None, nil
	})
	builtindoc(sleepBuiltinName, "(Seconds)", "pauses the script, honoring interrupts.")

	env.env[helpBuiltinName] = starlark.NewBuiltin(helpBuiltinName, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		switch len(args) {
		case 0:
			fmt.Fprintln(env.out, "Available builtins:")
			bins := make([]string, 0, len(env.env))
			for name, value := range env.env {
				switch value.(type) {
				case *starlark.Builtin:
					bins = append(bins, name)
				}
			}
			sort.Strings(bins)
			for _, bin := range bins {
				fmt.Fprintf(env.out, "\t%s\n", bin)
			}
		case 1:
			switch x := args[0].(type) {
			case *starlark.Builtin:
				if doc[x.Name()] != "" {
					fmt.Fprintf(env.out, "%s\n", doc[x.Name()])
				} else {
					fmt.Fprintf(env.out, "no help for builtin %s\n", x.Name())
				}
			case *starlark.Function:
				fmt.Fprintf(env.out, "user defined function %s\n", x.Name())
				if doc := x.Doc(); doc != "" {
					fmt.Fprintln(env.out, doc)
				}
			default:
				fmt.Fprintf(env.out, "no help for object of type %T\n", args[0])
			}
		default:
			fmt.Fprintln(env.out, "wrong number of arguments ", len(args))
		}
		return starlark.None, nil
	})
	builtindoc(helpBuiltinName, "(Object)", "prints help for Object.")

	return env
}

// Redirect redirects starlark output to out.
func (env *Env) Redirect(out io.Writer) {
	env.out = out
	if env.thread != nil {
		env.thread.Print = env.printFunc()
	}
}

func (env *Env) printFunc() func(_ *starlark.Thread, msg string) {
	return func(_ *starlark.Thread, msg string) { fmt.Fprintln(env.out, msg) }
}

// Execute executes a script. Path is the name of the file to execute and
// source is the source code to execute.
// Source can be either a []byte, a string or a io.Reader. If source is nil
// Execute will execute the file specified by 'path'.
// After the file is executed if a function named mainFnName exists it will be called, passing args to it.
func (env *Env) Execute(path string, source interface{}, mainFnName string, args []interface{}) (_ starlark.Value, _err error) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		_err = fmt.Errorf("panic executing starlark script: %v", err)
		fmt.Fprintf(env.out, "panic executing starlark script: %v\n", err)
		for i := 0; ; i++ {
			pc, file, line, ok := runtime.Caller(i)
			if !ok {
				break
			}
			fname := "<unknown>"
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				fname = fn.Name()
			}
			fmt.Fprintf(env.out, "%s\n\tin %s:%d\n", fname, file, line)
		}
	}()

	thread := env.newThread()
	globals, err := starlark.ExecFile(thread, path, source, env.env)
	if err != nil {
		return starlark.None, err
	}

	err = env.exportGlobals(globals)
	if err != nil {
		return starlark.None, err
	}

	return env.callMain(thread, globals, mainFnName, args)
}

// exportGlobals saves globals with a name starting with a capital letter
// into the environment and creates commands from globals with a name
// starting with "command_"
func (env *Env) exportGlobals(globals starlark.StringDict) error {
	for name, val := range globals {
		switch {
		case strings.HasPrefix(name, commandPrefix):
			err := env.createCommand(name, val)
			if err != nil {
				return err
			}
		case name[0] >= 'A' && name[0] <= 'Z':
			env.env[name] = val
		}
	}
	return nil
}

// Cancel cancels the execution of a currently running script or function.
func (env *Env) Cancel() {
	if env == nil {
		return
	}
	env.contextMu.Lock()
	if env.cancelfn != nil {
		env.cancelfn()
		env.cancelfn = nil
	}
	if env.thread != nil {
		env.thread.Cancel("user interrupt")
	}
	env.contextMu.Unlock()
}

func (env *Env) newThread() *starlark.Thread {
	thread := &starlark.Thread{
		Print: env.printFunc(),
	}
	env.contextMu.Lock()
	var ctx context.Context
	ctx, env.cancelfn = context.WithCancel(context.Background())
	env.thread = thread
	env.contextMu.Unlock()
	thread.SetLocal(dbgContextName, ctx)
	return thread
}

func (env *Env) createCommand(name string, val starlark.Value) error {
	fnval, ok := val.(*starlark.Function)
	if !ok {
		return nil
	}

	name = name[len(commandPrefix):]

	helpMsg := fnval.Doc()
	if helpMsg == "" {
		helpMsg = "user defined"
	}

	if fnval.NumParams() == 1 {
		if p0, _ := fnval.Param(0); p0 == "args" {
			env.ctx.RegisterCommand(name, helpMsg, func(args string) error {
				_, err := starlark.Call(env.newThread(), fnval, starlark.Tuple{starlark.String(args)}, nil)
				return err
			})
			return nil
		}
	}

	env.ctx.RegisterCommand(name, helpMsg, func(args string) error {
		thread := env.newThread()
		argval, err := starlark.Eval(thread, "<input>", "("+args+")", env.env)
		if err != nil {
			return err
		}
		argtuple, ok := argval.(starlark.Tuple)
		if !ok {
			argtuple = starlark.Tuple{argval}
		}
		_, err = starlark.Call(thread, fnval, argtuple, nil)
		return err
	})
	return nil
}

// callMain calls the main function in globals, if one was defined.
func (env *Env) callMain(thread *starlark.Thread, globals starlark.StringDict, mainFnName string, args []interface{}) (starlark.Value, error) {
	if mainFnName == "" {
		return starlark.None, nil
	}
	mainval := globals[mainFnName]
	if mainval == nil {
		return starlark.None, nil
	}
	mainfn, ok := mainval.(*starlark.Function)
	if !ok {
		return starlark.None, fmt.Errorf("%s is not a function", mainFnName)
	}
	if mainfn.NumParams() != len(args) {
		return starlark.None, fmt.Errorf("wrong number of arguments for %s", mainFnName)
	}
	argtuple := make(starlark.Tuple, len(args))
	for i := range args {
		argtuple[i] = interfaceToStarlarkValue(args[i])
	}
	return starlark.Call(thread, mainfn, argtuple, nil)
}

func isCancelled(thread *starlark.Thread) error {
	if ctx, ok := thread.Local(dbgContextName).(context.Context); ok {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

func decorateError(thread *starlark.Thread, err error) error {
	if err == nil {
		return nil
	}
	pos := thread.CallFrame(1).Pos
	if pos.Col > 0 {
		return fmt.Errorf("%s:%d:%d: %v", pos.Filename(), pos.Line, pos.Col, err)
	}
	return fmt.Errorf("%s:%d: %v", pos.Filename(), pos.Line, err)
}
