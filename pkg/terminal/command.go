package terminal

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"
	"github.com/derekparker/trie"

	"github.com/go-dbgeng/dbgeng/pkg/dbgeng"
)

const endSessionFlags = dbgeng.DEBUG_END_ACTIVE_TERMINATE

type cmdfunc func(t *Term, args string) error

type command struct {
	aliases []string
	helpMsg string
	cmdFn   cmdfunc
}

// Returns true if the command string matches one of the aliases for this
// command.
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the local commands of the shell. Anything that does
// not match a local command is forwarded to the engine untouched.
type Commands struct {
	cmds       []command
	engine     Engine
	completion *trie.Trie
}

// byFirstAlias will sort by the first alias of a command.
type byFirstAlias []command

func (a byFirstAlias) Len() int           { return len(a) }
func (a byFirstAlias) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byFirstAlias) Less(i, j int) bool { return a[i].aliases[0] < a[j].aliases[0] }

// ShellCommands returns a Commands struct with the default commands
// defined.
func ShellCommands(engine Engine) *Commands {
	c := &Commands{engine: engine}

	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.
Anything that is not a local command is sent to the engine unchanged.`},
		{aliases: []string{"regs", "r"}, cmdFn: c.regs, helpMsg: `Print the value of every target register.`},
		{aliases: []string{"examine", "x", "db"}, cmdFn: c.examine, helpMsg: `Dump target memory.

	examine <expression> [<length>]

The expression is evaluated by the engine, so symbols and register names
work. Length defaults to the configured max-dump-bytes.`},
		{aliases: []string{"modules", "lm"}, cmdFn: c.modules, helpMsg: `List the loaded modules of the target.`},
		{aliases: []string{"eval", "?"}, cmdFn: c.eval, helpMsg: `Evaluate an expression through the engine.

	eval <expression>`},
		{aliases: []string{"sym"}, cmdFn: c.sym, helpMsg: `Resolve a symbol or an address.

	sym <name>
	sym <expression>

With a name containing "!" the address of the symbol is printed. With an
expression the nearest symbol is printed. Lookups are cached; use reload to
flush.`},
		{aliases: []string{"reload"}, cmdFn: c.reload, helpMsg: `Reload module symbols and flush the symbol cache.

	reload [<module>]`},
		{aliases: []string{"source"}, cmdFn: c.source, helpMsg: `Executes a starlark script.

	source <path>

If path ends with .star the file is interpreted as a starlark script,
otherwise each line is dispatched as a shell command. With no argument an
interactive starlark prompt is started.`},
		{aliases: []string{"alias"}, cmdFn: c.aliasCmd, helpMsg: `Defines an alias for an existing command.

	alias <alias> <existing command>`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCommand, helpMsg: `Exit the shell.`},
	}

	sort.Sort(byFirstAlias(c.cmds))
	c.rebuildCompletion()
	return c
}

// Merge adds aliases defined in the configuration file to the commands.
func (c *Commands) Merge(allAliases map[string][]string) {
	for i := range c.cmds {
		cmd := &c.cmds[i]
		if aliases, ok := allAliases[cmd.aliases[0]]; ok {
			cmd.aliases = append(cmd.aliases, aliases...)
		}
	}
	c.rebuildCompletion()
}

func (c *Commands) rebuildCompletion() {
	c.completion = trie.New()
	for _, cmd := range c.cmds {
		for _, alias := range cmd.aliases {
			c.completion.Add(alias, nil)
		}
	}
}

// Complete returns the command aliases that start with line.
func (c *Commands) Complete(line string) []string {
	line = strings.ToLower(line)
	if line == "" {
		return nil
	}
	matches := c.completion.PrefixSearch(line)
	sort.Strings(matches)
	return matches
}

func (c *Commands) find(cmdstr string) *command {
	for i := range c.cmds {
		if c.cmds[i].match(cmdstr) {
			return &c.cmds[i]
		}
	}
	return nil
}

// Call dispatches cmdstr: a matching local command runs locally, anything
// else is forwarded to the engine.
func (c *Commands) Call(cmdstr string, t *Term) error {
	cmdstr = strings.TrimSpace(cmdstr)
	if cmdstr == "" {
		return nil
	}
	name, rest := splitCommand(cmdstr)
	if cmd := c.find(name); cmd != nil {
		return cmd.cmdFn(t, rest)
	}
	return c.engine.Execute(cmdstr)
}

func splitCommand(cmdstr string) (string, string) {
	parts := strings.SplitN(cmdstr, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// executeFile runs each line of path as a shell command.
func (c *Commands) executeFile(t *Term, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := c.Call(line, t); err != nil {
			if _, isExitRequest := err.(ExitRequestError); isExitRequest {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s:%d: %v\n", path, lineno, err)
		}
	}
	return scanner.Err()
}

func (c *Commands) help(t *Term, args string) error {
	if args != "" {
		for _, cmd := range c.cmds {
			if cmd.match(args) {
				fmt.Fprintln(t.stdout, cmd.helpMsg)
				return nil
			}
		}
		return fmt.Errorf("command %q not available", args)
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, '-', 0)
	for _, cmd := range c.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, "Anything else is sent to the engine; type \"? 2+2\" or \".help\" for its own command list.")
	return nil
}

func (c *Commands) regs(t *Term, args string) error {
	regs, err := c.engine.Registers()
	if err != nil {
		return err
	}
	for _, reg := range regs {
		fmt.Fprintf(t.stdout, "%9s = %s\n", reg.Name, formatValue(reg.Value))
	}
	return nil
}

func formatValue(v dbgeng.Value) string {
	switch v.Type {
	case dbgeng.DEBUG_VALUE_INT8:
		b, _ := v.Uint8()
		return fmt.Sprintf("%#04x", b)
	case dbgeng.DEBUG_VALUE_INT16:
		h, _ := v.Uint16()
		return fmt.Sprintf("%#06x", h)
	case dbgeng.DEBUG_VALUE_INT32:
		w, _ := v.Uint32()
		return fmt.Sprintf("%#010x", w)
	case dbgeng.DEBUG_VALUE_INT64:
		q, _ := v.Uint64()
		return fmt.Sprintf("%#018x", q)
	case dbgeng.DEBUG_VALUE_FLOAT32:
		f, _ := v.Float32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case dbgeng.DEBUG_VALUE_FLOAT64:
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return fmt.Sprintf("<type %d> % x", v.Type, v.Raw)
	}
}

func (c *Commands) examine(t *Term, args string) error {
	if args == "" {
		return fmt.Errorf("not enough arguments")
	}
	expr, rest := splitCommand(args)
	size := t.conf.MaxDump()
	if rest != "" {
		n, err := strconv.ParseUint(rest, 0, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("invalid length %q", rest)
		}
		size = int(n)
	}

	addr, err := c.engine.EvaluateUint64(expr)
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	n, err := c.engine.ReadVirtual(addr, buf)
	if err != nil {
		return err
	}
	fmt.Fprint(t.stdout, hexdump(addr, buf[:n]))
	return nil
}

// hexdump formats data the way the engine's db command does: address, 16
// hex bytes, ASCII.
func hexdump(addr uint64, data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		line := data[i:end]

		fmt.Fprintf(&sb, "%016x  ", addr+uint64(i))
		for j := 0; j < 16; j++ {
			if j < len(line) {
				fmt.Fprintf(&sb, "%02x ", line[j])
			} else {
				sb.WriteString("   ")
			}
			if j == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte(' ')
		for _, b := range line {
			if b < 0x20 || b > 0x7e {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(b)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (c *Commands) modules(t *Term, args string) error {
	mods, err := c.engine.Modules()
	if err != nil {
		return err
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "index\tbase\tname\n")
	for _, mod := range mods {
		fmt.Fprintf(w, "%d\t%#016x\t%s\n", mod.Index, mod.Base, mod.Name)
	}
	return w.Flush()
}

func (c *Commands) eval(t *Term, args string) error {
	if args == "" {
		return fmt.Errorf("not enough arguments")
	}
	v, err := c.engine.EvaluateUint64(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.stdout, "%#x = %d\n", v, v)
	return nil
}

func (c *Commands) sym(t *Term, args string) error {
	if args == "" {
		return fmt.Errorf("not enough arguments")
	}
	if strings.Contains(args, "!") {
		addr, err := t.syms.Address(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.stdout, "%s = %#x\n", args, addr)
		return nil
	}
	addr, err := c.engine.EvaluateUint64(args)
	if err != nil {
		return err
	}
	name, displacement, err := t.syms.Name(addr)
	if err != nil {
		return err
	}
	if displacement != 0 {
		fmt.Fprintf(t.stdout, "%#x = %s+%#x\n", addr, name, displacement)
	} else {
		fmt.Fprintf(t.stdout, "%#x = %s\n", addr, name)
	}
	return nil
}

func (c *Commands) reload(t *Term, args string) error {
	t.syms.Flush()
	return c.engine.ReloadSymbols(args)
}

func (c *Commands) aliasCmd(t *Term, args string) error {
	v, err := argv.Argv(args, func(s string) (string, error) {
		return "", fmt.Errorf("backtick not supported in %q", s)
	}, nil)
	if err != nil {
		return err
	}
	if len(v) != 1 || len(v[0]) != 2 {
		return fmt.Errorf("wrong number of arguments")
	}
	alias, target := v[0][0], v[0][1]

	cmd := c.find(target)
	if cmd == nil {
		return fmt.Errorf("command %q not available", target)
	}
	cmd.aliases = append(cmd.aliases, alias)
	c.rebuildCompletion()
	return nil
}

// ExitRequestError is returned from the exit command to signal that the
// shell should exit.
type ExitRequestError struct{}

func (ExitRequestError) Error() string {
	return ""
}

func exitCommand(t *Term, args string) error {
	return ExitRequestError{}
}
