package terminal

import (
	"strings"

	"github.com/go-dbgeng/dbgeng/pkg/terminal/starbind"
)

type starlarkContext struct {
	term *Term
}

var _ starbind.Context = starlarkContext{}

func (ctx starlarkContext) Engine() starbind.Engine {
	return ctx.term.engine
}

func (ctx starlarkContext) RegisterCommand(name, helpMsg string, fn func(args string) error) {
	cmdfn := func(t *Term, args string) error {
		return fn(args)
	}

	found := false
	for i := range ctx.term.cmds.cmds {
		cmd := &ctx.term.cmds.cmds[i]
		for _, alias := range cmd.aliases {
			if alias == name {
				cmd.cmdFn = cmdfn
				cmd.helpMsg = helpMsg
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		newcmd := command{
			aliases: []string{name},
			helpMsg: helpMsg,
			cmdFn:   cmdfn,
		}
		ctx.term.cmds.cmds = append(ctx.term.cmds.cmds, newcmd)
		ctx.term.cmds.rebuildCompletion()
	}
}

func (ctx starlarkContext) CallCommand(cmdstr string) error {
	return ctx.term.cmds.Call(cmdstr, ctx.term)
}

func (c *Commands) source(t *Term, args string) error {
	env := starbind.New(starlarkContext{t}, t.stdout)
	defer env.Cancel()

	if args == "" {
		return env.REPL()
	}
	if strings.HasSuffix(args, ".star") {
		_, err := env.Execute(args, nil, "main", nil)
		return err
	}
	return c.executeFile(t, args)
}
