// Package terminal implements the interactive shell: it reads user input
// and dispatches to either a local command or the engine's own command
// language.
package terminal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/go-delve/liner"
	"github.com/mattn/go-isatty"

	"github.com/go-dbgeng/dbgeng/pkg/config"
	"github.com/go-dbgeng/dbgeng/pkg/logflags"
	"github.com/go-dbgeng/dbgeng/pkg/symcache"
)

const (
	terminalHighlightEscapeCode string = "\033[%2dm"
	terminalResetEscapeCode     string = "\033[0m"
)

const (
	ansiBlack   = 30
	ansiBlue    = 34
	ansiWhite   = 37
	ansiBrWhite = 97
)

const symbolCacheSize = 1024

// Term represents the terminal running the shell.
type Term struct {
	engine Engine
	conf   *config.Config
	syms   *symcache.Cache
	prompt string
	line   *liner.State
	cmds   *Commands
	dumb   bool
	stdout io.Writer
	log    logflags.Logger

	// InitFile is a file of commands executed before the first prompt.
	InitFile string

	quittingMutex sync.Mutex
	quitting      bool
}

// New returns a new Term driving engine.
func New(engine Engine, conf *config.Config) *Term {
	if conf == nil {
		conf = &config.Config{}
	}
	cmds := ShellCommands(engine)
	if conf.Aliases != nil {
		cmds.Merge(conf.Aliases)
	}

	var w io.Writer
	dumb := strings.ToLower(os.Getenv("TERM")) == "dumb" || !isatty.IsTerminal(os.Stdout.Fd())
	if dumb {
		w = os.Stdout
	} else {
		w = getColorableWriter()
	}

	if conf.PromptColor < ansiBlack || conf.PromptColor > ansiBrWhite ||
		(conf.PromptColor > ansiWhite && conf.PromptColor < 90) {
		conf.PromptColor = ansiBlue
	}

	syms, _ := symcache.New(engine, symbolCacheSize)

	return &Term{
		engine: engine,
		conf:   conf,
		syms:   syms,
		prompt: "(dbg) ",
		line:   liner.NewLiner(),
		cmds:   cmds,
		dumb:   dumb,
		stdout: w,
		log:    logflags.ReplLogger(),
	}
}

// Close returns the terminal to its previous mode.
func (t *Term) Close() {
	t.line.Close()
}

func (t *Term) sigintGuard(ch <-chan os.Signal) {
	for range ch {
		fmt.Fprintf(t.stdout, "received SIGINT, breaking into the engine\n")
		if err := t.engine.Interrupt(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

// Run begins the read/dispatch loop. It returns the process exit status.
func (t *Term) Run() (int, error) {
	defer t.Close()

	// Break into the engine on SIGINT instead of dying.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT)
	go t.sigintGuard(ch)

	t.line.SetCompleter(func(line string) []string {
		return t.cmds.Complete(line)
	})

	fullHistoryFile, err := config.GetConfigFilePath(config.HistoryFile)
	if err != nil {
		fmt.Printf("Unable to load history file: %v.", err)
	}
	f, err := os.Open(fullHistoryFile)
	if err != nil {
		f, err = os.Create(fullHistoryFile)
		if err != nil {
			fmt.Printf("Unable to open history file: %v. History will not be saved for this session.", err)
		}
	}
	if f != nil {
		t.line.ReadHistory(f)
		f.Close()
	}

	fmt.Println("Type 'help' for list of commands.")

	if t.InitFile != "" {
		err := t.cmds.executeFile(t, t.InitFile)
		if err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Error executing init file: %s\n", err)
		}
	}

	for _, cmd := range t.conf.StartupCommands {
		if err := t.engine.Execute(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Startup command %q failed: %v\n", cmd, err)
		}
	}

	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Println("exit")
				return t.handleExit()
			}
			return 1, fmt.Errorf("prompt for input failed: %v", err)
		}

		t.log.Debugf("command: %q", cmdstr)
		if err := t.cmds.Call(cmdstr, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			t.quittingMutex.Lock()
			quitting := t.quitting
			t.quittingMutex.Unlock()
			if quitting {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

// Println prints a line to the terminal, highlighting prefix.
func (t *Term) Println(prefix, str string) {
	if !t.dumb {
		terminalColorEscapeCode := fmt.Sprintf(terminalHighlightEscapeCode, t.conf.PromptColor)
		prefix = fmt.Sprintf("%s%s%s", terminalColorEscapeCode, prefix, terminalResetEscapeCode)
	}
	fmt.Fprintf(t.stdout, "%s%s\n", prefix, str)
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}
	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}
	return l, nil
}

func yesno(line *liner.State, question string) (bool, error) {
	for {
		answer, err := line.Prompt(question)
		if err != nil {
			return false, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		switch answer {
		case "n", "no":
			return false, nil
		case "y", "yes":
			return true, nil
		}
	}
}

func (t *Term) handleExit() (int, error) {
	fullHistoryFile, err := config.GetConfigFilePath(config.HistoryFile)
	if err != nil {
		fmt.Println("Error saving history file:", err)
	} else {
		if f, err := os.OpenFile(fullHistoryFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600); err == nil {
			_, err = t.line.WriteHistory(f)
			if err != nil {
				fmt.Println("readline history error:", err)
			}
			f.Close()
		}
	}

	t.quittingMutex.Lock()
	quitting := t.quitting
	t.quittingMutex.Unlock()
	if quitting {
		return 0, nil
	}

	detach, err := yesno(t.line, "Would you like to detach from the target, leaving it running? [Y/n] ")
	if err == nil && detach {
		if err := t.engine.DetachProcesses(); err != nil {
			fmt.Fprintf(os.Stderr, "could not detach: %v\n", err)
		}
	} else {
		if err := t.engine.EndSession(endSessionFlags); err != nil {
			fmt.Fprintf(os.Stderr, "could not end session: %v\n", err)
		}
	}
	return 0, nil
}

// Engine returns the engine driven by the terminal; it is part of the
// scripting context.
func (t *Term) Engine() Engine {
	return t.engine
}

// CallCommand dispatches cmdstr as if typed at the prompt; it is part of
// the scripting context.
func (t *Term) CallCommand(cmdstr string) error {
	return t.cmds.Call(cmdstr, t)
}
