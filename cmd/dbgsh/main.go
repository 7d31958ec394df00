//go:build windows

package main

import (
	"os"

	"github.com/go-dbgeng/dbgeng/cmd/dbgsh/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
