//go:build !windows

package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	fmt.Fprintf(os.Stderr, "dbgsh drives the Windows debugger engine (dbgeng.dll) and does not run on %s/%s.\n", runtime.GOOS, runtime.GOARCH)
	os.Exit(1)
}
