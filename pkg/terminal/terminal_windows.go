//go:build windows

package terminal

import (
	"io"

	"github.com/mattn/go-colorable"
)

// getColorableWriter returns a stdout writer that translates ANSI escape
// sequences into console API calls where the console needs it.
func getColorableWriter() io.Writer {
	return colorable.NewColorableStdout()
}
