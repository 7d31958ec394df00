// Package logflags configures the loggers used by the rest of the
// codebase. Each component has a flag that must be enabled for its logger
// to emit anything below the error level.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	dbgengFlag = false
	replFlag   = false
	scriptFlag = false
)

var logOut io.WriteCloser

func makeLogger(level logrus.Level, fields Fields) Logger {
	if lf := loggerFactory; lf != nil {
		return lf(level, fields, logOut)
	}
	logger := logrus.New().WithFields(logrus.Fields(fields))
	logger.Logger.Formatter = textFormatterInstance
	if logOut != nil {
		logger.Logger.Out = logOut
	}
	logger.Logger.Level = level
	return &logrusLogger{logger}
}

func makeFlaggableLogger(flag bool, fields Fields) Logger {
	if flag {
		return makeLogger(logrus.DebugLevel, fields)
	}
	return makeLogger(logrus.ErrorLevel, fields)
}

// Dbgeng returns true if engine calls should be traced.
func Dbgeng() bool {
	return dbgengFlag
}

// DbgengLogger returns a logger for the engine binding layer.
func DbgengLogger() Logger {
	return makeFlaggableLogger(dbgengFlag, Fields{"layer": "dbgeng"})
}

// Repl returns true if the command shell should log.
func Repl() bool {
	return replFlag
}

// ReplLogger returns a logger for the command shell.
func ReplLogger() Logger {
	return makeFlaggableLogger(replFlag, Fields{"layer": "repl"})
}

// Script returns true if the scripting environment should log.
func Script() bool {
	return scriptFlag
}

// ScriptLogger returns a logger for the scripting environment.
func ScriptLogger() Logger {
	return makeFlaggableLogger(scriptFlag, Fields{"layer": "script"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the component flags based on the contents of logstr and
// redirects output to logDest, which can be a file path or a file
// descriptor number.
func Setup(logFlag bool, logstr, logDest string) error {
	if logDest != "" {
		n, err := strconv.Atoi(logDest)
		if err == nil {
			logOut = os.NewFile(uintptr(n), "dbgsh-logs")
		} else {
			fh, err := os.Create(logDest)
			if err != nil {
				return fmt.Errorf("could not create log file: %v", err)
			}
			logOut = fh
		}
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "repl"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "dbgeng":
			dbgengFlag = true
		case "repl":
			replFlag = true
		case "script":
			scriptFlag = true
		default:
			return fmt.Errorf("unknown log output %q, valid values are dbgeng, repl and script", logcmd)
		}
	}
	return nil
}

// Close closes the file output of the logs, if any.
func Close() {
	if logOut != nil {
		logOut.Close()
	}
}

var textFormatterInstance = &textFormatter{}

// textFormatter is a simplified version of logrus.TextFormatter that
// always prints fields in the same order.
type textFormatter struct{}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *strings.Builder = &strings.Builder{}
	b.WriteString(entry.Time.Format("2006-01-02T15:04:05"))
	b.WriteByte(' ')
	b.WriteString(entry.Level.String())
	b.WriteByte(' ')
	if layer, ok := entry.Data["layer"]; ok {
		fmt.Fprintf(b, "layer=%v ", layer)
	}
	b.WriteString(entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		if k == "layer" {
			continue
		}
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
