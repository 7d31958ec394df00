package logflags

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMakeLoggerUsingLoggerFactory(t *testing.T) {
	if loggerFactory != nil {
		t.Fatalf("expected loggerFactory to be nil; but was <%v>", loggerFactory)
	}
	defer func() {
		loggerFactory = nil
	}()
	if logOut != nil {
		t.Fatalf("expected logOut to be nil; but was <%v>", logOut)
	}
	logOut = &bufferWriter{}
	defer func() {
		logOut = nil
	}()

	expectedLogger := &logrusLogger{}
	SetLoggerFactory(func(level logrus.Level, fields Fields, out io.Writer) Logger {
		if level != logrus.TraceLevel {
			t.Fatalf("expected level to be <%v>; but was <%v>", logrus.TraceLevel, level)
		}
		if len(fields) != 1 || fields["layer"] != "dbgeng" {
			t.Fatalf("expected fields to be {'layer':'dbgeng'}; but was <%v>", fields)
		}
		if out != logOut {
			t.Fatalf("expected out to be <%v>; but was <%v>", logOut, out)
		}
		return expectedLogger
	})

	actual := makeLogger(logrus.TraceLevel, Fields{"layer": "dbgeng"})
	if actual != expectedLogger {
		t.Fatalf("expected actual to be <%v>; but was <%v>", expectedLogger, actual)
	}
}

func TestMakeFlaggableLoggerWithFlagFalse(t *testing.T) {
	actual := makeFlaggableLogger(false, Fields{"layer": "repl"})
	actualEntry, ok := actual.(*logrusLogger)
	if !ok {
		t.Fatalf("expected a *logrusLogger; but got <%T>", actual)
	}
	if actualEntry.Entry.Logger.Level != logrus.ErrorLevel {
		t.Fatalf("expected level <%v>; but was <%v>", logrus.ErrorLevel, actualEntry.Logger.Level)
	}
	if len(actualEntry.Entry.Data) != 1 || actualEntry.Data["layer"] != "repl" {
		t.Fatalf("expected data {'layer':'repl'}; but was <%v>", actualEntry.Data)
	}
}

func TestMakeFlaggableLoggerWithFlagTrue(t *testing.T) {
	actual := makeFlaggableLogger(true, Fields{"layer": "repl"})
	actualEntry, ok := actual.(*logrusLogger)
	if !ok {
		t.Fatalf("expected a *logrusLogger; but got <%T>", actual)
	}
	if actualEntry.Entry.Logger.Level != logrus.DebugLevel {
		t.Fatalf("expected level <%v>; but was <%v>", logrus.DebugLevel, actualEntry.Logger.Level)
	}
}

func TestSetupComponents(t *testing.T) {
	defer func() {
		dbgengFlag, replFlag, scriptFlag = false, false, false
	}()

	if err := Setup(true, "dbgeng,script", ""); err != nil {
		t.Fatal(err)
	}
	if !Dbgeng() || !Script() {
		t.Error("requested components were not enabled")
	}
	if Repl() {
		t.Error("repl should not be enabled")
	}

	if err := Setup(true, "gdbwire", ""); err == nil {
		t.Error("unknown component should be rejected")
	}

	if err := Setup(false, "dbgeng", ""); err != errLogstrWithoutLog {
		t.Errorf("expected errLogstrWithoutLog, got %v", err)
	}
}

type bufferWriter struct {
	bytes.Buffer
}

func (bw *bufferWriter) Close() error {
	return nil
}
