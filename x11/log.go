package x11

import (
	"fmt"
	"log"
	"os"
)

// PrintLog controls whether the X11 engine emits diagnostics to stderr. By
// default, it is enabled.
var PrintLog = true

// x11log is a wrapper around a log.Logger so we can control whether it should
// output anything.
type x11log struct {
	*log.Logger
}

var logger = newLogger()

func newLogger() x11log {
	return x11log{log.New(os.Stderr, "X11: ", log.Lshortfile)}
}

func (lg x11log) Printf(format string, v ...interface{}) {
	if PrintLog {
		lg.Logger.Printf(format, v...)
	}
}

func (lg x11log) Panicf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if PrintLog {
		lg.Logger.Output(2, msg)
	}
	panic(msg)
}
