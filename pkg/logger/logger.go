package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/rollbar/rollbar-go"
)

type Logger struct {
	info    *log.Logger
	warn    *log.Logger
	error   *log.Logger
	rollbar bool
}

func New() *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		info:  log.New(os.Stdout, "[INFO] ", flags),
		warn:  log.New(os.Stdout, "[WARN] ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
	}
}

// EnableRollbar forwards Error and Warn entries to Rollbar. An empty token
// leaves forwarding disabled.
func (l *Logger) EnableRollbar(token, environment, service string) {
	if token == "" {
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(service)
	rollbar.SetEnabled(true)
	l.rollbar = true
}

// Close flushes pending Rollbar items.
func (l *Logger) Close() {
	if l.rollbar {
		rollbar.Close()
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Printf(format, args...)
	if l.rollbar {
		rollbar.Warning(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Printf(format, args...)
	if l.rollbar {
		rollbar.Error(fmt.Errorf(format, args...))
	}
}
