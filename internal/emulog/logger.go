// Copyright (2012) Sandia Corporation.
// Under the terms of Contract DE-AC04-94AL85000 with Sandia Corporation,
// the U.S. Government retains certain rights in this software.

// Package emulog extends Go's logging functionality to allow for multiple
// loggers, each with its own logging level. Call AddLogger to set up each
// desired logger, then use the package-level logging functions to send
// messages to all of them.
package emulog

import (
	"fmt"
	golog "log"
	"io"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

const (
	colorLine  = "\x1b[0033m"
	colorDebug = "\x1b[0034m"
	colorInfo  = "\x1b[0032m"
	colorWarn  = "\x1b[0033m"
	colorError = "\x1b[0031m"
	colorFatal = "\x1b[0031m"
	colorReset = "\x1b[0000m"
)

// Level is the severity a logger, or a single log call, is gated at.
// The zero value is intentionally invalid: every logger registered via
// AddLogger or Init must name an explicit level.
type Level int

const (
	invalidLevel Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

// ParseLevel maps the --level flag's accepted strings to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return invalidLevel, errors.Errorf("invalid log level %q", s)
}

// Set implements pflag.Value so Level can back a cobra flag directly.
func (l *Level) Set(s string) (err error) {
	*l, err = ParseLevel(s)
	return
}

// Type implements pflag.Value.
func (l Level) Type() string { return "level" }

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	case FATAL:
		return "fatal"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

var (
	loggers = make(map[string]*minilogger)
	logLock sync.RWMutex
)

type minilogger struct {
	*golog.Logger

	Level Level
	Color bool
}

// AddLogger registers a logger that emits events at level or higher.
func AddLogger(name string, output io.Writer, level Level, color bool) {
	logLock.Lock()
	defer logLock.Unlock()

	loggers[name] = &minilogger{golog.New(output, "", golog.LstdFlags), level, color}
}

// DelLogger removes a named logger previously added with AddLogger.
func DelLogger(name string) {
	logLock.Lock()
	defer logLock.Unlock()

	delete(loggers, name)
}

// SetLevel changes the log level for a named logger.
func SetLevel(name string, level Level) error {
	logLock.Lock()
	defer logLock.Unlock()

	if loggers[name] == nil {
		return errors.Errorf("no such logger %v", name)
	}
	loggers[name].Level = level
	return nil
}

func (l *minilogger) prologue(level Level, name string) string {
	var msg string
	switch level {
	case DEBUG:
		msg = "DEBUG "
	case INFO:
		msg = "INFO "
	case WARN:
		msg = "WARN "
	case ERROR:
		msg = "ERROR "
	default:
		msg = "FATAL "
	}

	if name == "" {
		_, file, line, _ := runtime.Caller(3)
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		msg += short + ":" + strconv.Itoa(line) + ": "
	} else {
		msg += name + ": "
	}

	if l.Color {
		msg = colorLine + msg
		switch level {
		case DEBUG:
			msg += colorDebug
		case INFO:
			msg += colorInfo
		case WARN:
			msg += colorWarn
		case ERROR:
			msg += colorError
		default:
			msg += colorFatal
		}
	}
	return msg
}

func (l *minilogger) epilogue() string {
	if l.Color {
		return colorReset
	}
	return ""
}

func (l *minilogger) log(level Level, name, format string, arg ...interface{}) {
	if l.Level > level {
		return
	}
	l.Println(l.prologue(level, name) + fmt.Sprintf(format, arg...) + l.epilogue())
}

func log(level Level, name, format string, arg ...interface{}) {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, logger := range loggers {
		logger.log(level, name, format, arg...)
	}
}

func Debug(format string, arg ...interface{}) { log(DEBUG, "", format, arg...) }
func Info(format string, arg ...interface{})  { log(INFO, "", format, arg...) }
func Warn(format string, arg ...interface{})  { log(WARN, "", format, arg...) }
func Error(format string, arg ...interface{}) { log(ERROR, "", format, arg...) }

func Fatal(format string, arg ...interface{}) {
	log(FATAL, "", format, arg...)
	os.Exit(1)
}

// Init wires the default stderr logger at the given level, plus an
// optional file logger when logfile is non-empty.
func Init(level Level, logfile string) error {
	color := runtime.GOOS != "windows"
	AddLogger("stderr", os.Stderr, level, color)

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
		if err != nil {
			return errors.Wrap(err, "open logfile")
		}
		AddLogger("file", f, level, false)
	}
	return nil
}
