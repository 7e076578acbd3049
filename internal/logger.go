package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[LogLevel]string{
	LogLevelError: "error",
	LogLevelWarn:  "warn",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLogLevel accepts error, warn(ing), info or debug in any case
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return LogLevelWarn, fmt.Errorf("unknown log level %q", s)
}

var (
	logLevel = LogLevelWarn
	logger   = log.New(os.Stderr, "ragchat ", log.LstdFlags)
)

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
}

// SetVerbose enables verbose (debug) logging. The chat composer shares the
// terminal with the log, so the quiet default only reports warnings.
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelWarn)
	}
}

// SetLogOutput redirects log output
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// componentLog tags every line with the part of the session it came from,
// e.g. "[warn] store: value too large"
type componentLog struct {
	name string
}

var (
	storeLog   = componentLog{"store"}
	threadLog  = componentLog{"threads"}
	sessionLog = componentLog{"session"}
	clientLog  = componentLog{"client"}
	configLog  = componentLog{"config"}
)

func (c componentLog) printf(level LogLevel, format string, args ...interface{}) {
	if logLevel < level {
		return
	}
	prefix := "[" + level.String() + "] "
	if c.name != "" {
		prefix += c.name + ": "
	}
	logger.Printf(prefix+format, args...)
}

func (c componentLog) Errorf(format string, args ...interface{}) {
	c.printf(LogLevelError, format, args...)
}

func (c componentLog) Warnf(format string, args ...interface{}) {
	c.printf(LogLevelWarn, format, args...)
}

func (c componentLog) Infof(format string, args ...interface{}) {
	c.printf(LogLevelInfo, format, args...)
}

func (c componentLog) Debugf(format string, args ...interface{}) {
	c.printf(LogLevelDebug, format, args...)
}

// cliLog carries messages from the command layer, which has no tag
var cliLog = componentLog{}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	cliLog.Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	cliLog.Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	cliLog.Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	cliLog.Debugf(format, args...)
}
