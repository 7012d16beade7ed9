package irc

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
)

// LogLevel classifies engine diagnostics.
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// LogFunc receives engine diagnostics: internally detected anomalies such as
// unparseable lines or transport errors. Ordinary protocol traffic is never
// logged here; that is the event callback's business. sublevel applies to
// LogDebug only.
type LogFunc func(level LogLevel, sublevel int, file string, line int, msg string)

// defaultLog writes diagnostics through the standard logger.
func defaultLog(level LogLevel, sublevel int, file string, line int, msg string) {
	_ = sublevel
	log.Printf("[%s] %s:%d %s", level, file, line, msg)
}

// logf formats a diagnostic and hands it to the installed log callback,
// tagging it with the caller's source location.
func (c *Client) logf(level LogLevel, sublevel int, format string, args ...interface{}) {
	fn := c.logFn
	if fn == nil {
		fn = defaultLog
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "???", 0
	}
	fn(level, sublevel, filepath.Base(file), line, fmt.Sprintf(format, args...))
}
