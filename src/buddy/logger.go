package buddy

import (
	"log"
	"os"
)

// Level gives diagnostics a severity so a caller can dial down verbosity
// without losing warnings it actually cares about: forced pool removal,
// pool-size rounding, deinit failures, and cross-zone free failures all
// log through the same leveled helpers.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

// Logger is the leveled sink the allocator writes diagnostics to. It is a
// collaborator, not a hard dependency: callers embedding this allocator in
// a larger program may redirect it (e.g. to a null sink in tests).
type Logger struct {
	std    *log.Logger
	minLvl Level
}

// NewLogger returns a Logger writing to os.Stderr at, and above, minLvl.
func NewLogger(minLvl Level) *Logger {
	return &Logger{std: log.New(os.Stderr, "", log.LstdFlags), minLvl: minLvl}
}

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if l == nil || lvl < l.minLvl {
		return
	}
	l.std.Printf("["+lvl.String()+"] "+format, args...)
}

func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarning, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// logger is the package-level default sink used by Zone and ZoneManager
// methods that have no other way to surface a warning (e.g. Deinit's
// best-effort pool teardown, or a free no zone accepts).
// Replace it (e.g. with NewLogger(LevelError) to silence INFO/WARNING) via
// SetLogger before use.
var logger = NewLogger(LevelWarning)

// SetLogger replaces the package-level diagnostic sink.
func SetLogger(l *Logger) {
	if l != nil {
		logger = l
	}
}
