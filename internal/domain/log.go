package domain

import "strings"

// Level is the android log priority of a record
type Level int

const (
	LevelNone Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelAssert
)

// LevelNames lists the accepted --level values
var LevelNames = []string{
	"trace", "debug", "info", "warn", "error", "fatal", "assert",
	"T", "D", "I", "W", "E", "F", "A",
}

// Priority returns the priority of a level (higher = more severe)
func (l Level) Priority() int {
	return int(l)
}

// String returns the lower case level name
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	case LevelAssert:
		return "assert"
	default:
		return "none"
	}
}

// Letter returns the single letter logcat uses for the level
func (l Level) Letter() string {
	switch l {
	case LevelTrace:
		return "V"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	case LevelFatal:
		return "F"
	case LevelAssert:
		return "A"
	default:
		return "-"
	}
}

// ParseLevel converts a level name or logcat letter to a Level.
// Unknown values map to LevelNone.
func ParseLevel(s string) Level {
	switch strings.TrimSpace(s) {
	case "T", "V", "t", "v", "trace", "Trace", "verbose", "Verbose":
		return LevelTrace
	case "D", "d", "debug", "Debug":
		return LevelDebug
	case "I", "i", "info", "Info":
		return LevelInfo
	case "W", "w", "warn", "Warn", "warning", "Warning":
		return LevelWarn
	case "E", "e", "error", "Error":
		return LevelError
	case "F", "f", "fatal", "Fatal":
		return LevelFatal
	case "A", "a", "assert", "Assert":
		return LevelAssert
	default:
		return LevelNone
	}
}

// Record is one parsed log line
type Record struct {
	Timestamp string `json:"timestamp,omitempty"`
	Level     Level  `json:"-"`
	Tag       string `json:"tag,omitempty"`
	Process   string `json:"process,omitempty"` // PID as printed by logcat
	Thread    string `json:"thread,omitempty"`
	Message   string `json:"message"`
	Raw       string `json:"raw,omitempty"`
}
