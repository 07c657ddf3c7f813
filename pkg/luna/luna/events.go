package luna

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Level orders events by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// ParseLevel converts debug, info, warn or error to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
}

// Event is one structured log record.
type Event struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	File      string `json:"file,omitempty"`
	Message   string `json:"message"`
}

// EventLog writes levelled events as text or JSON lines.
type EventLog struct {
	out    Logger
	format string
	level  Level
	now    func() time.Time
}

// NewEventLog creates an event log writing to out. Events below level are dropped.
func NewEventLog(out Logger, level, format string) (*EventLog, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return &EventLog{out: out, format: format, level: lvl, now: time.Now}, nil
}

// DiscardEvents returns an event log that drops everything.
func DiscardEvents() *EventLog {
	return &EventLog{out: NullLogger(), format: "text", level: LevelError + 1, now: time.Now}
}

// Enabled reports whether events at level are written.
func (l *EventLog) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// Log writes one event about file, which may be empty.
func (l *EventLog) Log(level Level, file, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	entry := Event{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     level.String(),
		File:      file,
		Message:   fmt.Sprintf(format, args...),
	}

	if l.format == "json" {
		l.writeJSON(entry)
	} else {
		l.writeText(entry)
	}
}

func (l *EventLog) Debug(file, format string, args ...any) { l.Log(LevelDebug, file, format, args...) }
func (l *EventLog) Info(file, format string, args ...any)  { l.Log(LevelInfo, file, format, args...) }
func (l *EventLog) Warn(file, format string, args ...any)  { l.Log(LevelWarn, file, format, args...) }
func (l *EventLog) Error(file, format string, args ...any) { l.Log(LevelError, file, format, args...) }

func (l *EventLog) writeJSON(entry Event) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.out.LogLine(string(data))
}

func (l *EventLog) writeText(entry Event) {
	level := strings.ToUpper(entry.Level)
	if entry.File != "" {
		l.out.LogLine(fmt.Sprintf("%s %s %s: %s", entry.Timestamp, level, entry.File, entry.Message))
		return
	}
	l.out.LogLine(fmt.Sprintf("%s %s %s", entry.Timestamp, level, entry.Message))
}
