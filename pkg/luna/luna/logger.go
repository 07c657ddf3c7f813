package luna

import (
	"io"
	"strings"
	"sync"
)

// Logger receives finished event lines, without their trailing newline.
// Implementations must be safe for concurrent use.
type Logger interface {
	LogLine(line string)
}

type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) LogLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, line+"\n")
}

// WriterLogger writes each line to w. Write errors are dropped.
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// MemoryLogger keeps every line it receives. Tests use it to inspect events.
type MemoryLogger struct {
	mu    sync.Mutex
	lines []string
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) LogLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// Lines returns a copy of the lines logged so far.
func (l *MemoryLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// String joins the lines, each ending with a newline.
func (l *MemoryLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}

type nullLogger struct{}

func (nullLogger) LogLine(string) {}

// NullLogger discards everything.
func NullLogger() Logger {
	return nullLogger{}
}
