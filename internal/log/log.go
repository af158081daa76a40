// Package log is wildo's category/level logger. Output goes to a debug file
// (opened through tea.LogToFile so it never fights the TUI for the terminal)
// and every entry is also published for in-process listeners such as the
// status bar.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/pubsub"
)

// Level is entry severity.
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
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatRegistry Category = "registry" // entity lifetimes
	CatAction   Category = "action"   // action application
	CatStore    Category = "store"    // snapshot persistence
	CatConfig   Category = "config"   // configuration loading/saving
	CatUI       Category = "ui"       // model updates and rendering
	CatInput    Category = "input"    // key routing and insert mode
	CatWatcher  Category = "watcher"  // snapshot file watching
	CatCache    Category = "cache"    // row cache
	CatTrace    Category = "trace"    // tracing provider
)

// Entry is one formatted log record as delivered to listeners.
type Entry struct {
	Time     time.Time
	Level    Level
	Category Category
	Message  string
	// Fields is the rendered key=value suffix, empty when there are none.
	Fields   string
	Line     string
}

// Logger writes entries to a file and fans them out to subscribers.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[Entry]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func install(l *Logger) {
	defaultMu.Lock()
	prev := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()
	if prev != nil {
		prev.broker.Close()
	}
}

// Init opens path for appending and installs it as the global logger.
// The returned function closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-chosen debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(newLogger(f))
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog is Init through tea.LogToFile, which also redirects the
// standard library logger used by bubbletea internals.
func InitWithTeaLog(path, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(newLogger(f))
	return func() { _ = f.Close() }, nil
}

// InitWriter installs a logger writing to w. Used by tests and by the app when
// file logging is disabled but the status bar still needs entries.
func InitWriter(w io.Writer) {
	install(newLogger(w))
}

func newLogger(w io.Writer) *Logger {
	return &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[Entry](),
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs at error level with err attached as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

// format renders "2025-12-06T10:45:00 [ERROR] [store] message key=value".
func format(now time.Time, level Level, cat Category, msg string, fields []any) string {
	line := fmt.Sprintf("%s [%s] [%s] %s", now.Format("2006-01-02T15:04:05"), level, cat, msg)
	if f := formatFields(fields); f != "" {
		line += " " + f
	}
	return line
}

func formatFields(fields []any) string {
	parts := make([]string, 0, (len(fields)+1)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
	}
	if len(fields)%2 != 0 {
		parts = append(parts, fmt.Sprintf("%v=<missing>", fields[len(fields)-1]))
	}
	return strings.Join(parts, " ")
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	now := time.Now()
	line := format(now, level, cat, msg, fields)
	if l.writer != nil {
		_, _ = io.WriteString(l.writer, line+"\n")
	}

	l.broker.Publish(pubsub.CreatedEvent, Entry{
		Time:     now,
		Level:    level,
		Category: cat,
		Message:  msg,
		Fields:   formatFields(fields),
		Line:     line,
	})
}

// LogEvent is the message a listener delivers to Update.
type LogEvent = pubsub.Event[Entry]

// LogListener delivers log entries as bubbletea messages.
type LogListener = pubsub.ContinuousListener[Entry]

// NewListener subscribes to the global logger for the lifetime of ctx.
// It returns nil when no logger is installed.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener[Entry](ctx, l.broker)
}
