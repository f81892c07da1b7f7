// Package logger writes scan progress to a console.
//
// Output lines are prefixed with [HH:MM:SS] timestamps and filtered by level.
// Colour is used only when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a log severity, from most to least verbose.
type Level int

// Log levels.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name used in log lines.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel converts a level name (case-insensitive). Empty or unknown names
// map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the logging surface used by the scan drivers.
type Logger interface {
	Logf(level Level, format string, args ...any)
	LogFileChecked(path string, width, height int)
	LogFileFailed(path string, err error, suggestions string)
	LogSummary(all, ok, failed int, elapsed time.Duration)
}

// ConsoleLogger logs to a writer. It is safe for concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger writing to writer at the given
// minimum level. A nil writer discards everything.
func NewConsoleLogger(writer io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		level:       ParseLevel(level),
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// isTerminal reports whether w is a terminal that should get colour. The
// NO_COLOR convention is honoured through fatih/color.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok || file == nil {
		return false
	}

	fd := file.Fd()

	return (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && !color.NoColor
}

// Logf logs a formatted message at level.
func (cl *ConsoleLogger) Logf(level Level, format string, args ...any) {
	cl.write(level, fmt.Sprintf(format, args...), nil)
}

// LogFileChecked logs a successfully decoded file.
// Format: "[HH:MM:SS] [INFO] image:<path> OK (<w>x<h>)"
func (cl *ConsoleLogger) LogFileChecked(path string, width, height int) {
	cl.write(LevelInfo, fmt.Sprintf("image:%s OK (%dx%d)", path, width, height), color.New(color.FgGreen))
}

// LogFileFailed logs a file that could not be read or decoded, followed by
// any suggestions on their own lines.
func (cl *ConsoleLogger) LogFileFailed(path string, err error, suggestions string) {
	message := fmt.Sprintf("image:%s FAILED: %v", path, err)
	if suggestions != "" {
		message += "\n" + suggestions
	}

	cl.write(LevelError, message, color.New(color.FgRed))
}

// LogSummary logs the final totals.
// Format: "[HH:MM:SS] [INFO] All:<n> Ok:<n> Err:<n> in <elapsed>"
func (cl *ConsoleLogger) LogSummary(all, ok, failed int, elapsed time.Duration) {
	message := fmt.Sprintf("All:%d Ok:%d Err:%d in %s", all, ok, failed, elapsed.Round(time.Millisecond))

	highlight := color.New(color.FgGreen, color.Bold)
	if failed > 0 {
		highlight = color.New(color.FgYellow, color.Bold)
	}

	cl.write(LevelInfo, message, highlight)
}

func (cl *ConsoleLogger) write(level Level, message string, highlight *color.Color) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := cl.now().Format("15:04:05")

	var line string
	if cl.colorOutput {
		line = fmt.Sprintf("[%s] [%s] %s\n", ts, levelColor(level).Sprint(level), colorize(highlight, message))
	} else {
		line = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	_, _ = io.WriteString(cl.writer, line)
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelTrace:
		return color.New(color.FgHiBlack)
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

func colorize(highlight *color.Color, message string) string {
	if highlight == nil {
		return message
	}

	return highlight.Sprint(message)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) Logf(Level, string, ...any) {}

func (n *NoOpLogger) LogFileChecked(string, int, int) {}

func (n *NoOpLogger) LogFileFailed(string, error, string) {}

func (n *NoOpLogger) LogSummary(int, int, int, time.Duration) {}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)
