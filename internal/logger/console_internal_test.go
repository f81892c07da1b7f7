//nolint:testpackage // White-box tests pin the clock
package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func newTestLogger(level string) (*ConsoleLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, level)
	logger.now = func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC) }

	return logger, buf
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		configured string
		message    Level
		want       bool
	}{
		{"trace", LevelTrace, true},
		{"debug", LevelTrace, false},
		{"debug", LevelDebug, true},
		{"info", LevelDebug, false},
		{"info", LevelInfo, true},
		{"", LevelInfo, true},
		{"bogus", LevelDebug, false},
		{"WARN", LevelInfo, false},
		{"warn", LevelWarn, true},
		{"error", LevelWarn, false},
		{"error", LevelError, true},
	}

	for _, tt := range tests {
		logger, buf := newTestLogger(tt.configured)
		logger.Logf(tt.message, "msg %d", 1)

		if got := strings.Contains(buf.String(), "msg 1"); got != tt.want {
			t.Errorf("level %q, message %s: logged=%v, want %v", tt.configured, tt.message, got, tt.want)
		}
	}
}

func TestLineFormat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, buf := newTestLogger("info")

	logger.LogFileChecked("/p/a.png", 640, 480)
	logger.LogFileFailed("/p/b.png", errors.New("not a PNG file"), "  • try again")
	logger.LogSummary(2, 1, 1, 1500*time.Millisecond)

	g.Expect(buf.String()).To(Equal(
		"[13:04:05] [INFO] image:/p/a.png OK (640x480)\n" +
			"[13:04:05] [ERROR] image:/p/b.png FAILED: not a PNG file\n  • try again\n" +
			"[13:04:05] [INFO] All:2 Ok:1 Err:1 in 1.5s\n"))
}

func TestNonTerminalWritersGetNoColour(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, buf := newTestLogger("info")
	g.Expect(logger.colorOutput).To(BeFalse())

	logger.LogFileFailed("/p/b.png", errors.New("boom"), "")
	g.Expect(buf.String()).NotTo(ContainSubstring("\x1b["))
}

func TestNilWriterDiscards(t *testing.T) {
	t.Parallel()

	logger := NewConsoleLogger(nil, "trace")
	logger.Logf(LevelError, "ignored")
	logger.LogSummary(0, 0, 0, 0)
}

func TestParseLevelAndString(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(ParseLevel(" Debug ")).To(Equal(LevelDebug))
	g.Expect(ParseLevel("warning")).To(Equal(LevelWarn))
	g.Expect(ParseLevel("nope")).To(Equal(LevelInfo))
	g.Expect(LevelError.String()).To(Equal("ERROR"))
	g.Expect(Level(42).String()).To(Equal("INFO"))
}

func TestNoOpLogger(t *testing.T) {
	t.Parallel()

	var logger Logger = NewNoOpLogger()
	logger.Logf(LevelError, "x")
	logger.LogFileChecked("a", 1, 1)
	logger.LogFileFailed("a", errors.New("x"), "")
	logger.LogSummary(1, 1, 0, time.Second)
}
