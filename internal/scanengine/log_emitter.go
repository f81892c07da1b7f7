package scanengine

import (
	"github.com/joe/png-scan/internal/logger"
)

// LogEmitter writes engine events to a logger. It drives console mode.
type LogEmitter struct {
	logger logger.Logger
}

// NewLogEmitter creates a LogEmitter.
func NewLogEmitter(log logger.Logger) *LogEmitter {
	return &LogEmitter{logger: log}
}

// Emit logs one event.
func (l *LogEmitter) Emit(event Event) {
	switch ev := event.(type) {
	case ScanStarted:
		l.logger.Logf(logger.LevelInfo, "scanning %s", ev.Root)
		l.logger.Logf(logger.LevelDebug, "session %s", ev.ID)
	case FileChecked:
		l.logger.LogFileChecked(ev.Path, ev.Width, ev.Height)
	case FileFailed:
		l.logger.LogFileFailed(ev.Path, ev.Err, ev.Suggestions)
	case DirectorySkipped:
		l.logger.Logf(logger.LevelWarn, "skipped %s: %v", ev.Dir, ev.Err)
	case ScanComplete:
		l.logger.LogSummary(ev.Stats.All, ev.Stats.OK, ev.Stats.Err, ev.Elapsed)

		if ev.SkippedDirs > 0 {
			l.logger.Logf(logger.LevelWarn, "%d directories could not be listed", ev.SkippedDirs)
		}
	case ScanCleared:
		l.logger.Logf(logger.LevelDebug, "session %s cleared", ev.ID)
	}
}
