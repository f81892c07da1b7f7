package scanengine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stats counts the files checked in a session. All is the number of files
// pulled from the walk so far, not the size of the tree.
type Stats struct {
	All int
	OK  int
	Err int
}

// LogEntry is one checked file.
type LogEntry struct {
	Path        string
	Width       int
	Height      int
	Err         error
	Suggestions string
}

// Failed reports whether the file failed to decode.
func (l LogEntry) Failed() bool {
	return l.Err != nil
}

// String renders the entry as a log line.
func (l LogEntry) String() string {
	if l.Err != nil {
		return fmt.Sprintf("image:%s FAILED: %v", l.Path, l.Err)
	}

	return fmt.Sprintf("image:%s OK (%dx%d)", l.Path, l.Width, l.Height)
}

// Status is a snapshot of a session, returned by Engine.Status.
type Status struct {
	ID      uuid.UUID
	Root    string
	Running bool
	Done    bool
	Stats   Stats

	// CurrentFile is the file checked last; Width and Height are its
	// dimensions, zero when it failed.
	CurrentFile string
	Width       int
	Height      int

	SkippedDirs int

	// Log holds the most recent results, oldest first, at most LogLimit.
	Log []LogEntry

	StartTime time.Time
	EndTime   time.Time
	Elapsed   time.Duration
}

// Active reports whether a session exists, running or paused.
func (s Status) Active() bool {
	return s.ID != uuid.Nil && !s.Done
}

// FilesPerSecond is the check rate over the session so far.
func (s Status) FilesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}

	return float64(s.Stats.All) / s.Elapsed.Seconds()
}

func (s *Status) appendLog(entry LogEntry) {
	s.Log = append(s.Log, entry)
	if excess := len(s.Log) - LogLimit; excess > 0 {
		s.Log = append(s.Log[:0:0], s.Log[excess:]...)
	}
}
