package scanengine

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/joe/png-scan/pkg/errors"
)

// Event is the interface implemented by all scan engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// ScanStarted is emitted when a new scan session begins.
type ScanStarted struct {
	ID   uuid.UUID
	Root string
}

func (ScanStarted) isEvent() {}

// FileChecked is emitted for every file that decoded cleanly.
type FileChecked struct {
	ID     uuid.UUID
	Path   string
	Width  int
	Height int
	Size   int64
}

func (FileChecked) isEvent() {}

// FileFailed is emitted for every file that could not be read or decoded.
// Err is enriched with a category and suggestions.
type FileFailed struct {
	ID          uuid.UUID
	Path        string
	Err         error
	Category    pkgerrors.ErrorCategory
	Suggestions string
}

func (FileFailed) isEvent() {}

// DirectorySkipped is emitted when a directory cannot be listed. The walk
// carries on as if it were empty.
type DirectorySkipped struct {
	ID  uuid.UUID
	Dir string
	Err error
}

func (DirectorySkipped) isEvent() {}

// ScanComplete is emitted once, when a session runs out of files.
type ScanComplete struct {
	ID          uuid.UUID
	Stats       Stats
	SkippedDirs int
	Elapsed     time.Duration
}

func (ScanComplete) isEvent() {}

// ScanCleared is emitted when a session is discarded.
type ScanCleared struct {
	ID uuid.UUID
}

func (ScanCleared) isEvent() {}
