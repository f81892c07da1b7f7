package shared

import (
	"github.com/joe/png-scan/internal/scanengine"
)

// TransitionToScanMsg is sent by InputScreen when a root has been validated
type TransitionToScanMsg struct {
	Root string
}

// EngineReadyMsg is sent once the engine for a root has been opened. Bridge
// carries the engine's events.
type EngineReadyMsg struct {
	Engine *scanengine.Engine
	Bridge *EventBridge
}

// ErrorMsg is sent when opening a root fails
type ErrorMsg struct {
	Err error
}

// ShowAboutMsg asks the app to show the CPU feature screen
type ShowAboutMsg struct{}

// CloseAboutMsg returns from the CPU feature screen
type CloseAboutMsg struct{}

// StepDoneMsg is sent when a background Step returns
type StepDoneMsg struct {
	More bool
}
