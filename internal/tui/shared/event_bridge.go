package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/png-scan/internal/scanengine"
)

// eventBufferSize keeps the engine from blocking on a slow UI.
const eventBufferSize = 100

// EngineEventMsg wraps a scanengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event scanengine.Event
}

// EventBridge adapts scanengine events to bubble tea messages.
// It implements scanengine.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.Mutex
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBufferSize),
	}
}

// Close closes the event channel. Later events are dropped.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}

// Emit implements scanengine.EventEmitter. It never blocks: when the buffer
// is full the event is dropped. The scan view reads totals from the engine's
// status, so a dropped event loses nothing but a log note.
func (b *EventBridge) Emit(event scanengine.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- EngineEventMsg{Event: event}:
	default:
	}
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Issue it again after handling each EngineEventMsg.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil
		}

		return msg
	}
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}
