// Package tui is the interactive front end: pick a root, watch it being
// checked, look at the CPU features.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/png-scan/internal/config"
	"github.com/joe/png-scan/internal/scanengine"
	"github.com/joe/png-scan/internal/tui/screens"
	"github.com/joe/png-scan/internal/tui/shared"
	"github.com/joe/png-scan/pkg/cpufeatures"
)

// Phase is the screen currently in front.
type Phase int

// Phases.
const (
	PhaseInput Phase = iota
	PhaseScan
	PhaseAbout
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseAbout:
		return "about"
	default:
		return "input"
	}
}

// OpenFunc opens an engine for root, sending its events to emitter.
type OpenFunc func(root string, emitter scanengine.EventEmitter) (*scanengine.Engine, error)

// AppOption configures an AppModel.
type AppOption func(*AppModel)

// WithOpener replaces how engines are opened.
func WithOpener(open OpenFunc) AppOption {
	return func(a *AppModel) {
		a.open = open
	}
}

// AppModel is the top-level model. It owns the engine and the event bridge
// of the current scan.
type AppModel struct {
	config    *config.Config
	phase     Phase
	prevPhase Phase

	input   screens.InputScreen
	scan    screens.ScanScreen
	about   screens.AboutScreen
	hasScan bool

	engine *scanengine.Engine
	bridge *shared.EventBridge
	open   OpenFunc
	width  int
	height int
}

// NewAppModel creates the app at the input phase.
func NewAppModel(cfg *config.Config, opts ...AppOption) *AppModel {
	app := &AppModel{
		config: cfg,
		phase:  PhaseInput,
		input:  *screens.NewInputScreen(cfg),
		about:  *screens.NewAboutScreen(cpufeatures.Detect()),
	}

	app.open = func(root string, emitter scanengine.EventEmitter) (*scanengine.Engine, error) {
		return scanengine.Open(cfg, root, scanengine.WithEventEmitter(emitter))
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Close releases the engine and the event bridge.
func (a AppModel) Close() {
	if a.engine != nil {
		a.engine.Close()
	}

	if a.bridge != nil {
		a.bridge.Close()
	}
}

// Engine returns the engine of the current scan, or nil.
func (a AppModel) Engine() *scanengine.Engine {
	return a.engine
}

// Init implements tea.Model. Without interactive mode the configured root is
// opened right away.
func (a AppModel) Init() tea.Cmd {
	if a.config.InteractiveMode {
		return a.input.Init()
	}

	root := a.config.Path

	return func() tea.Msg {
		return shared.TransitionToScanMsg{Root: root}
	}
}

// Phase returns the screen in front.
func (a AppModel) Phase() Phase {
	return a.phase
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.resize(msg)
	case shared.TransitionToScanMsg:
		return a, a.openCmd(msg.Root)
	case shared.EngineReadyMsg:
		return a.startScan(msg)
	case shared.ErrorMsg:
		a.input = a.input.WithError(msg.Err)
		a.phase = PhaseInput

		return a, nil
	case shared.ShowAboutMsg:
		if a.phase != PhaseAbout {
			a.prevPhase = a.phase
			a.phase = PhaseAbout
		}

		return a, nil
	case shared.CloseAboutMsg:
		if a.phase == PhaseAbout {
			a.phase = a.prevPhase
		}

		return a, nil
	}

	return a.delegate(msg)
}

// View implements tea.Model
func (a AppModel) View() string {
	switch a.phase {
	case PhaseScan:
		return a.scan.View()
	case PhaseAbout:
		return a.about.View()
	default:
		return a.input.View()
	}
}

// delegate hands msg to the screen in front. While the about screen is up,
// everything but keys still reaches the scan so ticks keep it going.
func (a AppModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, isKey := msg.(tea.KeyMsg)

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch {
	case a.phase == PhaseAbout && isKey:
		model, cmd = a.about.Update(msg)
		a.about = model.(screens.AboutScreen) //nolint:forcetypeassert // Screens return their own type
	case a.phase == PhaseInput:
		model, cmd = a.input.Update(msg)
		a.input = model.(screens.InputScreen) //nolint:forcetypeassert // Screens return their own type
	case a.hasScan:
		model, cmd = a.scan.Update(msg)
		a.scan = model.(screens.ScanScreen) //nolint:forcetypeassert // Screens return their own type
	}

	return a, cmd
}

func (a AppModel) openCmd(root string) tea.Cmd {
	open := a.open
	bridge := shared.NewEventBridge()

	return func() tea.Msg {
		engine, err := open(root, bridge)
		if err != nil {
			bridge.Close()

			return shared.ErrorMsg{Err: err}
		}

		return shared.EngineReadyMsg{Engine: engine, Bridge: bridge}
	}
}

func (a AppModel) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	model, _ := a.input.Update(msg)
	a.input = model.(screens.InputScreen) //nolint:forcetypeassert // Screens return their own type

	model, _ = a.about.Update(msg)
	a.about = model.(screens.AboutScreen) //nolint:forcetypeassert // Screens return their own type

	if a.hasScan {
		model, _ = a.scan.Update(msg)
		a.scan = model.(screens.ScanScreen) //nolint:forcetypeassert // Screens return their own type
	}

	return a, nil
}

// startScan swaps in the new engine, releasing the previous one.
func (a AppModel) startScan(msg shared.EngineReadyMsg) (tea.Model, tea.Cmd) {
	a.Close()

	a.engine = msg.Engine
	a.bridge = msg.Bridge
	a.scan = *screens.NewScanScreen(msg.Engine, msg.Bridge, a.config.Interval)
	a.hasScan = true
	a.phase = PhaseScan

	if a.width > 0 {
		model, _ := a.scan.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.scan = model.(screens.ScanScreen) //nolint:forcetypeassert // Screens return their own type
	}

	return a, a.scan.Init()
}
