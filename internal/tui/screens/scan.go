package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/png-scan/internal/scanengine"
	"github.com/joe/png-scan/internal/tui/shared"
)

// maxNotes bounds the notes shown under the log.
const maxNotes = 3

// startResultMsg carries the outcome of Engine.Start.
type startResultMsg struct {
	err error
}

// ScanScreen drives the engine: one Step per tick while the scan runs.
type ScanScreen struct {
	engine   *scanengine.Engine
	bridge   *shared.EventBridge
	interval time.Duration
	spinner  spinner.Model

	status   scanengine.Status
	stepping bool
	notes    []string
	err      error
	width    int
}

// NewScanScreen creates a scan screen. bridge may be nil when nothing
// forwards engine events.
func NewScanScreen(engine *scanengine.Engine, bridge *shared.EventBridge, interval time.Duration) *ScanScreen {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = shared.LabelStyle()

	return &ScanScreen{
		engine:   engine,
		bridge:   bridge,
		interval: interval,
		spinner:  s,
		status:   engine.Status(),
	}
}

// Init starts the scan and the tick loop.
func (s ScanScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.spinner.Tick, shared.TickCmd(s.interval), s.startCmd()}
	if s.bridge != nil {
		cmds = append(cmds, s.bridge.ListenCmd())
	}

	return tea.Batch(cmds...)
}

// Status returns the engine status as of the last update.
func (s ScanScreen) Status() scanengine.Status {
	return s.status
}

// Update implements tea.Model
func (s ScanScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

		return s, nil
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)

		return s, cmd
	case shared.TickMsg:
		return s.handleTick()
	case shared.StepDoneMsg:
		s.stepping = false
		s.status = s.engine.Status()

		return s, nil
	case startResultMsg:
		s.err = msg.err
		s.status = s.engine.Status()

		return s, nil
	case shared.EngineEventMsg:
		s = s.handleEvent(msg.Event)
		if s.bridge == nil {
			return s, nil
		}

		return s, s.bridge.ListenCmd()
	}

	return s, nil
}

// View implements tea.Model
func (s ScanScreen) View() string {
	return shared.RenderBox(s.RenderContent())
}

// RenderContent renders the screen without its frame.
func (s ScanScreen) RenderContent() string {
	pathWidth := max(s.width-shared.DefaultPadding*6, shared.MinContentWidth)

	sections := []string{
		shared.RenderTitle("PNG scan"),
		shared.RenderLabel("Root: ") + s.engine.Root(),
		s.renderState(pathWidth),
		shared.RenderActivityLog("Activity", s.status.Log, shared.ActivityLogEntries),
	}

	if errs := shared.RenderErrorList(s.status.Log, pathWidth); errs != "" {
		sections = append(sections, shared.RenderLabel("Recent failures")+"\n"+errs)
	}

	if s.err != nil {
		sections = append(sections, shared.RenderError("Error: "+s.err.Error()))
	}

	if len(s.notes) > 0 {
		sections = append(sections, shared.RenderDim(strings.Join(s.notes, "\n")))
	}

	sections = append(sections,
		s.renderTotals(),
		shared.RenderDim("s start/stop • c clear • a about • q quit"),
	)

	return strings.Join(sections, "\n\n")
}

func (s ScanScreen) handleEvent(event scanengine.Event) ScanScreen {
	switch ev := event.(type) {
	case scanengine.ScanStarted:
		s.notes = nil
	case scanengine.DirectorySkipped:
		s = s.addNote(fmt.Sprintf("skipped %s: %v", ev.Dir, ev.Err))
	case scanengine.ScanComplete:
		s = s.addNote(fmt.Sprintf("scan complete in %s", shared.FormatDuration(ev.Elapsed)))
	}

	return s
}

func (s ScanScreen) addNote(note string) ScanScreen {
	s.notes = append(s.notes, note)
	if len(s.notes) > maxNotes {
		s.notes = s.notes[len(s.notes)-maxNotes:]
	}

	return s
}

func (s ScanScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case shared.KeyCtrlC, "q":
		return s, tea.Quit
	case "s":
		if s.status.Running {
			s.engine.Stop()
			s.status = s.engine.Status()

			return s, nil
		}

		return s, s.startCmd()
	case "c":
		s.engine.Clear()
		s.status = s.engine.Status()
		s.notes = nil
		s.err = nil

		return s, nil
	case "a":
		return s, func() tea.Msg { return shared.ShowAboutMsg{} }
	}

	return s, nil
}

// handleTick refreshes the status and, while the scan runs, checks the next
// file in the background. Only one Step is in flight at a time.
func (s ScanScreen) handleTick() (tea.Model, tea.Cmd) {
	s.status = s.engine.Status()
	cmds := []tea.Cmd{shared.TickCmd(s.interval)}

	if s.status.Running && !s.stepping {
		s.stepping = true
		engine := s.engine
		cmds = append(cmds, func() tea.Msg {
			return shared.StepDoneMsg{More: engine.Step()}
		})
	}

	return s, tea.Batch(cmds...)
}

func (s ScanScreen) renderState(pathWidth int) string {
	var state string

	switch {
	case s.status.Running:
		state = s.spinner.View() + " Scanning"
	case s.status.Done:
		state = shared.RenderSuccess("✓ Done")
	case s.status.Active():
		state = shared.RenderWarning("Paused")
	default:
		state = shared.RenderDim("Idle: press s to start")
	}

	if s.status.CurrentFile == "" {
		return state
	}

	current := shared.TruncatePath(s.status.CurrentFile, pathWidth)
	if s.status.Width > 0 {
		current += fmt.Sprintf(" (%dx%d)", s.status.Width, s.status.Height)
	}

	return state + "\n" + shared.RenderLabel("Current: ") + current
}

func (s ScanScreen) renderTotals() string {
	stats := s.status.Stats
	totals := fmt.Sprintf("All: %d  Ok: %s  Err: %s",
		stats.All,
		shared.RenderSuccess(fmt.Sprint(stats.OK)),
		shared.RenderError(fmt.Sprint(stats.Err)),
	)

	if s.status.SkippedDirs > 0 {
		totals += "  " + shared.RenderWarning(fmt.Sprintf("Skipped dirs: %d", s.status.SkippedDirs))
	}

	if s.status.Elapsed > 0 {
		totals += shared.RenderDim(fmt.Sprintf("  •  %s  •  %s",
			shared.FormatDuration(s.status.Elapsed), shared.FormatRate(s.status.FilesPerSecond())))
	}

	return totals
}

func (s ScanScreen) startCmd() tea.Cmd {
	engine := s.engine

	return func() tea.Msg {
		return startResultMsg{err: engine.Start()}
	}
}
