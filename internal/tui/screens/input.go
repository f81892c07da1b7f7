package screens

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/png-scan/internal/config"
	"github.com/joe/png-scan/internal/tui/shared"
)

// maxCompletionsShown is how many completions are listed at once.
const maxCompletionsShown = 8

// InputScreen asks for the scan root.
type InputScreen struct {
	rootInput       textinput.Model
	completions     []string
	completionIndex int
	showCompletions bool
	validationError string
}

// NewInputScreen creates an input screen, prefilled with the configured root.
func NewInputScreen(cfg *config.Config) *InputScreen {
	rootInput := textinput.New()
	rootInput.Placeholder = "/path/to/pictures or sftp://user@host/path"
	rootInput.Prompt = shared.PromptArrow
	rootInput.SetValue(cfg.Path)
	rootInput.Focus()

	return &InputScreen{rootInput: rootInput}
}

// Init implements tea.Model
func (s InputScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s InputScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.rootInput.Width = max(msg.Width-shared.DefaultPadding*4, shared.MinContentWidth)

		return s, nil
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	s.rootInput, cmd = s.rootInput.Update(msg)

	return s, cmd
}

// Value returns the root typed so far.
func (s InputScreen) Value() string {
	return s.rootInput.Value()
}

// View implements tea.Model
func (s InputScreen) View() string {
	content := shared.RenderTitle("PNG scan") + "\n\n" +
		shared.RenderSubtitle("Choose the directory or file to check") + "\n\n" +
		shared.RenderLabel("Root:") + "\n" +
		s.rootInput.View() + "\n"

	if s.showCompletions && len(s.completions) > 0 {
		content += formatCompletionList(s.completions, s.completionIndex) + "\n"
	}

	if s.validationError != "" {
		content += "\n" + shared.RenderError("Error: "+s.validationError) + "\n"
	}

	content += "\n" + shared.RenderDim("Tab/Shift+Tab to complete • Enter to scan • Esc to clear • Ctrl+C to exit")

	return shared.RenderBox(content)
}

// WithError returns the screen showing err, as when a root could not be opened.
func (s InputScreen) WithError(err error) InputScreen {
	s.validationError = err.Error()
	s.showCompletions = false

	return s
}

func (s InputScreen) applyCompletion(completion string) InputScreen {
	s.rootInput.SetValue(completion)
	s.rootInput.CursorEnd()

	return s
}

func (s InputScreen) handleEnter() (tea.Model, tea.Cmd) {
	s.showCompletions = false

	root := strings.TrimSpace(s.rootInput.Value())
	if err := config.ValidateRoot(expandHomePath(root)); err != nil {
		s.validationError = err.Error()

		return s, nil
	}

	root = expandHomePath(root)

	return s, func() tea.Msg {
		return shared.TransitionToScanMsg{Root: root}
	}
}

func (s InputScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return s, tea.Quit
	case tea.KeyEsc:
		s.rootInput.SetValue("")
		s.showCompletions = false
		s.validationError = ""

		return s, nil
	case tea.KeyTab:
		return s.handleTabCompletion(), nil
	case tea.KeyShiftTab:
		return s.handleShiftTabCompletion(), nil
	case tea.KeyEnter:
		return s.handleEnter()
	}

	s.showCompletions = false
	s.validationError = ""

	var cmd tea.Cmd
	s.rootInput, cmd = s.rootInput.Update(msg)

	return s, cmd
}

func (s InputScreen) handleShiftTabCompletion() InputScreen {
	if s.showCompletions && len(s.completions) > 0 {
		s.completionIndex--
		if s.completionIndex < 0 {
			s.completionIndex = len(s.completions) - 1
		}

		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

func (s InputScreen) handleTabCompletion() InputScreen {
	if !s.showCompletions {
		s.completions = getPathCompletions(s.rootInput.Value())
		s.completionIndex = 0
		s.showCompletions = true

		// A single match completes at once.
		if len(s.completions) == 1 {
			s = s.applyCompletion(s.completions[0])
			s.showCompletions = false
		}
	} else if len(s.completions) > 0 {
		s.completionIndex = (s.completionIndex + 1) % len(s.completions)
		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

// completionWindow centres the visible slice of completions on current.
func completionWindow(current, maxShow, total int) (start, end int) {
	start = max(current-maxShow/2, 0) //nolint:mnd // Half the window above the selection

	end = start + maxShow
	if end > total {
		end = total
		start = max(end-maxShow, 0)
	}

	return start, end
}

func formatCompletionList(completions []string, current int) string {
	start, end := completionWindow(current, maxCompletionsShown, len(completions))

	lines := []string{shared.CompletionStyle().Render("  " + strings.Repeat("─", shared.MinContentWidth))}

	if start > 0 {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	for i := start; i < end; i++ {
		base := getBaseName(completions[i])
		if i == current {
			lines = append(lines, shared.CompletionSelectedStyle().Render("  "+shared.PromptArrow+base))
		} else {
			lines = append(lines, shared.CompletionStyle().Render("    "+base))
		}
	}

	if end < len(completions) {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	return strings.Join(lines, "\n")
}

func expandHomePath(input string) string {
	if !strings.HasPrefix(input, "~") {
		return input
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return input
	}

	return filepath.Join(home, input[1:])
}

// getBaseName returns the last element of path, keeping a trailing slash.
func getBaseName(path string) string {
	trimmed := strings.TrimSuffix(path, string(filepath.Separator))

	base := trimmed
	if idx := strings.LastIndex(trimmed, string(filepath.Separator)); idx != -1 {
		base = trimmed[idx+1:]
	}

	if strings.HasSuffix(path, string(filepath.Separator)) {
		return base + string(filepath.Separator)
	}

	return base
}

// getPathCompletions lists local entries starting with the typed prefix.
// Directories get a trailing separator. Remote roots are not completed.
func getPathCompletions(input string) []string {
	if strings.Contains(input, "://") {
		return nil
	}

	if input == "" {
		input = "." + string(filepath.Separator)
	}

	dir, prefix := parseCompletionPath(expandHomePath(input))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	completions := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !shouldIncludeEntry(name, prefix) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if entry.IsDir() {
			fullPath += string(filepath.Separator)
		}

		completions = append(completions, fullPath)
	}

	sort.Strings(completions)

	return completions
}

func parseCompletionPath(input string) (dir, prefix string) {
	if strings.HasSuffix(input, string(filepath.Separator)) {
		return input, ""
	}

	return filepath.Dir(input), filepath.Base(input)
}

// shouldIncludeEntry hides dot files unless the prefix asks for them.
func shouldIncludeEntry(name, prefix string) bool {
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
		return false
	}

	return strings.HasPrefix(name, prefix)
}
