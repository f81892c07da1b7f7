package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/png-scan/internal/tui/shared"
	"github.com/joe/png-scan/pkg/cpufeatures"
)

// AboutScreen lists the CPU features of the host.
type AboutScreen struct {
	features cpufeatures.Features
	width    int
}

// NewAboutScreen creates an about screen for features.
func NewAboutScreen(features cpufeatures.Features) *AboutScreen {
	return &AboutScreen{features: features}
}

// Init implements tea.Model
func (s AboutScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s AboutScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case shared.KeyCtrlC, "q":
			return s, tea.Quit
		case "esc", "enter", "a":
			return s, func() tea.Msg { return shared.CloseAboutMsg{} }
		}
	}

	return s, nil
}

// View implements tea.Model
func (s AboutScreen) View() string {
	return shared.RenderWidgetBox(
		fmt.Sprintf("CPU features (%s)", s.features.Arch),
		s.renderFlags()+"\n\n"+shared.RenderDim("Esc, Enter or a to go back • q to quit"),
		s.width,
	)
}

// RenderFeatures renders features as plain text lines, one flag per line.
func RenderFeatures(features cpufeatures.Features) string {
	if len(features.Flags) == 0 {
		return fmt.Sprintf("no feature flags known for %s", features.Arch)
	}

	lines := make([]string, 0, len(features.Flags))
	for _, flag := range features.List() {
		mark := "no"
		if flag.Enabled {
			mark = "yes"
		}

		lines = append(lines, fmt.Sprintf("%-8s %s", flag.Name, mark))
	}

	return strings.Join(lines, "\n")
}

func (s AboutScreen) renderFlags() string {
	if len(s.features.Flags) == 0 {
		return shared.RenderDim(RenderFeatures(s.features))
	}

	lines := make([]string, 0, len(s.features.Flags))
	for _, flag := range s.features.List() {
		if flag.Enabled {
			lines = append(lines, shared.RenderSuccess("✓ ")+flag.Name)
		} else {
			lines = append(lines, shared.RenderDim("✗ "+flag.Name))
		}
	}

	return strings.Join(lines, "\n")
}
