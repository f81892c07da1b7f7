package screens_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/png-scan/internal/tui/screens"
	"github.com/joe/png-scan/internal/tui/shared"
	"github.com/joe/png-scan/pkg/cpufeatures"
)

func sampleFeatures() cpufeatures.Features {
	return cpufeatures.Features{
		Arch: "amd64",
		Flags: []cpufeatures.Flag{
			{Name: "SSE2", Enabled: true},
			{Name: "AVX512F", Enabled: false},
		},
	}
}

func TestRenderFeatures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(screens.RenderFeatures(sampleFeatures())).To(Equal("SSE2     yes\nAVX512F  no"))
	g.Expect(screens.RenderFeatures(cpufeatures.Features{Arch: "riscv64"})).
		To(Equal("no feature flags known for riscv64"))
}

func TestAboutScreen_View(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	view := ansi.Strip(screens.NewAboutScreen(sampleFeatures()).View())
	g.Expect(view).To(ContainSubstring("CPU features (amd64)"))
	g.Expect(view).To(ContainSubstring("✓ SSE2"))
	g.Expect(view).To(ContainSubstring("✗ AVX512F"))
}

func TestAboutScreen_Keys(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := *screens.NewAboutScreen(sampleFeatures())

	_, cmd := screen.Update(tea.KeyMsg{Type: tea.KeyEsc})
	g.Expect(cmd()).To(Equal(shared.CloseAboutMsg{}))

	_, cmd = screen.Update(key("q"))
	g.Expect(cmd()).To(Equal(tea.QuitMsg{}))

	_, cmd = screen.Update(key("x"))
	g.Expect(cmd).To(BeNil())
}
