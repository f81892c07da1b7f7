package shared

import (
	"strings"

	"github.com/joe/png-scan/internal/scanengine"
)

// RenderActivityLog renders scan results oldest first under an optional
// title. Failures are drawn in the error colour. If maxEntries > 0 only the
// most recent maxEntries results are shown.
func RenderActivityLog(title string, entries []scanengine.LogEntry, maxEntries int) string {
	var builder strings.Builder

	if trimmed := strings.TrimSpace(title); trimmed != "" {
		builder.WriteString(RenderLabel(trimmed))
		builder.WriteString("\n")
	}

	if len(entries) == 0 {
		builder.WriteString(RenderDim("  (nothing checked yet)"))

		return builder.String()
	}

	if maxEntries > 0 && maxEntries < len(entries) {
		entries = entries[len(entries)-maxEntries:]
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		style := FileOKStyle()
		if entry.Failed() {
			style = FileFailedStyle()
		}

		lines = append(lines, "  "+style.Render(entry.String()))
	}

	builder.WriteString(strings.Join(lines, "\n"))

	return builder.String()
}
