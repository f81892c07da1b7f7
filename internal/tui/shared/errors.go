package shared

import (
	"fmt"
	"strings"

	"github.com/joe/png-scan/internal/scanengine"
)

// ErrorLimit is how many failures the scan view details
const ErrorLimit = 3

// RenderErrorList details the most recent failures in entries, newest first,
// with their suggestions. Paths are truncated to maxWidth when it is positive.
func RenderErrorList(entries []scanengine.LogEntry, maxWidth int) string {
	var failures []scanengine.LogEntry

	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Failed() {
			failures = append(failures, entries[i])
		}
	}

	if len(failures) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, entry := range failures {
		if i >= ErrorLimit {
			fmt.Fprintf(&builder, "  ... and %d more in the log\n", len(failures)-ErrorLimit)

			break
		}

		path := entry.Path
		if maxWidth > 0 {
			path = TruncatePath(path, maxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", ErrorStyle().Render("✗"), FileFailedStyle().Render(path))
		fmt.Fprintf(&builder, "    %v\n", entry.Err)

		if entry.Suggestions != "" {
			fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(entry.Suggestions, "\n", "\n    "))
		}
	}

	return strings.TrimRight(builder.String(), "\n")
}
