package shared

import (
	"fmt"
	"time"
)

// FormatDuration formats duration into human-readable format (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// FormatRate formats a check rate (e.g., "4.5 files/s")
func FormatRate(filesPerSec float64) string {
	return fmt.Sprintf("%.1f files/s", filesPerSec)
}

// TruncatePath shortens path to width by eliding its middle.
func TruncatePath(path string, width int) string {
	runes := []rune(path)
	if width <= EllipsisLength || len(runes) <= width {
		return path
	}

	keep := width - EllipsisLength
	head := keep / 2 //nolint:mnd // Half before the ellipsis
	tail := keep - head

	return string(runes[:head]) + "..." + string(runes[len(runes)-tail:])
}
