package errors

import "fmt"

// SuggestionGenerator produces suggestions for a category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates the default SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

type suggestionGenerator struct{}

// Generate returns suggestions for category, mentioning affectedPath when known.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.permission(affectedPath)
	case CategoryPath:
		return g.path(affectedPath)
	case CategoryRead:
		return g.read(affectedPath)
	case CategoryDecode:
		return g.decode(affectedPath)
	case CategoryRemote:
		return g.remote()
	case CategoryUnknown:
		return g.unknown(affectedPath)
	default:
		return g.unknown(affectedPath)
	}
}

func (g *suggestionGenerator) decode(path string) []string {
	suggestions := []string{"The file is not a valid PNG image or is truncated"}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Inspect the file type with 'file %s'", path))
	}

	return append(suggestions, "Re-export or re-download the image")
}

func (g *suggestionGenerator) path(path string) []string {
	if path == "" {
		return []string{
			"Verify the path exists and is spelled correctly",
			"The file may have been moved or deleted during the scan",
		}
	}

	return []string{
		"Verify the path exists and is spelled correctly: " + path,
		"The file may have been moved or deleted during the scan",
	}
}

func (g *suggestionGenerator) permission(path string) []string {
	suggestions := []string{"Ensure you have read permission for the files and directories being scanned"}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	return suggestions
}

func (g *suggestionGenerator) read(path string) []string {
	suggestions := []string{
		"Empty files and files above --max-size are reported as read failures",
		"Try the scan again; this may be a transient I/O error",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check the file size with 'ls -l %s'", path))
	}

	return suggestions
}

func (g *suggestionGenerator) remote() []string {
	return []string{
		"Check that the host is reachable and the SSH port is correct",
		"Verify your SSH agent or ~/.ssh keys can log in with 'ssh user@host'",
		"Confirm the host key is listed in ~/.ssh/known_hosts",
	}
}

func (g *suggestionGenerator) unknown(path string) []string {
	suggestions := []string{"Check the error message for more details"}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
