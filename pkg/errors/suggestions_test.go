package errors_test

import (
	"strings"
	"testing"

	pkgerrors "github.com/joe/png-scan/pkg/errors"
)

func TestSuggestionGenerator_EveryCategoryHasSuggestions(t *testing.T) {
	t.Parallel()

	generator := pkgerrors.NewSuggestionGenerator()

	for _, category := range []pkgerrors.ErrorCategory{
		pkgerrors.CategoryDecode,
		pkgerrors.CategoryPath,
		pkgerrors.CategoryPermission,
		pkgerrors.CategoryRead,
		pkgerrors.CategoryRemote,
		pkgerrors.CategoryUnknown,
		pkgerrors.ErrorCategory("made-up"),
	} {
		for _, path := range []string{"", "/p/x.png"} {
			if len(generator.Generate(category, path)) == 0 {
				t.Errorf("category %q with path %q: expected suggestions", category, path)
			}
		}
	}
}

func TestSuggestionGenerator_MentionsPath(t *testing.T) {
	t.Parallel()

	generator := pkgerrors.NewSuggestionGenerator()

	for _, category := range []pkgerrors.ErrorCategory{
		pkgerrors.CategoryDecode,
		pkgerrors.CategoryPath,
		pkgerrors.CategoryPermission,
		pkgerrors.CategoryRead,
		pkgerrors.CategoryUnknown,
	} {
		joined := strings.Join(generator.Generate(category, "/p/x.png"), "\n")
		if !strings.Contains(joined, "/p/x.png") {
			t.Errorf("category %q: expected path in %q", category, joined)
		}
	}
}
