package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/joe/png-scan/pkg/errors"
)

func TestActionableError_Accessors(t *testing.T) {
	t.Parallel()

	err := pkgerrors.NewActionableError(
		"open /p/a.png: permission denied",
		pkgerrors.CategoryPermission,
		[]string{"one"},
		"/p/a.png",
	)

	if err.Error() != "open /p/a.png: permission denied" || err.OriginalError() != err.Error() {
		t.Errorf("unexpected message %q / %q", err.Error(), err.OriginalError())
	}

	if err.Category() != pkgerrors.CategoryPermission {
		t.Errorf("expected category %q, got %q", pkgerrors.CategoryPermission, err.Category())
	}

	if err.AffectedPath() != "/p/a.png" {
		t.Errorf("expected path /p/a.png, got %q", err.AffectedPath())
	}

	if len(err.Suggestions()) != 1 {
		t.Errorf("expected 1 suggestion, got %v", err.Suggestions())
	}
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{
			"no suggestions",
			pkgerrors.NewActionableError("x", pkgerrors.CategoryUnknown, nil, ""),
			"",
		},
		{
			"several suggestions",
			pkgerrors.NewActionableError("x", pkgerrors.CategoryRead, []string{"first", "second"}, ""),
			"  • first\n  • second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := pkgerrors.FormatSuggestions(tt.err); got != tt.want {
				t.Errorf("expected:\n%q\ngot:\n%q", tt.want, got)
			}
		})
	}
}
