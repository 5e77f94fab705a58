package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var commands = []PromptCommand{
	{Name: "/goto", Description: "Jump to a date"},
	{Name: "/today", Description: "Jump to today"},
}

func TestPromptLines(t *testing.T) {
	tests := []struct {
		name        string
		state       PromptState
		width       int
		suggestions []PromptCommand
		want        []string
	}{
		{
			name:  "add prompt with label",
			state: PromptState{Label: "Add task · Jun 14", Value: "milk", Cursor: "_"},
			width: 60,
			want:  []string{"Add task · Jun 14 > milk_"},
		},
		{
			name:        "suggestions aligned on the longest name",
			state:       PromptState{Value: "/", ShowSuggestions: true},
			width:       40,
			suggestions: commands,
			want: []string{
				"> /",
				"  /goto  Jump to a date",
				"  /today Jump to today",
			},
		},
		{
			name:        "suggestions hidden outside the command prompt",
			state:       PromptState{Value: "/g"},
			width:       40,
			suggestions: commands,
			want:        []string{"> /g"},
		},
		{
			// The label's middle dot is one cell wide, so continuation
			// lines line up under the text.
			name:  "long input wraps under the label",
			state: PromptState{Label: "Add · Jun 1", Value: "call the dentist tomorrow"},
			width: 28,
			want: []string{
				"Add · Jun 1 > call the",
				"              dentist",
				"              tomorrow",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptLines(tt.state, tt.width, tt.suggestions)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PromptLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClampPromptLines(t *testing.T) {
	lines := []string{"> /", "  /add", "  /goto", "  /today", "  /month"}

	if got := ClampPromptLines(lines, 5, 20); len(got) != 5 {
		t.Errorf("lines that fit were clamped: %q", got)
	}
	want := []string{"> /", "  /add", "  … 3 more"}
	if diff := cmp.Diff(want, ClampPromptLines(lines, 3, 20)); diff != "" {
		t.Errorf("ClampPromptLines mismatch (-want +got):\n%s", diff)
	}
	if got := ClampPromptLines(lines, 0, 20); got != nil {
		t.Errorf("zero lines = %q, want nil", got)
	}
}
