package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func plainBar(width int) *ProgressBar {
	bar := NewProgressBar(width)
	bar.FilledStyle = lipgloss.NewStyle()
	bar.EmptyStyle = lipgloss.NewStyle()
	return bar
}

func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		filled  int
		percent string
	}{
		{"empty", 0, 4, 0, "0%"},
		{"half", 2, 4, 5, "50%"},
		{"complete", 4, 4, 10, "100%"},
		{"overflow clamps", 6, 4, 10, "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := plainBar(10)
			bar.SetProgress(tt.current, tt.total)

			out := bar.Render()
			if got := strings.Count(out, "█"); got != tt.filled {
				t.Errorf("Expected %d filled cells, got %d in %q", tt.filled, got, out)
			}
			if got := strings.Count(out, "░"); got != 10-tt.filled {
				t.Errorf("Expected %d empty cells, got %d in %q", 10-tt.filled, got, out)
			}
			if !strings.Contains(out, tt.percent) {
				t.Errorf("Expected %s in %q", tt.percent, out)
			}
		})
	}
}

func TestProgressBarWithoutTotal(t *testing.T) {
	bar := plainBar(10)
	bar.SetLabel("waiting")

	if got := bar.Render(); got != "waiting" {
		t.Errorf("Expected label only, got %q", got)
	}
}

func TestSpinnerWraps(t *testing.T) {
	s := NewSpinner()
	s.Style = lipgloss.NewStyle()
	s.SetLabel("Analyzing")

	first := s.Render()
	for i := 0; i < len(spinnerFrames); i++ {
		s.Tick()
	}
	if got := s.Render(); got != first {
		t.Errorf("Expected spinner to wrap back to %q, got %q", first, got)
	}
	if !strings.HasSuffix(first, " Analyzing") {
		t.Errorf("Expected label in %q", first)
	}
}
