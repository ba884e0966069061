package window

import "testing"

func TestTopRightX(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		width int
		want  int
	}{
		{"widest line ends at margin", []string{"UTC", "2026-10-16 12:00:00"}, 800, 800 - margin - 19*glyphWidth},
		{"no lines", nil, 800, 800 - margin},
		{"narrow window keeps left margin", []string{"Europe/Berlin 12:00:00"}, 40, margin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topRightX(tt.lines, tt.width); got != tt.want {
				t.Errorf("topRightX = %d, want %d", got, tt.want)
			}
		})
	}
}
