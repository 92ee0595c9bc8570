package image

import (
	"strings"
	"testing"
)

func TestBlockEncodeTrueColor(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	m := NewImage(2, 2, 3)
	m.Pix = []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}

	out := encodeToString(t, blockEncoder{}, m, Plan{Cols: 2, Rows: 1})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}

	if got := strings.Count(out, lowerHalfBlock); got != 2 {
		t.Errorf("half blocks = %d, want 2", got)
	}
	// Top row as background, bottom row as foreground.
	if !strings.Contains(out, "\x1b[48;2;255;0;0m") {
		t.Error("missing background sequence for top-left pixel")
	}
	if !strings.Contains(out, "\x1b[38;2;0;0;255m") {
		t.Error("missing foreground sequence for bottom-left pixel")
	}
	if !strings.HasSuffix(lines[0], "\x1b[0m") {
		t.Error("line does not end with a color reset")
	}
}

func TestBlockEncodeOddHeight(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	m := NewImage(2, 3, 1)
	for i := range m.Pix {
		m.Pix[i] = uint8(i * 40)
	}

	out := encodeToString(t, blockEncoder{}, m, Plan{Cols: 2, Rows: 2})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if got := strings.Count(lines[1], upperHalfBlock); got != 2 {
		t.Errorf("final row upper half blocks = %d, want 2", got)
	}
	if strings.Contains(lines[1], "\x1b[48;") {
		t.Error("final odd row must not set a background color")
	}
}

func TestBlockEncode256Fallback(t *testing.T) {
	t.Setenv("COLORTERM", "")

	m := NewImage(1, 2, 3)
	m.Pix = []uint8{255, 0, 0, 0, 255, 0}

	out := encodeToString(t, blockEncoder{}, m, Plan{Cols: 1, Rows: 1})
	if !strings.Contains(out, "\x1b[48;5;") || !strings.Contains(out, "\x1b[38;5;") {
		t.Fatalf("expected 256-color sequences, got %q", out)
	}
	if strings.Contains(out, ";2;") {
		t.Fatalf("unexpected true color sequence in %q", out)
	}
}

func TestAnsi256FromRGB(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    int
	}{
		{0, 0, 0, 16},
		{255, 255, 255, 231},
		{128, 128, 128, 244},
		{255, 0, 0, 16 + 36*5},
		{0, 255, 0, 16 + 6*5},
		{0, 0, 255, 16 + 5},
	}
	for _, tt := range tests {
		if got := ansi256FromRGB(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("ansi256FromRGB(%d, %d, %d) = %d, want %d",
				tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}
