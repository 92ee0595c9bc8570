package image

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dcmview/dcmview/internal/core"
)

const (
	upperHalfBlock = "▀"
	lowerHalfBlock = "▄"
)

// blockEncoder renders the bitmap as colored character cells: each cell
// carries two vertically stacked pixels, the top as the background color and
// the bottom as the foreground of a lower half block. Color state is reset at
// the end of every line so captions and metadata are unaffected.
type blockEncoder struct{}

func (blockEncoder) Encode(m *Image, plan Plan, p *core.Printer) error {
	if m.Channels != 1 && m.Channels != 3 {
		return &EncodeError{
			Protocol: "blocks",
			Reason:   fmt.Sprintf("unsupported channel count: %d", m.Channels),
		}
	}

	trueColor := supportsTrueColor()
	for y := 0; y < m.Height; y += 2 {
		for x := 0; x < m.Width; x++ {
			tr, tg, tb := m.RGBAt(x, y)
			if y+1 >= m.Height {
				// Odd final row: color the top half only.
				setFG(p, tr, tg, tb, trueColor)
				p.WriteString(upperHalfBlock)
				continue
			}
			br, bg, bb := m.RGBAt(x, y+1)
			setBG(p, tr, tg, tb, trueColor)
			setFG(p, br, bg, bb, trueColor)
			p.WriteString(lowerHalfBlock)
		}
		p.WriteString("\x1b[0m\n")
	}
	return nil
}

// supportsTrueColor checks the current terminal emulator for true color support.
func supportsTrueColor() bool {
	ct := os.Getenv("COLORTERM")
	if strings.EqualFold(ct, "truecolor") || strings.EqualFold(ct, "24bit") {
		return true
	}

	if runtime.GOOS == "windows" {
		return os.Getenv("WT_SESSION") != "" || os.Getenv("ConEmuANSI") == "ON"
	}

	return false
}

func setFG(p *core.Printer, r, g, b uint8, trueColor bool) {
	if trueColor {
		fmt.Fprintf(p, "\x1b[38;2;%d;%d;%dm", r, g, b)
	} else {
		fmt.Fprintf(p, "\x1b[38;5;%dm", ansi256FromRGB(r, g, b))
	}
}

func setBG(p *core.Printer, r, g, b uint8, trueColor bool) {
	if trueColor {
		fmt.Fprintf(p, "\x1b[48;2;%d;%d;%dm", r, g, b)
	} else {
		fmt.Fprintf(p, "\x1b[48;5;%dm", ansi256FromRGB(r, g, b))
	}
}

// ansi256FromRGB converts an RGB triplet to an ANSI 256 color index.
func ansi256FromRGB(r, g, b uint8) int {
	// Grayscale range.
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return int((float64(r)-8)/10.0) + 232
	}
	red := int(r) * 5 / 255
	green := int(g) * 5 / 255
	blue := int(b) * 5 / 255
	return 16 + 36*red + 6*green + blue
}
