package image

import "fmt"

// Normalize maps a raw intensity grid to a bounded 8-bit image.
//
// Every sample is rescaled as v*slope+intercept. With an explicit window, the
// range [center-width/2, center+width/2] maps linearly to [0, 255] and values
// outside it are clamped. Without one, the observed min/max of the rescaled
// grid define the mapping; a degenerate grid (min == max, including empty and
// single-sample grids) maps everything to mid-gray. MONOCHROME1 inverts the
// mapped output. Color grids are clipped per channel and ignore the window.
func Normalize(g *Grid, r Rescale, w *Window, p Photometric) (*Image, error) {
	if err := validateGrid(g); err != nil {
		return nil, err
	}

	slope, intercept := r.Slope, r.Intercept
	if slope == 0 {
		// Zero value means rescale attributes were absent.
		slope, intercept = 1, 0
	}

	if g.Channels == 3 {
		return normalizeColor(g, slope, intercept), nil
	}
	return normalizeGray(g, slope, intercept, w, p), nil
}

func validateGrid(g *Grid) error {
	if g.Width <= 0 || g.Height <= 0 {
		return &MalformedPixelDataError{
			Reason: fmt.Sprintf("invalid dimensions %dx%d", g.Width, g.Height),
		}
	}
	if g.Channels != 1 && g.Channels != 3 {
		return &MalformedPixelDataError{
			Reason: fmt.Sprintf("unsupported samples per pixel: %d", g.Channels),
		}
	}
	if g.BitsAllocated > 32 || g.BitsStored > g.BitsAllocated {
		return &MalformedPixelDataError{
			Reason: fmt.Sprintf("unsupported bit depth: %d bits stored in %d allocated",
				g.BitsStored, g.BitsAllocated),
		}
	}
	if want := g.Width * g.Height * g.Channels; len(g.Samples) != want {
		return &MalformedPixelDataError{
			Reason: fmt.Sprintf("expected %d samples for %dx%d, found %d",
				want, g.Width, g.Height, len(g.Samples)),
		}
	}
	return nil
}

func normalizeGray(g *Grid, slope, intercept float64, w *Window, p Photometric) *Image {
	out := NewImage(g.Width, g.Height, 1)

	var lo, width float64
	if w != nil && w.Width > 0 {
		lo = w.Center - w.Width/2
		width = w.Width
	} else if w == nil {
		lo, width = autoWindow(g.Samples, slope, intercept)
	}

	invert := p == Monochrome1
	for i, raw := range g.Samples {
		v := mapSample(float64(raw)*slope+intercept, lo, width)
		if invert {
			v = 255 - v
		}
		out.Pix[i] = v
	}
	return out
}

// autoWindow derives a window covering the full observed range of the
// rescaled samples. A zero width signals the degenerate case.
func autoWindow(samples []int32, slope, intercept float64) (lo, width float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	minV := float64(samples[0])*slope + intercept
	maxV := minV
	for _, raw := range samples[1:] {
		v := float64(raw)*slope + intercept
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV - minV
}

// mapSample maps a rescaled value into [0, 255] for the window starting at lo
// with the provided width. A non-positive width maps everything to mid-gray.
func mapSample(v, lo, width float64) uint8 {
	if width <= 0 {
		return 128
	}
	n := (v - lo) / width * 255
	if n <= 0 {
		return 0
	}
	if n >= 255 {
		return 255
	}
	return uint8(n + 0.5)
}

// normalizeColor clips each rescaled channel to [0, 255] independently; no
// single-channel window is meaningful for true color.
func normalizeColor(g *Grid, slope, intercept float64) *Image {
	out := NewImage(g.Width, g.Height, 3)
	for i, raw := range g.Samples {
		v := float64(raw)*slope + intercept
		switch {
		case v <= 0:
			out.Pix[i] = 0
		case v >= 255:
			out.Pix[i] = 255
		default:
			out.Pix[i] = uint8(v + 0.5)
		}
	}
	return out
}
