// Package image implements the terminal rendering pipeline: normalizing raw
// intensity grids to 8-bit images, detecting the terminal's image capability,
// planning the output layout, resampling, and encoding to one of the
// supported terminal protocols.
package image

import (
	"image"
	"image/color"
)

// Photometric represents how raw samples map to displayed color.
type Photometric int

const (
	Monochrome2 Photometric = iota // standard grayscale, min is black
	Monochrome1                    // inverted grayscale, min is white
	RGB
)

func (p Photometric) String() string {
	switch p {
	case Monochrome1:
		return "MONOCHROME1"
	case Monochrome2:
		return "MONOCHROME2"
	case RGB:
		return "RGB"
	default:
		return "UNKNOWN"
	}
}

// Grid is a decoded intensity grid: raw integer samples in row-major order,
// interleaved when Channels > 1.
type Grid struct {
	Width, Height int
	Channels      int // 1 for grayscale, 3 for color
	BitsAllocated int
	BitsStored    int
	Signed        bool
	Samples       []int32
}

// Rescale is the linear correction applied to raw samples. The zero value is
// treated as the identity (slope 1, intercept 0).
type Rescale struct {
	Slope     float64
	Intercept float64
}

// Window is an optional display window: values within
// [Center-Width/2, Center+Width/2] are mapped linearly to [0, 255].
type Window struct {
	Center float64
	Width  float64
}

// Image is a normalized 8-bit image. Pix holds Width*Height*Channels bytes in
// row-major order, interleaved when Channels > 1.
type Image struct {
	Width, Height int
	Channels      int
	Pix           []uint8
}

// NewImage returns a zeroed Image with the provided dimensions.
func NewImage(w, h, channels int) *Image {
	return &Image{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]uint8, w*h*channels),
	}
}

// RGBAt returns the 8-bit RGB components of the pixel at (x, y). Grayscale
// images report the same value for all three components.
func (m *Image) RGBAt(x, y int) (uint8, uint8, uint8) {
	i := (y*m.Width + x) * m.Channels
	if m.Channels == 1 {
		v := m.Pix[i]
		return v, v, v
	}
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// toNRGBA converts the Image into a standard library NRGBA image.
func (m *Image) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := m.RGBAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return out
}

// fromNRGBA converts an NRGBA image back into an Image with the provided
// channel count. For a single channel, the red component is used; the source
// is expected to be gray (equal components) in that case.
func fromNRGBA(src *image.NRGBA, channels int) *Image {
	bounds := src.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy(), channels)
	var i int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			if channels == 1 {
				out.Pix[i] = c.R
				i++
				continue
			}
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			i += 3
		}
	}
	return out
}
