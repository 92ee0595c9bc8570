package image

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Resample resizes the image to exactly w x h pixels, preserving the channel
// count. Shrinking uses a box filter so each output pixel is the area average
// of its source block; enlarging uses bilinear interpolation. Resampling to
// the image's own dimensions returns an identical copy.
func Resample(m *Image, w, h int) *Image {
	w, h = max(w, 1), max(h, 1)
	if w == m.Width && h == m.Height {
		out := &Image{Width: w, Height: h, Channels: m.Channels}
		out.Pix = append(out.Pix, m.Pix...)
		return out
	}

	src := m.toNRGBA()
	var dst *image.NRGBA
	if w <= m.Width && h <= m.Height {
		dst = imaging.Resize(src, w, h, imaging.Box)
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	}
	return fromNRGBA(dst, m.Channels)
}
