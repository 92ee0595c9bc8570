// Package dicom adapts the external DICOM parser into the inputs the
// rendering pipeline consumes: an intensity grid, rescale and window
// parameters, a photometric interpretation, and display metadata.
package dicom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/dcmview/dcmview/internal/core"
	img "github.com/dcmview/dcmview/internal/image"
)

// File is the decoded, render-ready representation of one DICOM file.
type File struct {
	Grid        *img.Grid
	Rescale     img.Rescale
	Window      *img.Window
	Photometric img.Photometric
	PixelAspect float64 // vertical to horizontal pixel size ratio
	Meta        []core.KeyVal
}

// DecodeFile parses and extracts the DICOM file at path. Multiframe files
// yield only their first frame.
func DecodeFile(path string) (*File, error) {
	ds, err := sdicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing dicom: %w", err)
	}
	return extract(&ds)
}

// Decode parses and extracts a DICOM byte stream.
func Decode(r io.Reader) (*File, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ds, err := sdicom.Parse(bytes.NewReader(buf), int64(len(buf)), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing dicom: %w", err)
	}
	return extract(&ds)
}

func extract(ds *sdicom.Dataset) (*File, error) {
	photoStr, _ := findString(ds, tag.PhotometricInterpretation)
	photo, ybr, err := parsePhotometric(photoStr)
	if err != nil {
		return nil, err
	}

	grid, err := extractGrid(ds, ybr)
	if err != nil {
		return nil, err
	}

	f := &File{
		Grid:        grid,
		Rescale:     extractRescale(ds),
		Window:      extractWindow(ds),
		Photometric: photo,
		PixelAspect: extractPixelAspect(ds),
		Meta:        extractMetadata(ds, grid, photoStr),
	}
	return f, nil
}

// extractPixelAspect returns the vertical to horizontal pixel size ratio, or
// 1 for square (or unstated) pixels. Anisotropic pixels stretch the rendered
// height so the image keeps its physical proportions.
func extractPixelAspect(ds *sdicom.Dataset) float64 {
	el, err := ds.FindElementByTag(tag.PixelAspectRatio)
	if err != nil || el == nil {
		return 1
	}
	var vert, horiz float64
	switch vals := el.Value.GetValue().(type) {
	case []int:
		if len(vals) >= 2 {
			vert, horiz = float64(vals[0]), float64(vals[1])
		}
	case []string:
		if len(vals) >= 2 {
			vert, _ = strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			horiz, _ = strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		}
	}
	if vert <= 0 || horiz <= 0 {
		return 1
	}
	return vert / horiz
}

func extractGrid(ds *sdicom.Dataset, ybr bool) (*img.Grid, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, errors.New("no pixel data present")
	}
	info, ok := el.Value.GetValue().(sdicom.PixelDataInfo)
	if !ok {
		return nil, errors.New("unrecognized pixel data element")
	}
	if len(info.Frames) == 0 {
		return nil, errors.New("pixel data contains no frames")
	}

	// Only the first frame is previewed.
	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		name, _ := transferSyntax(ds)
		return nil, fmt.Errorf("unsupported compressed pixel data (%s)", name)
	}

	channels, _ := findInt(ds, tag.SamplesPerPixel)
	if channels == 0 {
		channels = 1
	}
	bitsAllocated, _ := findInt(ds, tag.BitsAllocated)
	if bitsAllocated == 0 {
		bitsAllocated = native.BitsPerSample
	}
	bitsStored, _ := findInt(ds, tag.BitsStored)
	if bitsStored == 0 || bitsStored > bitsAllocated {
		bitsStored = bitsAllocated
	}
	pixelRep, _ := findInt(ds, tag.PixelRepresentation)
	signed := pixelRep == 1

	samples, err := flattenSamples(native, channels, ds)
	if err != nil {
		return nil, err
	}
	if signed {
		signCorrect(samples, bitsStored)
	}
	if ybr {
		if err := ycbcrToRGB(samples); err != nil {
			return nil, err
		}
	}

	return &img.Grid{
		Width:         native.Cols,
		Height:        native.Rows,
		Channels:      channels,
		BitsAllocated: bitsAllocated,
		BitsStored:    bitsStored,
		Signed:        signed,
		Samples:       samples,
	}, nil
}

// flattenSamples converts the decoder's per-pixel sample slices into a flat
// interleaved grid, undoing planar channel ordering when declared.
func flattenSamples(native *frame.NativeFrame, channels int, ds *sdicom.Dataset) ([]int32, error) {
	out := make([]int32, 0, len(native.Data)*channels)
	for _, px := range native.Data {
		if len(px) < channels {
			return nil, fmt.Errorf("pixel has %d samples, want %d", len(px), channels)
		}
		for c := 0; c < channels; c++ {
			out = append(out, int32(px[c]))
		}
	}

	planar, _ := findInt(ds, tag.PlanarConfiguration)
	if planar == 1 && channels == 3 {
		out = planarToInterleaved(out, len(native.Data))
	}
	return out, nil
}

// planarToInterleaved reorders samples stored channel-by-channel (RRR...
// GGG... BBB...) into per-pixel RGB triples.
func planarToInterleaved(flat []int32, pixels int) []int32 {
	out := make([]int32, len(flat))
	for i := 0; i < pixels; i++ {
		out[i*3] = flat[i]
		out[i*3+1] = flat[pixels+i]
		out[i*3+2] = flat[2*pixels+i]
	}
	return out
}

// signCorrect reinterprets raw sample values as two's complement at the
// stored bit depth.
func signCorrect(samples []int32, bits int) {
	if bits <= 0 || bits >= 32 {
		return
	}
	half := int32(1) << (bits - 1)
	full := int32(1) << bits
	for i, v := range samples {
		if v >= half {
			samples[i] = v - full
		}
	}
}

// ycbcrToRGB converts interleaved full-range YCbCr triples to RGB in place
// (ITU-R BT.601).
func ycbcrToRGB(samples []int32) error {
	if len(samples)%3 != 0 {
		return errors.New("ycbcr pixel data is not a multiple of 3 samples")
	}
	for i := 0; i < len(samples); i += 3 {
		y := float64(samples[i])
		cb := float64(samples[i+1]) - 128
		cr := float64(samples[i+2]) - 128

		samples[i] = clamp255(y + 1.402*cr)
		samples[i+1] = clamp255(y - 0.344136*cb - 0.714136*cr)
		samples[i+2] = clamp255(y + 1.772*cb)
	}
	return nil
}

func clamp255(v float64) int32 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return int32(v + 0.5)
}

// parsePhotometric maps the photometric interpretation attribute to the
// pipeline's enum, reporting whether a YCbCr conversion is required.
func parsePhotometric(s string) (img.Photometric, bool, error) {
	switch strings.TrimSpace(s) {
	case "MONOCHROME1":
		return img.Monochrome1, false, nil
	case "MONOCHROME2", "":
		return img.Monochrome2, false, nil
	case "RGB":
		return img.RGB, false, nil
	case "YBR_FULL", "YBR_FULL_422":
		return img.RGB, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported photometric interpretation: %s", s)
	}
}

func extractRescale(ds *sdicom.Dataset) img.Rescale {
	slope, ok := findFloat(ds, tag.RescaleSlope)
	if !ok || slope == 0 {
		slope = 1
	}
	intercept, _ := findFloat(ds, tag.RescaleIntercept)
	return img.Rescale{Slope: slope, Intercept: intercept}
}

func extractWindow(ds *sdicom.Dataset) *img.Window {
	// Multi-valued windows use the first (default) preset.
	center, ok := findFloat(ds, tag.WindowCenter)
	if !ok {
		return nil
	}
	width, ok := findFloat(ds, tag.WindowWidth)
	if !ok {
		return nil
	}
	return &img.Window{Center: center, Width: width}
}

func findString(ds *sdicom.Dataset, t tag.Tag) (string, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return "", false
	}
	vals, ok := el.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return "", false
	}
	s := strings.TrimSpace(vals[0])
	return s, s != ""
}

func findInt(ds *sdicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return 0, false
	}
	switch vals := el.Value.GetValue().(type) {
	case []int:
		if len(vals) > 0 {
			return vals[0], true
		}
	case []string:
		if len(vals) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(vals[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func findFloat(ds *sdicom.Dataset, t tag.Tag) (float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return 0, false
	}
	switch vals := el.Value.GetValue().(type) {
	case []float64:
		if len(vals) > 0 {
			return vals[0], true
		}
	case []string:
		if len(vals) > 0 {
			if f, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64); err == nil {
				return f, true
			}
		}
	case []int:
		if len(vals) > 0 {
			return float64(vals[0]), true
		}
	}
	return 0, false
}
