package image

import (
	"math"

	"github.com/dcmview/dcmview/internal/core"
)

// Plan is the computed output geometry for one image: the pixel dimensions to
// resample to and the character-cell footprint they occupy.
type Plan struct {
	PixelWidth  int
	PixelHeight int
	Cols        int
	Rows        int
}

// Assumed cell size in pixels for high-resolution protocols when the terminal
// does not report real pixel metrics. Conservative defaults; overridable.
var (
	FallbackCellWidthPx  = 10
	FallbackCellHeightPx = 20
)

// The block encoder draws one pixel per column and two stacked pixels per row.
const (
	blockCellWidthPx  = 1
	blockCellHeightPx = 2
)

// Minimum footprint when no dimensions were requested.
const minDefaultCells = 4

// PlanLayout computes the output geometry for an image of imgW x imgH pixels.
// par is the vertical to horizontal pixel size ratio; values <= 0 mean square
// pixels. Requested dimensions of zero mean "unset": with neither set, the
// image targets half the terminal width; with one set, the other is derived
// from the image's displayed aspect ratio. The resulting footprint never
// exceeds the terminal bounds.
func PlanLayout(imgW, imgH int, par float64, ts core.TerminalSize, reqW, reqH int, cap Capability) (Plan, error) {
	if imgW <= 0 || imgH <= 0 {
		return Plan{}, &InvalidDimensionsError{Width: imgW, Height: imgH}
	}
	if par <= 0 {
		par = 1
	}

	cellW, cellH := cellSizePx(ts, cap)

	// Aspect ratio of the image expressed in character cells, accounting
	// for anisotropic pixels and for cells being taller than they are wide.
	cellAspect := float64(imgH) / float64(imgW) * par * float64(cellW) / float64(cellH)

	var cols, rows int
	switch {
	case reqW > 0 && reqH > 0:
		cols, rows = reqW, reqH
	case reqW > 0:
		cols = reqW
		rows = roundCells(float64(cols) * cellAspect)
	case reqH > 0:
		rows = reqH
		cols = roundCells(float64(rows) / cellAspect)
	default:
		cols = max(ts.Cols/2, minDefaultCells)
		rows = roundCells(float64(cols) * cellAspect)
	}

	cols, rows = fitCells(cols, rows, ts)
	if cols <= 0 || rows <= 0 {
		return Plan{}, &InvalidDimensionsError{Width: cols, Height: rows}
	}

	return Plan{
		PixelWidth:  cols * cellW,
		PixelHeight: rows * cellH,
		Cols:        cols,
		Rows:        rows,
	}, nil
}

// MinPlan returns the smallest valid plan for the capability, used as a
// fallback when a computed layout collapses.
func MinPlan(cap Capability) Plan {
	cellW, cellH := cellSizePx(core.TerminalSize{}, cap)
	return Plan{PixelWidth: cellW, PixelHeight: cellH, Cols: 1, Rows: 1}
}

// cellSizePx returns the assumed pixel dimensions of one character cell.
func cellSizePx(ts core.TerminalSize, cap Capability) (int, int) {
	if cap == CapBasic {
		return blockCellWidthPx, blockCellHeightPx
	}
	w, h := FallbackCellWidthPx, FallbackCellHeightPx
	if ts.Cols > 0 && ts.WidthPx > 0 {
		w = ts.WidthPx / ts.Cols
	}
	if ts.Rows > 0 && ts.HeightPx > 0 {
		h = ts.HeightPx / ts.Rows
	}
	if w <= 0 || h <= 0 {
		w, h = FallbackCellWidthPx, FallbackCellHeightPx
	}
	return w, h
}

func roundCells(v float64) int {
	return max(int(math.Round(v)), 1)
}

// fitCells shrinks the footprint to the terminal viewport, preserving the
// cell aspect ratio. A final row is reserved so the shell prompt after the
// image does not scroll the top of it out of view.
func fitCells(cols, rows int, ts core.TerminalSize) (int, int) {
	maxCols, maxRows := ts.Cols, ts.Rows-1
	if maxCols <= 0 || maxRows <= 0 {
		return cols, rows
	}
	if cols <= maxCols && rows <= maxRows {
		return cols, rows
	}

	scale := min(float64(maxCols)/float64(cols), float64(maxRows)/float64(rows))
	cols = max(int(float64(cols)*scale), 1)
	rows = max(int(float64(rows)*scale), 1)
	return cols, rows
}
