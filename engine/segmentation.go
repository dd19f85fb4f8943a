package engine

import (
	"math"

	"github.com/pixelab/superpix/colorspace"
)

// idxOut returns the flat row-major index of output-grid cell (x,y).
func (e *Engine) idxOut(x, y int) int { return y*e.outputWidth + x }

// pointOut is the inverse of idxOut.
func (e *Engine) pointOut(idx int) (x, y int) {
	return idx % e.outputWidth, idx / e.outputWidth
}

// idxIn returns the flat row-major index of input-image pixel (x,y).
func (e *Engine) idxIn(x, y int) int { return y*e.input.Width + x }

// updateSuperpixelMapping reassigns every input pixel to the nearest
// superpixel using the SLIC-style combined color+spatial distance
// (spec.md §4.2), writing the result into e.regionMap. Unreached pixels
// (none, given every superpixel scans a range-sized box) fall back to the
// regular-grid assignment, matching original_source/pix.cpp's
// UpdateSuperpixelMapping.
func (e *Engine) updateSuperpixelMapping() {
	st := e.history.Current()
	averaged := e.averagedPalette(st)

	w, h := e.input.Width, e.input.Height
	dist := make([]float64, w*h)
	for i := range dist {
		dist[i] = -1
	}
	region := make([]int, w*h)

	for x := 0; x < e.outputWidth; x++ {
		for y := 0; y < e.outputHeight; y++ {
			pos := st.SuperpixelPos[e.idxOut(x, y)]
			minX := clampInt(int(pos.X-e.rangeRadius), 0, w-1)
			maxX := clampInt(int(pos.X+e.rangeRadius), 0, w-1)
			minY := clampInt(int(pos.Y-e.rangeRadius), 0, h-1)
			maxY := clampInt(int(pos.Y+e.rangeRadius), 0, h-1)

			spColor := averaged[st.HardAssign[e.idxOut(x, y)]]

			for yy := minY; yy <= maxY; yy++ {
				for xx := minX; xx <= maxX; xx++ {
					pixColor := e.input.At(xx, yy)
					colorErr := colorspace.Dist(pixColor, spColor)
					dx, dy := float64(xx)-pos.X, float64(yy)-pos.Y
					distErr := math.Sqrt(dx*dx + dy*dy)
					err := colorErr + e.slicFactor/e.rangeRadius*distErr

					ii := e.idxIn(xx, yy)
					if dist[ii] < 0 || err < dist[ii] {
						dist[ii] = err
						region[ii] = e.idxOut(x, y)
					}
				}
			}
		}
	}

	// fall back to the regular-grid assignment for any pixel never reached
	// (should not occur given the scan range, but preserved for parity
	// with the reference's defensive fallback).
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ii := e.idxIn(x, y)
			if dist[ii] < 0 {
				gx := x * e.outputWidth / w
				gy := y * e.outputHeight / h
				region[ii] = e.idxOut(gx, gy)
			}
		}
	}

	e.regionMap = region
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
