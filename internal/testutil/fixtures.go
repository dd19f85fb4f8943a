// Package testutil provides small, named builder functions that return
// ready-to-use synthetic test data, in the style of the teacher's own
// fixture helpers (pkg/aseprite's table-driven test inputs).
package testutil

import (
	"github.com/pixelab/superpix/colorspace"
	"github.com/pixelab/superpix/engine"
)

// UniformImage returns a w x h LabImage where every pixel equals c (S1 —
// "uniform gray, single color" when c has a=b=0).
func UniformImage(w, h int, c colorspace.Lab) engine.LabImage {
	pix := make([]colorspace.Lab, w*h)
	for i := range pix {
		pix[i] = c
	}
	return engine.LabImage{Width: w, Height: h, Pix: pix}
}

// BichromeSplit returns a w x h LabImage whose left half is left and whose
// right half is right (S2 — "two-region bichrome").
func BichromeSplit(w, h int, left, right colorspace.Lab) engine.LabImage {
	pix := make([]colorspace.Lab, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := left
			if x >= w/2 {
				c = right
			}
			pix[y*w+x] = c
		}
	}
	return engine.LabImage{Width: w, Height: h, Pix: pix}
}

// HorizontalGradient returns a w x h LabImage whose L channel varies
// linearly from lMin at x=0 to lMax at x=w-1, with a=b=0 (S3 — "horizontal
// gradient").
func HorizontalGradient(w, h int, lMin, lMax float64) engine.LabImage {
	pix := make([]colorspace.Lab, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x) / float64(w-1)
			pix[y*w+x] = colorspace.Lab{L: lMin + t*(lMax-lMin)}
		}
	}
	return engine.LabImage{Width: w, Height: h, Pix: pix}
}
