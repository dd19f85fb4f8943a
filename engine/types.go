package engine

import (
	"math"

	"github.com/pixelab/superpix/colorspace"
)

// Vec2 is a real-valued 2D coordinate in input-image space, used for
// superpixel centroid positions (μ_pos in spec.md §3).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// dist2 returns the Euclidean distance between two Vec2.
func dist2(a, b Vec2) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// LabImage is the immutable W×H input image in Lab space (I in spec.md §3),
// stored row-major.
type LabImage struct {
	Width, Height int
	Pix           []colorspace.Lab
}

// At returns the Lab color at (x,y).
func (img LabImage) At(x, y int) colorspace.Lab {
	return img.Pix[y*img.Width+x]
}

// WeightGrid is the W×H importance-weight grid (ω in spec.md §3), stored
// row-major.
type WeightGrid struct {
	Width, Height int
	Values        []float64
}

// At returns the weight at (x,y).
func (g WeightGrid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// uniformWeights builds a WeightGrid defaulting every cell to 1, per
// spec.md §3's "defaults to 1".
func uniformWeights(w, h int) WeightGrid {
	vals := make([]float64, w*h)
	for i := range vals {
		vals[i] = 1.0
	}
	return WeightGrid{Width: w, Height: h, Values: vals}
}

// Pair is an index pair into State.Palette identifying one effective
// palette slot's two subclusters, before condensation (pairs in spec.md §3).
type Pair struct {
	A, B int
}

// PaletteEntry pairs an effective palette color (converted to RGB, with
// saturation applied) with descriptive hue/saturation/lightness/role
// metadata — see SPEC_FULL.md's Supplemented Features.
type PaletteEntry struct {
	Color      colorspace.Color
	Hue        float64
	Saturation float64
	Lightness  float64
	Role       string
}
