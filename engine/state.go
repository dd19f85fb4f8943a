package engine

import "github.com/pixelab/superpix/colorspace"

// State is the mutable per-iteration state of the engine (spec.md §3):
// superpixel positions/colors/weights, the palette and its subcluster
// pairing, association probabilities, hard assignment, locks, pixel
// constraints, and the iteration counter. A History snapshot is a deep
// copy of a State.
type State struct {
	// SuperpixelPos holds μ_pos, flattened row-major over the w×h output
	// grid (index = y*OutputWidth+x).
	SuperpixelPos []Vec2

	// SuperpixelColor holds μ_col, same indexing as SuperpixelPos.
	SuperpixelColor []colorspace.Lab

	// SuperpixelWeight holds ρ, same indexing as SuperpixelPos.
	SuperpixelWeight []float64

	// Palette holds c[0..N), the subcluster colors.
	Palette []colorspace.Lab

	// Pairs holds the subcluster pairing; empty once PaletteMaxed.
	Pairs []Pair

	// Prior holds π[i] = Pr(c_i), one entry per Palette slot.
	Prior []float64

	// Assoc holds q[i][s] = Pr(c_i | superpixel s): Assoc[i][s].
	Assoc [][]float64

	// HardAssign holds A[x,y] flattened row-major (index = y*w+x), a
	// palette index for every superpixel.
	HardAssign []int

	// Locked holds L[i]: true for palette entries RefinePalette must not move.
	Locked []bool

	// Constraints holds K[s]: the (possibly empty) list of admissible
	// palette indices for superpixel s, flattened row-major.
	Constraints [][]int

	Iteration  int
	Saturation float64
}

// newState allocates a zero-valued State sized for an output grid of n
// superpixels (n = outputWidth*outputHeight).
func newState(n int) *State {
	return &State{
		SuperpixelPos:    make([]Vec2, n),
		SuperpixelColor:  make([]colorspace.Lab, n),
		SuperpixelWeight: make([]float64, n),
		HardAssign:       make([]int, n),
		Constraints:      make([][]int, n),
		Saturation:       1.0,
	}
}

// deepCopy returns an independent copy of s, aliasing nothing with the
// original — required by History (spec.md §4.7, §5 Resource policy).
func (s *State) deepCopy() *State {
	cp := &State{
		SuperpixelPos:    append([]Vec2(nil), s.SuperpixelPos...),
		SuperpixelColor:  append([]colorspace.Lab(nil), s.SuperpixelColor...),
		SuperpixelWeight: append([]float64(nil), s.SuperpixelWeight...),
		Palette:          append([]colorspace.Lab(nil), s.Palette...),
		Pairs:            append([]Pair(nil), s.Pairs...),
		Prior:            append([]float64(nil), s.Prior...),
		HardAssign:       append([]int(nil), s.HardAssign...),
		Locked:           append([]bool(nil), s.Locked...),
		Iteration:        s.Iteration,
		Saturation:       s.Saturation,
	}
	cp.Assoc = make([][]float64, len(s.Assoc))
	for i, row := range s.Assoc {
		cp.Assoc[i] = append([]float64(nil), row...)
	}
	cp.Constraints = make([][]int, len(s.Constraints))
	for i, row := range s.Constraints {
		cp.Constraints[i] = append([]int(nil), row...)
	}
	return cp
}
