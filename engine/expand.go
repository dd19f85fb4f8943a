package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/pixelab/superpix/colorspace"
)

// splitCandidate records a pair index and the distance that qualified it
// for splitting, so candidates can be sorted before the largest-first
// split order is applied (spec §4.5).
type splitCandidate struct {
	dist float64
	pair int
}

// expandPalette cools the palette by splitting pairs whose subclusters have
// drifted apart by more than subclusterSplitThreshold, or re-perturbing the
// second subcluster of pairs that have not drifted (preventing stale
// pairs). If a split pushes the palette to 2*MaxPaletteSize, the palette is
// immediately condensed and frozen.
func (e *Engine) expandPalette() {
	if e.paletteMaxed {
		return
	}
	st := e.history.Current()

	var splits []splitCandidate
	for i, pair := range st.Pairs {
		ca, cb := st.Palette[pair.A], st.Palette[pair.B]
		d := colorspace.Dist(ca, cb)
		if d > subclusterSplitThreshold {
			splits = append(splits, splitCandidate{dist: d, pair: i})
		} else {
			v, _ := e.getMaxEigen(st, pair.A)
			st.Palette[pair.B] = cb.Add(v.Scale(subclusterPerturbation))
		}
	}

	sort.Slice(splits, func(i, j int) bool { return splits[i].dist < splits[j].dist })
	for i := len(splits) - 1; i >= 0; i-- {
		e.splitColor(splits[i].pair)
		if len(e.history.Current().Palette) >= 2*e.maxPaletteSize {
			e.condensePalette()
			break
		}
	}
}

// splitColor bifurcates pair i's two subclusters into two fresh pairs, each
// seeded with a slight perturbation along its parent's dominant eigenvector
// (spec §4.5).
func (e *Engine) splitColor(pairIndex int) {
	st := e.history.Current()
	pair := st.Pairs[pairIndex]
	indexA, indexB := pair.A, pair.B

	n1 := len(st.Palette)
	n2 := n1 + 1

	vA, _ := e.getMaxEigen(st, indexA)
	vB, _ := e.getMaxEigen(st, indexB)
	subA := st.Palette[indexA].Add(vA.Scale(subclusterPerturbation))
	subB := st.Palette[indexB].Add(vB.Scale(subclusterPerturbation))

	st.Palette = append(st.Palette, subA)
	st.Pairs[pairIndex].B = n1
	st.Prior[indexA] *= 0.5
	st.Prior = append(st.Prior, st.Prior[indexA])
	st.Assoc = append(st.Assoc, append([]float64(nil), st.Assoc[indexA]...))

	st.Palette = append(st.Palette, subB)
	st.Pairs = append(st.Pairs, Pair{A: indexB, B: n2})
	st.Prior[indexB] *= 0.5
	st.Prior = append(st.Prior, st.Prior[indexB])
	st.Assoc = append(st.Assoc, append([]float64(nil), st.Assoc[indexB]...))

	e.logger.Debug("Split palette pair {Pair} into subclusters {N1} and {N2}", pairIndex, n1, n2)
}

// condensePalette collapses every pair into a single color (the
// prior-weighted average of its two subclusters), remaps hard assignments,
// discards the pairing, and permanently freezes the palette at its target
// size (spec §4.5).
func (e *Engine) condensePalette() {
	st := e.history.Current()
	e.paletteMaxed = true

	oldPalette := st.Palette
	newPalette := make([]colorspace.Lab, 0, len(st.Pairs))
	newPrior := make([]float64, 0, len(st.Pairs))
	newAssoc := make([][]float64, 0, len(st.Pairs))

	remap := make(map[int]int, len(oldPalette))
	for j, pair := range st.Pairs {
		wa, wb := st.Prior[pair.A], st.Prior[pair.B]
		total := wa + wb
		wa, wb = wa/total, wb/total

		blended := oldPalette[pair.A].Scale(wa).Add(oldPalette[pair.B].Scale(wb))
		newPalette = append(newPalette, blended)
		newPrior = append(newPrior, st.Prior[pair.A]+st.Prior[pair.B])
		newAssoc = append(newAssoc, st.Assoc[pair.A])

		remap[pair.A] = j
		remap[pair.B] = j
	}

	for s, a := range st.HardAssign {
		st.HardAssign[s] = remap[a]
	}

	st.Palette = newPalette
	st.Prior = newPrior
	st.Assoc = newAssoc
	st.Pairs = nil

	e.logger.Information("Condensed palette to {Size} colors", len(newPalette))
}

// getMaxEigen computes the 3x3 weighted absolute-color-error covariance for
// palette entry i and returns its dominant unit eigenvector and associated
// eigenvalue, used both to seed subcluster perturbations and to bound the
// initial annealing temperature (spec §4.5). Matches
// original_source/pix.cpp's GetMaxEigen, including the componentwise
// absolute value taken before the outer product — an idiosyncrasy of the
// reference that spec.md documents as a preserved (possibly unintentional)
// behavior rather than a free implementation choice.
func (e *Engine) getMaxEigen(st *State, i int) (colorspace.Lab, float64) {
	return e.eigenCovariance(st, i, true)
}

// eigenCovarianceNoAbs computes the same covariance as getMaxEigen but
// without the componentwise absolute value step, for the comparison test
// spec.md's Open Questions section asks reimplementers to write.
func (e *Engine) eigenCovarianceNoAbs(st *State, i int) (colorspace.Lab, float64) {
	return e.eigenCovariance(st, i, false)
}

func (e *Engine) eigenCovariance(st *State, i int, abs bool) (colorspace.Lab, float64) {
	n := e.outputWidth * e.outputHeight
	probO := 1.0 / float64(n)

	var m [3][3]float64
	for s := 0; s < n; s++ {
		probOC := st.Assoc[i][s] * probO / st.Prior[i]

		x, y := e.pointOut(s)
		diff := st.Palette[i].Sub(st.SuperpixelColor[e.idxOut(x, y)])
		if abs {
			diff = diff.Abs()
		}
		v := [3]float64{diff.L, diff.A, diff.B}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				m[r][c] += probOC * v[r] * v[c]
			}
		}
	}

	sym := mat.NewSymDense(3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		return colorspace.Lab{}, 0
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	best := 0
	for k := 1; k < len(values); k++ {
		if math.Abs(values[k]) > math.Abs(values[best]) {
			best = k
		}
	}

	vec := colorspace.Lab{
		L: vectors.At(0, best),
		A: vectors.At(1, best),
		B: vectors.At(2, best),
	}
	length := vec.Norm()
	if length > 0 {
		vec = vec.Scale(1.0 / length)
	}
	return vec, math.Abs(values[best])
}
