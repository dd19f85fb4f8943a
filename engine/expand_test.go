package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelab/superpix/colorspace"
)

// TestEigenAbsVariantDiffers confirms that GetMaxEigen's componentwise
// absolute value, taken before the outer product, is not a no-op: for a
// color distribution whose per-superpixel errors vary sign independently
// across L, a, and b, the abs and non-abs covariance matrices have
// different dominant eigenvectors. Without the abs step the cross terms
// cancel to zero, leaving an isotropic (degenerate) matrix; with it they
// reinforce into a single dominant direction.
func TestEigenAbsVariantDiffers(t *testing.T) {
	e := uniformEngine(t, 4, 4, 2, 2, 2)
	st := e.history.Current()

	st.Palette[0] = colorspace.Lab{}
	st.Prior[0] = 1.0
	st.Assoc[0] = []float64{0.25, 0.25, 0.25, 0.25}

	diffs := []colorspace.Lab{
		{L: 1, A: 1, B: 1},
		{L: 1, A: -1, B: 1},
		{L: 1, A: 1, B: -1},
		{L: 1, A: -1, B: -1},
	}
	for i, d := range diffs {
		x, y := e.pointOut(i)
		st.SuperpixelColor[e.idxOut(x, y)] = st.Palette[0].Sub(d)
	}

	abs, absVal := e.getMaxEigen(st, 0)
	noAbs, noAbsVal := e.eigenCovarianceNoAbs(st, 0)

	assert.Greater(t, colorspace.Dist(abs, noAbs), 0.5,
		"expected abs-preserving and non-abs eigenvectors to diverge for an asymmetric distribution")
	assert.Greater(t, absVal, 0.0)
	_ = noAbsVal
}

func TestSplitColorCreatesTwoNewSubclusters(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 4)
	st := e.history.Current()
	beforePalette := len(st.Palette)
	beforePairs := len(st.Pairs)

	e.splitColor(0)

	after := e.history.Current()
	assert.Len(t, after.Palette, beforePalette+2)
	assert.Len(t, after.Prior, beforePalette+2)
	assert.Len(t, after.Assoc, beforePalette+2)
	assert.Equal(t, beforePalette, after.Pairs[0].B)
	assert.Len(t, after.Pairs, beforePairs+1)
}

func TestCondensePaletteBlendsPairsAndFreezes(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 4)
	st := e.history.Current()
	st.Palette = []colorspace.Lab{{L: 20}, {L: 40}, {L: 60}, {L: 80}}
	st.Prior = []float64{0.5, 0.5, 0.25, 0.75}
	st.Assoc = [][]float64{
		append([]float64(nil), st.Assoc[0]...),
		append([]float64(nil), st.Assoc[0]...),
		append([]float64(nil), st.Assoc[0]...),
		append([]float64(nil), st.Assoc[0]...),
	}
	st.Pairs = []Pair{{A: 0, B: 1}, {A: 2, B: 3}}
	for i := range st.HardAssign {
		st.HardAssign[i] = 0
	}
	st.HardAssign[0] = 2
	st.HardAssign[1] = 3

	e.condensePalette()

	after := e.history.Current()
	require.True(t, e.paletteMaxed)
	require.Len(t, after.Palette, 2)
	assert.InDelta(t, 30, after.Palette[0].L, 1e-9)
	assert.InDelta(t, 75, after.Palette[1].L, 1e-9)
	assert.Nil(t, after.Pairs)
	assert.Equal(t, 0, after.HardAssign[2])
	assert.Equal(t, 1, after.HardAssign[0])
	assert.Equal(t, 1, after.HardAssign[1])
}

func TestExpandPaletteSplitsDivergentPair(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 4)
	st := e.history.Current()
	st.Palette[st.Pairs[0].A] = colorspace.Lab{L: 0}
	st.Palette[st.Pairs[0].B] = colorspace.Lab{L: 0 + subclusterSplitThreshold + 5}

	before := len(st.Palette)
	e.expandPalette()
	after := e.history.Current()

	if !e.paletteMaxed {
		assert.Greater(t, len(after.Palette), before)
	}
}
