package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/pixelab/superpix/colorspace"
)

func nopLogger() core.Logger {
	return mtlog.New(mtlog.WithMinimumLevel(core.ErrorLevel))
}

func bichromeEngine(t *testing.T) *Engine {
	t.Helper()
	left := colorspace.Lab{L: 30, A: 40, B: 0}
	right := colorspace.Lab{L: 70, A: -40, B: 0}
	pix := make([]colorspace.Lab, 16*16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := left
			if x >= 8 {
				c = right
			}
			pix[y*16+x] = c
		}
	}
	img := LabImage{Width: 16, Height: 16, Pix: pix}
	e, err := NewEngine(img, 8, 8, 2, nopLogger())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	return e
}

// Invariant 1: sum of superpixel weights is 1.
func TestInvariantSuperpixelWeightsSumToOne(t *testing.T) {
	e := bichromeEngine(t)
	for i := 0; i < 5; i++ {
		e.Iterate()
		st := e.history.Current()
		var sum float64
		for _, rho := range st.SuperpixelWeight {
			sum += rho
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
}

// Invariant 2: sum of palette priors is 1 after association.
func TestInvariantPriorsSumToOne(t *testing.T) {
	e := bichromeEngine(t)
	for i := 0; i < 5; i++ {
		e.Iterate()
		st := e.history.Current()
		var sum float64
		for _, pi := range st.Prior {
			sum += pi
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
}

// Invariant 3: every hard assignment is a valid palette index.
func TestInvariantHardAssignInRange(t *testing.T) {
	e := bichromeEngine(t)
	for i := 0; i < 5; i++ {
		e.Iterate()
		st := e.history.Current()
		for _, a := range st.HardAssign {
			assert.GreaterOrEqual(t, a, 0)
			assert.Less(t, a, len(st.Palette))
		}
	}
}

// Invariant 4: before condensation, every subcluster appears in exactly one
// pair, and the effective palette size equals the pair count.
func TestInvariantPairsCoverEverySubclusterOnce(t *testing.T) {
	e := bichromeEngine(t)
	for i := 0; i < 3; i++ {
		e.Iterate()
	}
	st := e.history.Current()
	if e.paletteMaxed {
		return
	}
	seen := make(map[int]int)
	for _, p := range st.Pairs {
		seen[p.A]++
		seen[p.B]++
	}
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "subcluster %d referenced %d times", idx, count)
	}
	assert.Len(t, st.Palette, len(seen))
	assert.Len(t, e.effectivePalette(st), len(st.Pairs))
}

// Invariant 6 (first half): temperature is non-increasing across iterations.
func TestInvariantTemperatureNonIncreasing(t *testing.T) {
	e := bichromeEngine(t)
	last := e.temperature
	for i := 0; i < 40; i++ {
		e.Iterate()
		assert.LessOrEqual(t, e.temperature, last+1e-9)
		last = e.temperature
	}
}

// Invariant 7: iterate() is a no-op once converged.
func TestInvariantConvergedIsNoOp(t *testing.T) {
	e := bichromeEngine(t)
	for i := 0; i < 128 && !e.converged; i++ {
		e.Iterate()
	}
	require.True(t, e.converged)

	before := e.history.Current().deepCopy()
	e.Iterate()
	after := e.history.Current()

	assert.Equal(t, before.Palette, after.Palette)
	assert.Equal(t, before.Iteration, after.Iteration)
}

// Invariant 8: after a snapshot, undo restores a bytewise-equal state
// (modulo temperature, which is not snapshotted).
func TestInvariantUndoRestoresSnapshot(t *testing.T) {
	e := bichromeEngine(t)
	e.Iterate()

	before := e.history.Current().deepCopy()
	e.Snapshot()
	e.Iterate()
	e.Iterate()

	require.True(t, e.Undo())
	restored := e.history.Current()

	assert.Equal(t, before.SuperpixelPos, restored.SuperpixelPos)
	assert.Equal(t, before.SuperpixelColor, restored.SuperpixelColor)
	assert.Equal(t, before.HardAssign, restored.HardAssign)
	assert.Equal(t, before.Palette, restored.Palette)
	assert.Equal(t, before.Prior, restored.Prior)
	assert.Equal(t, before.Locked, restored.Locked)
	assert.Equal(t, before.Constraints, restored.Constraints)
	assert.Equal(t, before.Pairs, restored.Pairs)
	assert.Equal(t, before.Iteration, restored.Iteration)
	assert.Equal(t, before.Saturation, restored.Saturation)
}

// Invariant 9: a locked color is bit-identical across RefinePalette calls.
func TestInvariantLockedColorUnchangedByRefine(t *testing.T) {
	e := bichromeEngine(t)
	st := e.history.Current()
	locked := st.Palette[0]
	st.Locked[0] = true

	for i := 0; i < 10; i++ {
		e.updateSuperpixelMapping()
		e.updateSuperpixelMeans()
		e.associatePalette()
		e.refinePalette()
	}

	assert.Equal(t, locked, e.history.Current().Palette[0])
}

// Invariant 10: a single-entry pixel constraint forces that hard assignment.
func TestInvariantPixelConstraintForcesAssignment(t *testing.T) {
	e := bichromeEngine(t)
	st := e.history.Current()
	st.Constraints[e.idxOut(0, 0)] = []int{1}

	e.associatePalette()

	assert.Equal(t, 1, e.history.Current().HardAssign[e.idxOut(0, 0)])
}
