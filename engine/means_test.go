package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSuperpixelMeansNormalizesWeights(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 2)
	e.updateSuperpixelMapping()
	e.updateSuperpixelMeans()

	st := e.history.Current()
	var sum float64
	for _, rho := range st.SuperpixelWeight {
		sum += rho
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSmoothSuperpixelPositionsPinsEdges(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 2)
	st := e.history.Current()

	corner := st.SuperpixelPos[e.idxOut(0, 0)]
	e.smoothSuperpixelPositions(st)
	assert.Equal(t, corner, st.SuperpixelPos[e.idxOut(0, 0)])
}

func TestEmptySuperpixelFallbackUsesXForBothCoordinates(t *testing.T) {
	// A 2x2 output grid over a 16x16 input leaves no superpixel empty in the
	// normal case, so force emptiness directly by pointing every input pixel
	// at a different superpixel than the one under test.
	e := uniformEngine(t, 16, 16, 2, 2, 2)
	require.Len(t, e.regionMap, 16*16)
	for i := range e.regionMap {
		e.regionMap[i] = e.idxOut(1, 1)
	}

	e.updateSuperpixelMeans()

	st := e.history.Current()
	x, y := 0, 0
	inputX := int(float64(x) / float64(e.outputWidth) * float64(e.input.Width))
	inputY := inputX
	want := e.input.At(inputX, inputY)
	assert.Equal(t, want, st.SuperpixelColor[e.idxOut(x, y)])
}
