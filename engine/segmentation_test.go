package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelab/superpix/colorspace"
)

func uniformEngine(t *testing.T, w, h, ow, oh, palette int) *Engine {
	t.Helper()
	pix := make([]colorspace.Lab, w*h)
	for i := range pix {
		pix[i] = colorspace.Lab{L: 50}
	}
	img := LabImage{Width: w, Height: h, Pix: pix}
	e, err := NewEngine(img, ow, oh, palette, nopLogger())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	return e
}

func TestUpdateSuperpixelMappingAssignsEveryPixel(t *testing.T) {
	e := uniformEngine(t, 16, 16, 4, 4, 2)
	e.updateSuperpixelMapping()

	assert.Len(t, e.regionMap, 16*16)
	for _, r := range e.regionMap {
		assert.GreaterOrEqual(t, r, 0)
		assert.Less(t, r, 4*4)
	}
}

// Ties are broken by first-seen superpixel under x-outer/y-inner iteration
// over superpixels (spec §4.2). Superpixels at grid points (0,1) and (1,0)
// are placed equidistant (in the combined color+spatial metric, with color
// cancelling out under a uniform input) from input pixel (2,2); under
// x-outer/y-inner order (0,1) is visited before (1,0) and must win the tie.
// Under the opposite (y-outer/x-inner) order (1,0) would win instead, so
// this test would fail if the loop nesting were swapped.
func TestUpdateSuperpixelMappingTieBreakIsFirstSeen(t *testing.T) {
	e := uniformEngine(t, 4, 4, 2, 2, 2)
	st := e.history.Current()

	st.SuperpixelPos[e.idxOut(0, 0)] = Vec2{X: -10, Y: -10}
	st.SuperpixelPos[e.idxOut(1, 1)] = Vec2{X: 20, Y: 20}
	st.SuperpixelPos[e.idxOut(0, 1)] = Vec2{X: 1, Y: 3}
	st.SuperpixelPos[e.idxOut(1, 0)] = Vec2{X: 3, Y: 1}

	e.updateSuperpixelMapping()

	assert.Equal(t, e.idxOut(0, 1), e.regionMap[e.idxIn(2, 2)])
}

func TestRegionOverlayMarksBoundary(t *testing.T) {
	left := colorspace.Lab{L: 30, A: 40, B: 0}
	right := colorspace.Lab{L: 70, A: -40, B: 0}
	pix := make([]colorspace.Lab, 8*8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := left
			if x >= 4 {
				c = right
			}
			pix[y*8+x] = c
		}
	}
	img := LabImage{Width: 8, Height: 8, Pix: pix}
	e, err := NewEngine(img, 4, 4, 2, nopLogger())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	overlay, err := e.RegionOverlay()
	require.NoError(t, err)
	assert.Equal(t, 8, overlay.Width)
	assert.Equal(t, 8, overlay.Height)
}
