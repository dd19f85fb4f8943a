package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixelab/superpix/colorspace"
)

func TestNewStateAllocatesUniformSaturation(t *testing.T) {
	st := newState(6)
	assert.Len(t, st.SuperpixelPos, 6)
	assert.Len(t, st.SuperpixelColor, 6)
	assert.Len(t, st.HardAssign, 6)
	assert.Len(t, st.Constraints, 6)
	assert.Equal(t, 1.0, st.Saturation)
}

func TestStateDeepCopyIsIndependent(t *testing.T) {
	st := newState(2)
	st.Palette = []colorspace.Lab{{L: 1}, {L: 2}}
	st.Assoc = [][]float64{{0.1, 0.2}, {0.3, 0.4}}
	st.Constraints[0] = []int{1, 2}

	cp := st.deepCopy()
	cp.Palette[0] = colorspace.Lab{L: 100}
	cp.Assoc[0][0] = 9.9
	cp.Constraints[0][0] = 999

	assert.Equal(t, colorspace.Lab{L: 1}, st.Palette[0])
	assert.Equal(t, 0.1, st.Assoc[0][0])
	assert.Equal(t, 1, st.Constraints[0][0])
}
