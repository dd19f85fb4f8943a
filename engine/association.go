package engine

import (
	"math"

	"github.com/pixelab/superpix/colorspace"
)

// associatePalette computes soft assignments of each superpixel to each
// palette subcluster under a Gibbs distribution at the current temperature,
// picks the hard maximum-a-posteriori assignment by minimum color distance,
// and re-accumulates the palette prior from zero (spec §4.4).
func (e *Engine) associatePalette() {
	st := e.history.Current()
	n := e.outputWidth * e.outputHeight
	paletteSize := len(st.Palette)

	newPrior := make([]float64, paletteSize)
	newAssoc := make([][]float64, paletteSize)
	for i := range newAssoc {
		newAssoc[i] = make([]float64, n)
	}

	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			s := e.idxOut(x, y)
			color := st.SuperpixelColor[s]

			constraints := st.Constraints[s]
			if len(constraints) == 0 {
				constraints = allIndices(paletteSize)
			}

			probs := make([]float64, len(constraints))
			sumProb := 0.0
			bestIndex := -1
			bestDist := 0.0

			for k, i := range constraints {
				dist := colorspace.Dist(st.Palette[i], color)
				p := st.Prior[i] * math.Exp(-dist/e.temperature)
				probs[k] = p
				sumProb += p
				if bestIndex == -1 || dist < bestDist {
					bestIndex = i
					bestDist = dist
				}
			}

			st.HardAssign[s] = bestIndex

			rho := st.SuperpixelWeight[s]
			for k, i := range constraints {
				q := probs[k] / sumProb
				newAssoc[i][s] = q
				newPrior[i] += rho * q
			}
		}
	}

	st.Prior = newPrior
	st.Assoc = newAssoc
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
