package engine

import "github.com/pixelab/superpix/colorspace"

// refinePalette moves each unlocked palette subcluster towards the
// prior-weighted mean of the superpixels that selected it, and returns the
// total palette movement as the convergence error (spec §4.5).
func (e *Engine) refinePalette() float64 {
	st := e.history.Current()
	paletteSize := len(st.Palette)

	sums := make([]colorspace.Lab, paletteSize)
	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			s := e.idxOut(x, y)
			rho := st.SuperpixelWeight[s]
			color := st.SuperpixelColor[s]
			for i := 0; i < paletteSize; i++ {
				w := rho * st.Assoc[i][s]
				sums[i] = sums[i].Add(color.Scale(w))
			}
		}
	}

	var errSum float64
	for i := 0; i < paletteSize; i++ {
		locked := i < len(st.Locked) && st.Locked[i]
		if !locked && st.Prior[i] > 0 {
			newColor := sums[i].Scale(1.0 / st.Prior[i])
			errSum += colorspace.Dist(st.Palette[i], newColor)
			st.Palette[i] = newColor
		}
	}
	return errSum
}
