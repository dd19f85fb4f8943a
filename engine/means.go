package engine

import "github.com/pixelab/superpix/colorspace"

// updateSuperpixelMeans recomputes each superpixel's mean color and
// centroid position from its currently assigned input pixels, accumulates
// normalized importance weight ρ, and applies one pass each of Laplacian
// position smoothing and bilateral color smoothing (spec §4.3).
func (e *Engine) updateSuperpixelMeans() {
	st := e.history.Current()
	n := e.outputWidth * e.outputHeight

	colorSums := make([]colorspace.Lab, n)
	posSums := make([]Vec2, n)
	counts := make([]float64, n)
	weightSums := make([]float64, n)

	for y := 0; y < e.input.Height; y++ {
		for x := 0; x < e.input.Width; x++ {
			s := e.regionMap[e.idxIn(x, y)]
			colorSums[s] = colorSums[s].Add(e.input.At(x, y))
			posSums[s] = posSums[s].Add(Vec2{X: float64(x), Y: float64(y)})
			counts[s]++
			weightSums[s] += e.weights.At(x, y)
		}
	}

	var totalWeight float64
	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			s := e.idxOut(x, y)
			if counts[s] == 0 {
				// Preserved divergence from original_source/pix.cpp's
				// UpdateSuperpixelMeans: both fallback input coordinates are
				// derived from the output x, not x and y respectively. This
				// looks like a transcription bug in the reference; it is kept
				// verbatim rather than silently corrected (spec.md §9).
				inputX := int(float64(x) / float64(e.outputWidth) * float64(e.input.Width))
				inputY := inputX
				st.SuperpixelColor[s] = e.input.At(inputX, inputY)
				continue
			}
			wn := 1.0 / counts[s]
			st.SuperpixelColor[s] = colorSums[s].Scale(wn)
			st.SuperpixelPos[s] = posSums[s].Scale(wn)
			weightSums[s] *= wn
			totalWeight += weightSums[s]
		}
	}

	for s := 0; s < n; s++ {
		st.SuperpixelWeight[s] = weightSums[s] / totalWeight
	}

	e.smoothSuperpixelPositions(st)
	e.smoothSuperpixelColors(st)
}

// smoothSuperpixelPositions applies one pass of Laplacian smoothing: each
// superpixel moves a fraction smoothPos of the way towards the centroid of
// its existing 4-neighbors, skipping any axis missing a neighbor on either
// side (spec §4.3). Reads from a stable copy, writes a fresh buffer.
func (e *Engine) smoothSuperpixelPositions(st *State) {
	orig := append([]Vec2(nil), st.SuperpixelPos...)
	next := make([]Vec2, len(orig))

	for x := 0; x < e.outputWidth; x++ {
		for y := 0; y < e.outputHeight; y++ {
			var sum Vec2
			var count float64
			if x > 0 {
				sum = sum.Add(orig[e.idxOut(x-1, y)])
				count++
			}
			if x < e.outputWidth-1 {
				sum = sum.Add(orig[e.idxOut(x+1, y)])
				count++
			}
			if y > 0 {
				sum = sum.Add(orig[e.idxOut(x, y-1)])
				count++
			}
			if y < e.outputHeight-1 {
				sum = sum.Add(orig[e.idxOut(x, y+1)])
				count++
			}
			sum = sum.Scale(1.0 / count)

			cur := orig[e.idxOut(x, y)]
			var np Vec2
			if x == 0 || x == e.outputWidth-1 {
				np.X = cur.X
			} else {
				np.X = (1-e.smoothPos)*cur.X + e.smoothPos*sum.X
			}
			if y == 0 || y == e.outputHeight-1 {
				np.Y = cur.Y
			} else {
				np.Y = (1-e.smoothPos)*cur.Y + e.smoothPos*sum.Y
			}
			next[e.idxOut(x, y)] = np
		}
	}
	st.SuperpixelPos = next
}

// smoothSuperpixelColors applies one pass of bilateral smoothing over a 3x3
// window in superpixel-grid space, weighting neighbors by both color and
// spatial Gaussians (spec §4.3). Reads from a stable copy, writes a fresh
// buffer.
func (e *Engine) smoothSuperpixelColors(st *State) {
	orig := append([]colorspace.Lab(nil), st.SuperpixelColor...)
	next := make([]colorspace.Lab, len(orig))

	for x := 0; x < e.outputWidth; x++ {
		for y := 0; y < e.outputHeight; y++ {
			minX, maxX := clampInt(x-1, 0, e.outputWidth-1), clampInt(x+1, 0, e.outputWidth-1)
			minY, maxY := clampInt(y-1, 0, e.outputHeight-1), clampInt(y+1, 0, e.outputHeight-1)

			center := orig[e.idxOut(x, y)]
			var sum colorspace.Lab
			var weight float64

			for xx := minX; xx <= maxX; xx++ {
				for yy := minY; yy <= maxY; yy++ {
					n := orig[e.idxOut(xx, yy)]
					dColor := colorspace.Dist(center, n)
					wColor := colorspace.Gaussian(dColor, e.sigmaColor, 0)
					dPos := dist2(Vec2{X: float64(x), Y: float64(y)}, Vec2{X: float64(xx), Y: float64(yy)})
					wPos := colorspace.Gaussian(dPos, e.sigmaPosition, 0)
					w := wColor * wPos

					weight += w
					sum = sum.Add(n.Scale(w))
				}
			}
			next[e.idxOut(x, y)] = sum.Scale(1.0 / weight)
		}
	}
	st.SuperpixelColor = next
}
