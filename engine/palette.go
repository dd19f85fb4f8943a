package engine

import (
	"sort"

	"github.com/pixelab/superpix/colorspace"
)

// PaletteEntry pairs an effective palette color (converted to RGB, with
// saturation applied) with descriptive hue/saturation/lightness metadata
// and a lightness-rank role, in the style of the teacher's palette
// extraction output.
//
// (Full definition lives in types.go; methods that build PaletteEntry
// slices live here alongside the rest of the public palette surface.)

// averagedPalette returns the per-subcluster averaged palette used
// internally by segmentation and output rendering (spec §4.2, §4.5
// "AveragedPalette"): while the palette is still splitting, both
// subclusters of a pair are replaced by their prior-weighted average;
// once palette_maxed, it is identical to st.Palette. The returned slice
// has exactly len(st.Palette) entries, indexed by raw subcluster index —
// not by pair index — matching original_source/pix.cpp's GetAveragedPalette.
func (e *Engine) averagedPalette(st *State) []colorspace.Lab {
	averaged := append([]colorspace.Lab(nil), st.Palette...)
	if e.paletteMaxed {
		return averaged
	}
	for _, pair := range st.Pairs {
		wa, wb := st.Prior[pair.A], st.Prior[pair.B]
		total := wa + wb
		wa, wb = wa/total, wb/total
		blended := st.Palette[pair.A].Scale(wa).Add(st.Palette[pair.B].Scale(wb))
		averaged[pair.A] = blended
		averaged[pair.B] = blended
	}
	return averaged
}

// effectivePalette returns the user-visible palette: one color per pair
// while splitting, or the full condensed palette once maxed (spec §4.5).
func (e *Engine) effectivePalette(st *State) []colorspace.Lab {
	if e.paletteMaxed {
		return append([]colorspace.Lab(nil), st.Palette...)
	}
	out := make([]colorspace.Lab, 0, len(st.Pairs))
	for _, pair := range st.Pairs {
		wa, wb := st.Prior[pair.A], st.Prior[pair.B]
		total := wa + wb
		wa, wb = wa/total, wb/total
		out = append(out, st.Palette[pair.A].Scale(wa).Add(st.Palette[pair.B].Scale(wb)))
	}
	return out
}

// GetPalette returns the current effective palette in RGB, with hue,
// saturation, lightness, and a lightness-rank role attached to each entry
// (SUPPLEMENTED FEATURES: PaletteEntry).
func (e *Engine) GetPalette() ([]PaletteEntry, error) {
	if !e.initialized {
		return nil, ErrNotInitialized
	}
	st := e.history.Current()
	labs := e.effectivePalette(st)

	entries := make([]PaletteEntry, len(labs))
	for i, lab := range labs {
		saturated := colorspace.Lab{L: lab.L, A: lab.A * st.Saturation, B: lab.B * st.Saturation}
		c := saturated.ToRGB()
		h, s, l := saturated.HSL()
		entries[i] = PaletteEntry{Color: c, Hue: h, Saturation: s, Lightness: l}
	}
	assignPaletteRoles(entries)
	return entries, nil
}

// assignPaletteRoles labels each entry with a lightness-rank role, mirroring
// the teacher's assignPaletteRoles in pkg/aseprite/palette.go.
func assignPaletteRoles(entries []PaletteEntry) {
	n := len(entries)
	if n == 0 {
		return
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return entries[order[i]].Lightness < entries[order[j]].Lightness })

	rank := make([]int, n)
	for r, idx := range order {
		rank[idx] = r
	}

	for i := range entries {
		ratio := 0.0
		if n > 1 {
			ratio = float64(rank[i]) / float64(n-1)
		}
		switch {
		case ratio < 0.2:
			entries[i].Role = "dark_shadow"
		case ratio < 0.4:
			entries[i].Role = "shadow"
		case ratio < 0.6:
			entries[i].Role = "midtone"
		case ratio < 0.8:
			entries[i].Role = "light"
		default:
			entries[i].Role = "highlight"
		}
	}
}

// GetOutputImage renders the current segmentation as a w x h RGB image: each
// superpixel's hard-assigned, saturation-adjusted averaged-palette color,
// quantized to 8-bit (spec §6 get_output_image).
func (e *Engine) GetOutputImage() (colorspace.RGBImage, error) {
	if !e.initialized {
		return colorspace.RGBImage{}, ErrNotInitialized
	}
	st := e.history.Current()
	averaged := e.averagedPalette(st)

	img := colorspace.NewRGBImage(e.outputWidth, e.outputHeight)
	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			lab := averaged[st.HardAssign[e.idxOut(x, y)]]
			saturated := colorspace.Lab{L: lab.L, A: lab.A * st.Saturation, B: lab.B * st.Saturation}
			img.Set(x, y, saturated.ToRGB())
		}
	}
	return img, nil
}

// SuperpixelPreview returns one RGB value per output-grid cell showing each
// superpixel's own mean color, independent of palette assignment —
// reimplementation of original_source/pixui.cpp's GetSuperpixelImage
// (SUPPLEMENTED FEATURES).
func (e *Engine) SuperpixelPreview() (colorspace.RGBImage, error) {
	if !e.initialized {
		return colorspace.RGBImage{}, ErrNotInitialized
	}
	st := e.history.Current()
	img := colorspace.NewRGBImage(e.outputWidth, e.outputHeight)
	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			img.Set(x, y, st.SuperpixelColor[e.idxOut(x, y)].ToRGB())
		}
	}
	return img, nil
}

// RegionOverlay returns the input image (converted to RGB) with a boundary
// pixel wherever the right or lower neighbor in the region map belongs to a
// different superpixel (left and upper neighbors are not compared), matching
// original_source/pix.cpp's GetRegionImage
// (SUPPLEMENTED FEATURES).
func (e *Engine) RegionOverlay() (colorspace.RGBImage, error) {
	if !e.initialized {
		return colorspace.RGBImage{}, ErrNotInitialized
	}
	img := colorspace.NewRGBImage(e.input.Width, e.input.Height)
	for y := 0; y < e.input.Height; y++ {
		for x := 0; x < e.input.Width; x++ {
			img.Set(x, y, e.input.At(x, y).ToRGB())
		}
	}

	boundary := colorspace.NewColorRGB(255, 0, 0)
	for y := 0; y < e.input.Height; y++ {
		for x := 0; x < e.input.Width; x++ {
			cluster := e.regionMap[e.idxIn(x, y)]
			if x+1 < e.input.Width && e.regionMap[e.idxIn(x+1, y)] != cluster {
				img.Set(x, y, boundary)
			}
			if y+1 < e.input.Height && e.regionMap[e.idxIn(x, y+1)] != cluster {
				img.Set(x, y, boundary)
			}
		}
	}
	return img, nil
}
