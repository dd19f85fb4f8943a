package colorspace

import (
	"image"
	stdcolor "image/color"
)

// FromImage converts a standard library image.Image into an RGBImage,
// dropping alpha (treated as fully opaque) so downstream Lab conversion
// always sees a well-defined RGB triple. This is the one place the engine's
// color plumbing touches image.Image directly, since decoding/resizing
// third-party images is unavoidably a stdlib-interface concern.
func FromImage(img image.Image) RGBImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewRGBImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
		}
	}
	return out
}

// ToImage converts an RGBImage into a standard library *image.RGBA, for
// encoding with the image/png or image/jpeg packages.
func (img RGBImage) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.Set(x, y, stdcolor.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return out
}
