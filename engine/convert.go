package engine

import "github.com/pixelab/superpix/colorspace"

// NewLabImage converts an RGBImage (as decoded from a standard image file)
// into the Lab-space LabImage the engine operates on.
func NewLabImage(img colorspace.RGBImage) LabImage {
	pix := make([]colorspace.Lab, len(img.Pix))
	for i, c := range img.Pix {
		pix[i] = colorspace.RGBToLab(c)
	}
	return LabImage{Width: img.Width, Height: img.Height, Pix: pix}
}
