package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a single CIE L*a*b* color value on the traditional scale: L in
// [0,100], a and b roughly in [-128,127]. This is the scale the engine's
// numeric constants (split threshold, perturbation magnitude, palette-error
// tolerance) are defined against, which is why it is not expressed in terms
// of go-colorful's own Color type: that library normalizes L to [0,1] and
// a/b to roughly [-1,1], a convention incompatible with those constants.
type Lab struct {
	L, A, B float64
}

// Sub returns the componentwise difference lab - other.
func (lab Lab) Sub(other Lab) Lab {
	return Lab{lab.L - other.L, lab.A - other.A, lab.B - other.B}
}

// Add returns the componentwise sum lab + other.
func (lab Lab) Add(other Lab) Lab {
	return Lab{lab.L + other.L, lab.A + other.A, lab.B + other.B}
}

// Scale returns lab scaled by s.
func (lab Lab) Scale(s float64) Lab {
	return Lab{lab.L * s, lab.A * s, lab.B * s}
}

// Abs returns the componentwise absolute value of lab.
func (lab Lab) Abs() Lab {
	return Lab{math.Abs(lab.L), math.Abs(lab.A), math.Abs(lab.B)}
}

// Norm returns the Euclidean (L2) norm of lab, used throughout the engine
// as both a color distance (when applied to a difference) and a vector
// magnitude (when normalizing eigenvectors).
func (lab Lab) Norm() float64 {
	return math.Sqrt(lab.L*lab.L + lab.A*lab.A + lab.B*lab.B)
}

// Dist returns the Euclidean distance between two Lab colors.
func Dist(a, b Lab) float64 {
	return a.Sub(b).Norm()
}

// Gaussian evaluates a Gaussian with the given standard deviation and mean
// at x, normalized to integrate to 1 — used by the bilateral color smoothing
// pass (engine/means.go).
func Gaussian(x, sigma, mean float64) float64 {
	d := x - mean
	return math.Exp(-(d * d) / (2 * sigma * sigma)) / math.Sqrt(2*math.Pi*sigma*sigma)
}

const (
	d65X = 95.047
	d65Y = 100.0
	d65Z = 108.883
)

// ToRGB converts a traditional-scale Lab color to an 8-bit sRGB Color,
// via the standard CIE Lab -> XYZ (D65) -> linear sRGB -> gamma-encoded sRGB
// pipeline. Out-of-gamut results are clamped.
func (lab Lab) ToRGB() Color {
	r, g, b := lab.toLinearSRGB()
	r, g, b = gammaEncode(r), gammaEncode(g), gammaEncode(b)
	return Color{
		R: to8(r),
		G: to8(g),
		B: to8(b),
		A: 255,
	}
}

// toLinearSRGB converts Lab to linear (non-gamma-encoded) sRGB in [0,1],
// without clamping, so callers needing the go-colorful representation for
// metadata (hue/saturation/lightness) can still construct a valid Color.
func (lab Lab) toLinearSRGB() (r, g, b float64) {
	fy := (lab.L + 16) / 116
	fx := fy + lab.A/500
	fz := fy - lab.B/200

	x := d65X * finv(fx) / 100
	y := d65Y * finv(fy) / 100
	z := d65Z * finv(fz) / 100

	r = 3.2406*x - 1.5372*y - 0.4986*z
	g = -0.9689*x + 1.8758*y + 0.0415*z
	b = 0.0557*x - 0.2040*y + 1.0570*z
	return
}

func finv(t float64) float64 {
	if t3 := t * t * t; t3 > 0.008856 {
		return t3
	}
	return (t - 16.0/116.0) / 7.787
}

func gammaEncode(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func gammaDecode(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func to8(c float64) uint8 {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(math.Round(c * 255))
}

// RGBToLab converts an 8-bit sRGB color to traditional-scale Lab, the
// inverse of Lab.ToRGB. Used by Engine.SetColor to accept caller-supplied
// RGB colors.
func RGBToLab(c Color) Lab {
	r := gammaDecode(float64(c.R) / 255)
	g := gammaDecode(float64(c.G) / 255)
	b := gammaDecode(float64(c.B) / 255)

	x := (0.4124*r + 0.3576*g + 0.1805*b) * 100 / d65X
	y := (0.2126*r + 0.7152*g + 0.0722*b) * 100 / d65Y
	z := (0.0193*r + 0.1192*g + 0.9505*b) * 100 / d65Z

	fx, fy, fz := fwd(x), fwd(y), fwd(z)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func fwd(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// HSL converts lab to hue (degrees), saturation, and lightness (both in
// [0,1]), by round-tripping through go-colorful's Color — the one place the
// engine leans on go-colorful's color math rather than its own, since HSL
// banding is exactly what that library is for and the engine has no
// specified numeric contract tied to the HSL scale.
func (lab Lab) HSL() (h, s, l float64) {
	r, g, b := lab.toLinearSRGB()
	c := colorful.LinearRgb(clamp01(r), clamp01(g), clamp01(b))
	return c.Hsl()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
