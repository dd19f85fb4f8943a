// Package colorspace provides the color and coordinate primitives shared by
// the superpixel engine: an RGBA output color type, a traditional-scale CIE
// L*a*b* type, and the conversions between them.
package colorspace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color represents an RGBA color value with 8-bit channels.
//
// Each channel (R, G, B, A) ranges from 0-255, where:
//   - R (red): 0 is no red, 255 is full red
//   - G (green): 0 is no green, 255 is full green
//   - B (blue): 0 is no blue, 255 is full blue
//   - A (alpha): 0 is fully transparent, 255 is fully opaque
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var hexColorPattern = regexp.MustCompile(`^#?([A-Fa-f0-9]{6}|[A-Fa-f0-9]{8})$`)

// NewColor creates a new Color with the specified RGBA values.
func NewColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NewColorRGB creates a new fully opaque Color with the specified RGB values.
func NewColorRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// FromHex parses a hex color string and updates the Color with the parsed values.
//
// Supported formats: "#RRGGBB", "#RRGGBBAA", and the same without the "#"
// prefix. Returns an error if the hex string format is invalid.
func (c *Color) FromHex(hex string) error {
	hex = strings.TrimPrefix(hex, "#")

	if !hexColorPattern.MatchString("#" + hex) {
		return fmt.Errorf("invalid hex color format: %q (expected #RRGGBB or #RRGGBBAA)", hex)
	}

	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)

	c.R = uint8(r)
	c.G = uint8(g)
	c.B = uint8(b)

	if len(hex) == 8 {
		a, _ := strconv.ParseUint(hex[6:8], 16, 8)
		c.A = uint8(a)
	} else {
		c.A = 255
	}

	return nil
}

// ToHex converts the color to a hex string in the format "#RRGGBBAA".
func (c Color) ToHex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ToHexRGB converts the color to a hex string in the format "#RRGGBB".
func (c Color) ToHexRGB() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Point represents an integer 2D coordinate, used for output-grid (superpixel)
// positions and input-image pixel coordinates alike.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rectangle represents a rectangular region in pixel space.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RGBImage is a dense W×H grid of Color, row-major (index = y*width+x).
type RGBImage struct {
	Width, Height int
	Pix           []Color
}

// NewRGBImage allocates a zero-valued RGBImage of the given dimensions.
func NewRGBImage(w, h int) RGBImage {
	return RGBImage{Width: w, Height: h, Pix: make([]Color, w*h)}
}

// At returns the color at (x,y).
func (img RGBImage) At(x, y int) Color {
	return img.Pix[y*img.Width+x]
}

// Set stores the color at (x,y).
func (img RGBImage) Set(x, y int, c Color) {
	img.Pix[y*img.Width+x] = c
}
