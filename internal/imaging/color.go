package imaging

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents a non-premultiplied RGBA color with 8-bit components.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = opaque
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // "#rrggbb", alpha excluded
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor reads the pixel at (x, y).
//
// Coordinates are 0-based with the origin at the top-left corner. Palette
// pixels report the palette entry; grayscale pixels report R=G=B.
//
// Returns an error if (x, y) lies outside the raster.
func SampleColor(r *Raster, x, y int) (*ColorResult, error) {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, r.Width, r.Height)
	}

	c := color.NRGBAModel.Convert(r.At(x, y)).(color.NRGBA)
	return newColorResult(c), nil
}

// MeanColor returns the average opaque color of the raster, ignoring alpha.
func MeanColor(r *Raster) *ColorResult {
	rgb, err := toRGB(r)
	if err != nil || len(rgb.Pix) == 0 {
		return newColorResult(color.NRGBA{A: 0xff})
	}

	var sr, sg, sb uint64
	for i := 0; i+2 < len(rgb.Pix); i += 3 {
		sr += uint64(rgb.Pix[i])
		sg += uint64(rgb.Pix[i+1])
		sb += uint64(rgb.Pix[i+2])
	}
	n := uint64(rgb.Width * rgb.Height)
	return newColorResult(color.NRGBA{
		R: uint8((sr + n/2) / n),
		G: uint8((sg + n/2) / n),
		B: uint8((sb + n/2) / n),
		A: 0xff,
	})
}

func newColorResult(c color.NRGBA) *ColorResult {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()

	return &ColorResult{
		Hex:  cf.Hex(),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}
