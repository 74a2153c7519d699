package imaging

import "fmt"

// Grayscale returns a single-channel copy of r.
//
// Each output value is the ITU-R BT.601 luma of the source pixel,
// round(0.299*R + 0.587*G + 0.114*B). Alpha is discarded and palette
// entries are looked up first. A grayscale input is copied unchanged, which
// makes the conversion idempotent.
func Grayscale(r *Raster) (*Raster, error) {
	dst := NewRaster(r.Width, r.Height, ModeGray)
	n := r.Width * r.Height

	switch r.Mode {
	case ModeGray:
		copy(dst.Pix, r.Pix)
	case ModeRGB, ModeRGBA:
		ch := r.Mode.Channels()
		for p := 0; p < n; p++ {
			s := r.Pix[p*ch : p*ch+3 : p*ch+3]
			dst.Pix[p] = luma(s[0], s[1], s[2])
		}
	case ModePalette:
		var lut [256]uint8
		for i, c := range paletteTable(r.Palette) {
			lut[i] = luma(c.R, c.G, c.B)
		}
		for p := 0; p < n; p++ {
			dst.Pix[p] = lut[r.Pix[p]]
		}
	default:
		return nil, fmt.Errorf("%w: cannot convert %v to grayscale", ErrUnsupportedMode, r.Mode)
	}
	return dst, nil
}

// luma computes rounded BT.601 luma in fixed point (weights in thousandths).
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
