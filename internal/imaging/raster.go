package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// ColorMode identifies the set and order of channels stored per pixel.
type ColorMode int

const (
	// ModeRGB stores three 8-bit channels per pixel: R, G, B.
	ModeRGB ColorMode = iota
	// ModeRGBA stores four non-premultiplied 8-bit channels: R, G, B, A.
	ModeRGBA
	// ModeGray stores a single 8-bit luminance channel.
	ModeGray
	// ModePalette stores a single 8-bit index into the raster's Palette.
	ModePalette
)

// String returns the conventional short name of the mode.
func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	case ModeGray:
		return "L"
	case ModePalette:
		return "P"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// Channels returns the number of bytes each pixel occupies in Pix,
// or 0 for a mode this package does not know.
func (m ColorMode) Channels() int {
	switch m {
	case ModeRGB:
		return 3
	case ModeRGBA:
		return 4
	case ModeGray, ModePalette:
		return 1
	default:
		return 0
	}
}

// HasAlpha reports whether the mode carries an alpha channel.
func (m ColorMode) HasAlpha() bool {
	return m == ModeRGBA
}

// Raster is an in-memory pixel grid with an explicit color mode.
//
// Pixels are stored row-major without padding: the pixel at (x, y) starts at
// offset (y*Width+x)*Mode.Channels(). A Raster produced by any function in
// this package is never modified afterwards; transformations allocate a new
// Raster.
//
// Raster implements image.Image so it can be handed directly to resamplers
// and encoders that accept the standard interface.
type Raster struct {
	Width   int
	Height  int
	Mode    ColorMode
	Pix     []uint8
	Palette color.Palette // only used by ModePalette
}

// NewRaster allocates a zeroed raster of the given size and mode.
func NewRaster(width, height int, mode ColorMode) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Mode:   mode,
		Pix:    make([]uint8, width*height*mode.Channels()),
	}
}

// Validate checks the raster invariants: positive dimensions, a known color
// mode, a pixel buffer of exactly Width*Height*Channels bytes, and a
// non-empty palette for palette images.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrMalformedImage)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedImage, r.Width, r.Height)
	}
	ch := r.Mode.Channels()
	if ch == 0 {
		return fmt.Errorf("%w: %v", ErrUnsupportedMode, r.Mode)
	}
	if want := r.Width * r.Height * ch; len(r.Pix) != want {
		return fmt.Errorf("%w: pixel buffer has %d bytes, want %d", ErrMalformedImage, len(r.Pix), want)
	}
	if r.Mode == ModePalette && len(r.Palette) == 0 {
		return fmt.Errorf("%w: palette image without palette", ErrMalformedImage)
	}
	return nil
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	c := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Mode:   r.Mode,
		Pix:    append([]uint8(nil), r.Pix...),
	}
	if r.Palette != nil {
		c.Palette = append(color.Palette(nil), r.Palette...)
	}
	return c
}

// Bounds implements image.Image. The origin is always (0, 0).
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	switch r.Mode {
	case ModeRGBA:
		return color.NRGBAModel
	case ModeGray:
		return color.GrayModel
	case ModePalette:
		return r.Palette
	default:
		return color.RGBAModel
	}
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(r.Bounds())) {
		return color.NRGBA{}
	}
	i := (y*r.Width + x) * r.Mode.Channels()
	switch r.Mode {
	case ModeRGB:
		return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
	case ModeRGBA:
		return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
	case ModeGray:
		return color.Gray{Y: r.Pix[i]}
	case ModePalette:
		if idx := int(r.Pix[i]); idx < len(r.Palette) {
			return r.Palette[idx]
		}
		return color.NRGBA{A: 0xff}
	default:
		return color.NRGBA{}
	}
}

// Image returns a copy of the raster as the closest standard library image
// type: *image.RGBA for RGB, *image.NRGBA for RGBA, *image.Gray and
// *image.Paletted. Encoders take their fast paths on these types.
func (r *Raster) Image() image.Image {
	rect := r.Bounds()
	switch r.Mode {
	case ModeRGB:
		dst := image.NewRGBA(rect)
		for i, j := 0, 0; i+2 < len(r.Pix); i, j = i+3, j+4 {
			dst.Pix[j] = r.Pix[i]
			dst.Pix[j+1] = r.Pix[i+1]
			dst.Pix[j+2] = r.Pix[i+2]
			dst.Pix[j+3] = 0xff
		}
		return dst
	case ModeRGBA:
		dst := image.NewNRGBA(rect)
		copy(dst.Pix, r.Pix)
		return dst
	case ModeGray:
		dst := image.NewGray(rect)
		copy(dst.Pix, r.Pix)
		return dst
	case ModePalette:
		dst := image.NewPaletted(rect, append(color.Palette(nil), r.Palette...))
		copy(dst.Pix, r.Pix)
		return dst
	default:
		return r.toNRGBA()
	}
}

// toNRGBA expands the raster to a freshly allocated *image.NRGBA.
func (r *Raster) toNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	n := r.Width * r.Height
	switch r.Mode {
	case ModeRGB:
		for p := 0; p < n; p++ {
			s, d := r.Pix[p*3:p*3+3:p*3+3], dst.Pix[p*4:p*4+4:p*4+4]
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		}
	case ModeRGBA:
		copy(dst.Pix, r.Pix)
	case ModeGray:
		for p := 0; p < n; p++ {
			y := r.Pix[p]
			d := dst.Pix[p*4 : p*4+4 : p*4+4]
			d[0], d[1], d[2], d[3] = y, y, y, 0xff
		}
	case ModePalette:
		table := paletteTable(r.Palette)
		for p := 0; p < n; p++ {
			c := table[r.Pix[p]]
			d := dst.Pix[p*4 : p*4+4 : p*4+4]
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
		}
	}
	return dst
}

// paletteTable resolves every possible index to a non-premultiplied color.
// Indices past the end of the palette resolve to opaque black.
func paletteTable(p color.Palette) *[256]color.NRGBA {
	var table [256]color.NRGBA
	for i := range table {
		if i < len(p) {
			table[i] = color.NRGBAModel.Convert(p[i]).(color.NRGBA)
		} else {
			table[i] = color.NRGBA{A: 0xff}
		}
	}
	return &table
}

// paletteHasAlpha reports whether any palette entry is not fully opaque.
func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// fromNRGBA packs an NRGBA image into a raster of the requested mode.
// ModeGray keeps the red channel, which equals the others for images
// derived from grayscale content.
func fromNRGBA(src *image.NRGBA, mode ColorMode) *Raster {
	b := src.Bounds()
	dst := NewRaster(b.Dx(), b.Dy(), mode)
	ch := mode.Channels()
	for y := 0; y < dst.Height; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.Width*ch : (y+1)*dst.Width*ch]
		switch mode {
		case ModeRGBA:
			copy(out, row[:dst.Width*4])
		case ModeRGB:
			for x := 0; x < dst.Width; x++ {
				out[x*3], out[x*3+1], out[x*3+2] = row[x*4], row[x*4+1], row[x*4+2]
			}
		case ModeGray:
			for x := 0; x < dst.Width; x++ {
				out[x] = row[x*4]
			}
		}
	}
	return dst
}

// FromImage converts a decoded image into a Raster.
//
// The color mode follows the decoded type:
//   - *image.Paletted -> ModePalette (indices and palette copied)
//   - *image.Gray, *image.Gray16 -> ModeGray
//   - *image.NRGBA, *image.NRGBA64 -> ModeRGBA
//   - anything else -> ModeRGB when the image reports itself opaque, else ModeRGBA
//
// The result never shares memory with img.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Paletted:
		dst := NewRaster(w, h, ModePalette)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*w:(y+1)*w], src.Pix[i:i+w])
		}
		dst.Palette = append(color.Palette(nil), src.Palette...)
		return dst
	case *image.Gray:
		dst := NewRaster(w, h, ModeGray)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*w:(y+1)*w], src.Pix[i:i+w])
		}
		return dst
	case *image.Gray16:
		dst := NewRaster(w, h, ModeGray)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pix[y*w+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return dst
	case *image.NRGBA:
		dst := NewRaster(w, h, ModeRGBA)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*w*4:(y+1)*w*4], src.Pix[i:i+w*4])
		}
		return dst
	case *image.NRGBA64:
		// Keep the high byte of each 16-bit channel.
		dst := NewRaster(w, h, ModeRGBA)
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[y*w*4 : (y+1)*w*4]
			for i := range out {
				out[i] = row[i*2]
			}
		}
		return dst
	}

	mode := ModeRGBA
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		mode = ModeRGB
	}
	dst := NewRaster(w, h, mode)
	ch := mode.Channels()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * ch
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = c.R, c.G, c.B
			if ch == 4 {
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}

// toRGB returns a new three-channel copy of r. Alpha is dropped without
// compositing, gray is expanded to equal channels and palette indices are
// looked up.
func toRGB(r *Raster) (*Raster, error) {
	dst := NewRaster(r.Width, r.Height, ModeRGB)
	n := r.Width * r.Height
	switch r.Mode {
	case ModeRGB:
		copy(dst.Pix, r.Pix)
	case ModeRGBA:
		for p := 0; p < n; p++ {
			s, d := r.Pix[p*4:p*4+3:p*4+3], dst.Pix[p*3:p*3+3:p*3+3]
			d[0], d[1], d[2] = s[0], s[1], s[2]
		}
	case ModeGray:
		for p := 0; p < n; p++ {
			y := r.Pix[p]
			d := dst.Pix[p*3 : p*3+3 : p*3+3]
			d[0], d[1], d[2] = y, y, y
		}
	case ModePalette:
		table := paletteTable(r.Palette)
		for p := 0; p < n; p++ {
			c := table[r.Pix[p]]
			d := dst.Pix[p*3 : p*3+3 : p*3+3]
			d[0], d[1], d[2] = c.R, c.G, c.B
		}
	default:
		return nil, fmt.Errorf("%w: cannot convert %v to RGB", ErrUnsupportedMode, r.Mode)
	}
	return dst, nil
}
