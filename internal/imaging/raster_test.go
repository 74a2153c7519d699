package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// uniformRGB creates an RGB raster filled with one color.
func uniformRGB(width, height int, r, g, b uint8) *Raster {
	img := NewRaster(width, height, ModeRGB)
	for i := 0; i < len(img.Pix); i += 3 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
	}
	return img
}

// gradientRGB creates an RGB raster with a horizontal red ramp and a
// vertical green ramp, so resampling has real content to work on.
func gradientRGB(width, height int) *Raster {
	img := NewRaster(width, height, ModeRGB)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.Pix[i] = uint8(x * 255 / width)
			img.Pix[i+1] = uint8(y * 255 / height)
			img.Pix[i+2] = 128
		}
	}
	return img
}

// twoColorPalette creates a palette raster alternating between red and a
// half-transparent blue.
func twoColorPalette(width, height int) *Raster {
	img := NewRaster(width, height, ModePalette)
	img.Palette = color.Palette{
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{0, 0, 255, 128},
	}
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 2)
	}
	return img
}

func TestColorMode_Channels(t *testing.T) {
	tests := []struct {
		mode     ColorMode
		channels int
		name     string
	}{
		{ModeRGB, 3, "RGB"},
		{ModeRGBA, 4, "RGBA"},
		{ModeGray, 1, "L"},
		{ModePalette, 1, "P"},
		{ColorMode(42), 0, "ColorMode(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Channels(); got != tt.channels {
				t.Errorf("Channels: got %d, want %d", got, tt.channels)
			}
			if got := tt.mode.String(); got != tt.name {
				t.Errorf("String: got %s, want %s", got, tt.name)
			}
		})
	}
}

func TestRaster_Validate(t *testing.T) {
	tests := []struct {
		name    string
		raster  *Raster
		wantErr error
	}{
		{"valid rgb", NewRaster(3, 2, ModeRGB), nil},
		{"valid palette", twoColorPalette(2, 2), nil},
		{"nil", nil, ErrMalformedImage},
		{"zero width", NewRaster(0, 2, ModeRGB), ErrMalformedImage},
		{"short buffer", &Raster{Width: 2, Height: 2, Mode: ModeRGBA, Pix: make([]uint8, 15)}, ErrMalformedImage},
		{"palette without colors", NewRaster(2, 2, ModePalette), ErrMalformedImage},
		{"unknown mode", &Raster{Width: 1, Height: 1, Mode: ColorMode(9)}, ErrUnsupportedMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.raster.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromImage_Modes(t *testing.T) {
	rect := image.Rect(0, 0, 4, 3)

	translucent := image.NewRGBA(rect)
	translucent.Set(0, 0, color.RGBA{10, 10, 10, 10})

	tests := []struct {
		name string
		img  image.Image
		want ColorMode
	}{
		{"paletted", image.NewPaletted(rect, color.Palette{color.Black, color.White}), ModePalette},
		{"gray", image.NewGray(rect), ModeGray},
		{"gray16", image.NewGray16(rect), ModeGray},
		{"nrgba", image.NewNRGBA(rect), ModeRGBA},
		{"nrgba64", image.NewNRGBA64(rect), ModeRGBA},
		{"opaque ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), ModeRGB},
		{"translucent rgba", translucent, ModeRGBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromImage(tt.img)
			if r.Mode != tt.want {
				t.Errorf("Mode: got %v, want %v", r.Mode, tt.want)
			}
			if r.Width != 4 || r.Height != 3 {
				t.Errorf("dimensions: got %dx%d, want 4x3", r.Width, r.Height)
			}
			if err := r.Validate(); err != nil {
				t.Errorf("converted raster invalid: %v", err)
			}
		})
	}
}

func TestFromImage_NRGBA64(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 6, 6))
	src.SetNRGBA64(3, 2, color.NRGBA64{0x1234, 0xabcd, 0xff00, 0x80ff})

	r := FromImage(src.SubImage(image.Rect(2, 2, 5, 5)))
	if r.Mode != ModeRGBA || r.Width != 3 || r.Height != 3 {
		t.Fatalf("got %dx%d %v, want 3x3 RGBA", r.Width, r.Height, r.Mode)
	}
	if got := r.At(1, 0).(color.NRGBA); got != (color.NRGBA{0x12, 0xab, 0xff, 0x80}) {
		t.Errorf("pixel: got %v, want {18 171 255 128}", got)
	}
	if got := r.At(0, 0).(color.NRGBA); got != (color.NRGBA{}) {
		t.Errorf("untouched pixel: got %v, want zero", got)
	}
}

func TestFromImage_SubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	src.Set(5, 5, color.NRGBA{1, 2, 3, 4})

	sub := src.SubImage(image.Rect(5, 5, 8, 8))
	r := FromImage(sub)

	if r.Width != 3 || r.Height != 3 {
		t.Fatalf("dimensions: got %dx%d, want 3x3", r.Width, r.Height)
	}
	if got := r.At(0, 0).(color.NRGBA); got != (color.NRGBA{1, 2, 3, 4}) {
		t.Errorf("origin pixel: got %v, want {1 2 3 4}", got)
	}
}

func TestFromImage_DoesNotAlias(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	r := FromImage(src)
	r.Pix[0] = 200
	if src.Pix[0] != 0 {
		t.Error("FromImage shares its buffer with the source image")
	}
}

func TestRaster_ImageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		r    *Raster
	}{
		{"rgb", gradientRGB(7, 5)},
		{"palette", twoColorPalette(3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := FromImage(tt.r.Image())
			if back.Mode != tt.r.Mode {
				t.Fatalf("Mode: got %v, want %v", back.Mode, tt.r.Mode)
			}
			if string(back.Pix) != string(tt.r.Pix) {
				t.Error("pixels changed across Image/FromImage")
			}
		})
	}
}

func TestRaster_Clone(t *testing.T) {
	src := twoColorPalette(2, 2)
	c := src.Clone()
	c.Pix[0] = 1
	c.Palette[0] = color.White

	if src.Pix[0] != 0 {
		t.Error("Clone shares pixels with the source")
	}
	if src.Palette[0] == color.Color(color.White) {
		t.Error("Clone shares the palette with the source")
	}
}

func TestToRGB_DropsAlpha(t *testing.T) {
	src := NewRaster(1, 1, ModeRGBA)
	copy(src.Pix, []uint8{200, 100, 50, 0})

	out, err := toRGB(src)
	if err != nil {
		t.Fatalf("toRGB failed: %v", err)
	}
	// Channel drop, not compositing: a transparent pixel keeps its color.
	if got := out.Pix; got[0] != 200 || got[1] != 100 || got[2] != 50 {
		t.Errorf("got %v, want [200 100 50]", got)
	}
}
