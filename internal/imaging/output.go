package imaging

import "fmt"

// ResolveOutputMode returns a raster whose color mode the encoder for f
// accepts, converting r when needed.
//
// JPEG cannot store alpha or palettes: RGBA and palette rasters are
// converted to RGB by dropping alpha. This is lossy; translucent pixels are
// not composited against any background. RGB and grayscale rasters pass
// through.
//
// PNG and GIF pass every mode through unchanged. Quantizing to a GIF palette
// is left to the encoder.
//
// When no conversion is needed r itself is returned.
func ResolveOutputMode(r *Raster, f Format) (*Raster, error) {
	switch f {
	case FormatJPEG:
		switch r.Mode {
		case ModeRGB, ModeGray:
			return r, nil
		case ModeRGBA, ModePalette:
			return toRGB(r)
		}
	case FormatPNG, FormatGIF:
		if r.Mode.Channels() > 0 {
			return r, nil
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	return nil, fmt.Errorf("%w: %v cannot be written as %v", ErrUnsupportedMode, r.Mode, f)
}
