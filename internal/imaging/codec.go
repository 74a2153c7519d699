package imaging

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the fixed quality used for every JPEG this package writes.
const JPEGQuality = 90

// Decode reads a PNG, JPEG, GIF, BMP or TIFF image and converts it into a
// Raster. JPEG EXIF orientation is applied while decoding.
//
// Failures wrap ErrDecode.
func Decode(r io.Reader) (*Raster, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	raster := FromImage(img)
	if err := raster.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return raster, nil
}

// Encode writes r to w in format f. JPEG output uses JPEGQuality. The raster
// must already be in a mode the format accepts; see ResolveOutputMode.
//
// Failures wrap ErrEncode.
func Encode(w io.Writer, r *Raster, f Format) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	var err error
	switch f {
	case FormatJPEG:
		err = imaging.Encode(w, r.Image(), imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case FormatPNG:
		err = imaging.Encode(w, r.Image(), imaging.PNG)
	case FormatGIF:
		err = imaging.Encode(w, r.Image(), imaging.GIF)
	default:
		return fmt.Errorf("%w: %w: %v", ErrEncode, ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("%w as %v: %w", ErrEncode, f, err)
	}
	return nil
}
