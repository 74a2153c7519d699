package imaging

import (
	"fmt"
	"math/bits"

	"github.com/disintegration/imaging"
)

// Limits on resize output. Requests past either limit fail with
// ErrInvalidDimension instead of allocating.
const (
	// MaxDimension is the largest width or height Resize produces.
	MaxDimension = 1 << 16
	// MaxPixels is the largest Width*Height Resize produces.
	MaxPixels = 1 << 26
)

// Resize applies the resize policy selected by req.Resize.
//
// Parameters:
//   - r: The source raster. It is never modified.
//   - req: The request; only Resize, TargetWidth and Percentage are read.
//
// Returns:
//   - *Raster: The resampled raster, or r itself when no resize applies.
//   - error: ErrInvalidDimension when the selected parameter is out of
//     contract or the output would exceed MaxDimension or MaxPixels.
//
// # Policies
//
//   - ResizeByWidth: the width becomes TargetWidth and the height is
//     floor(TargetWidth * Height / Width). A target equal to the current
//     width is a no-op.
//   - ResizeByPercent: both axes become max(1, floor(axis * Percentage / 100)).
//     100 percent is a no-op.
//   - ResizeNone: identity.
//
// Resampling uses the Lanczos filter. The aspect ratio is preserved in both
// resizing modes up to integer rounding.
//
// Invalid parameters are never silently replaced with ResizeNone; callers
// that want that fallback must apply it before calling.
func Resize(r *Raster, req Request) (*Raster, error) {
	switch req.Resize {
	case ResizeNone:
		return r, nil

	case ResizeByWidth:
		if req.TargetWidth <= 0 {
			return nil, fmt.Errorf("%w: target width %d", ErrInvalidDimension, req.TargetWidth)
		}
		if req.TargetWidth == r.Width {
			return r, nil
		}
		w, h, err := widthDimensions(r.Width, r.Height, req.TargetWidth)
		if err != nil {
			return nil, err
		}
		return resample(r, w, h), nil

	case ResizeByPercent:
		if req.Percentage <= 0 {
			return nil, fmt.Errorf("%w: percentage %d", ErrInvalidDimension, req.Percentage)
		}
		if req.Percentage == 100 {
			return r, nil
		}
		w, h, err := percentDimensions(r.Width, r.Height, req.Percentage)
		if err != nil {
			return nil, err
		}
		return resample(r, w, h), nil

	default:
		return nil, fmt.Errorf("%w: unknown resize option %v", ErrInvalidDimension, req.Resize)
	}
}

// widthDimensions keeps the aspect ratio for a new width. Integer division
// gives the exact floor of target*height/width.
func widthDimensions(width, height, target int) (int, int, error) {
	h, ok := scaleAxis(height, target, width)
	if !ok || target > MaxDimension {
		return 0, 0, fmt.Errorf("%w: width %d for a %dx%d image exceeds %d pixels per axis",
			ErrInvalidDimension, target, width, height, MaxDimension)
	}
	return checkArea(target, atLeastOne(h))
}

// percentDimensions scales both axes by percent/100, never below one pixel.
func percentDimensions(width, height, percent int) (int, int, error) {
	w, okW := scaleAxis(width, percent, 100)
	h, okH := scaleAxis(height, percent, 100)
	if !okW || !okH {
		return 0, 0, fmt.Errorf("%w: %d%% of %dx%d exceeds %d pixels per axis",
			ErrInvalidDimension, percent, width, height, MaxDimension)
	}
	return checkArea(atLeastOne(w), atLeastOne(h))
}

// scaleAxis returns floor(axis*num/den). ok is false when the result
// exceeds MaxDimension; the product is computed in 128 bits so it cannot
// wrap. All arguments must be positive.
func scaleAxis(axis, num, den int) (n int, ok bool) {
	hi, lo := bits.Mul64(uint64(axis), uint64(num))
	if hi >= uint64(den) {
		return 0, false
	}
	q, _ := bits.Div64(hi, lo, uint64(den))
	if q > MaxDimension {
		return 0, false
	}
	return int(q), true
}

func checkArea(w, h int) (int, int, error) {
	if int64(w)*int64(h) > MaxPixels {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimension, w, h, MaxPixels)
	}
	return w, h, nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// resample produces a new raster of the given size. Gray, RGB and RGBA
// inputs keep their mode. Palette indices cannot be interpolated, so palette
// inputs come back as RGB, or RGBA when the palette has translucent entries.
func resample(r *Raster, width, height int) *Raster {
	mode := r.Mode
	if mode == ModePalette {
		mode = ModeRGB
		if paletteHasAlpha(r.Palette) {
			mode = ModeRGBA
		}
	}
	dst := imaging.Resize(r.toNRGBA(), width, height, imaging.Lanczos)
	return fromNRGBA(dst, mode)
}
