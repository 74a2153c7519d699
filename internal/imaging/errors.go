package imaging

import "errors"

// Errors returned by the transformation pipeline and its codec wrappers.
// They are wrapped with context; match them with errors.Is.
var (
	// ErrInvalidDimension reports resize parameters outside their contract:
	// a missing or non-positive target width, or a non-positive percentage.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrUnsupportedMode reports a color mode with no defined conversion.
	ErrUnsupportedMode = errors.New("unsupported color mode")

	// ErrUnsupportedFormat reports an output format outside JPEG, PNG and GIF.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrMalformedImage reports a raster whose buffer does not match its
	// dimensions and mode.
	ErrMalformedImage = errors.New("malformed image")

	// ErrDecode wraps failures to identify or decode an input image.
	ErrDecode = errors.New("cannot identify image file")

	// ErrEncode wraps failures to encode an output image.
	ErrEncode = errors.New("cannot encode image")
)
