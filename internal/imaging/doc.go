// Package imaging implements the image transformation pipeline.
//
// A decoded image is held as a Raster: a packed pixel buffer with an
// explicit ColorMode (RGB, RGBA, grayscale or palette). The pipeline stages
// each take a Raster and return a new one:
//
//   - Resize: resample by target width or by percentage (Lanczos filter)
//   - Grayscale: BT.601 luma, alpha discarded
//   - Sepia: fixed tone matrix applied per pixel
//   - ResolveOutputMode: make the color mode acceptable to an encoder
//
// Transform sequences Resize, Grayscale and Sepia for one Request. Render
// adds output-mode resolution and encoding; Process adds decoding.
//
// # Ownership
//
// Rasters are never modified after a stage returns them. Stages that have
// nothing to do may return their input; stages that rewrite pixels work on a
// freshly allocated buffer.
//
// # Thread Safety
//
// Pipeline functions keep no state and may run concurrently on independent
// inputs. ImageCache is safe for concurrent use.
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go (ErrInvalidDimension,
// ErrUnsupportedMode, ErrUnsupportedFormat, ErrMalformedImage, ErrDecode,
// ErrEncode). Nothing is retried: every transformation is deterministic.
//
// Invalid resize parameters are reported, never replaced with a fallback.
// Falling back to the original size is a decision for the caller; see
// package options.
package imaging
