// Package options turns caller-supplied option values into a validated
// imaging.Request.
//
// The pipeline in package imaging only accepts closed enumerations and
// reports invalid resize parameters as errors. This package is where the
// user-facing policy lives: string parsing, defaults, and the decision to
// fall back to the original size when a percentage is out of range.
package options

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ironsheep/image-transform/internal/imaging"
)

// DefaultMaxPercentage is the largest scale factor accepted for percent
// resizing unless configured otherwise.
const DefaultMaxPercentage = 500

// ErrInvalidInput reports option values that cannot be parsed, such as a
// non-numeric width.
var ErrInvalidInput = errors.New("invalid input for dimensions or percentage")

// AllowedExtensions lists the upload extensions accepted by AllowedFile.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Form holds transformation options as they arrive from a form or a tool
// call, before validation.
type Form struct {
	ResizeOption string `mapstructure:"resize_option"`
	Width        int    `mapstructure:"width"`
	Percentage   int    `mapstructure:"percentage"`
	Grayscale    bool   `mapstructure:"grayscale"`
	Sepia        bool   `mapstructure:"sepia"`
	Format       string `mapstructure:"format"`
}

// DefaultForm returns the values used for options the caller leaves out.
func DefaultForm() Form {
	return Form{
		ResizeOption: "width",
		Percentage:   100,
		Format:       "JPEG",
	}
}

// Decode fills a Form from loosely typed values, starting from DefaultForm.
//
// Strings are converted to numbers and booleans where the field requires it
// ("50" -> 50, "true" -> true); an empty width means "not given". Values that
// cannot be converted produce ErrInvalidInput.
func Decode(values map[string]interface{}) (Form, error) {
	form := DefaultForm()

	cleaned := make(map[string]interface{}, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" && (k == "width" || k == "percentage") {
				continue
			}
			v = s
		}
		cleaned[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return form, err
	}
	if err := dec.Decode(cleaned); err != nil {
		return form, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return form, nil
}

// ParseFormat maps a case-insensitive format name to an imaging.Format.
// "JPG" is accepted as JPEG. ok is false for anything else.
func ParseFormat(s string) (f imaging.Format, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "JPEG", "JPG":
		return imaging.FormatJPEG, true
	case "PNG":
		return imaging.FormatPNG, true
	case "GIF":
		return imaging.FormatGIF, true
	default:
		return imaging.FormatJPEG, false
	}
}

// ParseResizeOption maps "width", "percent" or "none" to an
// imaging.ResizeOption. ok is false for anything else.
func ParseResizeOption(s string) (o imaging.ResizeOption, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "width":
		return imaging.ResizeByWidth, true
	case "percent":
		return imaging.ResizeByPercent, true
	case "none", "":
		return imaging.ResizeNone, true
	default:
		return imaging.ResizeNone, false
	}
}

// Request converts the form into a pipeline request.
//
// Invalid combinations fall back rather than fail:
//   - an unknown format becomes JPEG
//   - "width" without a positive width keeps the original size
//   - "percent" with a percentage <= 0 or above maxPercentage keeps the
//     original size and adds a notice for the user
//   - an unknown resize option keeps the original size
//
// The returned notices describe fallbacks the user should be told about.
// A maxPercentage <= 0 means DefaultMaxPercentage.
func (f Form) Request(maxPercentage int) (imaging.Request, []string) {
	if maxPercentage <= 0 {
		maxPercentage = DefaultMaxPercentage
	}

	var notices []string
	format, _ := ParseFormat(f.Format)

	req := imaging.Request{
		Grayscale: f.Grayscale,
		Sepia:     f.Sepia,
		Format:    format,
	}

	option, ok := ParseResizeOption(f.ResizeOption)
	if !ok {
		notices = append(notices, fmt.Sprintf("Unknown resize option %q, original size kept.", f.ResizeOption))
	}

	switch option {
	case imaging.ResizeByWidth:
		if f.Width > 0 {
			req.Resize = imaging.ResizeByWidth
			req.TargetWidth = f.Width
		}
	case imaging.ResizeByPercent:
		if f.Percentage > 0 && f.Percentage <= maxPercentage {
			req.Resize = imaging.ResizeByPercent
			req.Percentage = f.Percentage
		} else {
			notices = append(notices, fmt.Sprintf(
				"Percentage %d is outside 1-%d, original size kept.", f.Percentage, maxPercentage))
		}
	}

	return req, notices
}

// AllowedFile reports whether name has one of the AllowedExtensions.
func AllowedFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// OutputFilename builds a download name from the uploaded file name:
// "<base>_<8 hex digits>.<extension of f>". The random suffix keeps names
// from colliding.
func OutputFilename(original string, f imaging.Format) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}

	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return fmt.Sprintf("%s.%s", base, f.Extension())
	}
	return fmt.Sprintf("%s_%s.%s", base, hex.EncodeToString(suffix[:]), f.Extension())
}
