package imaging

import "fmt"

// ResizeOption selects how Resize derives the output dimensions.
type ResizeOption int

const (
	// ResizeNone keeps the input dimensions.
	ResizeNone ResizeOption = iota
	// ResizeByWidth sets the width to Request.TargetWidth and keeps the aspect ratio.
	ResizeByWidth
	// ResizeByPercent scales both axes by Request.Percentage / 100.
	ResizeByPercent
)

func (o ResizeOption) String() string {
	switch o {
	case ResizeNone:
		return "none"
	case ResizeByWidth:
		return "width"
	case ResizeByPercent:
		return "percent"
	default:
		return fmt.Sprintf("ResizeOption(%d)", int(o))
	}
}

// Format is an output encoding.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatGIF
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	case FormatGIF:
		return "GIF"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the lower-case file extension, without dot, used for
// files written in this format.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	default:
		return ""
	}
}

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	if ext := f.Extension(); ext != "" {
		return "image/" + ext
	}
	return "application/octet-stream"
}

// Request holds the options of one transformation.
//
// Only the resize field selected by Resize is read: TargetWidth for
// ResizeByWidth, Percentage for ResizeByPercent.
type Request struct {
	Resize      ResizeOption
	TargetWidth int
	Percentage  int
	Grayscale   bool
	Sepia       bool
	Format      Format
}
