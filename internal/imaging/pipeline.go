package imaging

import (
	"fmt"
	"io"
)

// Transform runs the transformation pipeline on src in a fixed order:
//
//  1. Resize, per req.Resize
//  2. Grayscale, when req.Grayscale is set
//  3. Sepia, when req.Sepia is set
//
// Grayscale runs before sepia. With both set, sepia sees R=G=B for every
// pixel and reduces to a luminance-to-sepia remap.
//
// src is never modified. When no stage applies, src itself is returned.
// Errors come from the stages (ErrInvalidDimension, ErrUnsupportedMode) or
// from validating src (ErrMalformedImage); there is no partial output.
//
// Transform holds no state between calls and is safe for concurrent use on
// independent inputs.
func Transform(src *Raster, req Request) (*Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	out, err := Resize(src, req)
	if err != nil {
		return nil, err
	}

	if req.Grayscale {
		if out, err = Grayscale(out); err != nil {
			return nil, err
		}
	}

	if req.Sepia {
		if out, err = Sepia(out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Result describes one rendered image.
type Result struct {
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	SourceMode   string  `json:"source_mode"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Mode         string  `json:"mode"`
	Format       string  `json:"format"`
	MimeType     string  `json:"mime_type"`
	Raster       *Raster `json:"-"`
}

// Render transforms src, resolves the output mode for req.Format and
// encodes the result to w.
func Render(src *Raster, w io.Writer, req Request) (*Result, error) {
	out, err := Transform(src, req)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	out, err = ResolveOutputMode(out, req.Format)
	if err != nil {
		return nil, fmt.Errorf("output mode: %w", err)
	}

	if err := Encode(w, out, req.Format); err != nil {
		return nil, err
	}

	return &Result{
		SourceWidth:  src.Width,
		SourceHeight: src.Height,
		SourceMode:   src.Mode.String(),
		Width:        out.Width,
		Height:       out.Height,
		Mode:         out.Mode.String(),
		Format:       req.Format.String(),
		MimeType:     req.Format.MimeType(),
		Raster:       out,
	}, nil
}

// Process decodes an image from r and renders it to w.
func Process(r io.Reader, w io.Writer, req Request) (*Result, error) {
	src, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Render(src, w, req)
}
