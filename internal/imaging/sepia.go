package imaging

// Sepia tone matrix in thousandths. Row i gives the weights of (R, G, B)
// for output channel i.
var sepiaMatrix = [3][3]uint32{
	{393, 769, 189},
	{349, 686, 168},
	{272, 534, 131},
}

// Sepia returns an RGB copy of r with the sepia tone map applied to every
// pixel:
//
//	R' = min(255, round(0.393R + 0.769G + 0.189B))
//	G' = min(255, round(0.349R + 0.686G + 0.168B))
//	B' = min(255, round(0.272R + 0.534G + 0.131B))
//
// Inputs that are not RGB are converted first: alpha is dropped, gray is
// expanded to R=G=B and palette entries are looked up. The transform works
// on that private buffer, so r is never modified.
func Sepia(r *Raster) (*Raster, error) {
	dst, err := toRGB(r)
	if err != nil {
		return nil, err
	}
	sepiaTone(dst.Pix)
	return dst, nil
}

// sepiaTone rewrites a packed RGB buffer in place.
func sepiaTone(pix []uint8) {
	m := &sepiaMatrix
	for i := 0; i+2 < len(pix); i += 3 {
		s := pix[i : i+3 : i+3]
		r, g, b := uint32(s[0]), uint32(s[1]), uint32(s[2])
		s[0] = toneClamp(m[0][0]*r + m[0][1]*g + m[0][2]*b)
		s[1] = toneClamp(m[1][0]*r + m[1][1]*g + m[1][2]*b)
		s[2] = toneClamp(m[2][0]*r + m[2][1]*g + m[2][2]*b)
	}
}

// toneClamp rounds a thousandths-scaled value and clamps it to 255.
// The matrix has no negative weights, so no lower clamp is needed.
func toneClamp(v uint32) uint8 {
	v = (v + 500) / 1000
	if v > 255 {
		return 255
	}
	return uint8(v)
}
