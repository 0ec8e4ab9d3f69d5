package jubjub

import (
	"errors"

	"gitlab.com/seiran/jubjub/internal/field"
)

// PointSize is the size of a compressed point encoding in bytes.
const PointSize = 32

// The encoding is the 32-byte little-endian serialization of the
// affine y-coordinate, with the parity of the x-coordinate stored in
// bit 7 of byte 31.  The bit is free because q < 2^255.

// Bytes returns the 32-byte encoding of `v`.
func (v *AffinePoint) Bytes() []byte {
	assertAffinePointsValid(v)

	var dst [PointSize]byte
	return v.getBytes(&dst)
}

func (v *AffinePoint) getBytes(dst *[PointSize]byte) []byte {
	copy(dst[:], v.y.Bytes())
	dst[31] |= byte(v.x.IsOdd()) << 7

	return dst[:]
}

// Bytes returns the 32-byte encoding of `v`.
func (v *Point) Bytes() []byte {
	aff, err := v.ToAffine()
	if err != nil {
		// Unreachable for points built through this API.
		panic("jubjub: point encoding with zero denominator")
	}
	return aff.Bytes()
}

// SetBytes sets `v = src`, where `src` is a valid 32-byte encoding of
// a curve point, and returns `v`.  If `src` is not a valid encoding,
// SetBytes returns nil and an error, and the receiver is unchanged.
func (v *AffinePoint) SetBytes(src *[PointSize]byte) (*AffinePoint, error) {
	sign := src[31] >> 7

	var yBytes [PointSize]byte
	copy(yBytes[:], src[:])
	yBytes[31] &= 0x7f

	y, err := field.NewElementFromCanonicalBytes(&yBytes)
	if err != nil {
		return nil, errors.New("jubjub: malformed point encoding")
	}

	// Solve the curve equation for x: x^2 = (y^2 - 1) / (d*y^2 + 1).
	yy := field.NewElement().Square(y)
	num := field.NewElement().One()
	num.Subtract(yy, num)
	den := field.NewElement().Multiply(feD, yy)
	one := field.NewElement().One()
	den.Add(den, one)

	denInv, ok := field.NewElement().Invert(den)
	if ok != 1 {
		return nil, errors.New("jubjub: malformed point encoding")
	}

	xx := field.NewElement().Multiply(num, denInv)
	x, ok := field.NewElement().Sqrt(xx)
	if ok != 1 {
		return nil, errors.New("jubjub: point not on curve")
	}

	if byte(x.IsOdd()) != sign {
		x.Negate(x)
	}

	v.x.Set(x)
	v.y.Set(y)
	v.isValid = true

	return v, nil
}

// NewAffinePointFromBytes creates a new AffinePoint from the 32-byte
// encoding.
func NewAffinePointFromBytes(src *[PointSize]byte) (*AffinePoint, error) {
	p, err := new(AffinePoint).SetBytes(src)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// NewPointFromBytes creates a new Point from the 32-byte encoding.
func NewPointFromBytes(src *[PointSize]byte) (*Point, error) {
	aff, err := new(AffinePoint).SetBytes(src)
	if err != nil {
		return nil, err
	}

	return newRcvr().SetAffine(aff), nil
}
