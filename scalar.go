package jubjub

import (
	"errors"
	"io"
	"math/bits"

	"gitlab.com/seiran/jubjub/internal/disalloweq"
	"gitlab.com/seiran/jubjub/internal/helpers"
	"gitlab.com/seiran/jubjub/internal/limbs"
)

// ScalarSize is the size of a scalar in bytes.
const ScalarSize = 32

// WideScalarSize is the size of the wide scalar encoding in bytes,
// eight 64-bit words reduced modulo r.
const WideScalarSize = 64

var (
	rSat = [4]uint64{
		0xd0970e5ed6f72cb7,
		0xa6682093ccc81082,
		0x06673b0101343b00,
		0x0e7db4ea6533afa9,
	}

	// rInv = -r^-1 mod 2^64
	rInv uint64 = 0x1ba3a358ef788ef9

	// R = 2^256 mod r
	rR = [4]uint64{
		0x25f80bb3b99607d9,
		0xf315d62f66b6e750,
		0x932514eeeb8814f4,
		0x09a6fc6f479155c6,
	}

	// R^2 = 2^512 mod r
	rR2 = [4]uint64{
		0x67719aa495e57731,
		0x51b0cef09ce3fc26,
		0x69dab7fac026e9a5,
		0x04f6547b8d127688,
	}

	// R^3 = 2^768 mod r
	rR3 = [4]uint64{
		0xe0d6c6563d830544,
		0x323e3883598d0f85,
		0xf0fea3004c2e2ba8,
		0x05874f84946737ec,
	}
)

// Scalar is an integer modulo the prime order
// `r = 0x0e7db4ea6533afa906673b0101343b00a6682093ccc81082d0970e5ed6f72cb7`
// of the Jubjub prime-order subgroup, kept internally in Montgomery
// form.  The zero value is a valid zero element.
type Scalar struct {
	_ disalloweq.DisallowEqual
	m [4]uint64
}

// Zero sets `s = 0` and returns `s`.
func (s *Scalar) Zero() *Scalar {
	for i := range s.m {
		s.m[i] = 0
	}
	return s
}

// One sets `s = 1` and returns `s`.
func (s *Scalar) One() *Scalar {
	s.m = rR
	return s
}

// Add sets `s = a + b` and returns `s`.
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	s.m = limbs.Add(a.m, b.m, rSat)
	return s
}

// Subtract sets `s = a - b` and returns `s`.
func (s *Scalar) Subtract(a, b *Scalar) *Scalar {
	s.m = limbs.Sub(a.m, b.m, rSat)
	return s
}

// Negate sets `s = -a` and returns `s`.
func (s *Scalar) Negate(a *Scalar) *Scalar {
	s.m = limbs.Neg(a.m, rSat)
	return s
}

// Double sets `s = a + a` and returns `s`.
func (s *Scalar) Double(a *Scalar) *Scalar {
	s.m = limbs.Double(a.m, rSat)
	return s
}

// Multiply sets `s = a * b` and returns `s`.
func (s *Scalar) Multiply(a, b *Scalar) *Scalar {
	s.m = limbs.Mul(a.m, b.m, rSat, rInv)
	return s
}

// Square sets `s = a * a` and returns `s`.
func (s *Scalar) Square(a *Scalar) *Scalar {
	s.m = limbs.Square(a.m, rSat, rInv)
	return s
}

// Invert sets `s = a^-1` via Fermat's little theorem, and returns 1
// iff the inverse exists.  If `a == 0`, `s = 0` and 0 is returned.
// Variable-time.
func (s *Scalar) Invert(a *Scalar) (*Scalar, uint64) {
	m, ok := limbs.Invert(a.m, rR, rSat, rInv)
	s.m = m
	if !ok {
		return s, 0
	}
	return s, 1
}

// PowVartime sets `s = a ^ exp`, where `exp` is the raw saturated
// exponent, and returns `s`.  Variable-time in `exp`.
func (s *Scalar) PowVartime(a *Scalar, exp [4]uint64) *Scalar {
	s.m = limbs.Pow(a.m, exp, rR, rSat, rInv)
	return s
}

// Set sets `s = a` and returns `s`.
func (s *Scalar) Set(a *Scalar) *Scalar {
	s.m = a.m
	return s
}

// SetCanonicalBytes sets `s = src`, where `src` is the 32-byte
// little-endian encoding of `s`, and returns `s`.  If `src` encodes
// an integer `>= r`, SetCanonicalBytes returns nil and an error, and
// the receiver is unchanged.
func (s *Scalar) SetCanonicalBytes(src *[ScalarSize]byte) (*Scalar, error) {
	l := helpers.BytesToSaturated(src)

	if !scalarInRange(&l) {
		return nil, errors.New("jubjub: scalar value out of range")
	}
	s.m = limbs.Mul(l, rR2, rSat, rInv)

	return s, nil
}

// SetWideBytes sets `s = src mod r`, where `src` is the 64-byte
// little-endian encoding of a 512-bit integer, and returns `s`.
// Never fails; the double-width input keeps the reduction bias
// negligible.
func (s *Scalar) SetWideBytes(src *[WideScalarSize]byte) *Scalar {
	l := helpers.BytesToSaturatedWide(src)
	s.m = limbs.FromU512(l, rR2, rR3, rSat, rInv)
	return s
}

// SetRandom sets `s` to a uniformly random scalar read from `rand`,
// and returns `s`.  Eight 64-bit words are read and reduced modulo r.
func (s *Scalar) SetRandom(rand io.Reader) (*Scalar, error) {
	var wide [WideScalarSize]byte
	if _, err := io.ReadFull(rand, wide[:]); err != nil {
		return nil, errors.New("jubjub: entropy source failure: " + err.Error())
	}
	return s.SetWideBytes(&wide), nil
}

// Bytes returns the canonical little-endian encoding of `s`.
func (s *Scalar) Bytes() []byte {
	var dst [ScalarSize]byte
	return s.getBytes(&dst)
}

func (s *Scalar) getBytes(dst *[ScalarSize]byte) []byte {
	nm := limbs.Montgomery([8]uint64{s.m[0], s.m[1], s.m[2], s.m[3]}, rSat, rInv)
	*dst = helpers.SaturatedToBytes(&nm)
	return dst[:]
}

// Equal returns 1 iff `s == a`, 0 otherwise.
func (s *Scalar) Equal(a *Scalar) uint64 {
	return helpers.LimbsAreEqual(&s.m, &a.m)
}

// IsZero returns 1 iff `s == 0`, 0 otherwise.
func (s *Scalar) IsZero() uint64 {
	return helpers.Uint64IsZero(s.m[0] | s.m[1] | s.m[2] | s.m[3])
}

// nafs returns the non-adjacent-form expansion of `s`, most-significant
// digit first.
func (s *Scalar) nafs() []limbs.Naf {
	raw := limbs.Montgomery([8]uint64{s.m[0], s.m[1], s.m[2], s.m[3]}, rSat, rInv)
	return limbs.ToNafs(raw)
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarFrom creates a new Scalar from another.
func NewScalarFrom(other *Scalar) *Scalar {
	return NewScalar().Set(other)
}

// NewScalarFromCanonicalBytes creates a new Scalar from the canonical
// little-endian byte representation.
func NewScalarFromCanonicalBytes(src *[ScalarSize]byte) (*Scalar, error) {
	s, err := NewScalar().SetCanonicalBytes(src)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewRandomScalar creates a new uniformly random Scalar read from
// `rand`.
func NewRandomScalar(rand io.Reader) (*Scalar, error) {
	return NewScalar().SetRandom(rand)
}

// NewScalarFromSaturated creates a new Scalar from the raw saturated
// representation.
func NewScalarFromSaturated(l3, l2, l1, l0 uint64) *Scalar {
	l := [4]uint64{l0, l1, l2, l3}

	// Only for pre-computed constants, so out of range is programmer
	// error.
	if !scalarInRange(&l) {
		panic("jubjub: saturated scalar out of range")
	}

	var s Scalar
	s.m = limbs.Mul(l, rR2, rSat, rInv)
	return &s
}

func scalarInRange(a *[4]uint64) bool {
	var brw uint64
	_, brw = bits.Sub64(a[0], rSat[0], 0)
	_, brw = bits.Sub64(a[1], rSat[1], brw)
	_, brw = bits.Sub64(a[2], rSat[2], brw)
	_, brw = bits.Sub64(a[3], rSat[3], brw)

	// brw == 1 iff a < r.
	return brw == 1
}
