// Package field implements arithmetic modulo
// q = 0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001,
// the Jubjub base field (and BLS12-381 scalar field).
package field

import (
	"encoding/hex"
	"errors"
	"math/bits"

	"gitlab.com/seiran/jubjub/internal/disalloweq"
	"gitlab.com/seiran/jubjub/internal/helpers"
	"gitlab.com/seiran/jubjub/internal/limbs"
)

// ElementSize is the size of a field element in bytes.
const ElementSize = 32

var (
	qSat = [4]uint64{
		0xffffffff00000001,
		0x53bda402fffe5bfe,
		0x3339d80809a1d805,
		0x73eda753299d7d48,
	}

	// qInv = -q^-1 mod 2^64
	qInv uint64 = 0xfffffffeffffffff

	// R = 2^256 mod q
	qR = [4]uint64{
		0x00000001fffffffe,
		0x5884b7fa00034802,
		0x998c4fefecbc4ff5,
		0x1824b159acc5056f,
	}

	// R^2 = 2^512 mod q
	qR2 = [4]uint64{
		0xc999e990f3f29c6d,
		0x2b6cedcb87925c23,
		0x05d314967254398f,
		0x0748d9d99f59ff11,
	}

	// R^3 = 2^768 mod q
	qR3 = [4]uint64{
		0xc62c1807439b73af,
		0x1b3e0d188cf06990,
		0x73d13c71c7b5f418,
		0x6e2a5bb9c8db33e9,
	}
)

// Element is a field element.  Internally the value is kept in
// Montgomery form, reduced below q.  The zero value is a valid zero
// element.
type Element struct {
	_ disalloweq.DisallowEqual
	m [4]uint64
}

// Zero sets `fe = 0` and returns `fe`.
func (fe *Element) Zero() *Element {
	for i := range fe.m {
		fe.m[i] = 0
	}
	return fe
}

// One sets `fe = 1` and returns `fe`.
func (fe *Element) One() *Element {
	fe.m = qR
	return fe
}

// Add sets `fe = a + b` and returns `fe`.
func (fe *Element) Add(a, b *Element) *Element {
	fe.m = limbs.Add(a.m, b.m, qSat)
	return fe
}

// Subtract sets `fe = a - b` and returns `fe`.
func (fe *Element) Subtract(a, b *Element) *Element {
	fe.m = limbs.Sub(a.m, b.m, qSat)
	return fe
}

// Negate sets `fe = -a` and returns `fe`.
func (fe *Element) Negate(a *Element) *Element {
	fe.m = limbs.Neg(a.m, qSat)
	return fe
}

// Double sets `fe = a + a` and returns `fe`.
func (fe *Element) Double(a *Element) *Element {
	fe.m = limbs.Double(a.m, qSat)
	return fe
}

// Multiply sets `fe = a * b` and returns `fe`.
func (fe *Element) Multiply(a, b *Element) *Element {
	fe.m = limbs.Mul(a.m, b.m, qSat, qInv)
	return fe
}

// Square sets `fe = a * a` and returns `fe`.
func (fe *Element) Square(a *Element) *Element {
	fe.m = limbs.Square(a.m, qSat, qInv)
	return fe
}

// Pow2k sets `fe = a ^ (2^k)` and returns `fe`.  k MUST be non-zero.
func (fe *Element) Pow2k(a *Element, k uint) *Element {
	if k == 0 {
		panic("internal/field: k out of bounds")
	}

	fe.m = limbs.Square(a.m, qSat, qInv)
	for i := uint(1); i < k; i++ {
		fe.m = limbs.Square(fe.m, qSat, qInv)
	}

	return fe
}

// PowVartime sets `fe = a ^ exp`, where `exp` is the raw saturated
// exponent, and returns `fe`.  Variable-time in `exp`.
func (fe *Element) PowVartime(a *Element, exp [4]uint64) *Element {
	fe.m = limbs.Pow(a.m, exp, qR, qSat, qInv)
	return fe
}

// Invert sets `fe = a^-1` via Fermat's little theorem, and returns 1
// iff the inverse exists.  If `a == 0`, `fe = 0` and 0 is returned.
// Variable-time.
func (fe *Element) Invert(a *Element) (*Element, uint64) {
	m, ok := limbs.Invert(a.m, qR, qSat, qInv)
	fe.m = m
	if !ok {
		return fe, 0
	}
	return fe, 1
}

// Set sets `fe = a` and returns `fe`.
func (fe *Element) Set(a *Element) *Element {
	fe.m = a.m
	return fe
}

// SetCanonicalBytes sets `fe = src`, where `src` is the 32-byte
// little-endian encoding of `fe`, and returns `fe`.  If `src` encodes
// an integer `>= q`, SetCanonicalBytes returns nil and an error, and
// the receiver is unchanged.
func (fe *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	l := helpers.BytesToSaturated(src)

	if !saturatedInRange(&l) {
		return nil, errors.New("internal/field: value out of range")
	}
	fe.m = limbs.Mul(l, qR2, qSat, qInv)

	return fe, nil
}

// SetWideBytes sets `fe = src mod q`, where `src` is the 64-byte
// little-endian encoding of a 512-bit integer, and returns `fe`.
// Never fails.
func (fe *Element) SetWideBytes(src *[64]byte) *Element {
	l := helpers.BytesToSaturatedWide(src)
	fe.m = limbs.FromU512(l, qR2, qR3, qSat, qInv)
	return fe
}

// Bytes returns the canonical little-endian encoding of `fe`.
func (fe *Element) Bytes() []byte {
	var dst [ElementSize]byte
	return fe.getBytes(&dst)
}

func (fe *Element) getBytes(dst *[ElementSize]byte) []byte {
	nm := limbs.Montgomery([8]uint64{fe.m[0], fe.m[1], fe.m[2], fe.m[3]}, qSat, qInv)
	*dst = helpers.SaturatedToBytes(&nm)
	return dst[:]
}

// Equal returns 1 iff `fe == a`, 0 otherwise.
func (fe *Element) Equal(a *Element) uint64 {
	return helpers.LimbsAreEqual(&fe.m, &a.m)
}

// IsZero returns 1 iff `fe == 0`, 0 otherwise.
func (fe *Element) IsZero() uint64 {
	return helpers.Uint64IsZero(fe.m[0] | fe.m[1] | fe.m[2] | fe.m[3])
}

// IsOdd returns 1 iff the canonical integer value of `fe` is odd,
// 0 otherwise.
func (fe *Element) IsOdd() uint64 {
	nm := limbs.Montgomery([8]uint64{fe.m[0], fe.m[1], fe.m[2], fe.m[3]}, qSat, qInv)
	return helpers.Uint64IsNonzero(nm[0] & 1)
}

// String returns the little-endian hex representation of `fe`.
func (fe *Element) String() string {
	return hex.EncodeToString(fe.Bytes())
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFrom creates a new Element from another.
func NewElementFrom(other *Element) *Element {
	return NewElement().Set(other)
}

// NewElementFromSaturated creates a new Element from the raw saturated
// representation.
func NewElementFromSaturated(l3, l2, l1, l0 uint64) *Element {
	l := [4]uint64{l0, l1, l2, l3}

	// Only for pre-computed constants, so out of range is programmer
	// error.
	if !saturatedInRange(&l) {
		panic("internal/field: saturated limbs out of range")
	}

	var fe Element
	fe.m = limbs.Mul(l, qR2, qSat, qInv)
	return &fe
}

// NewElementFromCanonicalBytes creates a new Element from the canonical
// little-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	e, err := NewElement().SetCanonicalBytes(src)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// BytesAreCanonical returns true iff `src` is the canonical encoding of
// some field element, ie. the little-endian integer it encodes is `< q`.
func BytesAreCanonical(src *[ElementSize]byte) bool {
	l := helpers.BytesToSaturated(src)
	return saturatedInRange(&l)
}

func saturatedInRange(a *[4]uint64) bool {
	var brw uint64
	_, brw = bits.Sub64(a[0], qSat[0], 0)
	_, brw = bits.Sub64(a[1], qSat[1], brw)
	_, brw = bits.Sub64(a[2], qSat[2], brw)
	_, brw = bits.Sub64(a[3], qSat[3], brw)

	// brw == 1 iff a < q.
	return brw == 1
}
