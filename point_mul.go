package jubjub

import "gitlab.com/seiran/jubjub/internal/limbs"

// ScalarMult sets `v = s * p`, and returns `v`.
//
// The multiplication walks the non-adjacent form of `s` from the most
// significant digit down: double, then add or subtract `p` on nonzero
// digits.  Variable-time in `s`; this is documented behavior, not a
// bug.
func (v *Point) ScalarMult(s *Scalar, p *Point) *Point {
	assertPointsValid(p)

	// Copies first, in case v aliases p.
	pPlus := NewPointFrom(p)
	pMinus := newRcvr().Negate(p)

	v.Identity()
	for _, digit := range s.nafs() {
		v.Double(v)
		switch digit {
		case limbs.NafPlus:
			v.Add(v, pPlus)
		case limbs.NafMinus:
			v.Add(v, pMinus)
		}
	}

	return v
}

// ScalarBaseMult sets `v = s * B`, and returns `v`, where `B` is the
// prime-order subgroup basepoint.
func (v *Point) ScalarBaseMult(s *Scalar) *Point {
	return v.ScalarMult(s, NewBasepoint())
}

// DoubleScalarMultBasepointVartime sets `v = u1 * B + u2 * p`, and
// returns `v`, where `B` is the basepoint.  This is the verification
// workhorse; like everything else here it runs in variable time.
func (v *Point) DoubleScalarMultBasepointVartime(u1, u2 *Scalar, p *Point) *Point {
	assertPointsValid(p)

	u1b := newRcvr().ScalarBaseMult(u1)
	u2p := newRcvr().ScalarMult(u2, p)
	return v.Add(u1b, u2p)
}
