// Package limbs implements 256-bit modular arithmetic over 4-limb
// little-endian values in the Montgomery domain.
//
// Every routine is parameterized by the modulus `p` and the Montgomery
// constant `inv = -p^-1 mod 2^64`, so the same code serves both the
// Jubjub base field and the Jubjub scalar field.  Inputs are expected
// to be fully reduced (`< p`) unless stated otherwise, and outputs are
// fully reduced.
package limbs

import "math/bits"

// mac computes `z + x*y + carry`, returning the low limb and the new
// carry.  The result never overflows 128 bits.
func mac(z, x, y, carry uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(x, y)
	lo, c := bits.Add64(lo, z, 0)
	hi += c
	lo, c = bits.Add64(lo, carry, 0)
	hi += c
	return lo, hi
}

// adc computes `x + y + z` over single limbs, returning the low limb
// and the carry.
func adc(x, y, z uint64) (uint64, uint64) {
	lo, c1 := bits.Add64(x, y, 0)
	lo, c2 := bits.Add64(lo, z, 0)
	return lo, c1 + c2
}

// reduce conditionally subtracts `p` from `l`, branch-free: the
// subtraction's borrow selects whether `p` is added back.  Maps
// [0, 2p) to [0, p).
func reduce(l, p [4]uint64) [4]uint64 {
	var brw uint64
	l[0], brw = bits.Sub64(l[0], p[0], 0)
	l[1], brw = bits.Sub64(l[1], p[1], brw)
	l[2], brw = bits.Sub64(l[2], p[2], brw)
	l[3], brw = bits.Sub64(l[3], p[3], brw)

	mask := -brw

	var c uint64
	l[0], c = bits.Add64(l[0], p[0]&mask, 0)
	l[1], c = bits.Add64(l[1], p[1]&mask, c)
	l[2], c = bits.Add64(l[2], p[2]&mask, c)
	l[3], _ = bits.Add64(l[3], p[3]&mask, c)

	return l
}

// Add computes `a + b mod p`.
func Add(a, b, p [4]uint64) [4]uint64 {
	var l [4]uint64
	var c uint64
	l[0], c = bits.Add64(a[0], b[0], 0)
	l[1], c = bits.Add64(a[1], b[1], c)
	l[2], c = bits.Add64(a[2], b[2], c)
	l[3], _ = bits.Add64(a[3], b[3], c)

	return reduce(l, p)
}

// Sub computes `a - b mod p`.
func Sub(a, b, p [4]uint64) [4]uint64 {
	var l [4]uint64
	var brw uint64
	l[0], brw = bits.Sub64(a[0], b[0], 0)
	l[1], brw = bits.Sub64(a[1], b[1], brw)
	l[2], brw = bits.Sub64(a[2], b[2], brw)
	l[3], brw = bits.Sub64(a[3], b[3], brw)

	mask := -brw

	var c uint64
	l[0], c = bits.Add64(l[0], p[0]&mask, 0)
	l[1], c = bits.Add64(l[1], p[1]&mask, c)
	l[2], c = bits.Add64(l[2], p[2]&mask, c)
	l[3], _ = bits.Add64(l[3], p[3]&mask, c)

	return l
}

// Double computes `2a mod p` as a limb-wise left shift.
func Double(a, p [4]uint64) [4]uint64 {
	l := [4]uint64{
		a[0] << 1,
		a[1]<<1 | a[0]>>63,
		a[2]<<1 | a[1]>>63,
		a[3]<<1 | a[2]>>63,
	}

	return reduce(l, p)
}

// Neg computes `-a mod p`.  `a` MUST be `< p`.
func Neg(a, p [4]uint64) [4]uint64 {
	if a[0]|a[1]|a[2]|a[3] == 0 {
		return a
	}

	var l [4]uint64
	var brw uint64
	l[0], brw = bits.Sub64(p[0], a[0], 0)
	l[1], brw = bits.Sub64(p[1], a[1], brw)
	l[2], brw = bits.Sub64(p[2], a[2], brw)
	l[3], _ = bits.Sub64(p[3], a[3], brw)

	return l
}

// Mul computes the Montgomery product `a * b * R^-1 mod p` via 4x4
// schoolbook multiplication followed by Montgomery reduction.
func Mul(a, b, p [4]uint64, inv uint64) [4]uint64 {
	var t [8]uint64
	var c uint64

	t[0], c = mac(0, a[0], b[0], 0)
	t[1], c = mac(0, a[0], b[1], c)
	t[2], c = mac(0, a[0], b[2], c)
	t[3], t[4] = mac(0, a[0], b[3], c)

	t[1], c = mac(t[1], a[1], b[0], 0)
	t[2], c = mac(t[2], a[1], b[1], c)
	t[3], c = mac(t[3], a[1], b[2], c)
	t[4], t[5] = mac(t[4], a[1], b[3], c)

	t[2], c = mac(t[2], a[2], b[0], 0)
	t[3], c = mac(t[3], a[2], b[1], c)
	t[4], c = mac(t[4], a[2], b[2], c)
	t[5], t[6] = mac(t[5], a[2], b[3], c)

	t[3], c = mac(t[3], a[3], b[0], 0)
	t[4], c = mac(t[4], a[3], b[1], c)
	t[5], c = mac(t[5], a[3], b[2], c)
	t[6], t[7] = mac(t[6], a[3], b[3], c)

	return Montgomery(t, p, inv)
}

// Square computes the Montgomery square `a * a * R^-1 mod p`.  The
// off-diagonal products are computed once and doubled by a shift,
// then the diagonal squares are added in.
func Square(a, p [4]uint64, inv uint64) [4]uint64 {
	var t [8]uint64
	var c uint64

	t[1], c = mac(0, a[1], a[0], 0)
	t[2], c = mac(0, a[2], a[0], c)
	t[3], c = mac(0, a[3], a[0], c)
	t[4], c = mac(0, a[1], a[3], c)
	t[5], t[6] = mac(0, a[2], a[3], c)
	t[3], c = mac(t[3], a[1], a[2], 0)
	t[4], c = adc(t[4], c, 0)
	t[5] += c

	t[7] = t[6] >> 63
	t[6] = t[6]<<1 | t[5]>>63
	t[5] = t[5]<<1 | t[4]>>63
	t[4] = t[4]<<1 | t[3]>>63
	t[3] = t[3]<<1 | t[2]>>63
	t[2] = t[2]<<1 | t[1]>>63
	t[1] <<= 1

	t[0], c = mac(0, a[0], a[0], 0)
	t[1], c = adc(t[1], c, 0)
	t[2], c = mac(t[2], a[1], a[1], c)
	t[3], c = adc(t[3], c, 0)
	t[4], c = mac(t[4], a[2], a[2], c)
	t[5], c = adc(t[5], c, 0)
	t[6], c = mac(t[6], a[3], a[3], c)
	t[7] += c

	return Montgomery(t, p, inv)
}

// Montgomery reduces the 8-limb product `t` to `t * R^-1 mod p`.  Four
// rounds each zero one low limb by adding `k*p` with
// `k = t[i] * inv mod 2^64`; the surviving high limbs land in [0, 2p)
// and a final conditional subtract brings them into [0, p).
func Montgomery(t [8]uint64, p [4]uint64, inv uint64) [4]uint64 {
	var d, e uint64

	rhs := t[0] * inv
	_, d = mac(t[0], rhs, p[0], 0)
	l1, d := mac(t[1], rhs, p[1], d)
	l2, d := mac(t[2], rhs, p[2], d)
	l3, d := mac(t[3], rhs, p[3], d)
	l4, e := adc(t[4], d, 0)

	rhs = l1 * inv
	_, d = mac(l1, rhs, p[0], 0)
	l2, d = mac(l2, rhs, p[1], d)
	l3, d = mac(l3, rhs, p[2], d)
	l4, d = mac(l4, rhs, p[3], d)
	l5, e := adc(t[5], e, d)

	rhs = l2 * inv
	_, d = mac(l2, rhs, p[0], 0)
	l3, d = mac(l3, rhs, p[1], d)
	l4, d = mac(l4, rhs, p[2], d)
	l5, d = mac(l5, rhs, p[3], d)
	l6, e := adc(t[6], e, d)

	rhs = l3 * inv
	_, d = mac(l3, rhs, p[0], 0)
	l4, d = mac(l4, rhs, p[1], d)
	l5, d = mac(l5, rhs, p[2], d)
	l6, d = mac(l6, rhs, p[3], d)
	l7 := t[7] + e + d

	return reduce([4]uint64{l4, l5, l6, l7}, p)
}

// FromU512 reduces a 512-bit value into the Montgomery domain as
// `lo * R^2 + hi * R^3`, i.e. two Montgomery multiplications and an
// addition.  Used for wide-to-field hashing and RNG sampling.
func FromU512(l [8]uint64, r2, r3, p [4]uint64, inv uint64) [4]uint64 {
	lo := Mul([4]uint64{l[0], l[1], l[2], l[3]}, r2, p, inv)
	hi := Mul([4]uint64{l[4], l[5], l[6], l[7]}, r3, p, inv)
	return Add(lo, hi, p)
}

// ToBits expands `val` to its 256-bit big-endian bit sequence.
func ToBits(val [4]uint64) [256]uint8 {
	var b [256]uint8
	index := 256
	for _, limb := range val {
		for i := 0; i < 64; i++ {
			index--
			b[index] = uint8(limb>>i) & 1
		}
	}
	return b
}

// Pow computes `a^b mod p` by left-to-right square-and-multiply over
// the raw (non-Montgomery) exponent `b`.  `identity` MUST be the
// Montgomery form of 1.  Variable-time in `b`.
func Pow(a, b, identity, p [4]uint64, inv uint64) [4]uint64 {
	var zero [4]uint64
	if b == zero {
		return identity
	}
	if a == zero {
		return zero
	}

	acc := identity
	for _, bit := range ToBits(b) {
		acc = Square(acc, p, inv)
		if bit == 1 {
			acc = Mul(acc, a, p, inv)
		}
	}
	return acc
}

// LittleFermat returns `p - 2`, the exponent of Fermat inversion.
func LittleFermat(p [4]uint64) [4]uint64 {
	return Sub([4]uint64{}, [4]uint64{2, 0, 0, 0}, p)
}

// Invert computes `a^-1 = a^(p-2) mod p`, returning false iff `a == 0`.
// Variable-time.
func Invert(a, identity, p [4]uint64, inv uint64) ([4]uint64, bool) {
	var zero [4]uint64
	if a == zero {
		return zero, false
	}
	return Pow(a, LittleFermat(p), identity, p, inv), true
}
