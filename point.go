// Package jubjub implements the Jubjub twisted Edwards curve
// `-x^2 + y^2 = 1 + d*x^2*y^2` over the BLS12-381 scalar field, along
// with its prime-order scalar field.
//
// The group law is complete, and the arithmetic is explicitly
// variable-time: scalar multiplication, inversion, and square roots
// all branch on their inputs.  Callers needing side-channel resistance
// need a different library.
package jubjub

import (
	"errors"

	"gitlab.com/seiran/jubjub/internal/disalloweq"
	"gitlab.com/seiran/jubjub/internal/field"
)

var (
	// feD is the curve constant d = -(10240/10241).
	feD = field.NewElementFromSaturated(0x2a9318e74bfa2b48, 0xf5fd9207e6bd7fd4, 0x292d7f6d37579d26, 0x01065fd6d6343eb1)

	// gX/gY are the coordinates of the generator, a point of full
	// order 8r.
	gX = field.NewElementFromSaturated(0x62edcbb8bf3787c8, 0x8b0f03ddd60a8187, 0xcaf55d1b29bf81af, 0xe4b3d35df1a7adfe)
	gY = field.NewElementFromSaturated(0x0000000000000000, 0x0000000000000000, 0x0000000000000000, 0x000000000000000b)

	// bX/bY/bT are the coordinates of the basepoint, the generator of
	// the prime-order subgroup used by the signature schemes
	// (`r*B == O`, which does not hold for G).
	bX = field.NewElementFromSaturated(0x0926d4f32059c712, 0xd418a7ff26753b6a, 0xd5b9a7d3ef8e2827, 0x47bf46920a95a753)
	bY = field.NewElementFromSaturated(0x57a1019e6de9b675, 0x53bb37d0c21cfd05, 0x6d65674dcedbddbc, 0x305632adaaf2b530)
	bT = field.NewElementFromSaturated(0x05539d52ecc71057, 0x7225482d17a11235, 0x1d9ce6cfa60e6dc7, 0xd2280d93b46f4ab9)
)

// Point represents a point on the Jubjub curve in extended coordinates
// `(X, Y, T, Z)`, with affine `(X/Z, Y/Z)` and `X*Y = T*Z`.  All
// arguments and receivers are allowed to alias.  The zero value is NOT
// valid, and may only be used as a receiver.
type Point struct {
	_ disalloweq.DisallowEqual

	x, y, t, z field.Element

	isValid bool
}

// AffinePoint represents a point on the Jubjub curve in affine
// coordinates.  The zero value is NOT valid, and may only be used as a
// receiver.
type AffinePoint struct {
	_ disalloweq.DisallowEqual

	x, y field.Element

	isValid bool
}

// Identity sets `v = id = (0, 1, 0, 1)`, and returns `v`.
func (v *Point) Identity() *Point {
	v.x.Zero()
	v.y.One()
	v.t.Zero()
	v.z.One()

	v.isValid = true
	return v
}

// Generator sets `v = G`, and returns `v`.  G has full order; protocol
// level code wants Basepoint instead.
func (v *Point) Generator() *Point {
	v.x.Set(gX)
	v.y.Set(gY)
	v.t.Multiply(gX, gY)
	v.z.One()

	v.isValid = true
	return v
}

// Basepoint sets `v = B`, the generator of the prime-order subgroup,
// and returns `v`.
func (v *Point) Basepoint() *Point {
	v.x.Set(bX)
	v.y.Set(bY)
	v.t.Set(bT)
	v.z.One()

	v.isValid = true
	return v
}

// Set sets `v = p`, and returns `v`.
func (v *Point) Set(p *Point) *Point {
	assertPointsValid(p)

	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.t.Set(&p.t)
	v.z.Set(&p.z)
	v.isValid = p.isValid

	return v
}

// SetAffine sets `v = p`, and returns `v`.
func (v *Point) SetAffine(p *AffinePoint) *Point {
	assertAffinePointsValid(p)

	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.t.Multiply(&p.x, &p.y)
	v.z.One()
	v.isValid = true

	return v
}

// Add sets `v = p + q`, and returns `v`.
func (v *Point) Add(p, q *Point) *Point {
	assertPointsValid(p, q)

	a := field.NewElement().Multiply(&p.x, &q.x)
	b := field.NewElement().Multiply(&p.y, &q.y)
	c := field.NewElement().Multiply(&p.t, &q.t)
	c.Multiply(c, feD)
	d := field.NewElement().Multiply(&p.z, &q.z)

	h := field.NewElement().Add(a, b)
	e := field.NewElement().Add(&p.x, &p.y)
	tmp := field.NewElement().Add(&q.x, &q.y)
	e.Multiply(e, tmp)
	e.Subtract(e, h)
	f := field.NewElement().Subtract(d, c)
	g := field.NewElement().Add(d, c)

	v.x.Multiply(e, f)
	v.y.Multiply(g, h)
	v.t.Multiply(e, h)
	v.z.Multiply(f, g)
	v.isValid = p.isValid && q.isValid

	return v
}

// AddMixed sets `v = p + q`, and returns `v`.  The affine term has
// `Z = 1`, so its `T = x*y` is computed in place of Add's `Z` product;
// the multiplication count is the same as Add's.
func (v *Point) AddMixed(p *Point, q *AffinePoint) *Point {
	assertPointsValid(p)
	assertAffinePointsValid(q)

	a := field.NewElement().Multiply(&p.x, &q.x)
	b := field.NewElement().Multiply(&p.y, &q.y)
	c := field.NewElement().Multiply(&q.x, &q.y)
	c.Multiply(c, &p.t)
	c.Multiply(c, feD)

	h := field.NewElement().Add(a, b)
	e := field.NewElement().Add(&p.x, &p.y)
	tmp := field.NewElement().Add(&q.x, &q.y)
	e.Multiply(e, tmp)
	e.Subtract(e, h)
	f := field.NewElement().Subtract(&p.z, c)
	g := field.NewElement().Add(&p.z, c)

	v.x.Multiply(e, f)
	v.y.Multiply(g, h)
	v.t.Multiply(e, h)
	v.z.Multiply(f, g)
	v.isValid = p.isValid

	return v
}

// Double sets `v = p + p`, and returns `v`.  Calling `Add(p, p)` will
// also return correct results, however this method is faster.  The
// doubling formulas never read `T`, so any representation is accepted.
func (v *Point) Double(p *Point) *Point {
	assertPointsValid(p)

	a := field.NewElement().Square(&p.x)
	a.Negate(a)
	b := field.NewElement().Square(&p.y)
	c := field.NewElement().Square(&p.z)
	c.Double(c)

	d := field.NewElement().Subtract(a, b)
	e := field.NewElement().Multiply(&p.x, &p.y)
	e.Double(e)
	g := field.NewElement().Add(a, b)
	f := field.NewElement().Subtract(g, c)

	v.x.Multiply(e, f)
	v.y.Multiply(g, d)
	v.t.Multiply(e, d)
	v.z.Multiply(f, g)
	v.isValid = p.isValid

	return v
}

// Subtract sets `v = p - q`, and returns `v`.
func (v *Point) Subtract(p, q *Point) *Point {
	assertPointsValid(p, q)
	return v.Add(p, newRcvr().Negate(q))
}

// Negate sets `v = -p`, and returns `v`.
func (v *Point) Negate(p *Point) *Point {
	assertPointsValid(p)

	v.x.Negate(&p.x)
	v.y.Set(&p.y)
	v.t.Negate(&p.t)
	v.z.Set(&p.z)
	v.isValid = p.isValid

	return v
}

// Equal returns 1 iff `v == p`, 0 otherwise.
func (v *Point) Equal(p *Point) uint64 {
	assertPointsValid(v, p)

	// Check X1Z2 == X2Z1 and Y1Z2 == Y2Z1.
	x1z2 := field.NewElement().Multiply(&v.x, &p.z)
	x2z1 := field.NewElement().Multiply(&p.x, &v.z)

	y1z2 := field.NewElement().Multiply(&v.y, &p.z)
	y2z1 := field.NewElement().Multiply(&p.y, &v.z)

	return x1z2.Equal(x2z1) & y1z2.Equal(y2z1)
}

// IsIdentity returns 1 iff v is the identity point, 0 otherwise.
func (v *Point) IsIdentity() uint64 {
	assertPointsValid(v)

	return v.x.IsZero() & v.y.Equal(&v.z)
}

// ToAffine converts `v` to affine coordinates.  Conversion fails iff
// `Z` is zero, which no point constructed through this API has.
func (v *Point) ToAffine() (*AffinePoint, error) {
	assertPointsValid(v)

	zInv, ok := field.NewElement().Invert(&v.z)
	if ok != 1 {
		return nil, errors.New("jubjub: conversion to affine with zero denominator")
	}

	var a AffinePoint
	a.x.Multiply(&v.x, zInv)
	a.y.Multiply(&v.y, zInv)
	a.isValid = true

	return &a, nil
}

// AddAffine sets `v = p + q` for affine `p`, `q`, and returns `v`.
func (v *Point) AddAffine(p, q *AffinePoint) *Point {
	assertAffinePointsValid(p, q)

	a := field.NewElement().Multiply(&p.x, &q.x)
	b := field.NewElement().Multiply(&p.y, &q.y)
	c := field.NewElement().Multiply(feD, a)
	c.Multiply(c, b)

	h := field.NewElement().Add(a, b)
	e := field.NewElement().Add(&p.x, &p.y)
	tmp := field.NewElement().Add(&q.x, &q.y)
	e.Multiply(e, tmp)
	e.Subtract(e, h)
	one := field.NewElement().One()
	f := field.NewElement().Subtract(one, c)
	g := field.NewElement().Add(one, c)

	v.x.Multiply(e, f)
	v.y.Multiply(g, h)
	v.t.Multiply(e, h)
	v.z.Multiply(f, g)
	v.isValid = true

	return v
}

// Negate sets `v = -p`, and returns `v`.
func (v *AffinePoint) Negate(p *AffinePoint) *AffinePoint {
	assertAffinePointsValid(p)

	v.x.Negate(&p.x)
	v.y.Set(&p.y)
	v.isValid = p.isValid

	return v
}

// Set sets `v = p`, and returns `v`.
func (v *AffinePoint) Set(p *AffinePoint) *AffinePoint {
	assertAffinePointsValid(p)

	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.isValid = p.isValid

	return v
}

// Identity sets `v = (0, 1)`, and returns `v`.
func (v *AffinePoint) Identity() *AffinePoint {
	v.x.Zero()
	v.y.One()
	v.isValid = true

	return v
}

// Equal returns 1 iff `v == p`, 0 otherwise.
func (v *AffinePoint) Equal(p *AffinePoint) uint64 {
	assertAffinePointsValid(v, p)

	return v.x.Equal(&p.x) & v.y.Equal(&p.y)
}

// IsIdentity returns 1 iff v is the identity point, 0 otherwise.
func (v *AffinePoint) IsIdentity() uint64 {
	assertAffinePointsValid(v)

	one := field.NewElement().One()
	return v.x.IsZero() & v.y.Equal(one)
}

// NewGeneratorPoint returns a new Point set to the full-order
// generator.
func NewGeneratorPoint() *Point {
	return newRcvr().Generator()
}

// NewBasepoint returns a new Point set to the prime-order subgroup
// generator.
func NewBasepoint() *Point {
	return newRcvr().Basepoint()
}

// NewIdentityPoint returns a new Point set to the identity element.
func NewIdentityPoint() *Point {
	return newRcvr().Identity()
}

// NewPointFrom creates a new Point from another.
func NewPointFrom(p *Point) *Point {
	assertPointsValid(p)

	return newRcvr().Set(p)
}

// NewPointFromAffine creates a new Point from an AffinePoint.
func NewPointFromAffine(p *AffinePoint) *Point {
	assertAffinePointsValid(p)

	return newRcvr().SetAffine(p)
}

// NewIdentityAffinePoint returns a new AffinePoint set to the identity
// element.
func NewIdentityAffinePoint() *AffinePoint {
	return new(AffinePoint).Identity()
}

// NewAffinePointFrom creates a new AffinePoint from another.
func NewAffinePointFrom(p *AffinePoint) *AffinePoint {
	assertAffinePointsValid(p)

	return new(AffinePoint).Set(p)
}

// assertPointsValid ensures that the points have been initialized.
func assertPointsValid(points ...*Point) {
	for _, p := range points {
		if !p.isValid {
			panic("jubjub: use of uninitialized Point")
		}
	}
}

// assertAffinePointsValid ensures that the points have been initialized.
func assertAffinePointsValid(points ...*AffinePoint) {
	for _, p := range points {
		if !p.isValid {
			panic("jubjub: use of uninitialized AffinePoint")
		}
	}
}

func newRcvr() *Point {
	// This is explicitly for nicely creating receivers.
	return &Point{}
}
