package jubjub

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/seiran/jubjub/internal/field"
)

// requireExtendedInvariant checks X*Y == T*Z, which every extended
// point must satisfy.
func requireExtendedInvariant(t *testing.T, p *Point, descr string) {
	xy := field.NewElement().Multiply(&p.x, &p.y)
	tz := field.NewElement().Multiply(&p.t, &p.z)
	require.EqualValues(t, 1, xy.Equal(tz), "%s: X*Y != T*Z", descr)
}

func TestPoint(t *testing.T) {
	t.Run("Identity", testPointIdentity)
	t.Run("AddDouble", testPointAddDouble)
	t.Run("ScalarMult", testPointScalarMult)
	t.Run("Subgroup", testPointSubgroup)
	t.Run("S11n", testPointS11n)
}

func testPointIdentity(t *testing.T) {
	id := NewIdentityPoint()
	g := NewGeneratorPoint()

	// P + O == P
	sum := NewIdentityPoint().Add(g, id)
	require.EqualValues(t, 1, sum.Equal(g), "G + O == G")

	// P - P == O, converting to affine (0, 1)
	diff := NewIdentityPoint().Subtract(g, g)
	require.EqualValues(t, 1, diff.IsIdentity(), "G - G == O")
	aff, err := diff.ToAffine()
	require.NoError(t, err, "ToAffine(G - G)")
	require.EqualValues(t, 1, aff.IsIdentity(), "(G - G).ToAffine() == (0, 1)")

	// The identity converts to (0, 1) as well.
	aff, err = id.ToAffine()
	require.NoError(t, err, "ToAffine(O)")
	require.EqualValues(t, 1, aff.Equal(NewIdentityAffinePoint()), "O.ToAffine() == (0, 1)")
}

func testPointAddDouble(t *testing.T) {
	g := NewGeneratorPoint()

	// G.double() == G + G
	dbl := NewIdentityPoint().Double(g)
	sum := NewIdentityPoint().Add(g, g)
	require.EqualValues(t, 1, dbl.Equal(sum), "G.double() == G + G")

	// Affine addition agrees with projective.
	gAffine, err := g.ToAffine()
	require.NoError(t, err, "ToAffine(G)")
	sumAffine := NewIdentityPoint().AddAffine(gAffine, gAffine)
	require.EqualValues(t, 1, dbl.Equal(sumAffine), "affine G + G == G.double()")

	// Mixed addition agrees too.
	sumMixed := NewIdentityPoint().AddMixed(g, gAffine)
	require.EqualValues(t, 1, dbl.Equal(sumMixed), "mixed G + G == G.double()")

	for _, tc := range []struct {
		p     *Point
		descr string
	}{
		{NewGeneratorPoint(), "G"},
		{NewBasepoint(), "B"},
		{NewIdentityPoint(), "O"},
		{dbl, "G.double()"},
		{sum, "G + G"},
		{sumAffine, "affine G + G"},
		{sumMixed, "mixed G + G"},
	} {
		requireExtendedInvariant(t, tc.p, tc.descr)
	}

	for i := 0; i < testIterations; i++ {
		a, b := mustRandomScalar(t), mustRandomScalar(t)

		// (G*a + G*a + G*b + G*b) == (G*a).double() + (G*b).double()
		ga := NewIdentityPoint().ScalarMult(a, g)
		gb := NewIdentityPoint().ScalarMult(b, g)

		lhs := NewIdentityPoint().Add(ga, ga)
		lhs.Add(lhs, gb)
		lhs.Add(lhs, gb)

		rhs := NewIdentityPoint().Double(ga)
		rhs.Add(rhs, NewIdentityPoint().Double(gb))

		require.EqualValues(t, 1, lhs.Equal(rhs), "[%d]: doubling vs addition", i)
	}
}

func testPointScalarMult(t *testing.T) {
	g := NewGeneratorPoint()
	b := NewBasepoint()

	t.Run("0 * G", func(t *testing.T) {
		q := NewIdentityPoint().ScalarMult(NewScalar(), g)
		require.EqualValues(t, 1, q.IsIdentity(), "0 * G != id, got %+v", q)
	})
	t.Run("1 * B", func(t *testing.T) {
		q := NewIdentityPoint().ScalarMult(NewScalar().One(), b)
		require.EqualValues(t, 1, q.Equal(b), "1 * B != B, got %+v", q)
	})
	t.Run("2 * G", func(t *testing.T) {
		q := NewIdentityPoint().ScalarMult(NewScalarFromSaturated(0, 0, 0, 2), g)
		dbl := NewIdentityPoint().Double(g)
		require.EqualValues(t, 1, q.Equal(dbl), "2 * G != G + G, got %+v", q)
	})
	t.Run("9 * G", func(t *testing.T) {
		// 9 = ((1*2)*2*2) + 1 exercises the NAF tail.
		q := NewIdentityPoint().ScalarMult(NewScalarFromSaturated(0, 0, 0, 9), g)
		expected := NewIdentityPoint().Double(g)
		expected.Double(expected)
		expected.Double(expected)
		expected.Add(expected, g)
		require.EqualValues(t, 1, q.Equal(expected), "9 * G != 8G + G, got %+v", q)
	})
	t.Run("Homomorphism", func(t *testing.T) {
		// Scalars reduce mod r, so the law holds for points of order r
		// such as B, not for G (order 8r).
		for i := 0; i < testIterations; i++ {
			k, m := mustRandomScalar(t), mustRandomScalar(t)

			sum := NewScalar().Add(k, m)
			lhs := NewIdentityPoint().ScalarMult(sum, b)

			pk := NewIdentityPoint().ScalarMult(k, b)
			pm := NewIdentityPoint().ScalarMult(m, b)
			rhs := NewIdentityPoint().Add(pk, pm)

			require.EqualValues(t, 1, lhs.Equal(rhs), "[%d]: P*(k+m) == P*k + P*m", i)
		}
	})
	t.Run("Aliasing", func(t *testing.T) {
		s := NewScalarFromSaturated(0, 0, 0, 42069)
		expected := NewIdentityPoint().ScalarMult(s, g)
		q := NewPointFrom(g)
		q.ScalarMult(s, q)
		require.EqualValues(t, 1, q.Equal(expected), "v.ScalarMult(s, v)")
	})
}

func testPointSubgroup(t *testing.T) {
	// B generates the prime-order subgroup, G does not: this is why
	// the signature schemes anchor on B.  The scalar type reduces mod
	// r, so multiply by r - 1 and add one more term.
	rMinus1 := NewScalarFromSaturated(
		0x0e7db4ea6533afa9,
		0x06673b0101343b00,
		0xa6682093ccc81082,
		0xd0970e5ed6f72cb6,
	)

	bTimesR := NewIdentityPoint().ScalarMult(rMinus1, NewBasepoint())
	bTimesR.Add(bTimesR, NewBasepoint())
	require.EqualValues(t, 1, bTimesR.IsIdentity(), "r * B == O")

	gTimesR := NewIdentityPoint().ScalarMult(rMinus1, NewGeneratorPoint())
	gTimesR.Add(gTimesR, NewGeneratorPoint())
	require.EqualValues(t, 0, gTimesR.IsIdentity(), "r * G != O")
}

func testPointS11n(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		g := NewGeneratorPoint()
		for i := 0; i < testIterations; i++ {
			s := mustRandomScalar(t)
			p := NewIdentityPoint().ScalarMult(s, g)

			enc := p.Bytes()
			require.Len(t, enc, PointSize, "[%d]: encoding length", i)

			p2, err := NewPointFromBytes((*[PointSize]byte)(enc))
			require.NoError(t, err, "[%d]: NewPointFromBytes", i)
			require.EqualValues(t, 1, p.Equal(p2), "[%d]: decode(encode(p)) == p", i)
		}
	})
	t.Run("Identity", func(t *testing.T) {
		enc := NewIdentityPoint().Bytes()

		var expected [PointSize]byte
		expected[0] = 1 // y == 1, sign(x) == 0
		require.Equal(t, expected[:], enc, "identity encoding")

		p, err := NewPointFromBytes(&expected)
		require.NoError(t, err, "NewPointFromBytes(identity)")
		require.EqualValues(t, 1, p.IsIdentity(), "identity decodes to identity")
	})
	t.Run("SignBit", func(t *testing.T) {
		g := NewGeneratorPoint()
		gNeg := NewIdentityPoint().Negate(g)

		encG, encNeg := g.Bytes(), gNeg.Bytes()
		require.NotEqual(t, encG, encNeg, "G and -G encode differently")
		require.Equal(t, encG[:31], encNeg[:31], "G and -G differ only in the sign bit")
		require.Equal(t, byte(0x80), (encG[31]^encNeg[31])&0x80, "sign bit flips")
	})
	t.Run("Reject/NonCanonicalY", func(t *testing.T) {
		// y = q is not canonical.
		var enc [PointSize]byte
		qBytes := [4]uint64{0xffffffff00000001, 0x53bda402fffe5bfe, 0x3339d80809a1d805, 0x73eda753299d7d48}
		for i, l := range qBytes {
			for j := 0; j < 8; j++ {
				enc[i*8+j] = byte(l >> (8 * j))
			}
		}
		_, err := NewPointFromBytes(&enc)
		require.Error(t, err, "y >= q")
	})
	t.Run("Reject/NotOnCurve", func(t *testing.T) {
		// y = 2 gives x^2 = 3/(4d + 1), which is a non-residue.
		var enc [PointSize]byte
		enc[0] = 2
		_, err := NewPointFromBytes(&enc)
		require.Error(t, err, "point not on curve")
	})
}

func BenchmarkPoint(b *testing.B) {
	s := NewScalarFromSaturated(0, 0, 0, 42069)

	b.Run("Add", func(b *testing.B) {
		p := NewGeneratorPoint()
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			p.Add(p, p)
		}
	})
	b.Run("Double", func(b *testing.B) {
		p := NewGeneratorPoint()
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			p.Double(p)
		}
	})
	b.Run("ScalarMult", func(b *testing.B) {
		q := NewGeneratorPoint()
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			q.ScalarMult(s, q)
		}
	})
}
