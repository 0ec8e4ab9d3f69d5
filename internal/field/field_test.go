package field

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const testIterations = 100

func mustRandomElement(t *testing.T) *Element {
	var wide [64]byte
	_, err := rand.Read(wide[:])
	require.NoError(t, err, "rand.Read")
	return NewElement().SetWideBytes(&wide)
}

func TestElement(t *testing.T) {
	t.Run("BytesRoundTrip", testElementBytesRoundTrip)
	t.Run("AddSub", testElementAddSub)
	t.Run("MulSquare", testElementMulSquare)
	t.Run("Invert", testElementInvert)
	t.Run("Sqrt", testElementSqrt)
	t.Run("SmallValues", testElementSmallValues)
}

func testElementBytesRoundTrip(t *testing.T) {
	for i := 0; i < testIterations; i++ {
		a := mustRandomElement(t)

		b, err := NewElementFromCanonicalBytes((*[ElementSize]byte)(a.Bytes()))
		require.NoError(t, err, "[%d]: NewElementFromCanonicalBytes", i)
		require.EqualValues(t, 1, a.Equal(b), "[%d]: from_bytes(to_bytes(a)) == a", i)
	}

	// q and anything above it must be rejected.
	for _, nonCanonical := range [][4]uint64{
		qSat,
		{0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff},
		{qSat[0] + 1, qSat[1], qSat[2], qSat[3]},
	} {
		require.False(t, saturatedInRange(&nonCanonical), "saturatedInRange(%x)", nonCanonical)
	}

	// q - 1 is canonical.
	pMinus1 := [4]uint64{qSat[0] - 1, qSat[1], qSat[2], qSat[3]}
	require.True(t, saturatedInRange(&pMinus1), "saturatedInRange(q - 1)")
}

func testElementAddSub(t *testing.T) {
	for i := 0; i < testIterations; i++ {
		a, b := mustRandomElement(t), mustRandomElement(t)

		// a + a + b + b == a.double() + b.double()
		lhs := NewElement().Add(a, a)
		lhs.Add(lhs, b)
		lhs.Add(lhs, b)
		rhs := NewElement().Double(a)
		rhs.Add(rhs, NewElement().Double(b))
		require.EqualValues(t, 1, lhs.Equal(rhs), "[%d]: a+a+b+b == 2a+2b", i)

		// a - a == 0, -a + a == 0
		tmp := NewElement().Subtract(a, a)
		require.EqualValues(t, 1, tmp.IsZero(), "[%d]: a-a == 0", i)
		tmp.Negate(a)
		tmp.Add(tmp, a)
		require.EqualValues(t, 1, tmp.IsZero(), "[%d]: -a+a == 0", i)
	}
}

func testElementMulSquare(t *testing.T) {
	for i := 0; i < testIterations; i++ {
		a, b := mustRandomElement(t), mustRandomElement(t)

		// a*a + b*b == a.square() + b.square()
		lhs := NewElement().Multiply(a, a)
		lhs.Add(lhs, NewElement().Multiply(b, b))
		rhs := NewElement().Square(a)
		rhs.Add(rhs, NewElement().Square(b))
		require.EqualValues(t, 1, lhs.Equal(rhs), "[%d]: a*a + b*b == a^2 + b^2", i)
	}
}

func testElementInvert(t *testing.T) {
	one := NewElement().One()

	_, ok := NewElement().Invert(NewElement().Zero())
	require.EqualValues(t, 0, ok, "Invert(0)")

	for i := 0; i < testIterations; i++ {
		a := mustRandomElement(t)
		if a.IsZero() == 1 {
			continue
		}

		aInv, ok := NewElement().Invert(a)
		require.EqualValues(t, 1, ok, "[%d]: Invert(a)", i)
		require.EqualValues(t, 1, one.Equal(NewElement().Multiply(a, aInv)), "[%d]: a * a^-1 == 1", i)
	}
}

func testElementSqrt(t *testing.T) {
	zero := NewElement()
	root, ok := NewElement().Sqrt(zero)
	require.EqualValues(t, 1, ok, "Sqrt(0)")
	require.EqualValues(t, 1, root.IsZero(), "Sqrt(0) == 0")

	for i := 0; i < testIterations; i++ {
		a := mustRandomElement(t)

		// a^2 is always a residue, and the root squares back.
		aa := NewElement().Square(a)
		root, ok := NewElement().Sqrt(aa)
		require.EqualValues(t, 1, ok, "[%d]: Sqrt(a^2)", i)
		require.EqualValues(t, 1, aa.Equal(NewElement().Square(root)), "[%d]: Sqrt(a^2)^2 == a^2", i)

		// Exactly one of x, -x is a residue for x != 0 when -1 is a
		// non-residue; q = 1 mod 4, so instead check consistency with
		// the Euler criterion.
		legendre := NewElement().PowVartime(a, qMinus1Over2())
		_, hasRoot := NewElement().Sqrt(a)
		if legendre.Equal(NewElement().One()) == 1 {
			require.EqualValues(t, 1, hasRoot, "[%d]: Euler says residue", i)
		} else if a.IsZero() == 0 {
			require.EqualValues(t, 0, hasRoot, "[%d]: Euler says non-residue", i)
		}
	}
}

func qMinus1Over2() [4]uint64 {
	// (q - 1) / 2
	return [4]uint64{
		0x7fffffff80000000,
		0xa9ded2017fff2dff,
		0x199cec0404d0ec02,
		0x39f6d3a994cebea4,
	}
}

func testElementSmallValues(t *testing.T) {
	one := NewElement().One()

	two := NewElement().Double(one)
	require.EqualValues(t, 1, two.Equal(NewElementFromSaturated(0, 0, 0, 2)), "1.double() == 2")

	five := NewElement().Double(two)
	five.Add(five, one)
	require.EqualValues(t, 1, five.Equal(NewElementFromSaturated(0, 0, 0, 5)), "1.double().double() + 1 == 5")

	require.EqualValues(t, 1, NewElementFromSaturated(0, 0, 0, 1).Equal(one), "FromSaturated(1) == One")
	require.EqualValues(t, 0, one.IsZero(), "One != 0")
	require.EqualValues(t, 1, one.IsOdd(), "One is odd")
	require.EqualValues(t, 0, two.IsOdd(), "Two is even")
}

func BenchmarkElement(b *testing.B) {
	var wide [64]byte
	_, _ = rand.Read(wide[:])
	x := NewElement().SetWideBytes(&wide)

	b.Run("Multiply", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			x.Multiply(x, x)
		}
	})
	b.Run("Square", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			x.Square(x)
		}
	})
	b.Run("Invert", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = x.Invert(x)
		}
	})
	b.Run("Sqrt", func(b *testing.B) {
		x2 := NewElement().Square(x)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = NewElement().Sqrt(x2)
		}
	})
}
