package field

var (
	// twoAdicity is the largest s with 2^s dividing q - 1.
	twoAdicity uint = 32

	// (t - 1) / 2, where q - 1 = 2^32 * t.
	tMinus1Over2 = [4]uint64{
		0x7fff2dff7fffffff,
		0x04d0ec02a9ded201,
		0x94cebea4199cec04,
		0x0000000039f6d3a9,
	}

	// rootOfUnity is a fixed generator of the 2^32 order subgroup,
	// 7^t mod q.
	rootOfUnity = NewElementFromSaturated(
		0x16a2a19edfe81f20,
		0xd09b681922c813b4,
		0xb63683508c2280b9,
		0x3829971f439f0d2b,
	)

	oneElement = NewElement().One()
)

// Sqrt sets `fe = Sqrt(a)` via Tonelli-Shanks, and returns 1 iff the
// square root exists.  In all other cases `fe = 0`, and 0 is returned.
// Variable-time; intended for point decompression and key-schedule
// work, not per-message paths.
func (fe *Element) Sqrt(a *Element) (*Element, uint64) {
	if a.IsZero() == 1 {
		fe.Zero()
		return fe, 1
	}

	// w = a^((t-1)/2), so that b = a*w^2 = a^t lands in the 2^32
	// order subgroup, and x = a*w is the candidate root.
	w := NewElement().PowVartime(a, tMinus1Over2)

	x := NewElement().Multiply(a, w)
	b := NewElement().Multiply(x, w)
	z := NewElementFrom(rootOfUnity)

	for v := twoAdicity; b.Equal(oneElement) == 0; {
		// Find the least k with b^(2^k) == 1.
		k := uint(1)
		tmp := NewElement().Square(b)
		for tmp.Equal(oneElement) == 0 && k < v {
			tmp.Square(tmp)
			k++
		}

		// A residue always has ord(b) dividing 2^(v-1) here, so
		// k == v (or no k at all) means a is a non-residue.
		if tmp.Equal(oneElement) == 0 || k == v {
			fe.Zero()
			return fe, 0
		}

		// Multiply x by z^(2^(v-k-1)) to cancel the offending
		// component of b.
		w.Set(z)
		if v > k+1 {
			w.Pow2k(z, v-k-1)
		}
		z.Square(w)
		b.Multiply(b, z)
		x.Multiply(x, w)
		v = k
	}

	// b converged to 1, but that only proves a was a residue if the
	// candidate actually squares back.
	check := NewElement().Square(x)
	if check.Equal(a) == 0 {
		fe.Zero()
		return fe, 0
	}

	fe.Set(x)
	return fe, 1
}
