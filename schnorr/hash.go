// Copyright (c) 2023 the jubjub authors
//
// SPDX-License-Identifier: BSD-3-Clause

package schnorr

import (
	"github.com/minio/blake2b-simd"

	"gitlab.com/seiran/jubjub"
)

// hashPersonal is the BLAKE2b personalization, exactly 16 bytes.
const hashPersonal = "Schnorr_Sig_Hash"

// ChallengeHash derives a scalar from `vals` by hashing them in order
// with personalized BLAKE2b-512 and wide-reducing the 64-byte digest
// modulo r.  This is the Fiat-Shamir challenge used by both the
// single-signer scheme and the aggregated variants.
func ChallengeHash(vals ...[]byte) *jubjub.Scalar {
	h, err := blake2b.New(&blake2b.Config{
		Size:   64,
		Person: []byte(hashPersonal),
	})
	if err != nil {
		// Static configuration, so this is programmer error.
		panic("jubjub/schnorr: failed to initialize hash: " + err.Error())
	}

	for _, v := range vals {
		_, _ = h.Write(v)
	}

	var wide [jubjub.WideScalarSize]byte
	copy(wide[:], h.Sum(nil))

	return jubjub.NewScalar().SetWideBytes(&wide)
}
