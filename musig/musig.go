// Copyright (c) 2023 the jubjub authors
//
// SPDX-License-Identifier: BSD-3-Clause

// Package musig implements two-party Schnorr signature aggregation
// over the Jubjub prime-order subgroup.
//
// The default scheme binds each signer's contribution with a
// per-signer coefficient derived from both public keys, which defeats
// rogue-key attacks.  The coefficient-free variant is retained as
// NewNaiveSession for the sake of comparison, and should not be used.
package musig

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"gitlab.com/seiran/jubjub"
	"gitlab.com/seiran/jubjub/internal/disalloweq"
	"gitlab.com/seiran/jubjub/schnorr"
)

// SignatureSize is the size of an encoded aggregated signature
// (`R || s`) in bytes.
const SignatureSize = 64

// Session holds the public parameters of a two-party signing session:
// the aggregated randomness, the aggregated public key, the per-signer
// coefficients and the challenge.  A Session is bound to one message.
type Session struct {
	_ disalloweq.DisallowEqual

	randomness   *jubjub.AffinePoint // R = R_A + R_B
	aggregateKey *jubjub.AffinePoint // X = X_A * a_A + X_B * a_B
	challenge    *jubjub.Scalar      // c = H(R || X || m)

	coeffA, coeffB *jubjub.Scalar
	pkABytes       []byte
	pkBBytes       []byte
}

// NewSession derives the public parameters for signing `msg`, from
// both signers' public keys and their published nonce points
// `R_i = r_i * B`.
func NewSession(msg []byte, pkA, pkB *schnorr.PublicKey, rA, rB *jubjub.Point) (*Session, error) {
	pkABytes, pkBBytes := pkA.Bytes(), pkB.Bytes()

	// Per-signer coefficients a_i = H(X_A || X_B || X_i).
	coeffA := schnorr.ChallengeHash(pkABytes, pkBBytes, pkABytes)
	coeffB := schnorr.ChallengeHash(pkABytes, pkBBytes, pkBBytes)

	return newSession(msg, pkABytes, pkBBytes, pkA.Point(), pkB.Point(), rA, rB, coeffA, coeffB)
}

// NewNaiveSession is NewSession without the per-signer coefficients:
// the aggregated key is the bare sum `X_A + X_B`.
//
// This variant is vulnerable to rogue-key attacks: a signer choosing
// their key as a function of the other's can forge for the aggregate.
// It exists as the naive baseline; use NewSession.
func NewNaiveSession(msg []byte, pkA, pkB *schnorr.PublicKey, rA, rB *jubjub.Point) (*Session, error) {
	one := jubjub.NewScalar().One()

	return newSession(msg, pkA.Bytes(), pkB.Bytes(), pkA.Point(), pkB.Point(), rA, rB, one, jubjub.NewScalarFrom(one))
}

func newSession(msg []byte, pkABytes, pkBBytes []byte, ptA, ptB, rA, rB *jubjub.Point, coeffA, coeffB *jubjub.Scalar) (*Session, error) {
	// R = R_A + R_B.
	randomness, err := jubjub.NewIdentityPoint().Add(rA, rB).ToAffine()
	if err != nil {
		return nil, fmt.Errorf("jubjub/musig: failed to aggregate randomness: %w", err)
	}

	// X = X_A * a_A + X_B * a_B.
	xA := jubjub.NewIdentityPoint().ScalarMult(coeffA, ptA)
	xB := jubjub.NewIdentityPoint().ScalarMult(coeffB, ptB)
	aggregateKey, err := xA.Add(xA, xB).ToAffine()
	if err != nil {
		return nil, fmt.Errorf("jubjub/musig: failed to aggregate public keys: %w", err)
	}

	// c = H(R || X || m).
	challenge := schnorr.ChallengeHash(randomness.Bytes(), aggregateKey.Bytes(), msg)

	return &Session{
		randomness:   randomness,
		aggregateKey: aggregateKey,
		challenge:    challenge,
		coeffA:       coeffA,
		coeffB:       coeffB,
		pkABytes:     pkABytes,
		pkBBytes:     pkBBytes,
	}, nil
}

// Randomness returns a copy of the aggregated nonce point `R`.
func (s *Session) Randomness() *jubjub.AffinePoint {
	return jubjub.NewAffinePointFrom(s.randomness)
}

// AggregateKey returns a copy of the aggregated public key `X`.
func (s *Session) AggregateKey() *jubjub.AffinePoint {
	return jubjub.NewAffinePointFrom(s.aggregateKey)
}

// Challenge returns a copy of the challenge scalar `c`.
func (s *Session) Challenge() *jubjub.Scalar {
	return jubjub.NewScalarFrom(s.challenge)
}

// Cosign produces one signer's share `s_i = r_i + sk_i * c * a_i`,
// where `nonce` is the scalar behind the signer's published nonce
// point.  The coefficient is selected by matching `sk`'s public key
// against the session participants.
func (s *Session) Cosign(nonce *jubjub.Scalar, sk *schnorr.PrivateKey) (*jubjub.Scalar, error) {
	coeff, err := s.coefficientFor(sk.PublicKey())
	if err != nil {
		return nil, err
	}

	share := sk.Scalar()
	share.Multiply(share, s.challenge)
	share.Multiply(share, coeff)
	share.Add(nonce, share)

	return share, nil
}

func (s *Session) coefficientFor(pk *schnorr.PublicKey) (*jubjub.Scalar, error) {
	pkBytes := pk.Bytes()
	switch {
	case subtle.ConstantTimeCompare(pkBytes, s.pkABytes) == 1:
		return s.coeffA, nil
	case subtle.ConstantTimeCompare(pkBytes, s.pkBBytes) == 1:
		return s.coeffB, nil
	}

	return nil, errors.New("jubjub/musig: signer is not a session participant")
}

// Combine merges the two signer shares into the byte-encoded
// aggregated signature `R || s` with `s = s_A + s_B`.
func (s *Session) Combine(shareA, shareB *jubjub.Scalar) []byte {
	sum := jubjub.NewScalar().Add(shareA, shareB)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, s.randomness.Bytes()...)
	sig = append(sig, sum.Bytes()...)

	return sig
}

// Verify verifies the aggregated signature `sig` against the session
// parameters: `R + X * c == s * B`.  Its return value records whether
// the signature is valid.  Decode failures surface as a rejected
// signature, never as an error.
func (s *Session) Verify(sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}

	r, err := jubjub.NewPointFromBytes((*[jubjub.PointSize]byte)(sig[0:32]))
	if err != nil {
		return false
	}

	// Reject s >= r.
	sum, err := jubjub.NewScalarFromCanonicalBytes((*[jubjub.ScalarSize]byte)(sig[32:64]))
	if err != nil {
		return false
	}

	lhs := jubjub.NewIdentityPoint().ScalarMult(s.challenge, jubjub.NewPointFromAffine(s.aggregateKey))
	lhs.Add(lhs, r)
	rhs := jubjub.NewIdentityPoint().ScalarBaseMult(sum)

	lhsAffine, err := lhs.ToAffine()
	if err != nil {
		return false
	}
	rhsAffine, err := rhs.ToAffine()
	if err != nil {
		return false
	}

	return lhsAffine.Equal(rhsAffine) == 1
}
