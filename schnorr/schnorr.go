// Copyright (c) 2023 the jubjub authors
//
// SPDX-License-Identifier: BSD-3-Clause

// Package schnorr implements Schnorr signatures over the Jubjub
// prime-order subgroup, with the challenge committing to the nonce
// point and the message (the "e-variant": signatures are `(s, e)`
// scalar pairs, and verification reconstructs the nonce point
// algebraically).
package schnorr

import (
	"crypto"
	"errors"
	"fmt"
	"io"

	"gitlab.com/seiran/jubjub"
	"gitlab.com/seiran/jubjub/internal/disalloweq"
)

const (
	// PublicKeySize is the size of an encoded public key in bytes.
	PublicKeySize = 32
	// PrivateKeySize is the size of an encoded private key in bytes.
	PrivateKeySize = 32
	// SignatureSize is the size of an encoded signature (`s || e`) in
	// bytes.
	SignatureSize = 64
)

// PrivateKey is a Schnorr private key.
type PrivateKey struct {
	_ disalloweq.DisallowEqual

	scalar    *jubjub.Scalar // INVARIANT: Always [1,r)
	publicKey *PublicKey
}

// Bytes returns a copy of the encoding of the private key.
func (k *PrivateKey) Bytes() []byte {
	return k.scalar.Bytes()
}

// Scalar returns a copy of the scalar underlying `k`.
func (k *PrivateKey) Scalar() *jubjub.Scalar {
	return jubjub.NewScalarFrom(k.scalar)
}

// Public returns the PublicKey corresponding to `k`.
func (k *PrivateKey) Public() crypto.PublicKey {
	return k.publicKey
}

// PublicKey returns the PublicKey corresponding to `k`.
func (k *PrivateKey) PublicKey() *PublicKey {
	return k.publicKey
}

// Equal returns whether `x` represents the same private key as `k`.
func (k *PrivateKey) Equal(x crypto.PrivateKey) bool {
	other, ok := x.(*PrivateKey)
	if !ok {
		return false
	}

	return other.scalar.Equal(k.scalar) == 1
}

// Sign signs `msg` using the PrivateKey `k`, reading the nonce from
// `rand`.  It returns the byte-encoded signature `s || e`.
func (k *PrivateKey) Sign(rand io.Reader, msg []byte) ([]byte, error) {
	// Sample the nonce k' and commit to R = k' * B.
	nonce, err := jubjub.NewRandomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("jubjub/schnorr: failed to sample nonce: %w", err)
	}

	r, err := jubjub.NewIdentityPoint().ScalarBaseMult(nonce).ToAffine()
	if err != nil {
		return nil, fmt.Errorf("jubjub/schnorr: failed to derive R: %w", err)
	}

	// e = H(R || m), s = k' - sk * e.
	e := ChallengeHash(r.Bytes(), msg)
	s := jubjub.NewScalar().Multiply(k.scalar, e)
	s.Subtract(nonce, s)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, s.Bytes()...)
	sig = append(sig, e.Bytes()...)

	return sig, nil
}

// PublicKey is a Schnorr public key.
type PublicKey struct {
	_ disalloweq.DisallowEqual

	point      *jubjub.Point // INVARIANT: Never identity
	pointBytes []byte
}

// Bytes returns a copy of the encoding of the public key.
func (k *PublicKey) Bytes() []byte {
	if k.pointBytes == nil {
		panic("jubjub/schnorr: uninitialized public key")
	}

	var tmp [PublicKeySize]byte
	copy(tmp[:], k.pointBytes)
	return tmp[:]
}

// Point returns a copy of the point underlying `k`.
func (k *PublicKey) Point() *jubjub.Point {
	return jubjub.NewPointFrom(k.point)
}

// Equal returns whether `x` represents the same public key as `k`.
func (k *PublicKey) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey)
	if !ok {
		return false
	}

	return other.point.Equal(k.point) == 1
}

// Verify verifies the signature `sig` of `msg` using the PublicKey
// `k`.  Its return value records whether the signature is valid.
// Decode failures surface as a rejected signature, never as an error.
func (k *PublicKey) Verify(msg, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}

	// Reject s or e >= r.
	s, err := jubjub.NewScalarFromCanonicalBytes((*[jubjub.ScalarSize]byte)(sig[0:32]))
	if err != nil {
		return false
	}
	e, err := jubjub.NewScalarFromCanonicalBytes((*[jubjub.ScalarSize]byte)(sig[32:64]))
	if err != nil {
		return false
	}

	// R' = s * B + e * pk, which equals R iff s = k' - sk * e.
	rv := jubjub.NewIdentityPoint().DoubleScalarMultBasepointVartime(s, e, k.point)
	rAffine, err := rv.ToAffine()
	if err != nil {
		return false
	}

	ev := ChallengeHash(rAffine.Bytes(), msg)

	return ev.Equal(e) == 1
}

// GenerateKey generates a new PrivateKey from `rand`.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	s, err := jubjub.NewRandomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("jubjub/schnorr: failed to sample scalar: %w", err)
	}
	if s.IsZero() != 0 {
		// Probabilistic, with odds that will never occur in practice.
		return nil, errors.New("jubjub/schnorr: sampled zero scalar")
	}

	return NewPrivateKeyFromScalar(s)
}

// NewPrivateKey checks that `key` is valid and returns a PrivateKey.
func NewPrivateKey(key []byte) (*PrivateKey, error) {
	if len(key) != PrivateKeySize {
		return nil, errors.New("jubjub/schnorr: invalid private key size")
	}

	s, err := jubjub.NewScalarFromCanonicalBytes((*[jubjub.ScalarSize]byte)(key))
	if err != nil || s.IsZero() != 0 {
		return nil, errors.New("jubjub/schnorr: invalid private key")
	}

	return NewPrivateKeyFromScalar(s)
}

// NewPrivateKeyFromScalar checks that `s` is valid and returns a
// PrivateKey.  The zero scalar is rejected, as the corresponding
// public key is the identity.
func NewPrivateKeyFromScalar(s *jubjub.Scalar) (*PrivateKey, error) {
	if s.IsZero() != 0 {
		return nil, errors.New("jubjub/schnorr: private key is zero")
	}

	scalar := jubjub.NewScalarFrom(s)
	privateKey := &PrivateKey{
		scalar: scalar,
		publicKey: &PublicKey{
			point: jubjub.NewIdentityPoint().ScalarBaseMult(scalar),
		},
	}
	privateKey.publicKey.pointBytes = privateKey.publicKey.point.Bytes()

	return privateKey, nil
}

// NewPublicKey checks that `key` is valid and returns a PublicKey.
// The identity is rejected.
func NewPublicKey(key []byte) (*PublicKey, error) {
	if len(key) != PublicKeySize {
		return nil, errors.New("jubjub/schnorr: invalid public key size")
	}

	pt, err := jubjub.NewPointFromBytes((*[jubjub.PointSize]byte)(key))
	if err != nil {
		return nil, fmt.Errorf("jubjub/schnorr: invalid public key: %w", err)
	}
	if pt.IsIdentity() != 0 {
		return nil, errors.New("jubjub/schnorr: public key is the identity")
	}

	return &PublicKey{
		point:      pt,
		pointBytes: pt.Bytes(),
	}, nil
}

// NewPublicKeyFromPoint checks that `point` is valid and returns a
// PublicKey.
func NewPublicKeyFromPoint(point *jubjub.Point) (*PublicKey, error) {
	pt := jubjub.NewPointFrom(point)
	if pt.IsIdentity() != 0 {
		return nil, errors.New("jubjub/schnorr: public key is the identity")
	}

	return &PublicKey{
		point:      pt,
		pointBytes: pt.Bytes(),
	}, nil
}
