// Package helpers provides the shared byte/limb plumbing used across
// the module.
package helpers

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

// BytesToSaturated converts the 32-byte little-endian encoding of a
// 256-bit integer to the fully-saturated limb representation.
func BytesToSaturated(src *[32]byte) [4]uint64 {
	return [4]uint64{
		binary.LittleEndian.Uint64(src[0:8]),
		binary.LittleEndian.Uint64(src[8:16]),
		binary.LittleEndian.Uint64(src[16:24]),
		binary.LittleEndian.Uint64(src[24:32]),
	}
}

// BytesToSaturatedWide converts the 64-byte little-endian encoding of a
// 512-bit integer to the fully-saturated limb representation.
func BytesToSaturatedWide(src *[64]byte) [8]uint64 {
	var l [8]uint64
	for i := range l {
		l[i] = binary.LittleEndian.Uint64(src[i*8 : (i+1)*8])
	}
	return l
}

// SaturatedToBytes converts the fully-saturated limb representation of
// a 256-bit integer to the 32-byte little-endian encoding.
func SaturatedToBytes(src *[4]uint64) [32]byte {
	var dst [32]byte
	binary.LittleEndian.PutUint64(dst[0:8], src[0])
	binary.LittleEndian.PutUint64(dst[8:16], src[1])
	binary.LittleEndian.PutUint64(dst[16:24], src[2])
	binary.LittleEndian.PutUint64(dst[24:32], src[3])
	return dst
}

// Uint64IsZero returns 1 iff `v == 0`, 0 otherwise.
func Uint64IsZero(v uint64) uint64 {
	_, carry := bits.Add64(^v, 0, 1)
	return carry
}

// Uint64IsNonzero returns 1 iff `v != 0`, 0 otherwise.
func Uint64IsNonzero(v uint64) uint64 {
	return 1 - Uint64IsZero(v)
}

// LimbsAreEqual returns 1 iff `a == b`, 0 otherwise.
func LimbsAreEqual(a, b *[4]uint64) uint64 {
	tmp := (a[0] ^ b[0]) | (a[1] ^ b[1]) | (a[2] ^ b[2]) | (a[3] ^ b[3])
	return Uint64IsZero(tmp)
}

// MustBytesFromHex decodes the hex string or panics.  Test helper.
func MustBytesFromHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("helpers: failed to decode hex: " + err.Error())
	}
	return b
}
