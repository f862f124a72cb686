//go:build !use_geth_keccak
// +build !use_geth_keccak

package keccak

import (
	"golang.org/x/crypto/sha3"
)

// Backend names the implementation compiled into this build.
const Backend = "x/crypto/sha3"

// Sum256 returns the Keccak-256 digest of the concatenation of data.
func Sum256(data ...[]byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}
