//go:build use_geth_keccak
// +build use_geth_keccak

package keccak

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Backend names the implementation compiled into this build.
const Backend = "go-ethereum/crypto"

// Sum256 returns the Keccak-256 digest of the concatenation of data.
func Sum256(data ...[]byte) [Size]byte {
	return crypto.Keccak256Hash(data...)
}
