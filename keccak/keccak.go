// Package keccak computes the legacy Keccak-256 digest used by Ethereum.
//
// This is the original Keccak submission padding (0x01), not the NIST
// SHA3-256 finalization (0x06). The two produce different digests for every
// input and are not interchangeable.
//
// The default build uses golang.org/x/crypto/sha3. Building with the
// use_geth_keccak tag switches to go-ethereum's crypto package.
package keccak

// Size is the length of a Keccak-256 digest in bytes.
const Size = 32
