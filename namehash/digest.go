package namehash

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/supleed2/namehash/keccak"
)

// DigestSize is the length of a namehash in bytes.
const DigestSize = keccak.Size

// Digest is a 32-byte Keccak-256 value: a label hash or a namehash.
type Digest [DigestSize]byte

// Hex returns the lowercase hex encoding with a 0x prefix.
func (d Digest) Hex() string {
	var buf [2 + 2*DigestSize]byte
	buf[0], buf[1] = '0', 'x'
	hex.Encode(buf[2:], d[:])
	return string(buf[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// IsZero reports whether d is the namehash of the empty name.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseHex decodes a 64-digit hex string, with or without a 0x prefix.
func ParseHex(s string) (Digest, error) {
	var d Digest
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 2*DigestSize {
		return d, fmt.Errorf("%w: got %d hex digits", ErrInvalidLength, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return d, nil
}
