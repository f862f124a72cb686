// Package namehash implements the EIP-137 namehash of dotted domain names.
//
// The namehash of the empty name is 32 zero bytes. Otherwise labels are
// folded from the rightmost (top-level) to the leftmost:
//
//	node = keccak256(node ++ keccak256(label))
//
// Labels are hashed as raw bytes. Nothing is validated, normalized or
// case-folded, and empty labels produced by adjacent, leading or trailing
// dots are hashed like any other label.
package namehash

import (
	"github.com/supleed2/namehash/keccak"
)

// Sum returns the namehash of name.
func Sum(name string) Digest {
	var node Digest
	if name == "" {
		return node
	}
	end := len(name)
	for {
		start := CutLastLabelOffset(name[:end])
		node = Subnode(node, name[start:end])
		if start == 0 {
			return node
		}
		end = start - 1
	}
}

// LabelHash returns keccak256 of the label bytes. The empty label is
// hashed too; it is not mapped to zero.
func LabelHash(label string) Digest {
	return keccak.Sum256([]byte(label))
}

// Subnode returns the namehash of label under parent, so that
// Sum("sub.domain") == Subnode(Sum("domain"), "sub").
func Subnode(parent Digest, label string) Digest {
	labelHash := LabelHash(label)
	return keccak.Sum256(parent[:], labelHash[:])
}

// CutLastLabelOffset returns the start offset of the last label.
// Empty string or single-label returns 0.
func CutLastLabelOffset(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i + 1
		}
	}
	return 0
}
