package namehash

import "fmt"

// Public, comparable error values.
var (
	ErrInvalidHex    = fmt.Errorf("invalid hex digest")
	ErrInvalidLength = fmt.Errorf("digest must be 32 bytes")
	ErrBadCapacity   = fmt.Errorf("cache capacity must be positive")
)
