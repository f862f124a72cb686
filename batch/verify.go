package batch

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/supleed2/namehash/namehash"
)

// Check is the outcome of verifying one "{domain}: 0x{hex}" line.
type Check struct {
	Line   int
	Domain string
	Got    namehash.Digest // as recorded in the line
	Want   namehash.Digest // recomputed

	// Err is a *LineError for lines that cannot be parsed.
	Err error
}

// OK reports whether the line parsed and its digest is correct.
func (c Check) OK() bool {
	return c.Err == nil && c.Got == c.Want
}

// VerifyStats summarizes a Verify run.
type VerifyStats struct {
	Total      int
	Mismatches int
	Errors     int
}

// ParseLine splits a result line at its last ": " separator. Domains may
// themselves contain ": ", digests never do.
func ParseLine(line string) (string, namehash.Digest, error) {
	i := strings.LastIndex(line, ": ")
	if i < 0 {
		return "", namehash.Digest{}, ErrMalformedLine
	}
	d, err := namehash.ParseHex(line[i+2:])
	if err != nil {
		return "", namehash.Digest{}, err
	}
	return line[:i], d, nil
}

// Verify recomputes every result line read from src and reports each one
// to fn. hash may be nil, meaning namehash.Sum.
func Verify(src io.Reader, hash func(string) namehash.Digest, fn func(Check) error) (VerifyStats, error) {
	if hash == nil {
		hash = namehash.Sum
	}
	var st VerifyStats
	err := readLines(src, func(n int, line string) error {
		st.Total++
		c := Check{Line: n}
		domain, got, err := ParseLine(line)
		switch {
		case !utf8.ValidString(line):
			c.Err = &LineError{Line: n, Err: ErrInvalidUTF8}
		case err != nil:
			c.Err = &LineError{Line: n, Err: err}
		default:
			c.Domain = domain
			c.Got = got
			c.Want = hash(domain)
		}
		if c.Err != nil {
			st.Errors++
		} else if c.Got != c.Want {
			st.Mismatches++
		}
		return fn(c)
	})
	return st, err
}
