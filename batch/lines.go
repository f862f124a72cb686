package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// readLines calls fn for every line of r, numbered from 1. A line ends at
// "\n" or "\r\n", and the terminator is not passed to fn. A final line
// without a terminator is still delivered, but an empty tail is not.
func readLines(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read line %d: %w", n, err)
		}
		if err == io.EOF && line == "" {
			return nil
		}
		if strings.HasSuffix(line, "\n") {
			line = line[:len(line)-1]
			line = strings.TrimSuffix(line, "\r")
		}
		if ferr := fn(n, line); ferr != nil {
			return ferr
		}
		if err == io.EOF {
			return nil
		}
	}
}
