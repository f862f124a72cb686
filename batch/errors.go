package batch

import "fmt"

// Public, comparable error values.
var (
	ErrInvalidUTF8   = fmt.Errorf("stream did not contain valid UTF-8")
	ErrMalformedLine = fmt.Errorf("malformed result line")
)

// LineError is a problem with one input line. It is reported and the line
// skipped; it never aborts a batch.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
