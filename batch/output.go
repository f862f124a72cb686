package batch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/supleed2/namehash/namehash"
)

// Output receives formatted results.
type Output interface {
	Add(domain string, d namehash.Digest) error
	Close() error
}

// StreamOutput writes each result to w as soon as it is added.
type StreamOutput struct {
	w io.Writer
}

func NewStreamOutput(w io.Writer) *StreamOutput {
	return &StreamOutput{w: w}
}

func (s *StreamOutput) Add(domain string, d namehash.Digest) error {
	_, err := io.WriteString(s.w, Format(domain, d)+"\n")
	return err
}

func (s *StreamOutput) Close() error {
	return nil
}

// FileOutput accumulates results in memory and writes the whole file on
// Close, creating missing parent directories. Nothing is written if Close
// is never called.
type FileOutput struct {
	path string
	buf  bytes.Buffer
}

func NewFileOutput(path string) *FileOutput {
	return &FileOutput{path: path}
}

func (f *FileOutput) Add(domain string, d namehash.Digest) error {
	f.buf.WriteString(Format(domain, d))
	f.buf.WriteByte('\n')
	return nil
}

func (f *FileOutput) Close() error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, f.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Len returns the number of buffered bytes.
func (f *FileOutput) Len() int {
	return f.buf.Len()
}
