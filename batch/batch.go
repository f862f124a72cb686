// Package batch computes namehashes for line-oriented input.
//
// Every line is one domain name. Lines are hashed on a pool of workers and
// results are delivered in input order. A line that is not valid UTF-8 is
// delivered as a result carrying a *LineError and does not stop the batch;
// read errors, emit errors and context cancellation do.
package batch

import (
	"context"
	"io"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/supleed2/namehash/namehash"
)

// Options control Run. The zero value is usable.
type Options struct {
	// Workers is the number of hashing goroutines. Zero means GOMAXPROCS.
	Workers int

	// Hash computes a namehash. Nil means namehash.Sum. Pass the Sum method
	// of a *namehash.Cache to reuse parent digests across lines.
	Hash func(name string) namehash.Digest
}

// Result is the outcome for one input line.
type Result struct {
	Line   int
	Domain string
	Digest namehash.Digest

	// Err is a *LineError when the line could not be decoded. Domain and
	// Digest are then empty.
	Err error
}

// String renders the result as "{domain}: 0x{hex}".
func (r Result) String() string {
	return Format(r.Domain, r.Digest)
}

// Format renders one result line, without a trailing newline.
func Format(domain string, d namehash.Digest) string {
	return domain + ": " + d.Hex()
}

type job struct {
	res  Result
	done chan struct{}
}

// Run reads domains from src and calls emit once per line, in line order,
// from a single goroutine.
func Run(ctx context.Context, src io.Reader, opts Options, emit func(Result) error) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	hash := opts.Hash
	if hash == nil {
		hash = namehash.Sum
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan *job, workers)
	// pending holds every line in flight, in order; its capacity bounds
	// how far the reader may run ahead of emit.
	pending := make(chan *job, 4*workers)

	g.Go(func() error {
		defer close(jobs)
		defer close(pending)
		return readLines(src, func(n int, line string) error {
			j := &job{res: Result{Line: n}, done: make(chan struct{})}
			if utf8.ValidString(line) {
				j.res.Domain = line
			} else {
				j.res.Err = &LineError{Line: n, Err: ErrInvalidUTF8}
				close(j.done)
			}
			select {
			case pending <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
			if j.res.Err != nil {
				return nil
			}
			select {
			case jobs <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				j.res.Digest = hash(j.res.Domain)
				close(j.done)
			}
			return nil
		})
	}

	g.Go(func() error {
		for j := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-j.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := emit(j.res); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
