// Package index persists namehash → domain mappings in a pebble database,
// so digests seen on chain can be traced back to the names that produced
// them.
package index

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/supleed2/namehash/namehash"
)

// ErrNotFound is returned by Lookup for digests that were never stored.
var ErrNotFound = errors.New("digest not in index")

// nodePrefix starts every node key: nodePrefix ++ digest -> domain.
var nodePrefix = []byte("n")

// writerBatchSize is how many puts a Writer buffers before committing.
const writerBatchSize = 1024

type Store struct {
	db *pebble.DB
}

// Open opens or creates the index at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nodeKey(d namehash.Digest) []byte {
	key := make([]byte, 0, len(nodePrefix)+namehash.DigestSize)
	key = append(key, nodePrefix...)
	return append(key, d[:]...)
}

// Put records domain under its namehash d, replacing any previous entry.
func (s *Store) Put(domain string, d namehash.Digest) error {
	return s.db.Set(nodeKey(d), []byte(domain), pebble.Sync)
}

// Lookup returns the domain stored for d.
func (s *Store) Lookup(d namehash.Digest) (string, error) {
	val, closer, err := s.db.Get(nodeKey(d))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	// Copy value before closing the closer because pebble reuses buffers.
	domain := string(val)
	if err := closer.Close(); err != nil {
		return "", err
	}
	return domain, nil
}

// Len counts stored digests.
func (s *Store) Len() (int, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: nodePrefix,
		UpperBound: prefixEnd(nodePrefix),
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for it.First(); it.Valid(); it.Next() {
		if len(it.Key()) == len(nodePrefix)+namehash.DigestSize {
			n++
		}
	}
	if err := it.Error(); err != nil {
		it.Close()
		return 0, fmt.Errorf("iterator error: %w", err)
	}
	return n, it.Close()
}

// Writer batches puts. It is not safe for concurrent use.
type Writer struct {
	db    *pebble.DB
	batch *pebble.Batch
}

// NewWriter starts a batched writer. Call Close to commit the tail.
func (s *Store) NewWriter() *Writer {
	return &Writer{db: s.db, batch: s.db.NewBatch()}
}

func (w *Writer) Put(domain string, d namehash.Digest) error {
	if err := w.batch.Set(nodeKey(d), []byte(domain), nil); err != nil {
		return err
	}
	if w.batch.Count() >= writerBatchSize {
		return w.commit()
	}
	return nil
}

func (w *Writer) commit() error {
	if err := w.batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit index batch: %w", err)
	}
	if err := w.batch.Close(); err != nil {
		return err
	}
	w.batch = w.db.NewBatch()
	return nil
}

// Close commits buffered puts.
func (w *Writer) Close() error {
	if w.batch.Count() > 0 {
		if err := w.batch.Commit(pebble.Sync); err != nil {
			w.batch.Close()
			return fmt.Errorf("commit index batch: %w", err)
		}
	}
	return w.batch.Close()
}

// prefixEnd returns the smallest s such that all keys with `prefix` are < s.
// If prefix is all 0xff, returns nil (no upper bound).
func prefixEnd(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			end := make([]byte, i+1)
			copy(end, prefix[:i+1])
			end[i]++
			return end
		}
	}
	return nil
}
