package namehash

import (
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
	"gitlab.com/starius/lru-gen/examples/int2string"
)

// Cache remembers the namehash of parent suffixes, so names sharing a
// parent (x.foo.eth, y.foo.eth, ...) only hash their own labels.
//
// Only proper suffixes of a name are stored, never the name itself. A stored
// suffix therefore always stands for a non-empty label sequence: the suffix
// "" (from a trailing dot) is one empty label, not the empty name.
//
// Entries are keyed by the xxh3 hash of the suffix and carry the suffix text,
// so a hash collision is a miss rather than a wrong digest.
type Cache struct {
	mu  sync.Mutex
	lru *int2string.LRU

	hits   uint64
	misses uint64
}

// CacheStats counts Sum calls that did or did not find a cached ancestor.
// Names without a dot are not counted.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// NewCache creates a cache holding up to capacity parent digests.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	lru, err := int2string.NewLRU(uint64(capacity), uint64(capacity))
	if err != nil {
		return nil, err
	}
	return &Cache{lru: lru}, nil
}

// Sum returns the same digest as the package-level Sum.
// It is safe for concurrent use.
func (c *Cache) Sum(name string) Digest {
	var node Digest
	if name == "" {
		return node
	}

	// Nearest cached ancestor first. name[resolved:] has digest node;
	// resolved == len(name)+1 means nothing is resolved yet.
	resolved := len(name) + 1
	hasParent := false
	for pos := 0; ; {
		i := strings.IndexByte(name[pos:], '.')
		if i < 0 {
			break
		}
		hasParent = true
		pos += i + 1
		if d, ok := c.get(name[pos:]); ok {
			node = d
			resolved = pos
			break
		}
	}
	if hasParent {
		c.count(resolved <= len(name))
	}

	end := resolved - 1
	for {
		start := CutLastLabelOffset(name[:end])
		node = Subnode(node, name[start:end])
		if start == 0 {
			return node
		}
		c.put(name[start:], node)
		end = start - 1
	}
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses}
}

func (c *Cache) count(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
}

func (c *Cache) get(suffix string) (Digest, bool) {
	key := int(xxh3.HashString(suffix))
	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	var d Digest
	if !ok || len(v) != DigestSize+len(suffix) || v[DigestSize:] != suffix {
		return d, false
	}
	copy(d[:], v)
	return d, true
}

func (c *Cache) put(suffix string, d Digest) {
	key := int(xxh3.HashString(suffix))
	v := string(d[:]) + suffix
	c.mu.Lock()
	c.lru.Set(key, v, 1)
	c.mu.Unlock()
}
