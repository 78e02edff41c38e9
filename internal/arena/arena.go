// Package arena provides hierarchical bump allocators for transient
// per-event storage. Reset reclaims every allocation in O(chunk-count)
// without releasing chunk memory; destroying an arena destroys all of its
// descendants. Arenas are not safe for concurrent use; the event pipeline
// is single-threaded by design.
package arena

import "pkt.systems/termline/schema"

const defaultChunkSize = 4096

// Arena is one allocation scope.
type Arena struct {
	name      string
	parent    *Arena
	children  []*Arena
	chunks    [][]byte
	chunkSize int
	cur       int
	off       int
	destroyed bool
}

// New creates an arena with the given chunk size. A nil parent makes a root
// arena; otherwise the arena is registered as a child and dies with its
// parent. A non-positive size selects the default chunk size.
func New(parent *Arena, name string, size int) *Arena {
	if size <= 0 {
		size = defaultChunkSize
	}
	a := &Arena{
		name:      name,
		parent:    parent,
		chunkSize: size,
	}
	if parent != nil {
		parent.children = append(parent.children, a)
	}
	return a
}

// Name returns the arena's name.
func (a *Arena) Name() string { return a.name }

// Alloc returns a zeroed slice of n bytes backed by the arena. Oversized
// requests get a dedicated chunk.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if a == nil || a.destroyed {
		return nil, schema.ErrArenaDestroyed
	}
	if n < 0 {
		return nil, schema.ErrInvalidParameter
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n > a.chunkSize {
		chunk := make([]byte, n)
		// Insert before the cursor so Reset ordering stays simple.
		a.chunks = append(a.chunks, nil)
		copy(a.chunks[a.cur+1:], a.chunks[a.cur:])
		a.chunks[a.cur] = chunk
		a.cur++
		return chunk, nil
	}
	if a.cur >= len(a.chunks) {
		a.chunks = append(a.chunks, make([]byte, a.chunkSize))
	}
	if a.off+n > a.chunkSize {
		a.cur++
		a.off = 0
		if a.cur >= len(a.chunks) {
			a.chunks = append(a.chunks, make([]byte, a.chunkSize))
		}
	}
	buf := a.chunks[a.cur][a.off : a.off+n : a.off+n]
	a.off += n
	for i := range buf {
		buf[i] = 0
	}
	return buf, nil
}

// Reset reclaims all allocations, keeping chunk memory for reuse. Child
// arenas are reset as well.
func (a *Arena) Reset() {
	if a == nil || a.destroyed {
		return
	}
	a.cur = 0
	a.off = 0
	for _, c := range a.children {
		c.Reset()
	}
}

// Destroy releases the arena and all descendants. Further Alloc calls fail
// with ErrArenaDestroyed.
func (a *Arena) Destroy() {
	if a == nil || a.destroyed {
		return
	}
	for _, c := range a.children {
		c.Destroy()
	}
	a.children = nil
	a.chunks = nil
	a.destroyed = true
}
