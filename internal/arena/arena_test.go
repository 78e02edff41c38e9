package arena

import (
	"errors"
	"testing"

	"pkt.systems/termline/schema"
)

func TestAllocAndReset(t *testing.T) {
	a := New(nil, "events", 64)
	first, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if len(first) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(first))
	}
	copy(first, "abcdefghijklmnop")

	a.Reset()

	second, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("alloc after reset: %v", err)
	}
	for i, b := range second {
		if b != 0 {
			t.Fatalf("byte %d not zeroed after reset: %q", i, b)
		}
	}
}

func TestAllocSpansChunks(t *testing.T) {
	a := New(nil, "events", 32)
	for i := 0; i < 10; i++ {
		buf, err := a.Alloc(20)
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		if len(buf) != 20 {
			t.Fatalf("alloc %d: got %d bytes", i, len(buf))
		}
	}
	if len(a.chunks) < 5 {
		t.Fatalf("expected multiple chunks, got %d", len(a.chunks))
	}
}

func TestOversizedAlloc(t *testing.T) {
	a := New(nil, "events", 32)
	buf, err := a.Alloc(100)
	if err != nil {
		t.Fatalf("oversized alloc: %v", err)
	}
	if len(buf) != 100 {
		t.Fatalf("got %d bytes", len(buf))
	}
}

func TestDestroyCascades(t *testing.T) {
	root := New(nil, "root", 0)
	child := New(root, "child", 0)
	root.Destroy()
	if _, err := child.Alloc(1); !errors.Is(err, schema.ErrArenaDestroyed) {
		t.Fatalf("expected ErrArenaDestroyed from destroyed child, got %v", err)
	}
}

func TestNegativeAlloc(t *testing.T) {
	a := New(nil, "events", 0)
	if _, err := a.Alloc(-1); !errors.Is(err, schema.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
