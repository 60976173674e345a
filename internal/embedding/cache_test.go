package embedding

import (
	"context"
	"testing"
)

// countingEmbedder tracks how often the underlying provider is hit.
type countingEmbedder struct {
	*MockEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls += len(texts)
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedderHit(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 16)

	first, err := cached.Embed(context.Background(), "fix panic in parser")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := cached.Embed(context.Background(), "fix panic in parser")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("cached embedding differs from original")
		}
	}
}

func TestCachedEmbedderEviction(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 2)

	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		if _, err := cached.Embed(ctx, text); err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
	}
	// "a" was evicted by "c"; re-embedding it hits the provider again.
	if _, err := cached.Embed(ctx, "a"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 4 {
		t.Errorf("inner calls = %d, want 4", inner.calls)
	}
}

func TestCachedEmbedderBatchMixes(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 16)

	ctx := context.Background()
	if _, err := cached.Embed(ctx, "known"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	vecs, err := cached.EmbedBatch(ctx, []string{"known", "new"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 2 || vecs[0] == nil || vecs[1] == nil {
		t.Fatalf("expected 2 vectors, got %v", vecs)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (one miss per text)", inner.calls)
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	a, _ := e.Embed(context.Background(), "memory leak")
	b, _ := e.Embed(context.Background(), "memory leak")
	c, _ := e.Embed(context.Background(), "different text")

	if len(a) != 16 {
		t.Fatalf("dimensions = %d, want 16", len(a))
	}
	same := true
	diff := false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			diff = true
		}
	}
	if !same {
		t.Error("equal texts must embed equally")
	}
	if !diff {
		t.Error("different texts should not embed identically")
	}
}
