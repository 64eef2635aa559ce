package vector

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestStoreAddSearch(t *testing.T) {
	s, err := NewStore(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	if err := s.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if s.Size() != 3 {
		t.Errorf("Size = %d, want 3", s.Size())
	}

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].ID != "a" || hits[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", hits[0].ID, hits[1].ID)
	}
}

func TestStoreDimensionMismatch(t *testing.T) {
	s, _ := NewStore(2)
	ctx := context.Background()
	if err := s.Add(ctx, []string{"a"}, [][]float32{{1, 0, 0}}); err == nil {
		t.Error("expected dimension mismatch on Add")
	}
	if _, err := s.Search(ctx, []float32{1}, 1); err == nil {
		t.Error("expected dimension mismatch on Search")
	}
}

func TestStoreRemove(t *testing.T) {
	s, _ := NewStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, []string{"x", "y"}, [][]float32{{1, 0}, {0, 1}})
	if err := s.Remove(ctx, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1", s.Size())
	}
	if _, ok := s.Vector("x"); ok {
		t.Error("removed id still resolvable")
	}
	if _, ok := s.Vector("y"); !ok {
		t.Error("surviving id not resolvable")
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.vec")
	s, _ := NewStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, []string{"a", "b"}, [][]float32{{0.6, 0.8}, {1, 0}})
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewStore(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size = %d, want 2", loaded.Size())
	}
	v, ok := loaded.Vector("a")
	if !ok || math.Abs(float64(v[0])-0.6) > 1e-6 {
		t.Errorf("loaded vector a = %v", v)
	}

	wrongDims, _ := NewStore(3)
	if err := wrongDims.Load(path); err == nil {
		t.Error("expected dimension mismatch on Load")
	}

	fresh, _ := NewStore(2)
	if err := fresh.Load(filepath.Join(t.TempDir(), "missing.vec")); err != nil {
		t.Errorf("missing file should not error, got %v", err)
	}
}

func TestCosineHelpers(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, a); got != 1 {
		t.Errorf("CosineSimilarity(a,a) = %v, want 1", got)
	}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(a,b) = %v, want 0", got)
	}
	if got := CosineDistance(a, b); got != 1 {
		t.Errorf("CosineDistance(a,b) = %v, want 1", got)
	}
	if got := L2Norm([]float32{3, 4}); math.Abs(got-5) > 1e-9 {
		t.Errorf("L2Norm = %v, want 5", got)
	}
}
