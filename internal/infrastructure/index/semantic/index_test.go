package semantic

import (
	"math"
	"testing"
)

func buildIndex(t *testing.T, vectors [][]float32) *Index {
	t.Helper()
	built, err := NewBuilder(DefaultConfig()).Build(vectors)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return built.(*Index)
}

func TestQueryReturnsNearestBySimilarity(t *testing.T) {
	idx := buildIndex(t, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})

	neighbors := idx.Query([]float32{1, 0, 0}, 2)
	if len(neighbors) != 2 {
		t.Fatalf("got %d neighbors, want 2", len(neighbors))
	}
	if neighbors[0].Example != 0 {
		t.Fatalf("top neighbor = %d, want 0", neighbors[0].Example)
	}
	if math.Abs(neighbors[0].Similarity-1.0) > 1e-6 {
		t.Fatalf("exact match similarity = %v, want 1.0", neighbors[0].Similarity)
	}
	if neighbors[1].Example != 2 {
		t.Fatalf("second neighbor = %d, want 2", neighbors[1].Example)
	}
	if neighbors[0].Similarity < neighbors[1].Similarity {
		t.Fatalf("neighbors not ordered by similarity: %+v", neighbors)
	}
}

func TestQueryReportsExactCosineSimilarity(t *testing.T) {
	idx := buildIndex(t, [][]float32{
		{1, 1, 0},
	})

	neighbors := idx.Query([]float32{1, 0, 0}, 1)
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(neighbors))
	}
	want := 1.0 / math.Sqrt(2)
	if math.Abs(neighbors[0].Similarity-want) > 1e-6 {
		t.Fatalf("similarity = %v, want %v", neighbors[0].Similarity, want)
	}
}

func TestBuildRejectsMixedDimensions(t *testing.T) {
	_, err := NewBuilder(DefaultConfig()).Build([][]float32{
		{1, 0},
		{1, 0, 0},
	})
	if err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestBuildRejectsEmptyVector(t *testing.T) {
	_, err := NewBuilder(DefaultConfig()).Build([][]float32{{}})
	if err == nil {
		t.Fatalf("expected empty vector error")
	}
}

func TestQueryEmptyIndexAndBadInput(t *testing.T) {
	idx := buildIndex(t, nil)
	if neighbors := idx.Query([]float32{1}, 5); neighbors != nil {
		t.Fatalf("empty index must return no neighbors")
	}

	idx = buildIndex(t, [][]float32{{1, 0}})
	if neighbors := idx.Query(nil, 5); neighbors != nil {
		t.Fatalf("empty query vector must return no neighbors")
	}
	if neighbors := idx.Query([]float32{1, 0}, 0); neighbors != nil {
		t.Fatalf("k=0 must return no neighbors")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.7, 0.7, 0},
		{0, 1, 0},
		{0, 0.2, 0.9},
		{0.5, 0.5, 0.5},
	}
	a := buildIndex(t, vectors)
	b := buildIndex(t, vectors)

	queries := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.6, 0.6, 0.1},
	}
	for qi, q := range queries {
		na, nb := a.Query(q, 3), b.Query(q, 3)
		if len(na) != len(nb) {
			t.Fatalf("query %d: result sizes differ", qi)
		}
		for i := range na {
			if na[i] != nb[i] {
				t.Fatalf("query %d: rebuilt graph ranks differently at %d", qi, i)
			}
		}
	}
}

func TestLenReportsIndexedVectors(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 0}, {0, 1}})
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
}
