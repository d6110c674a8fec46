// Package semantic implements the dense retrieval index: an HNSW
// approximate nearest-neighbor graph over the corpus embeddings.
package semantic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/coder/hnsw"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

// Config holds the graph construction parameters. They trade recall against
// query latency and are fixed at build time, never tuned per query.
type Config struct {
	// M is the neighbor fan-out per node.
	M int
	// EfConstruction is the search breadth used while inserting nodes.
	EfConstruction int
	// EfSearch is the search breadth used for queries.
	EfSearch int
	// Seed fixes the level-assignment randomness so identical corpora
	// produce identical graphs.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		M:              32,
		EfConstruction: 200,
		EfSearch:       100,
		Seed:           1,
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	out := c
	if out.M <= 0 {
		out.M = def.M
	}
	if out.EfConstruction <= 0 {
		out.EfConstruction = def.EfConstruction
	}
	if out.EfSearch <= 0 {
		out.EfSearch = def.EfSearch
	}
	return out
}

// Builder constructs Index values with fixed graph parameters.
type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg.normalize()}
}

// Index wraps the ANN graph plus the raw vectors, which are kept to report
// exact cosine similarities for the approximate candidate set.
// Immutable and safe for concurrent queries after Build.
type Index struct {
	graph   *hnsw.Graph[int]
	vectors [][]float32
}

// Build inserts every vector into a fresh graph. Insertion order is the
// example order; it shapes the graph's internal structure but not the
// query contract.
func (b *Builder) Build(vectors [][]float32) (ports.SemanticIndex, error) {
	dimension := 0
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("vector %d is empty", i)
		}
		if dimension == 0 {
			dimension = len(vec)
		} else if len(vec) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(vec), dimension)
		}
	}

	graph := hnsw.NewGraph[int]()
	graph.M = b.cfg.M
	graph.Ml = 0.25
	graph.Distance = hnsw.CosineDistance
	graph.Rng = rand.New(rand.NewSource(b.cfg.Seed))

	// Wider beam while constructing, narrowed to the query breadth after.
	graph.EfSearch = b.cfg.EfConstruction
	for i, vec := range vectors {
		graph.Add(hnsw.MakeNode(i, vec))
	}
	graph.EfSearch = b.cfg.EfSearch

	stored := make([][]float32, len(vectors))
	for i, vec := range vectors {
		stored[i] = append([]float32(nil), vec...)
	}

	return &Index{graph: graph, vectors: stored}, nil
}

// Query returns up to k approximate nearest neighbors ordered by
// non-increasing exact cosine similarity. Recall is not guaranteed 100%.
func (idx *Index) Query(vector []float32, k int) []domain.Neighbor {
	if k <= 0 || len(idx.vectors) == 0 || len(vector) == 0 {
		return nil
	}
	nodes := idx.graph.Search(vector, k)

	neighbors := make([]domain.Neighbor, 0, len(nodes))
	for _, node := range nodes {
		neighbors = append(neighbors, domain.Neighbor{
			Example:    node.Key,
			Similarity: cosineSimilarity(vector, idx.vectors[node.Key]),
		})
	}
	// The graph returns nearest-first already; re-sorting pins down the
	// ordering contract against float rounding in the distance function.
	for i := 1; i < len(neighbors); i++ {
		for j := i; j > 0 && neighbors[j].Similarity > neighbors[j-1].Similarity; j-- {
			neighbors[j], neighbors[j-1] = neighbors[j-1], neighbors[j]
		}
	}
	return neighbors
}

// Len reports the number of indexed vectors.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
