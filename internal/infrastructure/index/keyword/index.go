// Package keyword implements the sparse lexical index: unigram+bigram
// term-frequency/inverse-document-frequency vectors over the training corpus
// with cosine-similarity top-k lookup.
package keyword

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

const (
	defaultMaxFeatures = 5000
	minTokenRunes      = 2
)

// Builder fits an Index over corpus texts. MaxFeatures caps the vocabulary,
// selected by total term frequency across the corpus.
type Builder struct {
	MaxFeatures int
}

func NewBuilder(maxFeatures int) *Builder {
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	return &Builder{MaxFeatures: maxFeatures}
}

type sparseVector struct {
	terms   []int
	weights []float64
}

// Index holds one L2-normalised tf-idf vector per corpus example.
// Immutable and safe for concurrent queries after Build.
type Index struct {
	vocabulary map[string]int
	idf        []float64
	documents  []sparseVector
}

// Build fits the vocabulary and document vectors. An empty corpus yields an
// empty index whose queries return no neighbors.
func (b *Builder) Build(texts []string) (ports.LexicalIndex, error) {
	tokenized := make([][]string, len(texts))
	corpusFreq := make(map[string]int)
	for i, text := range texts {
		terms := extractTerms(text)
		tokenized[i] = terms
		for _, term := range terms {
			corpusFreq[term]++
		}
	}

	vocabulary := selectVocabulary(corpusFreq, b.MaxFeatures)

	// Document frequency over the capped vocabulary.
	docFreq := make([]int, len(vocabulary))
	for _, terms := range tokenized {
		seen := make(map[int]struct{}, len(terms))
		for _, term := range terms {
			col, ok := vocabulary[term]
			if !ok {
				continue
			}
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			docFreq[col]++
		}
	}

	total := len(texts)
	idf := make([]float64, len(vocabulary))
	for col, df := range docFreq {
		// Smooth idf, so terms present in every document keep a small weight.
		idf[col] = math.Log(float64(1+total)/float64(1+df)) + 1.0
	}

	index := &Index{
		vocabulary: vocabulary,
		idf:        idf,
		documents:  make([]sparseVector, len(texts)),
	}
	for i, terms := range tokenized {
		index.documents[i] = index.vectorize(terms)
	}
	return index, nil
}

// Query ranks the full corpus by cosine similarity to the query vector and
// returns the top k. Exact similarity ties resolve by ascending example
// index, keeping the ranking stable.
func (idx *Index) Query(text string, k int) []domain.Neighbor {
	if k <= 0 || len(idx.documents) == 0 {
		return nil
	}
	queryVec := idx.vectorize(extractTerms(text))

	neighbors := make([]domain.Neighbor, len(idx.documents))
	for i := range idx.documents {
		neighbors[i] = domain.Neighbor{
			Example:    i,
			Similarity: dotSparse(queryVec, idx.documents[i]),
		}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Example < neighbors[j].Example
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// VocabularySize reports the fitted vocabulary size.
func (idx *Index) VocabularySize() int {
	return len(idx.vocabulary)
}

func (idx *Index) vectorize(terms []string) sparseVector {
	counts := make(map[int]float64, len(terms))
	for _, term := range terms {
		if col, ok := idx.vocabulary[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return sparseVector{}
	}

	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	weights := make([]float64, len(cols))
	var norm float64
	for i, col := range cols {
		w := counts[col] * idx.idf[col]
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range weights {
			weights[i] /= norm
		}
	}
	return sparseVector{terms: cols, weights: weights}
}

func dotSparse(a, b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func selectVocabulary(corpusFreq map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	// Most frequent first; lexical order on equal counts keeps the cap
	// deterministic.
	sort.Slice(terms, func(i, j int) bool {
		if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
			return corpusFreq[terms[i]] > corpusFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	// Column assignment is alphabetical over the kept terms.
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for col, term := range terms {
		vocabulary[term] = col
	}
	return vocabulary
}

// extractTerms produces lowercased unigrams and adjacent bigrams. Tokens are
// letter/digit runs of at least two runes, so stray punctuation and single
// characters never enter the vocabulary.
func extractTerms(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			token := b.String()
			if len([]rune(token)) >= minTokenRunes {
				out = append(out, token)
			}
			b.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return out
}
