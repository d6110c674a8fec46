package usecase

import (
	"strings"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

// Retrieval weights. Semantic similarity dominates; the lexical leg breaks
// paraphrase ties.
const (
	semanticWeight = 0.75
	keywordWeight  = 0.25
)

// fuseScores merges both top-k result sets into one per-tag score map.
// Contributions are summed, not maxed: a tag with denser corpus coverage
// near the query accumulates more weight, and that density bias is part of
// the scoring contract.
func fuseScores(semantic, keyword []domain.Neighbor, tags []domain.Tag) domain.ScoreMap {
	scores := make(domain.ScoreMap)
	for _, hit := range semantic {
		if hit.Example < 0 || hit.Example >= len(tags) {
			continue
		}
		scores[tags[hit.Example]] += hit.Similarity * semanticWeight
	}
	for _, hit := range keyword {
		if hit.Example < 0 || hit.Example >= len(tags) {
			continue
		}
		scores[tags[hit.Example]] += hit.Similarity * keywordWeight
	}
	return scores
}

// applyBoosts multiplies tag scores by every boost rule whose cue terms
// appear in the lowercased query. Rules are independent and compound.
func applyBoosts(query string, scores domain.ScoreMap, boosts []domain.BoostRule) domain.ScoreMap {
	queryLower := strings.ToLower(query)
	for _, boost := range boosts {
		current, ok := scores[boost.Tag]
		if !ok {
			continue
		}
		for _, cue := range boost.Cues {
			if strings.Contains(queryLower, cue) {
				scores[boost.Tag] = current * boost.Multiplier
				break
			}
		}
	}
	return scores
}

// argMaxTag picks the highest-scoring tag. Exact score ties resolve to the
// lexicographically smaller tag identifier, so selection never depends on
// map iteration order.
func argMaxTag(scores domain.ScoreMap) (domain.Tag, float64, bool) {
	var (
		bestTag   domain.Tag
		bestScore float64
		found     bool
	)
	for tag, score := range scores {
		switch {
		case !found, score > bestScore:
			bestTag, bestScore, found = tag, score, true
		case score == bestScore && tag < bestTag:
			bestTag = tag
		}
	}
	return bestTag, bestScore, found
}
