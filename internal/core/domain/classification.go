package domain

// Method records which engine path produced a result.
type Method string

const (
	MethodPatternMatch   Method = "pattern_match"
	MethodSemanticHybrid Method = "semantic_hybrid"
)

// ClassificationResult is a fresh value owned by the caller. A nil result
// together with a nil error means the query is unclassified.
type ClassificationResult struct {
	Tag        Tag     `json:"tag"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
	Reasoning  string  `json:"reasoning"`
}

// TrainingExample is one labelled corpus row. Immutable once loaded.
type TrainingExample struct {
	Text string
	Tag  Tag
}

// EvaluationCase is one labelled row of the offline evaluation set.
type EvaluationCase struct {
	Question string
	Expected Tag
}

// Neighbor is one retrieval hit: a corpus example index and its similarity
// to the query. Retrieval results are ordered by non-increasing similarity.
type Neighbor struct {
	Example    int
	Similarity float64
}

// ScoreMap accumulates fused per-tag scores for a single query.
type ScoreMap map[Tag]float64

// PatternRule is one entry of the rule table. Lower priority numbers are
// evaluated first; ties keep declaration order.
type PatternRule struct {
	Pattern     string
	Tag         Tag
	Priority    int
	Description string
}

// BoostRule multiplies a tag's fused score when any cue appears as a
// substring of the lowercased query. Multiple matching rules compound.
type BoostRule struct {
	Cues       []string
	Tag        Tag
	Multiplier float64
}

// BuildProgress is emitted by the index build as batches complete.
type BuildProgress struct {
	Stage string
	Done  int
	Total int
}
