// Package rules holds the versioned pattern artifact of the intent engine:
// priority-ordered classification patterns, per-tag anti-patterns, and the
// lexical boost table. The artifact ships embedded; every expression is
// compiled and validated at load time, so a broken artifact fails startup
// instead of a request.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

//go:embed rules.yaml
var embeddedArtifact []byte

type artifact struct {
	Version      int                 `yaml:"version"`
	Patterns     []patternEntry      `yaml:"patterns"`
	AntiPatterns map[string][]string `yaml:"anti_patterns"`
	Boosts       []boostEntry        `yaml:"boosts"`
}

type patternEntry struct {
	Pattern     string `yaml:"pattern"`
	Tag         string `yaml:"tag"`
	Priority    int    `yaml:"priority"`
	Description string `yaml:"description"`
}

type boostEntry struct {
	Cues       []string `yaml:"cues"`
	Tag        string   `yaml:"tag"`
	Multiplier float64  `yaml:"multiplier"`
}

type compiledPattern struct {
	rule domain.PatternRule
	re   *regexp.Regexp
}

// Table is the immutable, priority-sorted rule set. Safe for concurrent use.
type Table struct {
	version  int
	patterns []compiledPattern
	vetoes   map[domain.Tag][]*regexp.Regexp
	boosts   []domain.BoostRule
}

// LoadEmbedded parses and compiles the embedded artifact.
func LoadEmbedded() (*Table, error) {
	return Parse(embeddedArtifact)
}

// Parse builds a Table from a YAML artifact. Any expression that fails to
// compile, or any reference to a tag outside the enumeration, is an error.
func Parse(raw []byte) (*Table, error) {
	var art artifact
	if err := yaml.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse rule artifact: %w", err)
	}
	if art.Version != 1 {
		return nil, fmt.Errorf("unsupported rule artifact version %d", art.Version)
	}
	if len(art.Patterns) == 0 {
		return nil, fmt.Errorf("rule artifact has no patterns")
	}

	table := &Table{
		version: art.Version,
		vetoes:  make(map[domain.Tag][]*regexp.Regexp),
	}

	for i, entry := range art.Patterns {
		tag := domain.Tag(entry.Tag)
		if !domain.IsValidTag(tag) {
			return nil, fmt.Errorf("pattern %d: %w: %q", i, domain.ErrUnknownTag, entry.Tag)
		}
		if entry.Priority <= 0 {
			return nil, fmt.Errorf("pattern %d (%s): priority must be positive", i, entry.Tag)
		}
		re, err := compileQueryPattern(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%s): %w", i, entry.Tag, err)
		}
		table.patterns = append(table.patterns, compiledPattern{
			rule: domain.PatternRule{
				Pattern:     entry.Pattern,
				Tag:         tag,
				Priority:    entry.Priority,
				Description: entry.Description,
			},
			re: re,
		})
	}

	// Stable sort: priority order with declaration order preserved on ties.
	sort.SliceStable(table.patterns, func(i, j int) bool {
		return table.patterns[i].rule.Priority < table.patterns[j].rule.Priority
	})

	for rawTag, expressions := range art.AntiPatterns {
		tag := domain.Tag(rawTag)
		if !domain.IsValidTag(tag) {
			return nil, fmt.Errorf("anti-pattern: %w: %q", domain.ErrUnknownTag, rawTag)
		}
		for _, expression := range expressions {
			re, err := compileQueryPattern(expression)
			if err != nil {
				return nil, fmt.Errorf("anti-pattern (%s): %w", rawTag, err)
			}
			table.vetoes[tag] = append(table.vetoes[tag], re)
		}
	}

	for i, entry := range art.Boosts {
		tag := domain.Tag(entry.Tag)
		if !domain.IsValidTag(tag) {
			return nil, fmt.Errorf("boost %d: %w: %q", i, domain.ErrUnknownTag, entry.Tag)
		}
		if entry.Multiplier <= 0 {
			return nil, fmt.Errorf("boost %d (%s): multiplier must be positive", i, entry.Tag)
		}
		if len(entry.Cues) == 0 {
			return nil, fmt.Errorf("boost %d (%s): no cue terms", i, entry.Tag)
		}
		table.boosts = append(table.boosts, domain.BoostRule{
			Cues:       append([]string(nil), entry.Cues...),
			Tag:        tag,
			Multiplier: entry.Multiplier,
		})
	}

	return table, nil
}

func compileQueryPattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Match scans entries in ascending priority order and returns the first rule
// whose pattern matches, or nil. Matching is binary; no scoring happens here.
func (t *Table) Match(query string) *domain.PatternRule {
	for i := range t.patterns {
		if t.patterns[i].re.MatchString(query) {
			rule := t.patterns[i].rule
			return &rule
		}
	}
	return nil
}

// Vetoes reports whether any anti-pattern registered for tag matches the
// query. Applied only to a fusion winner, never during rule matching.
func (t *Table) Vetoes(tag domain.Tag, query string) bool {
	for _, re := range t.vetoes[tag] {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

// Boosts returns the lexical cue boost table in declaration order.
func (t *Table) Boosts() []domain.BoostRule {
	return t.boosts
}

// Version returns the artifact version.
func (t *Table) Version() int {
	return t.version
}

// Len returns the number of compiled patterns.
func (t *Table) Len() int {
	return len(t.patterns)
}
