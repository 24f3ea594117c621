package engine

import (
	"github.com/evalkit/structeval/internal/hungarian"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// DefaultMaxDepth is the practical recursion-depth guard (§5) applied when
// a caller does not override it.
const DefaultMaxDepth = 32

// Engine drives one comparison run. It holds no state between calls other
// than the pairwise-similarity memoization cache, which is safe to reuse
// (or discard) across calls — the comparison itself is a pure function of
// its schema and value arguments (§5).
type Engine struct {
	cache    *hungarian.Cache[*Node]
	maxDepth int
}

// New returns an Engine. maxDepth <= 0 selects DefaultMaxDepth.
func New(maxDepth int) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine{cache: hungarian.NewCache[*Node](), maxDepth: maxDepth}
}

// Compare drives a ground-truth/prediction record pair recursively against
// s, returning the root ComparisonNode. The root's Overall is the §4.5
// case-1 sum (it has no enclosing field to classify it as an object
// against); its RawSimilarity is the overall_score.
func (e *Engine) Compare(s *schema.Schema, gt, pred *value.Value) *Node {
	return compareRecordFields(0, s, gt, pred, e)
}

// CacheStats reports the pairwise-similarity cache's cumulative hit/miss
// counts, for diagnosing list-heavy schemas.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.cache.Stats()
}
