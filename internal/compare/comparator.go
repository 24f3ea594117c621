// Package compare defines the Comparator capability the engine consumes
// (pairwise similarity in [0,1] between two primitive values) and a small
// built-in catalogue sufficient to exercise and test the engine. A full
// comparator catalogue (Levenshtein, Jaro-Winkler, locale-aware string
// comparison, tolerant numeric comparison with unit conversion, ...) is an
// external collaborator's responsibility; callers are free to supply their
// own Comparator per field.
package compare

import (
	"strings"

	"github.com/evalkit/structeval/internal/value"
)

// Comparator computes a pairwise similarity in [0,1] between a ground-truth
// and a predicted primitive value. Implementations must be pure and safe
// for concurrent use — the engine may call Compare from multiple goroutines
// while building a Hungarian cost matrix.
type Comparator interface {
	Compare(gt, pred *value.Value) (float64, error)
}

// Func adapts a plain function to the Comparator interface.
type Func func(gt, pred *value.Value) (float64, error)

func (f Func) Compare(gt, pred *value.Value) (float64, error) { return f(gt, pred) }

// Exact returns 1.0 when the two primitive values are equal, 0.0 otherwise.
var Exact Comparator = Func(func(gt, pred *value.Value) (float64, error) {
	if gt.Kind() != pred.Kind() {
		return 0, nil
	}
	switch gt.Kind() {
	case value.KindString:
		if gt.String() == pred.String() {
			return 1, nil
		}
	case value.KindInt:
		if gt.Int() == pred.Int() {
			return 1, nil
		}
	case value.KindFloat:
		if gt.Float() == pred.Float() {
			return 1, nil
		}
	case value.KindBool:
		if gt.Bool() == pred.Bool() {
			return 1, nil
		}
	}
	return 0, nil
})

// NumericTolerance returns a Comparator that scores 1.0 when the two
// numeric values are within tolerance of each other, decaying linearly to 0
// at 2x tolerance, mirroring the teacher's isInNumericRange band logic.
func NumericTolerance(tolerance float64) Comparator {
	return Func(func(gt, pred *value.Value) (float64, error) {
		a := numericOf(gt)
		b := numericOf(pred)
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		if tolerance <= 0 {
			if diff == 0 {
				return 1, nil
			}
			return 0, nil
		}
		if diff <= tolerance {
			return 1, nil
		}
		decay := 1 - (diff-tolerance)/tolerance
		if decay < 0 {
			decay = 0
		}
		return decay, nil
	})
}

func numericOf(v *value.Value) float64 {
	switch v.Kind() {
	case value.KindInt:
		return float64(v.Int())
	case value.KindFloat:
		return v.Float()
	default:
		return 0
	}
}

// Fuzzy is a bigram-Jaccard string similarity comparator, ported from the
// teacher's matcher.calculateSimilarity/getBigrams routine. Non-string
// values are scored as Exact scores them.
var Fuzzy Comparator = Func(func(gt, pred *value.Value) (float64, error) {
	if gt.Kind() != value.KindString || pred.Kind() != value.KindString {
		return Exact.Compare(gt, pred)
	}
	return bigramJaccard(gt.String(), pred.String()), nil
})

func bigramJaccard(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	b1 := bigrams(s1)
	b2 := bigrams(s2)

	intersection := 0
	for bg := range b1 {
		if b2[bg] {
			intersection++
		}
	}

	union := len(b1) + len(b2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func bigrams(s string) map[string]bool {
	bg := make(map[string]bool)
	if len(s) < 2 {
		return bg
	}
	for i := 0; i < len(s)-1; i++ {
		bg[strings.ToLower(s[i:i+2])] = true
	}
	return bg
}
