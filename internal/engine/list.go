package engine

import (
	"fmt"

	"github.com/evalkit/structeval/internal/hungarian"
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// compareListPrimitive implements §4.3a. Callers guarantee both lists are
// non-null (the empty/null cases are handled by the dispatcher before this
// is reached).
func compareListPrimitive(fd *schema.FieldDescriptor, gt, pred *value.Value) *Node {
	gtItems := gt.ListPrimitive()
	predItems := pred.ListPrimitive()
	n, m := len(gtItems), len(predItems)

	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, m)
		for j := range sims[i] {
			s, err := fd.Comparator.Compare(gtItems[i], predItems[j])
			if err != nil {
				s = 0
			}
			sims[i][j] = s
		}
	}

	matched := hungarian.Solve(sims)
	k := len(matched)

	tp, fdCount := 0, 0
	sum := 0.0
	pairs := make([]PrimPair, 0, k)
	matchedGT := make(map[int]bool, k)
	matchedPred := make(map[int]bool, k)

	for _, mt := range matched {
		sum += mt.Similarity
		if mt.Similarity >= fd.Threshold {
			tp++
		} else {
			fdCount++
		}
		pairs = append(pairs, PrimPair{
			GTIndex: mt.GT, PredIndex: mt.Pred, Similarity: mt.Similarity,
			GT: gtItems[mt.GT], Pred: predItems[mt.Pred],
		})
		matchedGT[mt.GT] = true
		matchedPred[mt.Pred] = true
	}

	fn := n - k
	fa := m - k

	raw := 0.0
	if k > 0 {
		raw = sum / float64(k)
	}

	return &Node{
		Kind: schema.KindListPrimitive,
		Overall: metrics.Counts{
			TP: tp, FD: fdCount, FN: fn, FA: fa, FP: fdCount + fa,
		},
		RawSimilarity:         raw,
		AppliedSimilarity:     raw,
		ThresholdAppliedScore: raw, // lists never clip under threshold
		Weight:                fd.Weight,
		Threshold:             fd.Threshold,
		GT:                    gt,
		Pred:                  pred,
		ListPairsPrim:         pairs,
		UnmatchedGT:           unmatchedOf(gtItems, matchedGT),
		UnmatchedPred:         unmatchedOf(predItems, matchedPred),
	}
}

// compareListRecord implements §4.3b, the centrepiece of the engine: a full
// recursive record comparison per candidate (i,j) pair, Hungarian matching
// on the resulting similarity matrix, object-level counts from the matched
// pairs, and raw/unmatched state retained for the aggregate pass to
// synthesize per-field detail (Fields is left nil here; §4.7 fills it).
func compareListRecord(depth int, fd *schema.FieldDescriptor, gt, pred *value.Value, eng *Engine) *Node {
	elementSchema := fd.Record
	mt := elementSchema.MatchThreshold

	gtItems := gt.ListRecord()
	predItems := pred.ListRecord()
	n, m := len(gtItems), len(predItems)

	pairNodes, sims, _ := hungarian.BuildMatrix(n, m, func(i, j int) (*Node, float64, error) {
		key := hungarian.PairKey(fmt.Sprintf("%p|", elementSchema)+gtItems[i].Fingerprint(), predItems[j].Fingerprint())
		if cached, ok := eng.cache.Get(key); ok {
			return cached, cached.RawSimilarity, nil
		}
		node := compareRecordFields(depth+1, elementSchema, gtItems[i], predItems[j], eng)
		eng.cache.Put(key, node)
		return node, node.RawSimilarity, nil
	})

	matched := hungarian.Solve(sims)
	k := len(matched)

	tp, fdCount := 0, 0
	sumSim := 0.0
	pairs := make([]RecordPair, 0, k)
	matchedGT := make(map[int]bool, k)
	matchedPred := make(map[int]bool, k)

	for _, rm := range matched {
		sumSim += rm.Similarity
		if rm.Similarity >= mt {
			tp++
		} else {
			fdCount++
		}
		pairs = append(pairs, RecordPair{
			GTIndex: rm.GT, PredIndex: rm.Pred, Similarity: rm.Similarity,
			Node: pairNodes[rm.GT][rm.Pred],
		})
		matchedGT[rm.GT] = true
		matchedPred[rm.Pred] = true
	}

	fn := n - k
	fa := m - k

	denom := n
	if m > denom {
		denom = m
	}
	raw := 1.0
	if denom > 0 {
		raw = sumSim / float64(denom)
	}

	return &Node{
		Kind: schema.KindListRecord,
		Overall: metrics.Counts{
			TP: tp, FD: fdCount, FN: fn, FA: fa, FP: fdCount + fa,
		},
		RawSimilarity:         raw,
		AppliedSimilarity:     raw,
		ThresholdAppliedScore: raw,
		Weight:                fd.Weight,
		Threshold:             mt,
		GT:                    gt,
		Pred:                  pred,
		ElementSchema:         elementSchema,
		ListPairsRecord:       pairs,
		UnmatchedGT:           unmatchedOf(gtItems, matchedGT),
		UnmatchedPred:         unmatchedOf(predItems, matchedPred),
	}
}

func unmatchedOf(items []*value.Value, matched map[int]bool) []IndexedValue {
	out := make([]IndexedValue, 0, len(items)-len(matched))
	for i, v := range items {
		if !matched[i] {
			out = append(out, IndexedValue{Index: i, Value: v})
		}
	}
	return out
}
