package engine

import (
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// compareRecordFields implements §4.4 steps 1-5 for a pair of non-null
// records of the same schema: it is the shared inner routine used both for
// the comparison root (where the result IS the node's own Overall, §4.5
// case 1) and for a full record-list pair comparison (§4.3b), which also
// needs the per-field detail tree but classifies the pair against the
// element match_threshold rather than against ObjectOverall.
func compareRecordFields(depth int, s *schema.Schema, gt, pred *value.Value, eng *Engine) *Node {
	if depth > eng.maxDepth {
		return &Node{
			Kind: schema.KindRecord, Overall: metrics.FD1(),
			GT: gt, Pred: pred, Reason: "max recursion depth exceeded",
		}
	}

	fields := make(map[string]*Node, s.Len())
	var inner metrics.Counts
	totalScore, totalWeight := 0.0, 0.0
	matchedCount := 0

	for _, name := range s.Order() {
		fd, _ := s.Field(name)
		gtChild := gt.Field(name)
		predChild := pred.Field(name)

		child := dispatch(depth+1, fd, gtChild, predChild, eng)
		fields[name] = child

		inner = inner.Add(childContributionOverall(fd.Kind, child))

		totalScore += child.ThresholdAppliedScore * fd.Weight
		totalWeight += fd.Weight

		if child.RawSimilarity >= fd.Threshold {
			matchedCount++
		}
	}

	// Extra-field penalty (§4.4 step 3): keys present in the prediction but
	// not declared by the schema at this level, plus the same count
	// recursively through matched Record children and matched ListRecord
	// pairs, folded into this level's own Overall.
	ownExtraFA := len(pred.Extra())
	totalExtraFA := ownExtraFA + recursiveExtraFA(fields)
	if totalExtraFA > 0 {
		inner = inner.Add(metrics.FAn(totalExtraFA))
	}

	raw := 0.0
	if totalWeight > 0 {
		raw = totalScore / totalWeight
	}

	return &Node{
		Kind:             schema.KindRecord,
		Overall:          inner,
		RawSimilarity:    raw,
		AppliedSimilarity: raw,
		Fields:           fields,
		AllFieldsMatched: matchedCount == s.Len(),
		GT:               gt,
		Pred:             pred,
		ExtraFieldFA:     ownExtraFA,
	}
}

// recursiveExtraFA sums hallucinated-field counts from matched Record
// children and matched ListRecord pairs nested under fields (§4.4 step 3):
// the same penalty a nested record's own comparison already folds into its
// ExtraFieldFA, but which childContributionOverall otherwise discards for
// Record children (it takes ObjectOverall instead of Overall) and which a
// ListRecord node never carries on itself at all.
func recursiveExtraFA(fields map[string]*Node) int {
	total := 0
	for _, child := range fields {
		switch child.Kind {
		case schema.KindRecord:
			total += child.ExtraFieldFA + recursiveExtraFA(child.Fields)
		case schema.KindListRecord:
			for _, pair := range child.ListPairsRecord {
				total += pair.Node.ExtraFieldFA + recursiveExtraFA(pair.Node.Fields)
			}
		}
	}
	return total
}

// compareRecordField wraps compareRecordFields for the Record×Record
// dispatch case (§4.4 step 6): it additionally classifies the record as an
// object against the enclosing field's threshold, for the parent to use as
// this child's contribution to its own Overall (§4.5 case 2).
func compareRecordField(depth int, fd *schema.FieldDescriptor, gt, pred *value.Value, eng *Engine) *Node {
	node := compareRecordFields(depth, fd.Record, gt, pred, eng)
	node.Weight = fd.Weight
	node.Threshold = fd.Threshold

	if node.RawSimilarity >= fd.Threshold {
		node.ObjectOverall = metrics.TP1()
	} else {
		node.ObjectOverall = metrics.FD1()
	}

	if fd.ClipUnderThreshold && node.RawSimilarity < fd.Threshold {
		node.ThresholdAppliedScore = 0
	} else {
		node.ThresholdAppliedScore = node.RawSimilarity
	}

	return node
}
