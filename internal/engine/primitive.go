package engine

import (
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// comparePrimitive implements §4.1 for a pair of non-null primitives of the
// same declared type. A comparator error is treated as a type mismatch
// rather than propagated, consistent with the engine never raising during
// comparison (§4.11).
func comparePrimitive(fd *schema.FieldDescriptor, gt, pred *value.Value) *Node {
	raw, err := fd.Comparator.Compare(gt, pred)
	if err != nil {
		return &Node{
			Kind: schema.KindPrimitive, Overall: metrics.FD1(),
			Weight: fd.Weight, Threshold: fd.Threshold,
			GT: gt, Pred: pred,
			Reason: "comparator error: " + err.Error(),
		}
	}

	classification := metrics.FD1()
	if raw >= fd.Threshold {
		classification = metrics.TP1()
	}

	thresholdApplied := raw
	if fd.ClipUnderThreshold && raw < fd.Threshold {
		thresholdApplied = 0
	}

	return &Node{
		Kind:                  schema.KindPrimitive,
		Overall:               classification,
		RawSimilarity:         raw,
		AppliedSimilarity:     raw,
		ThresholdAppliedScore: thresholdApplied,
		Weight:                fd.Weight,
		Threshold:             fd.Threshold,
		GT:                    gt,
		Pred:                  pred,
	}
}
