package engine

import (
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// dispatch routes one (field, gt, pred) site to the right comparer,
// applying the null rules of §4.2 before any type-based dispatch. Decision
// order is significant: list fields use the list-null predicate, every
// other kind uses the primitive-null predicate, and only once both sides
// are non-null does type-based dispatch run.
func dispatch(depth int, fd *schema.FieldDescriptor, gt, pred *value.Value, eng *Engine) *Node {
	if depth > eng.maxDepth {
		return &Node{
			Kind:    fd.Kind,
			Overall: metrics.FD1(),
			Weight:  fd.Weight,
			GT:      gt,
			Pred:    pred,
			Reason:  "max recursion depth exceeded",
		}
	}

	switch fd.Kind {
	case schema.KindListPrimitive, schema.KindListRecord:
		return dispatchList(depth, fd, gt, pred, eng)
	default:
		return dispatchScalar(depth, fd, gt, pred, eng)
	}
}

func dispatchList(depth int, fd *schema.FieldDescriptor, gt, pred *value.Value, eng *Engine) *Node {
	gtNull := gt.IsNullForList()
	predNull := pred.IsNullForList()

	switch {
	case gtNull && predNull:
		return &Node{
			Kind: fd.Kind, Overall: metrics.TN1(),
			RawSimilarity: 1.0, AppliedSimilarity: 1.0, ThresholdAppliedScore: 1.0,
			Weight: fd.Weight, GT: gt, Pred: pred,
		}
	case gtNull && !predNull:
		k := pred.Len()
		return &Node{
			Kind: fd.Kind, Overall: metrics.FAn(k),
			Weight: fd.Weight, GT: gt, Pred: pred,
			UnmatchedPred: indexItems(listItems(pred)),
			Reason:        "predicted list present, ground truth null",
		}
	case !gtNull && predNull:
		k := gt.Len()
		return &Node{
			Kind: fd.Kind, Overall: metrics.FNn(k),
			Weight: fd.Weight, GT: gt, Pred: pred,
			UnmatchedGT: indexItems(listItems(gt)),
			Reason:      "ground truth list present, prediction null",
		}
	default:
		if fd.Kind == schema.KindListPrimitive {
			return compareListPrimitive(fd, gt, pred)
		}
		return compareListRecord(depth, fd, gt, pred, eng)
	}
}

func dispatchScalar(depth int, fd *schema.FieldDescriptor, gt, pred *value.Value, eng *Engine) *Node {
	gtNull := gt.IsNullForPrimitive()
	predNull := pred.IsNullForPrimitive()

	switch {
	case gtNull && predNull:
		return &Node{
			Kind: fd.Kind, Overall: metrics.TN1(),
			RawSimilarity: 1.0, AppliedSimilarity: 1.0, ThresholdAppliedScore: 1.0,
			Weight: fd.Weight, GT: gt, Pred: pred,
		}
	case gtNull && !predNull:
		return &Node{
			Kind: fd.Kind, Overall: metrics.FA1(),
			Weight: fd.Weight, GT: gt, Pred: pred,
			Reason: "missing in ground truth",
		}
	case !gtNull && predNull:
		return &Node{
			Kind: fd.Kind, Overall: metrics.FN1(),
			Weight: fd.Weight, GT: gt, Pred: pred,
			Reason: "missing in prediction",
		}
	default:
		switch fd.Kind {
		case schema.KindPrimitive:
			if gt.Kind() != fd.PrimType.ValueKind() || pred.Kind() != fd.PrimType.ValueKind() {
				return kindMismatchNode(fd, gt, pred)
			}
			return comparePrimitive(fd, gt, pred)
		case schema.KindRecord:
			if gt.Kind() != value.KindRecord || pred.Kind() != value.KindRecord {
				return kindMismatchNode(fd, gt, pred)
			}
			return compareRecordField(depth, fd, gt, pred, eng)
		default:
			return kindMismatchNode(fd, gt, pred)
		}
	}
}

func listItems(v *value.Value) []*value.Value {
	switch v.Kind() {
	case value.KindListPrimitive:
		return v.ListPrimitive()
	case value.KindListRecord:
		return v.ListRecord()
	default:
		return nil
	}
}

func indexItems(items []*value.Value) []IndexedValue {
	out := make([]IndexedValue, len(items))
	for i, v := range items {
		out[i] = IndexedValue{Index: i, Value: v}
	}
	return out
}
