// Package engine implements the recursive, schema-driven comparison that
// walks a ground-truth and predicted Value tree in lockstep, producing a
// ComparisonNode tree (Node here) with both the "overall" (object-level)
// and, once the aggregate pass runs, the "aggregate" (primitive-leaf) metric
// views.
package engine

import (
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// RecordPair is one matched (ground-truth, prediction) pair inside a
// list-of-record comparison, holding the full recursive comparison of that
// pair.
type RecordPair struct {
	GTIndex   int
	PredIndex int
	Similarity float64
	Node      *Node
}

// PrimPair is one matched pair inside a list-of-primitive comparison.
type PrimPair struct {
	GTIndex    int
	PredIndex  int
	Similarity float64
	GT         *value.Value
	Pred       *value.Value
}

// IndexedValue pairs a list element with its original index, so an
// unmatched item can still be reported at its source position (name[i]).
type IndexedValue struct {
	Index int
	Value *value.Value
}

// Node is the engine's output tree, isomorphic to the schema rooted at the
// compared records. Which fields are meaningful depends on Kind:
//
//   - KindPrimitive: RawSimilarity/AppliedSimilarity/ThresholdAppliedScore,
//     no Fields.
//   - KindRecord: Fields holds per-child nodes; Overall is the elementwise
//     sum of children's contribution-overalls plus the extra-field FAs at
//     this level and inside matched nested records and list pairs (§4.5
//     case 1); ObjectOverall is the TP/FD classification a parent
//     uses instead, when this record is itself a field value (§4.5 case 2).
//   - KindListPrimitive: ListPairsPrim/UnmatchedGT/UnmatchedPred, no Fields.
//   - KindListRecord: ListPairsRecord holds each matched pair's full nested
//     Node; Fields is synthesized by the aggregate pass (§4.3b, §4.7) once
//     every pair's own subtree has been aggregated.
type Node struct {
	Kind schema.FieldKind

	Overall          metrics.Counts
	Aggregate        metrics.Counts
	OverallDerived   metrics.Derived
	AggregateDerived metrics.Derived

	RawSimilarity         float64
	AppliedSimilarity     float64
	ThresholdAppliedScore float64
	Weight                float64
	Threshold             float64

	// ObjectOverall is only meaningful for KindRecord nodes: the TP/FD
	// classification of this record against the threshold of the field
	// that holds it, used by the parent record instead of Overall.
	ObjectOverall metrics.Counts

	// AllFieldsMatched is only meaningful for KindRecord nodes.
	AllFieldsMatched bool

	// Fields holds named children: declared for KindRecord at
	// construction time, synthesized for KindListRecord by the aggregate
	// pass.
	Fields map[string]*Node

	// ElementSchema is the element schema of a KindListRecord field.
	ElementSchema *schema.Schema

	ListPairsRecord []RecordPair
	ListPairsPrim   []PrimPair
	UnmatchedGT     []IndexedValue
	UnmatchedPred   []IndexedValue

	GT   *value.Value
	Pred *value.Value

	// ExtraFieldFA is the number of prediction keys at this record level
	// not declared by the schema (hallucinated fields), already folded
	// into Overall.
	ExtraFieldFA int

	// Reason is a short, human-readable explanation attached to
	// non-true-positive outcomes, surfaced by the non-match collector.
	Reason string
}

// childContributionOverall returns the Counts a child contributes to its
// parent record's Overall sum (§4.4 step 2d / §4.5): a record child
// contributes its object-level classification, every other kind
// contributes its own Overall directly.
func childContributionOverall(kind schema.FieldKind, n *Node) metrics.Counts {
	if kind == schema.KindRecord {
		return n.ObjectOverall
	}
	return n.Overall
}

func kindMismatchNode(fd *schema.FieldDescriptor, gt, pred *value.Value) *Node {
	return &Node{
		Kind:      fd.Kind,
		Overall:   metrics.FD1(),
		Weight:    fd.Weight,
		Threshold: fd.Threshold,
		GT:        gt,
		Pred:      pred,
		Reason:    "type mismatch",
	}
}
