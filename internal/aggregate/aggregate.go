// Package aggregate implements the post-pass that fills the "aggregate"
// metric view (§4.7): the sum of every primitive leaf's counts at and below
// a node, as opposed to "overall"'s strict object-level counts. For
// list-of-record nodes, this pass also synthesizes the node's per-field
// detail map, since that requires each matched pair's own subtree to
// already have its aggregate computed. "overall" is filled by the engine's
// comparison walk and "aggregate" by this separate depth-first pass over
// the finished tree.
package aggregate

import (
	"github.com/evalkit/structeval/internal/engine"
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// Run fills n.Aggregate (and, for list-of-record nodes, n.Fields) at n and
// every descendant, depth-first.
func Run(n *engine.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case schema.KindPrimitive, schema.KindListPrimitive:
		n.Aggregate = n.Overall

	case schema.KindRecord:
		runRecord(n)

	case schema.KindListRecord:
		runListRecord(n)
	}
}

func runRecord(n *engine.Node) {
	var sum metrics.Counts
	for _, child := range n.Fields {
		Run(child)
		sum = sum.Add(child.Aggregate)
	}
	if n.ExtraFieldFA > 0 {
		sum = sum.Add(metrics.FAn(n.ExtraFieldFA))
	}
	n.Aggregate = sum
}

func runListRecord(n *engine.Node) {
	// Terminal outcomes (null list, type mismatch, depth guard) carry no
	// element schema and no pairs; their aggregate is their own count.
	if n.ElementSchema == nil {
		n.Aggregate = n.Overall
		return
	}
	for _, pair := range n.ListPairsRecord {
		Run(pair.Node)
	}

	fields := make(map[string]*engine.Node, n.ElementSchema.Len())
	var total metrics.Counts

	for _, name := range n.ElementSchema.Order() {
		fd, _ := n.ElementSchema.Field(name)
		agg := &engine.Node{Kind: fd.Kind}

		for _, pair := range n.ListPairsRecord {
			child := pair.Node.Fields[name]
			agg.Aggregate = agg.Aggregate.Add(child.Aggregate)
			if pair.Similarity >= n.Threshold {
				agg.Overall = agg.Overall.Add(contributionOverall(fd.Kind, child))
			}
		}

		for _, gtItem := range n.UnmatchedGT {
			agg.Aggregate = agg.Aggregate.Add(unmatchedGTLeafCounts(fd, gtItem.Value.Field(name)))
		}
		for _, predItem := range n.UnmatchedPred {
			agg.Aggregate = agg.Aggregate.Add(unmatchedPredLeafCounts(fd, predItem.Value.Field(name)))
		}

		fields[name] = agg
		total = total.Add(agg.Aggregate)
	}

	// Each matched pair's own hallucinated (extra) prediction keys are
	// already folded into pair.Node.Aggregate by the Run(pair.Node) call
	// above, but they are not tied to any declared field name, so the
	// per-field loop above never sees them — fold them in directly here.
	for _, pair := range n.ListPairsRecord {
		if pair.Node.ExtraFieldFA > 0 {
			total = total.Add(metrics.FAn(pair.Node.ExtraFieldFA))
		}
	}

	n.Fields = fields
	n.Aggregate = total
}

func contributionOverall(kind schema.FieldKind, n *engine.Node) metrics.Counts {
	if kind == schema.KindRecord {
		return n.ObjectOverall
	}
	return n.Overall
}

// unmatchedGTLeafCounts implements §4.3b's unmatched-ground-truth rule,
// recursing through nested records and lists so every primitive leaf below
// fd contributes its own FN (non-null) or TN (null/empty) count.
func unmatchedGTLeafCounts(fd *schema.FieldDescriptor, v *value.Value) metrics.Counts {
	switch fd.Kind {
	case schema.KindPrimitive:
		if v.IsNullForPrimitive() {
			return metrics.TN1()
		}
		return metrics.FN1()

	case schema.KindRecord:
		if v.IsNull() {
			return metrics.TN1()
		}
		var sum metrics.Counts
		for _, name := range fd.Record.Order() {
			childFd, _ := fd.Record.Field(name)
			sum = sum.Add(unmatchedGTLeafCounts(childFd, v.Field(name)))
		}
		return sum

	case schema.KindListPrimitive:
		if v.IsNullForList() {
			return metrics.TN1()
		}
		return metrics.FNn(v.Len())

	case schema.KindListRecord:
		if v.IsNullForList() {
			return metrics.TN1()
		}
		var sum metrics.Counts
		for _, item := range v.ListRecord() {
			for _, name := range fd.Record.Order() {
				childFd, _ := fd.Record.Field(name)
				sum = sum.Add(unmatchedGTLeafCounts(childFd, item.Field(name)))
			}
		}
		return sum

	default:
		return metrics.Counts{}
	}
}

// unmatchedPredLeafCounts implements §4.3b's unmatched-prediction rule: a
// non-null leaf contributes one FA, a null/empty leaf contributes nothing.
func unmatchedPredLeafCounts(fd *schema.FieldDescriptor, v *value.Value) metrics.Counts {
	switch fd.Kind {
	case schema.KindPrimitive:
		if v.IsNullForPrimitive() {
			return metrics.Counts{}
		}
		return metrics.FA1()

	case schema.KindRecord:
		if v.IsNull() {
			return metrics.Counts{}
		}
		var sum metrics.Counts
		for _, name := range fd.Record.Order() {
			childFd, _ := fd.Record.Field(name)
			sum = sum.Add(unmatchedPredLeafCounts(childFd, v.Field(name)))
		}
		return sum

	case schema.KindListPrimitive:
		if v.IsNullForList() {
			return metrics.Counts{}
		}
		return metrics.FAn(v.Len())

	case schema.KindListRecord:
		if v.IsNullForList() {
			return metrics.Counts{}
		}
		var sum metrics.Counts
		for _, item := range v.ListRecord() {
			for _, name := range fd.Record.Order() {
				childFd, _ := fd.Record.Field(name)
				sum = sum.Add(unmatchedPredLeafCounts(childFd, item.Field(name)))
			}
		}
		return sum

	default:
		return metrics.Counts{}
	}
}
