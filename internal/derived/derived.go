// Package derived implements the post-pass (§4.8) that adds
// precision/recall/F1/accuracy to both the "overall" and "aggregate" bags
// at every node.
package derived

import (
	"github.com/evalkit/structeval/internal/engine"
	"github.com/evalkit/structeval/internal/metrics"
)

// Run walks n and every descendant, setting OverallDerived and
// AggregateDerived from Overall and Aggregate respectively. recallWithFD
// selects the alternative recall denominator (tp+fn+fd).
func Run(n *engine.Node, recallWithFD bool) {
	if n == nil {
		return
	}

	n.OverallDerived = metrics.Compute(n.Overall, recallWithFD)
	n.AggregateDerived = metrics.Compute(n.Aggregate, recallWithFD)

	for _, child := range n.Fields {
		Run(child, recallWithFD)
	}
	for _, pair := range n.ListPairsRecord {
		Run(pair.Node, recallWithFD)
	}
}
