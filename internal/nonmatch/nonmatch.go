// Package nonmatch walks a finished ComparisonNode tree and emits a flat,
// path-qualified list of non-matches: a debugging aid that never feeds back
// into scoring.
package nonmatch

import (
	"fmt"
	"sort"

	"github.com/evalkit/structeval/internal/engine"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// Kind classifies a non-match entry.
type Kind int

const (
	FalseAlarm Kind = iota
	FalseDiscovery
	FalseNegative
)

func (k Kind) String() string {
	switch k {
	case FalseAlarm:
		return "false_alarm"
	case FalseDiscovery:
		return "false_discovery"
	case FalseNegative:
		return "false_negative"
	default:
		return "unknown"
	}
}

// NonMatch is one field-level non-match (§4.9).
type NonMatch struct {
	FieldPath     string
	Kind          Kind
	GT            *value.Value
	Pred          *value.Value
	Similarity    float64
	HasSimilarity bool
	Threshold     float64
	Reason        string
}

// Collect walks root and every descendant, returning non-matches in a
// deterministic, path-sorted order.
func Collect(root *engine.Node) []NonMatch {
	var out []NonMatch
	walk(root, "", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FieldPath < out[j].FieldPath })
	return out
}

func walk(n *engine.Node, path string, out *[]NonMatch) {
	if n == nil {
		return
	}

	switch n.Kind {
	case schema.KindPrimitive:
		emitLeaf(n, path, out)

	case schema.KindRecord:
		if n.Fields == nil {
			// Terminal null/type-mismatch outcome: no descent happened.
			emitLeaf(n, path, out)
			return
		}
		emitExtraFields(n, path, out)
		for name, child := range n.Fields {
			walk(child, joinPath(path, name), out)
		}

	case schema.KindListPrimitive:
		emitListPrimitive(n, path, out)

	case schema.KindListRecord:
		if n.ElementSchema == nil {
			// Terminal outcome (null list, type mismatch, depth guard).
			emitLeaf(n, path, out)
			return
		}
		emitListRecord(n, path, out)
	}
}

func emitLeaf(n *engine.Node, path string, out *[]NonMatch) {
	c := n.Overall
	switch {
	case c.FA > 0:
		*out = append(*out, NonMatch{
			FieldPath: path, Kind: FalseAlarm, GT: n.GT, Pred: n.Pred,
			Reason: reasonOr(n.Reason, "present in prediction, absent in ground truth"),
		})
	case c.FN > 0:
		*out = append(*out, NonMatch{
			FieldPath: path, Kind: FalseNegative, GT: n.GT, Pred: n.Pred,
			Reason: reasonOr(n.Reason, "present in ground truth, absent in prediction"),
		})
	case c.FD > 0:
		*out = append(*out, NonMatch{
			FieldPath: path, Kind: FalseDiscovery, GT: n.GT, Pred: n.Pred,
			Similarity: n.RawSimilarity, HasSimilarity: true, Threshold: n.Threshold,
			Reason: reasonOr(n.Reason, "below threshold"),
		})
	}
}

func emitExtraFields(n *engine.Node, path string, out *[]NonMatch) {
	if n.Pred == nil {
		return
	}
	names := make([]string, 0, len(n.Pred.Extra()))
	for name := range n.Pred.Extra() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		*out = append(*out, NonMatch{
			FieldPath: joinPath(path, name), Kind: FalseAlarm,
			Pred:   n.Pred.Extra()[name],
			Reason: "hallucinated field",
		})
	}
}

func emitListPrimitive(n *engine.Node, path string, out *[]NonMatch) {
	for _, pair := range n.ListPairsPrim {
		if pair.Similarity < n.Threshold {
			*out = append(*out, NonMatch{
				FieldPath: path, Kind: FalseDiscovery,
				GT: pair.GT, Pred: pair.Pred,
				Similarity: pair.Similarity, HasSimilarity: true, Threshold: n.Threshold,
				Reason: "below threshold",
			})
		}
	}
	for _, gt := range n.UnmatchedGT {
		*out = append(*out, NonMatch{
			FieldPath: indexPath(path, gt.Index), Kind: FalseNegative, GT: gt.Value,
			Reason: "unmatched ground truth item",
		})
	}
	for _, pred := range n.UnmatchedPred {
		*out = append(*out, NonMatch{
			FieldPath: indexPath(path, pred.Index), Kind: FalseAlarm, Pred: pred.Value,
			Reason: "unmatched prediction item",
		})
	}
}

func emitListRecord(n *engine.Node, path string, out *[]NonMatch) {
	for _, pair := range n.ListPairsRecord {
		pairPath := indexPath(path, pair.GTIndex)
		if pair.Similarity < n.Threshold {
			*out = append(*out, NonMatch{
				FieldPath: pairPath, Kind: FalseDiscovery,
				GT: pair.Node.GT, Pred: pair.Node.Pred,
				Similarity: pair.Similarity, HasSimilarity: true, Threshold: n.Threshold,
				Reason: "record pair below match threshold",
			})
		}
		walk(pair.Node, pairPath, out)
	}
	for _, gt := range n.UnmatchedGT {
		*out = append(*out, NonMatch{
			FieldPath: indexPath(path, gt.Index), Kind: FalseNegative, GT: gt.Value,
			Reason: "unmatched ground truth record",
		})
	}
	for _, pred := range n.UnmatchedPred {
		*out = append(*out, NonMatch{
			FieldPath: indexPath(path, pred.Index), Kind: FalseAlarm, Pred: pred.Value,
			Reason: "unmatched prediction record",
		})
	}
}

func reasonOr(reason, fallback string) string {
	if reason != "" {
		return reason
	}
	return fallback
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
