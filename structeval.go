// Package structeval compares a predicted structured record against a
// ground-truth record under a declared schema, producing a confusion-matrix
// scoring of how well the prediction matches: per-field scores, an overall
// similarity, and (optionally) a flat list of every non-matching field.
//
// The comparison is schema-driven and recursive: records nest inside
// records, lists of records are reconciled against each other with an
// optimal (Hungarian) assignment rather than by position, and every
// primitive leaf is scored with a pluggable comparator. See SPEC_FULL.md
// for the full semantics this package implements.
package structeval

import (
	"github.com/evalkit/structeval/internal/aggregate"
	"github.com/evalkit/structeval/internal/compare"
	"github.com/evalkit/structeval/internal/derived"
	"github.com/evalkit/structeval/internal/engine"
	"github.com/evalkit/structeval/internal/metrics"
	"github.com/evalkit/structeval/internal/nonmatch"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// Schema is an ordered, validated field declaration a record is compared
// against. Build one with NewSchema.
type Schema = schema.Schema

// FieldDescriptor describes one schema field: its kind, comparator,
// threshold, weight, and (for record/list-record fields) nested schema.
type FieldDescriptor = schema.FieldDescriptor

// NamedField pairs a field name with its descriptor, in the order a Schema
// reports fields.
type NamedField = schema.NamedField

// PrimType is the primitive value kind a primitive field holds.
type PrimType = schema.PrimType

// Primitive value kinds accepted by NewPrimitiveField / NewListPrimitiveField.
const (
	String = schema.String
	Int    = schema.Int
	Float  = schema.Float
	Bool   = schema.Bool
)

// NewSchema validates namedFields and returns an immutable Schema.
// matchThreshold <= 0 selects the package default of 0.7; it is only
// meaningful when this schema is used as a list-of-record element schema.
func NewSchema(namedFields []NamedField, matchThreshold float64) (*Schema, error) {
	return schema.New(namedFields, matchThreshold)
}

// NewPrimitiveField declares a scalar field compared with cmp.
func NewPrimitiveField(pt PrimType, cmp Comparator) *FieldDescriptor {
	return schema.NewPrimitiveField(pt, cmp)
}

// NewRecordField declares a nested-record field compared against s.
func NewRecordField(s *Schema) *FieldDescriptor {
	return schema.NewRecordField(s)
}

// NewListPrimitiveField declares a list-of-scalars field, reconciled by
// optimal assignment using cmp as the pairwise similarity.
func NewListPrimitiveField(pt PrimType, cmp Comparator) *FieldDescriptor {
	return schema.NewListPrimitiveField(pt, cmp)
}

// NewListRecordField declares a list-of-records field, reconciled by
// optimal assignment against a per-pair recursive comparison under s.
func NewListRecordField(s *Schema) *FieldDescriptor {
	return schema.NewListRecordField(s)
}

// Value is a typed scalar, record, or list in either the ground-truth or
// predicted tree. Build one with the New* constructors below.
type Value = value.Value

// Null returns the value absent from a tree: distinct from an empty string
// or zero, and distinct by context (§4.2) from an empty list.
func Null() *Value { return value.Null() }

// NewString, NewInt, NewFloat, and NewBool build primitive scalars.
func NewString(s string) *Value { return value.NewString(s) }
func NewInt(i int64) *Value     { return value.NewInt(i) }
func NewFloat(f float64) *Value { return value.NewFloat(f) }
func NewBool(b bool) *Value     { return value.NewBool(b) }

// NewRecord builds a record value. fields holds schema-declared field
// values; extra holds keys the schema does not declare (hallucinated
// fields, penalized only on the predicted side).
func NewRecord(fields map[string]*Value, extra map[string]*Value) *Value {
	return value.NewRecord(fields, extra)
}

// ValueKind is the tagged-union discriminator of a Value.
type ValueKind = value.Kind

// List element kinds accepted by NewListPrimitive.
const (
	KindString = value.KindString
	KindInt    = value.KindInt
	KindFloat  = value.KindFloat
	KindBool   = value.KindBool
)

// NewListPrimitive builds a list-of-scalars value.
func NewListPrimitive(elemKind ValueKind, elems []*Value) *Value {
	return value.NewListPrimitive(elemKind, elems)
}

// NewListRecord builds a list-of-records value.
func NewListRecord(elems []*Value) *Value {
	return value.NewListRecord(elems)
}

// Comparator scores the similarity of two primitive values in [0, 1].
type Comparator = compare.Comparator

// ComparatorFunc adapts a plain function to a Comparator.
type ComparatorFunc = compare.Func

// Exact and Fuzzy are the built-in comparators: Exact scores 1.0 on an
// identical value and 0.0 otherwise; Fuzzy scores string similarity by
// bigram Jaccard overlap and falls back to Exact's behavior on non-strings.
var (
	Exact = compare.Exact
	Fuzzy = compare.Fuzzy
)

// NumericTolerance returns a Comparator that scores numeric values 1.0 when
// they differ by at most tolerance, decaying linearly to 0.0 beyond that.
func NumericTolerance(tolerance float64) Comparator {
	return compare.NumericTolerance(tolerance)
}

// Counts is a confusion-matrix tally (TP/FP/FD/FA/FN/TN).
type Counts = metrics.Counts

// Derived is the set of closed-form ratios (precision, recall, f1,
// accuracy) computed from a Counts bag.
type Derived = metrics.Derived

// ComparisonNode is one node of the comparison result tree: a record, a
// list, or a primitive leaf, carrying both the "overall" (object-level) and
// "aggregate" (primitive-leaf) metric views. ConfusionMatrix on Result is
// the tree root, exposed for callers that need more than the flattened
// Result fields (e.g. per-field Derived ratios at arbitrary nesting depth).
type ComparisonNode = engine.Node

// NonMatch is one field-level non-match: a false alarm, false discovery, or
// false negative, path-qualified against the compared record (e.g.
// "address.city", "tags[2]").
type NonMatch = nonmatch.NonMatch

// NonMatchKind classifies a NonMatch entry.
type NonMatchKind = nonmatch.Kind

// NonMatch kinds.
const (
	FalseAlarm     = nonmatch.FalseAlarm
	FalseDiscovery = nonmatch.FalseDiscovery
	FalseNegative  = nonmatch.FalseNegative
)

// Options configures a Compare call.
type Options struct {
	// IncludeConfusionMatrix attaches the full ComparisonNode tree to
	// Result.ConfusionMatrix. Off by default since most callers only need
	// the flattened FieldScores/OverallScore.
	IncludeConfusionMatrix bool

	// DocumentNonMatches populates Result.NonMatches with a flat,
	// path-qualified list of every non-matching field (§4.9).
	DocumentNonMatches bool

	// RecallWithFD adds FD to recall's denominator, TP/(TP+FN+FD) instead
	// of TP/(TP+FN) (§4.8): a below-threshold-but-present prediction then
	// counts as a miss for recall purposes.
	RecallWithFD bool

	// AddDerivedMetrics computes precision/recall/f1/accuracy on every
	// node. On in DefaultOptions, off in a zero Options; Counts are always
	// populated regardless.
	AddDerivedMetrics bool

	// MaxDepth bounds comparison recursion (§5). <= 0 selects
	// engine.DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the package's default Options: derived metrics on,
// everything else off.
func DefaultOptions() Options {
	return Options{AddDerivedMetrics: true, MaxDepth: engine.DefaultMaxDepth}
}

// Result is the outcome of a Compare call.
type Result struct {
	// OverallScore is the root record's weighted similarity (§4.4 step 4),
	// the same quantity a record field's own RawSimilarity would be if
	// this comparison were nested one level deeper.
	OverallScore float64

	// AllFieldsMatched reports whether every top-level field's similarity
	// met its own threshold (§4.4 step 5). Informational only.
	AllFieldsMatched bool

	// FieldScores holds each top-level field's threshold-applied score
	// (§4.4 step 6 / §4.1's clip rule), keyed by field name.
	FieldScores map[string]float64

	// ConfusionMatrix is the full result tree, set only when
	// Options.IncludeConfusionMatrix is true.
	ConfusionMatrix *ComparisonNode

	// NonMatches lists every non-matching field, set only when
	// Options.DocumentNonMatches is true.
	NonMatches []NonMatch
}

// Compare walks gt and pred in lockstep against s, returning a Result.
// gt and pred must both be record values; a schema mismatch at any nested
// field is scored as a false discovery rather than returned as an error,
// since type disagreement between ground truth and prediction is itself a
// comparison outcome (§4.2 step 3), not a usage error.
func Compare(s *Schema, gt, pred *Value, opts Options) *Result {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = engine.DefaultMaxDepth
	}

	eng := engine.New(maxDepth)
	root := eng.Compare(s, gt, pred)
	aggregate.Run(root)
	if opts.AddDerivedMetrics {
		derived.Run(root, opts.RecallWithFD)
	}

	fieldScores := make(map[string]float64, len(root.Fields))
	for name, child := range root.Fields {
		fieldScores[name] = child.ThresholdAppliedScore
	}

	result := &Result{
		OverallScore:     root.RawSimilarity,
		AllFieldsMatched: root.AllFieldsMatched,
		FieldScores:      fieldScores,
	}
	if opts.IncludeConfusionMatrix {
		result.ConfusionMatrix = root
	}
	if opts.DocumentNonMatches {
		result.NonMatches = nonmatch.Collect(root)
	}
	return result
}
