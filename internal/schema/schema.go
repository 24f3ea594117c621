// Package schema defines the typed, weighted, thresholded field
// descriptors the engine compares ground-truth and predicted documents
// against. A Schema is constructed once, validated at construction time,
// and immutable and safe for concurrent use thereafter.
package schema

import (
	"github.com/evalkit/structeval/internal/compare"
	"github.com/evalkit/structeval/internal/value"
	stderrors "github.com/evalkit/structeval/pkg/errors"
)

// PrimType is the scalar type a primitive or primitive-list field holds.
type PrimType int

const (
	String PrimType = iota
	Int
	Float
	Bool
)

func (p PrimType) String() string {
	switch p {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ValueKind returns the value.Kind a Value must hold to satisfy this
// primitive type.
func (p PrimType) ValueKind() value.Kind {
	switch p {
	case String:
		return value.KindString
	case Int:
		return value.KindInt
	case Float:
		return value.KindFloat
	case Bool:
		return value.KindBool
	default:
		return value.KindNull
	}
}

// FieldKind tags the shape of a field's value.
type FieldKind int

const (
	KindPrimitive FieldKind = iota
	KindRecord
	KindListPrimitive
	KindListRecord
)

func (k FieldKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRecord:
		return "record"
	case KindListPrimitive:
		return "list_primitive"
	case KindListRecord:
		return "list_record"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes one field of a Schema.
type FieldDescriptor struct {
	Kind FieldKind

	// PrimType is meaningful for KindPrimitive and KindListPrimitive.
	PrimType PrimType

	// Record is the nested element schema for KindRecord and
	// KindListRecord fields.
	Record *Schema

	// Comparator is required for KindPrimitive and KindListPrimitive
	// fields, and forbidden for KindListRecord fields (§3 invariant).
	Comparator compare.Comparator

	// Threshold gates primitive/record classification and list-of-
	// primitive TP/FD counting. Ignored for KindListRecord fields, which
	// use Record.MatchThreshold instead.
	Threshold float64

	// ThresholdSet records whether the caller explicitly set Threshold,
	// so construction can reject an explicit threshold on a ListRecord
	// field (the forbidden-comparator invariant covers thresholds too).
	ThresholdSet bool

	Weight             float64
	ClipUnderThreshold bool
	Required           bool
	Default            *value.Value
}

// NewPrimitiveField builds a KindPrimitive descriptor with the spec's
// defaults (threshold 0.5, weight 1.0, clip-under-threshold true). cmp must
// not be nil.
func NewPrimitiveField(pt PrimType, cmp compare.Comparator) *FieldDescriptor {
	return &FieldDescriptor{
		Kind:               KindPrimitive,
		PrimType:           pt,
		Comparator:         cmp,
		Threshold:          0.5,
		Weight:             1.0,
		ClipUnderThreshold: true,
	}
}

// NewRecordField builds a KindRecord descriptor. The nested schema's
// MatchThreshold is unrelated to this field's Threshold, which is used only
// to classify the nested record as TP/FD when it sits inside a parent
// (§4.4 step 6).
func NewRecordField(s *Schema) *FieldDescriptor {
	return &FieldDescriptor{
		Kind:               KindRecord,
		Record:             s,
		Threshold:          0.5,
		Weight:             1.0,
		ClipUnderThreshold: true,
	}
}

// NewListPrimitiveField builds a KindListPrimitive descriptor.
func NewListPrimitiveField(pt PrimType, cmp compare.Comparator) *FieldDescriptor {
	return &FieldDescriptor{
		Kind:               KindListPrimitive,
		PrimType:           pt,
		Comparator:         cmp,
		Threshold:          0.5,
		Weight:             1.0,
		ClipUnderThreshold: true,
	}
}

// NewListRecordField builds a KindListRecord descriptor. It must not be
// given a Comparator or an explicit Threshold — Hungarian matching inside
// the list uses the element schema's MatchThreshold instead.
func NewListRecordField(s *Schema) *FieldDescriptor {
	return &FieldDescriptor{
		Kind:   KindListRecord,
		Record: s,
		Weight: 1.0,
	}
}

// WithThreshold sets an explicit threshold and returns fd for chaining.
func (fd *FieldDescriptor) WithThreshold(t float64) *FieldDescriptor {
	fd.Threshold = t
	fd.ThresholdSet = true
	return fd
}

func (fd *FieldDescriptor) WithWeight(w float64) *FieldDescriptor {
	fd.Weight = w
	return fd
}

func (fd *FieldDescriptor) WithClipUnderThreshold(clip bool) *FieldDescriptor {
	fd.ClipUnderThreshold = clip
	return fd
}

func (fd *FieldDescriptor) WithRequired(required bool) *FieldDescriptor {
	fd.Required = required
	return fd
}

func (fd *FieldDescriptor) WithDefault(d *value.Value) *FieldDescriptor {
	fd.Default = d
	return fd
}

// NamedField pairs a field name with its descriptor, preserving the
// declared order a Schema reports fields in.
type NamedField struct {
	Name string
	Field *FieldDescriptor
}

// Schema is an ordered, validated mapping from field name to
// FieldDescriptor, plus the MatchThreshold used to classify record pairs
// of this schema when they appear inside a list of records.
type Schema struct {
	fields         map[string]*FieldDescriptor
	order          []string
	MatchThreshold float64
}

const defaultMatchThreshold = 0.7

// New validates namedFields against the structural invariants in §3 and
// returns an immutable Schema. matchThreshold <= 0 selects the default of
// 0.7.
func New(namedFields []NamedField, matchThreshold float64) (*Schema, error) {
	if matchThreshold <= 0 {
		matchThreshold = defaultMatchThreshold
	}
	if matchThreshold > 1 {
		return nil, stderrors.NewInvalidMatchThreshold("", "must be in (0,1]")
	}

	fields := make(map[string]*FieldDescriptor, len(namedFields))
	order := make([]string, 0, len(namedFields))
	for _, nf := range namedFields {
		if _, dup := fields[nf.Name]; dup {
			return nil, stderrors.NewDuplicateField(nf.Name)
		}
		if err := validateField(nf.Name, nf.Field); err != nil {
			return nil, err
		}
		fields[nf.Name] = nf.Field
		order = append(order, nf.Name)
	}

	return &Schema{fields: fields, order: order, MatchThreshold: matchThreshold}, nil
}

func validateField(name string, fd *FieldDescriptor) error {
	if fd == nil {
		return stderrors.NewNilSchema(name)
	}
	if fd.Weight <= 0 {
		return stderrors.NewInvalidWeight(name, "must be > 0")
	}

	switch fd.Kind {
	case KindPrimitive:
		if fd.Comparator == nil {
			return stderrors.NewMissingComparator(name)
		}
		if err := validateThreshold(name, fd.Threshold); err != nil {
			return err
		}
	case KindListPrimitive:
		if fd.Comparator == nil {
			return stderrors.NewMissingComparator(name)
		}
		if err := validateThreshold(name, fd.Threshold); err != nil {
			return err
		}
	case KindRecord:
		if fd.Record == nil {
			return stderrors.NewNilSchema(name)
		}
		if err := validateThreshold(name, fd.Threshold); err != nil {
			return err
		}
	case KindListRecord:
		if fd.Record == nil {
			return stderrors.NewNilSchema(name)
		}
		if fd.Comparator != nil || fd.ThresholdSet {
			return stderrors.NewForbiddenComparator(name)
		}
	default:
		return stderrors.NewKindMismatch(name, "unknown field kind")
	}
	return nil
}

func validateThreshold(name string, t float64) error {
	if t < 0 || t > 1 {
		return stderrors.NewInvalidThreshold(name, "must be in [0,1]")
	}
	return nil
}

// Field looks up a field's descriptor by name, or (nil, false) if absent.
func (s *Schema) Field(name string) (*FieldDescriptor, bool) {
	fd, ok := s.fields[name]
	return fd, ok
}

// Order returns field names in declared order.
func (s *Schema) Order() []string {
	return s.order
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.order)
}

// Names returns the set of declared field names (for all_fields_matched
// comparisons).
func (s *Schema) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(s.order))
	for _, n := range s.order {
		out[n] = struct{}{}
	}
	return out
}
