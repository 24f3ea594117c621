// Package value defines the tagged-union Value tree compared by the
// engine: Null, a primitive scalar, a record (nested field map plus an
// extra-keys side channel used for hallucination detection), a list of
// primitives, or a list of records. A Value tree is constructed once per
// input document and never mutated during comparison.
package value

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindRecord
	KindListPrimitive
	KindListRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
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

// IsPrimitive reports whether k is one of the four scalar kinds.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	default:
		return false
	}
}

// Value is the tagged union described above. The zero Value is KindNull.
type Value struct {
	kind Kind

	str string
	i   int64
	f   float64
	b   bool

	// fields holds the schema-declared field values of a record; extra
	// holds keys present in the input that the schema does not declare
	// (see NewRecord) — the side channel the engine uses to count
	// hallucinated fields.
	fields map[string]*Value
	extra  map[string]*Value

	// elemKind is the primitive element kind for a list-of-primitive value.
	elemKind Kind
	listPrim []*Value

	listRec []*Value
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

func NewString(s string) *Value { return &Value{kind: KindString, str: s} }
func NewInt(i int64) *Value     { return &Value{kind: KindInt, i: i} }
func NewFloat(f float64) *Value { return &Value{kind: KindFloat, f: f} }
func NewBool(b bool) *Value     { return &Value{kind: KindBool, b: b} }

// NewRecord builds a record value. fields holds values for names the schema
// declares; extra holds any additional keys present in the source document
// that the schema does not declare — callers constructing values from a
// parsed document should route undeclared keys here rather than dropping
// them, so the engine can count them as hallucinated fields.
func NewRecord(fields map[string]*Value, extra map[string]*Value) *Value {
	if fields == nil {
		fields = map[string]*Value{}
	}
	if extra == nil {
		extra = map[string]*Value{}
	}
	return &Value{kind: KindRecord, fields: fields, extra: extra}
}

// NewListPrimitive builds a list-of-primitive value. elemKind must be one of
// the four primitive kinds; elems must each hold that kind (or be null,
// though a null element inside a populated list is unusual input).
func NewListPrimitive(elemKind Kind, elems []*Value) *Value {
	return &Value{kind: KindListPrimitive, elemKind: elemKind, listPrim: elems}
}

// NewListRecord builds a list-of-record value.
func NewListRecord(elems []*Value) *Value {
	return &Value{kind: KindListRecord, listRec: elems}
}

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v == nil || v.kind == KindNull }

func (v *Value) String() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.str
}

func (v *Value) Int() int64 {
	if v == nil || v.kind != KindInt {
		return 0
	}
	return v.i
}

func (v *Value) Float() float64 {
	if v == nil || v.kind != KindFloat {
		return 0
	}
	return v.f
}

func (v *Value) Bool() bool {
	if v == nil || v.kind != KindBool {
		return false
	}
	return v.b
}

// Field looks up a schema-declared field of a record; nil (not an error) if
// absent or v is not a record.
func (v *Value) Field(name string) *Value {
	if v == nil || v.kind != KindRecord {
		return nil
	}
	return v.fields[name]
}

// Fields returns the schema-declared field map of a record, in whatever
// order the caller's range gives it — ordering for reporting comes from the
// schema, not from this map.
func (v *Value) Fields() map[string]*Value {
	if v == nil || v.kind != KindRecord {
		return nil
	}
	return v.fields
}

// Extra returns the keys present in the source document that were not
// declared by the schema — the hallucination side channel.
func (v *Value) Extra() map[string]*Value {
	if v == nil || v.kind != KindRecord {
		return nil
	}
	return v.extra
}

func (v *Value) ElementKind() Kind {
	if v == nil || v.kind != KindListPrimitive {
		return KindNull
	}
	return v.elemKind
}

func (v *Value) ListPrimitive() []*Value {
	if v == nil || v.kind != KindListPrimitive {
		return nil
	}
	return v.listPrim
}

func (v *Value) ListRecord() []*Value {
	if v == nil || v.kind != KindListRecord {
		return nil
	}
	return v.listRec
}

// IsNullForPrimitive implements the primitive-field null predicate: a value
// is effectively null if it is Null or an empty string. This predicate must
// not be conflated with IsNullForList — the two null policies are
// deliberately distinct.
func (v *Value) IsNullForPrimitive() bool {
	if v.IsNull() {
		return true
	}
	return v.kind == KindString && v.str == ""
}

// IsNullForList implements the list-field null predicate: a value is
// effectively null if it is Null or an empty list (of either variant).
func (v *Value) IsNullForList() bool {
	if v.IsNull() {
		return true
	}
	switch v.kind {
	case KindListPrimitive:
		return len(v.listPrim) == 0
	case KindListRecord:
		return len(v.listRec) == 0
	default:
		return false
	}
}

// Len returns the element count of either list variant, or 0.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindListPrimitive:
		return len(v.listPrim)
	case KindListRecord:
		return len(v.listRec)
	default:
		return 0
	}
}

// Raw returns the underlying Go scalar for a primitive Value, for use by
// comparators. It returns nil for non-primitive or null values.
func (v *Value) Raw() interface{} {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Fingerprint renders a deterministic structural string for v, used as the
// memoization key input for the Hungarian matcher's pairwise similarity
// cache. Record field order is sorted so two Values built from maps with
// different iteration orders still fingerprint identically; a record's
// extra (undeclared) keys are included.
func (v *Value) Fingerprint() string {
	var b strings.Builder
	v.writeFingerprint(&b)
	return b.String()
}

func (v *Value) writeFingerprint(b *strings.Builder) {
	if v.IsNull() {
		b.WriteString("null")
		return
	}
	switch v.kind {
	case KindString:
		b.WriteString("s:")
		b.WriteString(v.str)
	case KindInt:
		fmt.Fprintf(b, "i:%d", v.i)
	case KindFloat:
		fmt.Fprintf(b, "f:%v", v.f)
	case KindBool:
		fmt.Fprintf(b, "b:%t", v.b)
	case KindRecord:
		b.WriteString("r{")
		names := make([]string, 0, len(v.fields))
		for name := range v.fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(name)
			b.WriteString(":")
			v.fields[name].writeFingerprint(b)
			b.WriteString(";")
		}
		extras := make([]string, 0, len(v.extra))
		for name := range v.extra {
			extras = append(extras, name)
		}
		sort.Strings(extras)
		for _, name := range extras {
			b.WriteString("+")
			b.WriteString(name)
			b.WriteString(":")
			v.extra[name].writeFingerprint(b)
			b.WriteString(";")
		}
		b.WriteString("}")
	case KindListPrimitive:
		b.WriteString("lp[")
		for _, e := range v.listPrim {
			e.writeFingerprint(b)
			b.WriteString(",")
		}
		b.WriteString("]")
	case KindListRecord:
		b.WriteString("lr[")
		for _, e := range v.listRec {
			e.writeFingerprint(b)
			b.WriteString(",")
		}
		b.WriteString("]")
	}
}

func (v *Value) GoString() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindRecord:
		return fmt.Sprintf("record(%d fields, %d extra)", len(v.fields), len(v.extra))
	case KindListPrimitive:
		return fmt.Sprintf("list_primitive(%d)", len(v.listPrim))
	case KindListRecord:
		return fmt.Sprintf("list_record(%d)", len(v.listRec))
	default:
		return fmt.Sprintf("%v", v.Raw())
	}
}
