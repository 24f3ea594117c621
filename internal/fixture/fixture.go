// Package fixture loads small YAML literals into schema.Schema and
// value.Value trees for use across the module's _test.go files, so test
// cases can be written as data rather than nested constructor calls.
package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/evalkit/structeval/internal/compare"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

// FieldSpec describes one schema field in YAML form.
//
//	name: full_name
//	type: string        # string|int|float|bool|record|list_string|list_int|list_record
//	comparator: fuzzy    # exact|fuzzy|numeric_tolerance (default exact)
//	tolerance: 0.01      # only for numeric_tolerance
//	threshold: 0.8
//	weight: 2
//	clip_under_threshold: true
//	required: true
//	fields: [...]        # nested FieldSpec list, for record/list_record
//	match_threshold: 0.7 # nested schema of a record/list_record field
type FieldSpec struct {
	Name                string      `yaml:"name"`
	Type                string      `yaml:"type"`
	Comparator          string      `yaml:"comparator"`
	Tolerance           float64     `yaml:"tolerance"`
	Threshold           float64     `yaml:"threshold"`
	Weight              float64     `yaml:"weight"`
	ClipUnderThreshold  bool        `yaml:"clip_under_threshold"`
	Required            bool        `yaml:"required"`
	Fields              []FieldSpec `yaml:"fields"`
	MatchThreshold      float64     `yaml:"match_threshold"`
}

// SchemaSpec is the top-level YAML document for a schema fixture.
type SchemaSpec struct {
	MatchThreshold float64     `yaml:"match_threshold"`
	Fields         []FieldSpec `yaml:"fields"`
}

// MustSchema parses doc (a YAML SchemaSpec) into a *schema.Schema, panicking
// on any error. Intended for table-driven test setup, not production code.
func MustSchema(doc string) *schema.Schema {
	var spec SchemaSpec
	if err := yaml.Unmarshal([]byte(doc), &spec); err != nil {
		panic(fmt.Sprintf("fixture: invalid schema YAML: %v", err))
	}
	named := make([]schema.NamedField, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		named = append(named, schema.NamedField{Name: f.Name, Field: buildField(f)})
	}
	s, err := schema.New(named, spec.MatchThreshold)
	if err != nil {
		panic(fmt.Sprintf("fixture: %v", err))
	}
	return s
}

func buildField(f FieldSpec) *schema.FieldDescriptor {
	var fd *schema.FieldDescriptor
	switch f.Type {
	case "string":
		fd = schema.NewPrimitiveField(schema.String, comparatorFor(f))
	case "int":
		fd = schema.NewPrimitiveField(schema.Int, comparatorFor(f))
	case "float":
		fd = schema.NewPrimitiveField(schema.Float, comparatorFor(f))
	case "bool":
		fd = schema.NewPrimitiveField(schema.Bool, comparatorFor(f))
	case "list_string":
		fd = schema.NewListPrimitiveField(schema.String, comparatorFor(f))
	case "list_int":
		fd = schema.NewListPrimitiveField(schema.Int, comparatorFor(f))
	case "list_float":
		fd = schema.NewListPrimitiveField(schema.Float, comparatorFor(f))
	case "record":
		fd = schema.NewRecordField(nestedSchema(f))
	case "list_record":
		fd = schema.NewListRecordField(nestedSchema(f))
	default:
		panic(fmt.Sprintf("fixture: unknown field type %q", f.Type))
	}

	if fd.Kind != schema.KindListRecord {
		fd = fd.WithThreshold(defaultIfZero(f.Threshold, 1.0))
	}
	fd = fd.WithClipUnderThreshold(f.ClipUnderThreshold).
		WithRequired(f.Required)
	if f.Weight > 0 {
		fd = fd.WithWeight(f.Weight)
	}
	return fd
}

func nestedSchema(f FieldSpec) *schema.Schema {
	named := make([]schema.NamedField, 0, len(f.Fields))
	for _, child := range f.Fields {
		named = append(named, schema.NamedField{Name: child.Name, Field: buildField(child)})
	}
	s, err := schema.New(named, f.MatchThreshold)
	if err != nil {
		panic(fmt.Sprintf("fixture: nested schema for %q: %v", f.Name, err))
	}
	return s
}

func comparatorFor(f FieldSpec) compare.Comparator {
	switch f.Comparator {
	case "", "exact":
		return compare.Exact
	case "fuzzy":
		return compare.Fuzzy
	case "numeric_tolerance":
		return compare.NumericTolerance(f.Tolerance)
	default:
		panic(fmt.Sprintf("fixture: unknown comparator %q", f.Comparator))
	}
}

func defaultIfZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// MustValue parses doc (arbitrary YAML: scalars, maps, sequences) into a
// *value.Value tree, panicking on any error.
func MustValue(doc string) *value.Value {
	var raw interface{}
	if err := yaml.Unmarshal([]byte(doc), &raw); err != nil {
		panic(fmt.Sprintf("fixture: invalid value YAML: %v", err))
	}
	return convert(raw)
}

func convert(raw interface{}) *value.Value {
	switch v := raw.(type) {
	case nil:
		return value.Null()
	case string:
		return value.NewString(v)
	case int:
		return value.NewInt(int64(v))
	case int64:
		return value.NewInt(v)
	case float64:
		return value.NewFloat(v)
	case bool:
		return value.NewBool(v)
	case map[string]interface{}:
		fields := make(map[string]*value.Value, len(v))
		for k, fv := range v {
			fields[k] = convert(fv)
		}
		return value.NewRecord(fields, nil)
	case []interface{}:
		return convertList(v)
	default:
		panic(fmt.Sprintf("fixture: unsupported YAML value %T", raw))
	}
}

func convertList(items []interface{}) *value.Value {
	if len(items) == 0 {
		return value.NewListPrimitive(value.KindString, nil)
	}
	if _, isRecord := items[0].(map[string]interface{}); isRecord {
		elems := make([]*value.Value, len(items))
		for i, it := range items {
			elems[i] = convert(it)
		}
		return value.NewListRecord(elems)
	}
	elems := make([]*value.Value, len(items))
	for i, it := range items {
		elems[i] = convert(it)
	}
	return value.NewListPrimitive(elems[0].Kind(), elems)
}
