package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalkit/structeval/internal/compare"
	"github.com/evalkit/structeval/internal/engine"
	"github.com/evalkit/structeval/internal/schema"
	"github.com/evalkit/structeval/internal/value"
)

func exactField(pt schema.PrimType, threshold float64) *schema.FieldDescriptor {
	return schema.NewPrimitiveField(pt, compare.Exact).WithThreshold(threshold)
}

func mustSchema(t *testing.T, fields []schema.NamedField, mt float64) *schema.Schema {
	t.Helper()
	s, err := schema.New(fields, mt)
	require.NoError(t, err)
	return s
}

func TestRun_LeafEqualsOverall(t *testing.T) {
	s := mustSchema(t, []schema.NamedField{
		{Name: "name", Field: exactField(schema.String, 1.0)},
	}, 0)
	gt := value.NewRecord(map[string]*value.Value{"name": value.NewString("a")}, nil)
	pred := value.NewRecord(map[string]*value.Value{"name": value.NewString("a")}, nil)

	eng := engine.New(0)
	root := eng.Compare(s, gt, pred)
	Run(root)

	assert.Equal(t, root.Fields["name"].Overall, root.Fields["name"].Aggregate)
}

func TestRun_RecordSumsChildrenPlusExtraFA(t *testing.T) {
	s := mustSchema(t, []schema.NamedField{
		{Name: "name", Field: exactField(schema.String, 1.0)},
	}, 0)
	gt := value.NewRecord(map[string]*value.Value{"name": value.NewString("Alice")}, nil)
	pred := value.NewRecord(
		map[string]*value.Value{"name": value.NewString("Alice")},
		map[string]*value.Value{"ssn": value.NewString("x")},
	)

	eng := engine.New(0)
	root := eng.Compare(s, gt, pred)
	Run(root)

	assert.Equal(t, 1, root.Aggregate.TP)
	assert.Equal(t, 1, root.Aggregate.FA)
	assert.Equal(t, root.Overall, root.Aggregate)
}

func itemOf(id string, qty int64) *value.Value {
	return value.NewRecord(map[string]*value.Value{
		"id": value.NewString(id), "qty": value.NewInt(qty),
	}, nil)
}

// Scenario C — list aggregate counts 2 matched pairs x 2 primitive leaves.
func TestRun_ListOfRecordPerfectMatch(t *testing.T) {
	elem := mustSchema(t, []schema.NamedField{
		{Name: "id", Field: exactField(schema.String, 1.0)},
		{Name: "qty", Field: exactField(schema.Int, 1.0)},
	}, 0.7)
	root := mustSchema(t, []schema.NamedField{
		{Name: "items", Field: schema.NewListRecordField(elem)},
	}, 0)

	gt := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("A", 1), itemOf("B", 2)}),
	}, nil)
	pred := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("B", 2), itemOf("A", 1)}),
	}, nil)

	eng := engine.New(0)
	got := eng.Compare(root, gt, pred)
	Run(got)

	itemsNode := got.Fields["items"]
	assert.Equal(t, 4, itemsNode.Aggregate.TP)
	assert.Zero(t, itemsNode.Aggregate.FA+itemsNode.Aggregate.FD+itemsNode.Aggregate.FN)
}

// Scenario D — list aggregate splits the below-threshold pair's fields.
func TestRun_ListOfRecordBelowMatchThreshold(t *testing.T) {
	elem := mustSchema(t, []schema.NamedField{
		{Name: "id", Field: exactField(schema.String, 1.0)},
		{Name: "qty", Field: exactField(schema.Int, 1.0)},
	}, 0.7)
	root := mustSchema(t, []schema.NamedField{
		{Name: "items", Field: schema.NewListRecordField(elem)},
	}, 0)

	gt := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("A", 1)}),
	}, nil)
	pred := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("A", 9)}),
	}, nil)

	eng := engine.New(0)
	got := eng.Compare(root, gt, pred)
	Run(got)

	itemsNode := got.Fields["items"]
	assert.Equal(t, 1, itemsNode.Aggregate.TP) // id
	assert.Equal(t, 1, itemsNode.Aggregate.FD) // qty
	assert.Equal(t, 1, itemsNode.Aggregate.FP)

	// The pair is below match_threshold, so overall stays FD-only at the
	// object level while aggregate still splits per field.
	assert.Equal(t, 0, itemsNode.Overall.TP)
}

func TestRun_UnmatchedGTContributesFN(t *testing.T) {
	elem := mustSchema(t, []schema.NamedField{
		{Name: "id", Field: exactField(schema.String, 1.0)},
	}, 0.7)
	root := mustSchema(t, []schema.NamedField{
		{Name: "items", Field: schema.NewListRecordField(elem)},
	}, 0)

	gt := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("A", 1), itemOf("B", 2)}),
	}, nil)
	pred := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{itemOf("A", 1)}),
	}, nil)

	eng := engine.New(0)
	got := eng.Compare(root, gt, pred)
	Run(got)

	itemsNode := got.Fields["items"]
	assert.Equal(t, 1, itemsNode.Overall.FN)
	assert.Equal(t, 1, itemsNode.Aggregate.TP) // matched pair's id
	assert.Equal(t, 1, itemsNode.Aggregate.FN) // unmatched gt's id leaf
}

// A matched pair's own hallucinated field isn't tied to any declared
// element field name, so it must be folded into the list node's Aggregate
// directly rather than lost by the per-field loop.
func TestRun_ListOfRecordMatchedPairExtraFAIncludedInAggregate(t *testing.T) {
	elem := mustSchema(t, []schema.NamedField{
		{Name: "id", Field: exactField(schema.String, 1.0)},
	}, 0.7)
	root := mustSchema(t, []schema.NamedField{
		{Name: "items", Field: schema.NewListRecordField(elem)},
	}, 0)

	item := func(id string, extra map[string]*value.Value) *value.Value {
		return value.NewRecord(map[string]*value.Value{"id": value.NewString(id)}, extra)
	}

	gt := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{item("A", nil)}),
	}, nil)
	pred := value.NewRecord(map[string]*value.Value{
		"items": value.NewListRecord([]*value.Value{
			item("A", map[string]*value.Value{"note": value.NewString("x")}),
		}),
	}, nil)

	eng := engine.New(0)
	got := eng.Compare(root, gt, pred)
	Run(got)

	itemsNode := got.Fields["items"]
	assert.Equal(t, 1, itemsNode.Aggregate.TP) // id
	assert.Equal(t, 1, itemsNode.Aggregate.FA) // matched pair's own extra field
	assert.Equal(t, 1, itemsNode.Aggregate.FP)
}

func TestRun_Idempotent(t *testing.T) {
	s := mustSchema(t, []schema.NamedField{
		{Name: "name", Field: exactField(schema.String, 1.0)},
	}, 0)
	gt := value.NewRecord(map[string]*value.Value{"name": value.NewString("a")}, nil)
	pred := value.NewRecord(map[string]*value.Value{"name": value.NewString("a")}, nil)

	eng := engine.New(0)
	root := eng.Compare(s, gt, pred)
	Run(root)
	first := root.Aggregate
	Run(root)
	assert.Equal(t, first, root.Aggregate)
}
