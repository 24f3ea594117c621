package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalkit/structeval/internal/compare"
)

func TestNew_Valid(t *testing.T) {
	s, err := New([]NamedField{
		{Name: "name", Field: NewPrimitiveField(String, compare.Exact)},
		{Name: "age", Field: NewPrimitiveField(Int, compare.Exact)},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"name", "age"}, s.Order())
	assert.Equal(t, defaultMatchThreshold, s.MatchThreshold)
}

func TestNew_DuplicateField(t *testing.T) {
	_, err := New([]NamedField{
		{Name: "name", Field: NewPrimitiveField(String, compare.Exact)},
		{Name: "name", Field: NewPrimitiveField(String, compare.Exact)},
	}, 0)
	require.Error(t, err)
}

func TestNew_PrimitiveMissingComparator(t *testing.T) {
	_, err := New([]NamedField{
		{Name: "name", Field: &FieldDescriptor{Kind: KindPrimitive, Weight: 1, Threshold: 0.5}},
	}, 0)
	require.Error(t, err)
}

func TestNew_ListRecordForbidsComparator(t *testing.T) {
	elem, err := New([]NamedField{
		{Name: "id", Field: NewPrimitiveField(String, compare.Exact)},
	}, 0.7)
	require.NoError(t, err)

	fd := NewListRecordField(elem)
	fd.Comparator = compare.Exact // forbidden
	_, err = New([]NamedField{{Name: "items", Field: fd}}, 0)
	require.Error(t, err)
}

func TestNew_ListRecordForbidsExplicitThreshold(t *testing.T) {
	elem, _ := New([]NamedField{
		{Name: "id", Field: NewPrimitiveField(String, compare.Exact)},
	}, 0.7)

	fd := NewListRecordField(elem)
	fd.WithThreshold(0.9) // forbidden
	_, err := New([]NamedField{{Name: "items", Field: fd}}, 0)
	require.Error(t, err)
}

func TestNew_InvalidThreshold(t *testing.T) {
	fd := NewPrimitiveField(String, compare.Exact)
	fd.Threshold = 1.5
	_, err := New([]NamedField{{Name: "x", Field: fd}}, 0)
	require.Error(t, err)
}

func TestNew_InvalidWeight(t *testing.T) {
	fd := NewPrimitiveField(String, compare.Exact)
	fd.Weight = 0
	_, err := New([]NamedField{{Name: "x", Field: fd}}, 0)
	require.Error(t, err)
}

func TestFieldDescriptor_ChainedOptions(t *testing.T) {
	fd := NewPrimitiveField(Int, compare.Exact).
		WithThreshold(0.9).
		WithWeight(2.0).
		WithClipUnderThreshold(false).
		WithRequired(true)
	assert.Equal(t, 0.9, fd.Threshold)
	assert.Equal(t, 2.0, fd.Weight)
	assert.False(t, fd.ClipUnderThreshold)
	assert.True(t, fd.Required)
}

func TestPrimType_ValueKind(t *testing.T) {
	assert.True(t, String.ValueKind().IsPrimitive())
	assert.Equal(t, "int", Int.String())
}
