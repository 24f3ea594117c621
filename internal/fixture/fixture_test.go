package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustSchema_FlatFields(t *testing.T) {
	s := MustSchema(`
match_threshold: 0.5
fields:
  - name: full_name
    type: string
    comparator: fuzzy
    threshold: 0.8
  - name: age
    type: int
    threshold: 1.0
`)
	require.Equal(t, []string{"full_name", "age"}, s.Order())
	fd, ok := s.Field("full_name")
	require.True(t, ok)
	assert.Equal(t, 0.8, fd.Threshold)
}

func TestMustSchema_NestedRecord(t *testing.T) {
	s := MustSchema(`
fields:
  - name: address
    type: record
    fields:
      - name: city
        type: string
        threshold: 1.0
    match_threshold: 0.6
`)
	fd, ok := s.Field("address")
	require.True(t, ok)
	require.NotNil(t, fd.Record)
	assert.Equal(t, []string{"city"}, fd.Record.Order())
	assert.Equal(t, 0.6, fd.Record.MatchThreshold)
}

func TestMustSchema_ListRecord(t *testing.T) {
	s := MustSchema(`
fields:
  - name: items
    type: list_record
    fields:
      - name: id
        type: string
        threshold: 1.0
    match_threshold: 0.7
`)
	fd, ok := s.Field("items")
	require.True(t, ok)
	require.NotNil(t, fd.Record)
	assert.Equal(t, 0.7, fd.Record.MatchThreshold)
}

func TestMustValue_ScalarsAndRecord(t *testing.T) {
	v := MustValue(`
name: Alice
age: 30
active: true
`)
	assert.Equal(t, "Alice", v.Field("name").String())
	assert.Equal(t, int64(30), v.Field("age").Int())
	assert.True(t, v.Field("active").Bool())
}

func TestMustValue_ListOfRecords(t *testing.T) {
	v := MustValue(`
items:
  - id: A
  - id: B
`)
	items := v.Field("items").ListRecord()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Field("id").String())
	assert.Equal(t, "B", items[1].Field("id").String())
}

func TestMustValue_NullField(t *testing.T) {
	v := MustValue(`
name: null
`)
	assert.True(t, v.Field("name").IsNull())
}

func TestMustSchema_PanicsOnUnknownType(t *testing.T) {
	assert.Panics(t, func() {
		MustSchema(`
fields:
  - name: bad
    type: not_a_real_type
`)
	})
}
