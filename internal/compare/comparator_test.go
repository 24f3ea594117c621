package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalkit/structeval/internal/value"
)

func TestExact(t *testing.T) {
	cases := []struct {
		gt, pred *value.Value
		want     float64
	}{
		{value.NewString("Alice"), value.NewString("Alice"), 1.0},
		{value.NewString("Alice"), value.NewString("Bob"), 0.0},
		{value.NewInt(30), value.NewInt(30), 1.0},
		{value.NewInt(30), value.NewInt(31), 0.0},
		{value.NewBool(true), value.NewBool(true), 1.0},
		{value.NewString("1"), value.NewInt(1), 0.0},
	}
	for _, c := range cases {
		got, err := Exact.Compare(c.gt, c.pred)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestNumericTolerance(t *testing.T) {
	cmp := NumericTolerance(2.0)

	got, err := cmp.Compare(value.NewInt(10), value.NewInt(11))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = cmp.Compare(value.NewInt(10), value.NewInt(14))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = cmp.Compare(value.NewFloat(10), value.NewFloat(13))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestNumericTolerance_ZeroTolerance(t *testing.T) {
	cmp := NumericTolerance(0)
	got, _ := cmp.Compare(value.NewInt(5), value.NewInt(5))
	assert.Equal(t, 1.0, got)
	got, _ = cmp.Compare(value.NewInt(5), value.NewInt(6))
	assert.Equal(t, 0.0, got)
}

func TestFuzzy(t *testing.T) {
	got, err := Fuzzy.Compare(value.NewString("Alice"), value.NewString("Alicia"))
	require.NoError(t, err)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)

	got, err = Fuzzy.Compare(value.NewString("Alice"), value.NewString("Alice"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = Fuzzy.Compare(value.NewString(""), value.NewString("x"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestFuncAdapter(t *testing.T) {
	var c Comparator = Func(func(gt, pred *value.Value) (float64, error) {
		return 0.42, nil
	})
	got, err := c.Compare(value.Null(), value.Null())
	require.NoError(t, err)
	assert.Equal(t, 0.42, got)
}
