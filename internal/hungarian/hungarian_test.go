package hungarian

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolve_SquarePicksOptimalAssignment(t *testing.T) {
	sim := [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
	}
	matches := Solve(sim)
	assert.Len(t, matches, 2)
	assert.Equal(t, Match{GT: 0, Pred: 0, Similarity: 0.9}, matches[0])
	assert.Equal(t, Match{GT: 1, Pred: 1, Similarity: 0.8}, matches[1])
}

func TestSolve_PrefersHigherTotalOverGreedyDiagonal(t *testing.T) {
	// Greedily picking row 0's best (col 0, 0.6) forces row 1 into its
	// worst cell. The optimal assignment crosses the diagonal instead.
	sim := [][]float64{
		{0.6, 0.55},
		{0.5, 0.1},
	}
	matches := Solve(sim)
	total := 0.0
	for _, m := range matches {
		total += m.Similarity
	}
	assert.InDelta(t, 1.05, total, 1e-9)
}

func TestSolve_RectangularMoreGTThanPred(t *testing.T) {
	sim := [][]float64{
		{0.9, 0.1},
		{0.1, 0.9},
		{0.3, 0.2},
	}
	matches := Solve(sim)
	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.Less(t, m.GT, 3)
		assert.Less(t, m.Pred, 2)
	}
}

func TestSolve_RectangularMorePredThanGT(t *testing.T) {
	sim := [][]float64{
		{0.9, 0.1, 0.2},
		{0.1, 0.9, 0.4},
	}
	matches := Solve(sim)
	assert.Len(t, matches, 2)
}

func TestSolve_EmptyInputs(t *testing.T) {
	assert.Nil(t, Solve(nil))
	assert.Nil(t, Solve([][]float64{}))
}

func TestSolve_Deterministic(t *testing.T) {
	sim := [][]float64{
		{0.5, 0.5, 0.1},
		{0.5, 0.5, 0.2},
		{0.1, 0.2, 0.9},
	}
	first := Solve(sim)
	for i := 0; i < 10; i++ {
		again := Solve(sim)
		assert.Equal(t, first, again)
	}
}

func TestSolve_AscendingGTOrder(t *testing.T) {
	sim := [][]float64{
		{0.1, 0.9},
		{0.9, 0.1},
	}
	matches := Solve(sim)
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].GT, matches[i].GT)
	}
}

func TestBuildMatrix_Sequential(t *testing.T) {
	results, sims, err := BuildMatrix(2, 2, func(i, j int) (string, float64, error) {
		return fmt.Sprintf("%d-%d", i, j), float64(i+j) / 4, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "0-0", results[0][0])
	assert.Equal(t, 0.5, sims[1][1])
}

func TestBuildMatrix_ParallelLargeGrid(t *testing.T) {
	n, m := 10, 10 // 100 cells, above parallelThreshold
	results, sims, err := BuildMatrix(n, m, func(i, j int) (int, float64, error) {
		return i*100 + j, 1.0, nil
	})
	assert.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			assert.Equal(t, i*100+j, results[i][j])
			assert.Equal(t, 1.0, sims[i][j])
		}
	}
}

func TestBuildMatrix_PropagatesError(t *testing.T) {
	boom := fmt.Errorf("boom")
	_, _, err := BuildMatrix(2, 2, func(i, j int) (int, float64, error) {
		if i == 1 && j == 1 {
			return 0, 0, boom
		}
		return 0, 0, nil
	})
	assert.Error(t, err)
}

func TestPairKey_DeterministicAndOrderSensitive(t *testing.T) {
	k1 := PairKey("a", "b")
	k2 := PairKey("a", "b")
	k3 := PairKey("b", "a")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestCache_GetPutAndStats(t *testing.T) {
	c := NewCache[float64]()
	key := PairKey("x", "y")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, 0.75)
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, 0.75, v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestSolveGreedy_UsedOnDegenerateCost(t *testing.T) {
	// Exercises the fallback path directly; solveSquare would reject NaN.
	cost := [][]float64{
		{0.1, 0.9},
		{0.8, 0.2},
	}
	assignment := solveGreedy(cost)
	assert.Len(t, assignment, 2)
	used := map[int]bool{}
	for _, row := range assignment {
		assert.False(t, used[row])
		used[row] = true
	}
}
