// Package hungarian implements optimal bipartite assignment over a
// similarity matrix, used to match unordered lists of primitives or
// records so that element order does not affect scoring.
package hungarian

import (
	"log/slog"
	"math"
	"runtime"
	"sync"
)

// Match is one matched (ground-truth index, prediction index) pair with
// its similarity score.
type Match struct {
	GT         int
	Pred       int
	Similarity float64
}

var logger = slog.Default()

// SetLogger overrides the logger used for the greedy-fallback warning.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Solve returns min(n,m) matched pairs maximizing the sum of similarities,
// where sim is an n×m matrix with entries in [0,1]. Pairs are returned in
// ascending ground-truth-index order. The result is deterministic: given
// the same matrix, Solve always returns the same pairs.
func Solve(sim [][]float64) []Match {
	n := len(sim)
	if n == 0 {
		return nil
	}
	m := len(sim[0])
	if m == 0 {
		return nil
	}

	size := n
	if m > size {
		size = m
	}

	// Pad to a square cost matrix. cost[i][j] = 1 - sim[i][j] for real
	// cells; padded cells get cost 1 (similarity 0), so a dummy row/column
	// never outcompetes a genuine, however weak, match.
	cost := make([][]float64, size)
	for i := 0; i < size; i++ {
		cost[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			if i < n && j < m {
				cost[i][j] = 1 - sim[i][j]
			} else {
				cost[i][j] = 1
			}
		}
	}

	assignment, ok := solveSquare(cost)
	if !ok {
		logger.Warn("hungarian: falling back to greedy matching", "n", n, "m", m)
		assignment = solveGreedy(cost)
	}

	// assignment[j] = row matched to column j, 1-indexed internally but
	// returned 0-indexed here.
	matches := make([]Match, 0, minInt(n, m))
	for j := 0; j < size; j++ {
		i := assignment[j]
		if i < n && j < m {
			matches = append(matches, Match{GT: i, Pred: j, Similarity: sim[i][j]})
		}
	}
	sortMatchesByGT(matches)
	return matches
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func sortMatchesByGT(matches []Match) {
	for i := 1; i < len(matches); i++ {
		j := i
		for j > 0 && matches[j-1].GT > matches[j].GT {
			matches[j-1], matches[j] = matches[j], matches[j-1]
			j--
		}
	}
}

// solveSquare runs the classic O(n^3) Kuhn-Munkres labeling algorithm on a
// square cost matrix (minimization). It returns assignment[j] = the row
// matched to column j (0-indexed), and ok=false if the matrix contains a
// non-finite value it cannot handle.
func solveSquare(cost [][]float64) (assignment []int, ok bool) {
	n := len(cost)
	for _, row := range cost {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
		}
	}

	const inf = math.MaxFloat64 / 2

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j] = row matched to column j, 1-indexed, 0 = unmatched
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 == -1 {
				return nil, false
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment = make([]int, n)
	for j := 1; j <= n; j++ {
		assignment[j-1] = p[j] - 1
	}
	return assignment, true
}

// solveGreedy is the deterministic fallback used when solveSquare detects a
// degenerate matrix (non-finite entries). It repeatedly picks the globally
// cheapest remaining cell, breaking ties by ascending row then column.
func solveGreedy(cost [][]float64) []int {
	n := len(cost)
	assignment := make([]int, n)
	for j := range assignment {
		assignment[j] = -1
	}
	rowUsed := make([]bool, n)
	colUsed := make([]bool, n)

	for count := 0; count < n; count++ {
		bestI, bestJ := -1, -1
		best := math.MaxFloat64
		for i := 0; i < n; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < n; j++ {
				if colUsed[j] {
					continue
				}
				c := cost[i][j]
				if c < best {
					best = c
					bestI, bestJ = i, j
				}
			}
		}
		if bestI == -1 {
			break
		}
		assignment[bestJ] = bestI
		rowUsed[bestI] = true
		colUsed[bestJ] = true
	}
	return assignment
}

// BuildMatrix computes an n×m matrix of results in parallel via compute,
// splitting cells across a worker pool sized to GOMAXPROCS when the grid is
// large enough to amortize goroutine overhead. The similarity of each cell
// is extracted separately so callers can retain the full per-cell result
// (e.g. a recursive comparison node) alongside the plain similarity matrix
// that Solve needs.
func BuildMatrix[T any](n, m int, compute func(i, j int) (T, float64, error)) ([][]T, [][]float64, error) {
	results := make([][]T, n)
	sims := make([][]float64, n)
	for i := range results {
		results[i] = make([]T, m)
		sims[i] = make([]float64, m)
	}

	if n*m < parallelThreshold {
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				r, s, err := compute(i, j)
				if err != nil {
					return nil, nil, err
				}
				results[i][j] = r
				sims[i][j] = s
			}
		}
		return results, sims, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	type cell struct{ i, j int }
	cells := make(chan cell, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			cells <- cell{i, j}
		}
	}
	close(cells)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range cells {
				r, s, err := compute(c.i, c.j)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				results[c.i][c.j] = r
				sims[c.i][c.j] = s
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	return results, sims, nil
}

// parallelThreshold is the n*m grid size at or above which BuildMatrix fans cell
// computation out across a worker pool instead of running sequentially.
const parallelThreshold = 64
