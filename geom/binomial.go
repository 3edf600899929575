package geom

import "sync"

// maxPrecomputedDegree is the largest curve degree whose binomial row is built up front.
const maxPrecomputedDegree = 32

// Binomial is a table of binomial coefficients.
// Rows up to the precomputed degree are immutable and read without locking;
// higher rows are filled on demand through Pascal's rule under a lock.
type Binomial struct {
	rows [][]float64

	mu   sync.RWMutex
	memo map[[2]int]float64
}

// NewBinomial returns a table with every row up to degree precomputed.
func NewBinomial(degree int) *Binomial {
	if degree < 0 {
		degree = 0
	}
	rows := make([][]float64, degree+1)
	rows[0] = []float64{1}
	for n := 1; n <= degree; n++ {
		row := make([]float64, n+1)
		row[0], row[n] = 1, 1
		for k := 1; k < n; k++ {
			row[k] = rows[n-1][k-1] + rows[n-1][k]
		}
		rows[n] = row
	}
	return &Binomial{
		rows: rows,
		memo: make(map[[2]int]float64),
	}
}

// Choose returns the number of ways to choose k elements out of n.
// Values past the float64 range are +Inf.
func (b *Binomial) Choose(n, k int) float64 {
	if k == 0 {
		return 1
	}
	if k < 0 || k > n {
		return 0
	}
	if n < len(b.rows) {
		return b.rows[n][k]
	}

	b.mu.RLock()
	v, ok := b.memo[[2]int{n, k}]
	b.mu.RUnlock()
	if ok {
		return v
	}

	v = b.Choose(n-1, k-1) + b.Choose(n-1, k)

	b.mu.Lock()
	b.memo[[2]int{n, k}] = v
	b.mu.Unlock()

	return v
}

// Row returns the coefficients C(n, 0) ... C(n, n).
func (b *Binomial) Row(n int) []float64 {
	if n < 0 {
		return nil
	}
	row := make([]float64, n+1)
	if n < len(b.rows) {
		copy(row, b.rows[n])
		return row
	}
	for k := range row {
		row[k] = b.Choose(n, k)
	}
	return row
}
