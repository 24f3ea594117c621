// Package metrics defines the confusion-matrix count bag and the derived
// precision/recall/F1/accuracy metrics computed from it.
package metrics

// Counts is a confusion-matrix bag. The invariant FP == FA + FD must hold
// at every node; Add preserves it by construction.
type Counts struct {
	TP int
	FA int
	FD int
	FP int
	TN int
	FN int
}

// TN1 is a convenience true-negative-only bag, used pervasively for null
// symmetry outcomes.
func TN1() Counts { return Counts{TN: 1} }

// FA1 is a convenience single-false-alarm bag.
func FA1() Counts { return Counts{FA: 1, FP: 1} }

// FN1 is a convenience single-false-negative bag.
func FN1() Counts { return Counts{FN: 1} }

// FD1 is a convenience single-false-discovery bag (both present, below
// threshold, or a kind mismatch).
func FD1() Counts { return Counts{FD: 1, FP: 1} }

// TP1 is a convenience single-true-positive bag.
func TP1() Counts { return Counts{TP: 1} }

// FAn builds an n-false-alarm bag (unmatched prediction items).
func FAn(n int) Counts { return Counts{FA: n, FP: n} }

// FNn builds an n-false-negative bag (unmatched ground-truth items).
func FNn(n int) Counts { return Counts{FN: n} }

// Add returns the elementwise sum of c and other, re-deriving FP so the
// sum law always holds even if a caller constructed a bag by hand.
func (c Counts) Add(other Counts) Counts {
	sum := Counts{
		TP: c.TP + other.TP,
		FA: c.FA + other.FA,
		FD: c.FD + other.FD,
		TN: c.TN + other.TN,
		FN: c.FN + other.FN,
	}
	sum.FP = sum.FA + sum.FD
	return sum
}

// Sum adds a variadic list of bags, starting from the zero bag.
func Sum(bags ...Counts) Counts {
	var total Counts
	for _, b := range bags {
		total = total.Add(b)
	}
	return total
}

// Derived holds the four metrics computed from a Counts bag.
type Derived struct {
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
}

// Compute derives precision/recall/F1/accuracy from c. recallWithFD selects
// the alternative recall denominator (tp+fn+fd) instead of the traditional
// (tp+fn).
func Compute(c Counts, recallWithFD bool) Derived {
	var d Derived

	if pDenom := c.TP + c.FP; pDenom > 0 {
		d.Precision = float64(c.TP) / float64(pDenom)
	}

	rDenom := c.TP + c.FN
	if recallWithFD {
		rDenom += c.FD
	}
	if rDenom > 0 {
		d.Recall = float64(c.TP) / float64(rDenom)
	}

	if d.Precision+d.Recall > 0 {
		d.F1 = 2 * d.Precision * d.Recall / (d.Precision + d.Recall)
	}

	if aDenom := c.TP + c.FA + c.FD + c.TN + c.FN; aDenom > 0 {
		d.Accuracy = float64(c.TP+c.TN) / float64(aDenom)
	}

	return d
}
