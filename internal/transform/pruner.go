package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/edulens/edulens/internal/frame"
)

// FittedPruner is the immutable result of a pruner fit: the set of numeric
// columns found to duplicate an earlier column's information.
type FittedPruner struct {
	dropped []string
}

// Dropped returns the column names the fit marked for removal.
func (p *FittedPruner) Dropped() []string {
	return append([]string(nil), p.dropped...)
}

// FitPruner scans numeric column pairs for a Pearson correlation whose
// magnitude is exactly 1 — bit-exact, not "close to". The scan is
// upper-triangular: column i is compared against every j < i, and when a
// perfect pair is found, i (the later column) is marked for removal so the
// earlier-indexed column always survives.
func FitPruner(f *frame.Frame) (*FittedPruner, error) {
	var numeric []*frame.Column
	for _, c := range f.Columns() {
		if c.Kind == frame.Numeric {
			numeric = append(numeric, c)
		}
	}

	marked := make(map[string]bool)
	var dropped []string
	for i := 1; i < len(numeric); i++ {
		for j := 0; j < i; j++ {
			r := pairwiseCorrelation(numeric[i], numeric[j])
			if math.Abs(r) == 1 {
				if !marked[numeric[i].Name] {
					marked[numeric[i].Name] = true
					dropped = append(dropped, numeric[i].Name)
				}
				break
			}
		}
	}

	return &FittedPruner{dropped: dropped}, nil
}

// Apply removes the fitted drop set from f. The frame must carry every
// column the fit marked; a mismatch means the caller is applying the
// pruner to a table with a different schema.
func (p *FittedPruner) Apply(f *frame.Frame) (*frame.Frame, error) {
	if len(p.dropped) == 0 {
		return f.Clone(), nil
	}
	out, err := f.DropColumns(p.dropped...)
	if err != nil {
		return nil, fmt.Errorf("prune: %w", err)
	}
	return out, nil
}

// pairwiseCorrelation computes Pearson correlation over the rows where
// both columns hold a value. Fewer than two complete rows, or a
// zero-variance column, yield NaN and the pair is left alone.
func pairwiseCorrelation(a, b *frame.Column) float64 {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		x, okA := a.Num(i)
		y, okB := b.Num(i)
		if okA && okB {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
