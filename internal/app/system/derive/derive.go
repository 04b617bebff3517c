// Package derive computes the summary figures shown above each console list.
// Everything here is a pure O(n) pass over records already loaded for the
// response, or a Running accumulator fed by a store walk. An empty denominator is always its own branch and yields 0.
package derive

import "math"

// Rate returns part/total as a percentage in [0, 100], or 0 when total is 0.
func Rate(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	r := part / total * 100
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > 100:
		return 100
	}
	return r
}

// Ratio returns num/den, or 0 when den is 0. Unlike Rate it is not clamped.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// MeanOf averages get over items, skipping items where get returns nil.
// The divisor is the number of non-nil values.
func MeanOf[T any](items []T, get func(T) *float64) float64 {
	var sum float64
	var n int
	for _, it := range items {
		if v := get(it); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Running is a mean accumulated one value at a time, for figures streamed
// from a whole table rather than held in memory.
type Running struct {
	Sum float64
	N   int64
}

func (r *Running) Add(v float64) {
	r.Sum += v
	r.N++
}

// AddPtr adds *v, skipping nil.
func (r *Running) AddPtr(v *float64) {
	if v != nil {
		r.Add(*v)
	}
}

// Mean returns Sum/N, or 0 when nothing was added.
func (r Running) Mean() float64 {
	return Ratio(r.Sum, float64(r.N))
}

func Sum[T any](items []T, get func(T) float64) float64 {
	var sum float64
	for _, it := range items {
		sum += get(it)
	}
	return sum
}

func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Round rounds x to places decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
