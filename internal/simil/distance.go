// Package simil implements the similarity kernels shared by the float and
// quantized indexes, and a parallel top-k selection helper built on top of
// them.
package simil

import "math"

// Dot computes the sum of element-wise products of a and b. Callers must
// ensure equal length; this is an inner-loop helper that ranges over a with
// no bounds checking of its own, so a b shorter than a panics.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm computes the Euclidean (L2) norm of v.
func Norm(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}

// Cosine returns the cosine similarity of a and b, in [-1, 1]. It returns
// -1 when the lengths differ or either vector has zero norm, collapsing
// "invalid" and "least similar" into the same sentinel so callers can sort
// without special-casing errors.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return -1.0
	}

	denom := Norm(a) * Norm(b)
	if denom == 0 {
		return -1.0
	}

	return Dot(a, b) / denom
}

// Normalize returns a unit-length copy of v, or a zero vector of the same
// length if v has zero norm.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}
