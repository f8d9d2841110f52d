package geogrid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalize rescales g's data into [-1, 1] by dividing every value by
// the largest absolute value present. The scaling is symmetric around
// zero and sign-preserving, not min-max rescaling, so the extremal
// value maps to exactly 1 or -1. It returns ErrZeroMagnitude when
// every value in g is zero.
func Normalize(g Grid) ([]float64, error) {
	data, err := g.Data()
	if err != nil {
		return nil, err
	}
	magnitude := math.Max(math.Abs(floats.Max(data)), math.Abs(floats.Min(data)))
	return normalizeBy(data, magnitude)
}

// NormalizeBy divides every value in g's data by magnitude. It returns
// ErrZeroMagnitude when magnitude is zero.
func NormalizeBy(g Grid, magnitude float64) ([]float64, error) {
	data, err := g.Data()
	if err != nil {
		return nil, err
	}
	return normalizeBy(data, magnitude)
}

func normalizeBy(data []float64, magnitude float64) ([]float64, error) {
	if magnitude == 0 {
		return nil, ErrZeroMagnitude
	}
	normalized := make([]float64, len(data))
	for i, v := range data {
		normalized[i] = v / magnitude
	}
	return normalized, nil
}
