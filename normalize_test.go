package geogrid_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/alecthomas/assert/v2"

	geogrid "github.com/cartolab/go-geogrid"
)

func TestNormalize(t *testing.T) {
	grid, err := geogrid.NewDenseGrid(2, 2, 1, 1, geogrid.Point{}, []float64{0.5, -2, 1, 0.25})
	assert.NoError(t, err)

	actual, err := geogrid.Normalize(grid)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.25, -1, 0.5, 0.125}, actual)
}

func TestNormalizeBy(t *testing.T) {
	grid, err := geogrid.NewDenseGrid(3, 1, 1, 1, geogrid.Point{}, []float64{2, -4, 1})
	assert.NoError(t, err)

	actual, err := geogrid.NormalizeBy(grid, 8)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.25, -0.5, 0.125}, actual)
}

func TestNormalize_ZeroMagnitude(t *testing.T) {
	grid, err := geogrid.NewDenseGrid(2, 2, 1, 1, geogrid.Point{}, make([]float64, 4))
	assert.NoError(t, err)

	_, err = geogrid.Normalize(grid)
	assert.IsError(t, err, geogrid.ErrZeroMagnitude)

	_, err = geogrid.NormalizeBy(grid, 0)
	assert.IsError(t, err, geogrid.ErrZeroMagnitude)
}

func TestNormalize_Range(t *testing.T) {
	r := rand.New(rand.NewPCG(0, 0))
	for range 1024 {
		width, height := 1+r.IntN(16), 1+r.IntN(16)
		data := make([]float64, width*height)
		for i := range data {
			data[i] = 2000*r.Float64() - 1000
		}
		grid, err := geogrid.NewDenseGrid(width, height, 1, 1, geogrid.Point{}, data)
		assert.NoError(t, err)

		normalized, err := geogrid.Normalize(grid)
		assert.NoError(t, err)

		// Every value lies in [-1, 1] and the extremal value maps to
		// exactly +/-1.
		extremal := false
		for _, v := range normalized {
			assert.True(t, -1 <= v)
			assert.True(t, v <= 1)
			if math.Abs(v) == 1 {
				extremal = true
			}
		}
		assert.True(t, extremal)
	}
}

func TestNormalizeBy_Linearity(t *testing.T) {
	grid, err := geogrid.NewDenseGrid(2, 3, 1, 1, geogrid.Point{}, []float64{3, -1.5, 0, 7.25, -6, 2})
	assert.NoError(t, err)

	const magnitude = 7.25
	single, err := geogrid.NormalizeBy(grid, magnitude)
	assert.NoError(t, err)
	double, err := geogrid.NormalizeBy(grid, 2*magnitude)
	assert.NoError(t, err)

	assert.Equal(t, len(single), len(double))
	for i := range single {
		assert.Equal(t, single[i]/2, double[i])
	}
}
