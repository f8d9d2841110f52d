package geogrid_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/alecthomas/assert/v2"

	geogrid "github.com/cartolab/go-geogrid"
)

func mustDenseGrid(t testing.TB, width, height int, eastRes, southRes float64, corner geogrid.Point) *geogrid.DenseGrid {
	t.Helper()
	grid, err := geogrid.NewDenseGrid(width, height, eastRes, southRes, corner, make([]float64, width*height))
	assert.NoError(t, err)
	return grid
}

func TestAlignCrop(t *testing.T) {
	grid := mustDenseGrid(t, 100, 100, 1, 1, geogrid.Point{East: 120, South: -25})
	region := geogrid.NewRegion(
		geogrid.Point{East: 116.47, South: -26.23},
		geogrid.Point{East: 125, South: -21.7},
	)

	actual := geogrid.AlignCrop(region, grid)

	assert.Equal(t, -4, actual.StartX)
	assert.Equal(t, -2, actual.StartY)
	assert.Equal(t, 4, actual.EndX)
	assert.Equal(t, 3, actual.EndY)

	const tolerance = 1e-9
	assert.True(t, math.Abs(actual.Overruns.Top-0.77) < tolerance)
	assert.True(t, math.Abs(actual.Overruns.Bottom-0.70) < tolerance)
	assert.True(t, math.Abs(actual.Overruns.Left-0.47) < tolerance)
	assert.True(t, math.Abs(actual.Overruns.Right-0.0) < tolerance)
}

func TestAlignCrop_PixelAlignedRegion(t *testing.T) {
	grid := mustDenseGrid(t, 10, 10, 0.5, 0.25, geogrid.Point{East: 7, South: 3})

	// A region falling exactly on pixel boundaries has zero overruns.
	region := geogrid.NewRegion(
		geogrid.Point{East: 7.5, South: 3.25},
		geogrid.Point{East: 9, South: 4},
	)
	actual := geogrid.AlignCrop(region, grid)

	assert.Equal(t, 1, actual.StartX)
	assert.Equal(t, 1, actual.StartY)
	assert.Equal(t, 3, actual.EndX)
	assert.Equal(t, 3, actual.EndY)
	assert.Equal(t, geogrid.Overruns{}, actual.Overruns)
}

func TestAlignCrop_Coverage(t *testing.T) {
	r := rand.New(rand.NewPCG(0, 0))
	for range 4096 {
		grid := mustDenseGrid(t,
			1+r.IntN(64), 1+r.IntN(64),
			math.Exp(4*r.Float64()-2), math.Exp(4*r.Float64()-2),
			geogrid.Point{East: 200*r.Float64() - 100, South: 200*r.Float64() - 100},
		)
		covered := geogrid.CoveredRegion(grid)
		nw := geogrid.Point{
			East:  covered.NorthWest().East + (covered.SouthEast().East-covered.NorthWest().East)*(2*r.Float64()-0.5),
			South: covered.NorthWest().South + (covered.SouthEast().South-covered.NorthWest().South)*(2*r.Float64()-0.5),
		}
		se := geogrid.Point{
			East:  nw.East + (covered.SouthEast().East-covered.NorthWest().East)*r.Float64(),
			South: nw.South + (covered.SouthEast().South-covered.NorthWest().South)*r.Float64(),
		}
		region := geogrid.NewRegion(nw, se)

		alignment := geogrid.AlignCrop(region, grid)

		// The aligned range fully contains the fractional pixel
		// footprint of every corner of the region.
		for _, corner := range []geogrid.Point{
			region.NorthWest(), region.NorthEast(), region.SouthEast(), region.SouthWest(),
		} {
			pix := geogrid.PointToPixel(corner, grid)
			assert.True(t, float64(alignment.StartX) <= pix.X)
			assert.True(t, pix.X <= float64(alignment.EndX+1))
			assert.True(t, float64(alignment.StartY) <= pix.Y)
			assert.True(t, pix.Y <= float64(alignment.EndY+1))
		}

		for _, overrun := range []float64{
			alignment.Overruns.Top,
			alignment.Overruns.Bottom,
			alignment.Overruns.Left,
			alignment.Overruns.Right,
		} {
			assert.True(t, 0 <= overrun)
			assert.True(t, overrun < 1)
		}
	}
}

func TestAlignCrop_OutsideGrid(t *testing.T) {
	grid := mustDenseGrid(t, 8, 8, 1, 1, geogrid.Point{})

	// A region entirely outside the grid still aligns numerically;
	// bounds checking is the caller's responsibility.
	region := geogrid.NewRegion(
		geogrid.Point{East: -10.5, South: -20.5},
		geogrid.Point{East: -9.5, South: -19.5},
	)
	actual := geogrid.AlignCrop(region, grid)

	assert.Equal(t, -11, actual.StartX)
	assert.Equal(t, -21, actual.StartY)
	assert.Equal(t, -10, actual.EndX)
	assert.Equal(t, -20, actual.EndY)
	assert.Equal(t, geogrid.Overruns{Top: 0.5, Bottom: 0.5, Left: 0.5, Right: 0.5}, actual.Overruns)
}
