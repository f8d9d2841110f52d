package geogrid

import (
	"fmt"
	"slices"
)

// A DenseGrid is a Grid backed by a dense in-memory array.
type DenseGrid struct {
	width    int
	height   int
	eastRes  float64
	southRes float64
	corner   Point
	data     []float64
}

// NewDenseGrid returns a new DenseGrid holding its own copy of data.
// It returns an error wrapping ErrInvalidGrid when width or height is
// not positive, a resolution is not positive, or data does not hold
// exactly width*height values.
func NewDenseGrid(width, height int, eastRes, southRes float64, corner Point, data []float64) (*DenseGrid, error) {
	switch {
	case width < 1 || height < 1:
		return nil, fmt.Errorf("%w: dimension %dx%d", ErrInvalidGrid, width, height)
	case eastRes <= 0 || southRes <= 0:
		return nil, fmt.Errorf("%w: resolution %gx%g", ErrInvalidGrid, eastRes, southRes)
	case len(data) != width*height:
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrInvalidGrid, len(data), width, height)
	}
	return &DenseGrid{
		width:    width,
		height:   height,
		eastRes:  eastRes,
		southRes: southRes,
		corner:   corner,
		data:     slices.Clone(data),
	}, nil
}

// Dim returns g's pixel extent.
func (g *DenseGrid) Dim() (int, int) { return g.width, g.height }

// Resolution returns g's per-axis resolution.
func (g *DenseGrid) Resolution() (float64, float64) { return g.eastRes, g.southRes }

// Corner returns g's northwest origin.
func (g *DenseGrid) Corner() Point { return g.corner }

// Data returns g's values, row-major from the northwest corner. The
// returned slice is g's backing array and must not be modified.
func (g *DenseGrid) Data() ([]float64, error) { return g.data, nil }

// Subregion returns a new independent DenseGrid covering the
// pixel-aligned superset of region. It returns an error wrapping
// ErrRegionOutsideGrid when the aligned pixel range is not fully
// inside g: a dense grid has no data to supply outside itself.
func (g *DenseGrid) Subregion(region Region) (Grid, error) {
	a := AlignCrop(region, g)
	if a.StartX < 0 || a.StartY < 0 || a.EndX >= g.width || a.EndY >= g.height {
		return nil, fmt.Errorf("%w: pixels (%d,%d)-(%d,%d) of %dx%d grid",
			ErrRegionOutsideGrid, a.StartX, a.StartY, a.EndX, a.EndY, g.width, g.height)
	}
	data := make([]float64, 0, a.Width()*a.Height())
	for y := a.StartY; y <= a.EndY; y++ {
		row := g.data[y*g.width : (y+1)*g.width]
		data = append(data, row[a.StartX:a.EndX+1]...)
	}
	return NewDenseGrid(a.Width(), a.Height(), g.eastRes, g.southRes, Point{
		East:  g.corner.East + float64(a.StartX)*g.eastRes,
		South: g.corner.South + float64(a.StartY)*g.southRes,
	}, data)
}
