// Package geogrid models evenly-spaced geographic rasters of scalar
// measurements and the numeric operations on them: mapping geographic
// points to fractional pixel coordinates, aligning crop regions to
// pixel boundaries with full coverage, normalising values into a
// symmetric bounded range, and computing the region a grid covers.
//
// Coordinates use an east/south axis pair: values increase eastward
// along the east axis and southward along the south axis.
package geogrid

import "errors"

var (
	// ErrInvalidGrid is returned, wrapped, when a grid is constructed
	// with non-positive dimensions or resolutions, or with a data
	// length that does not match its dimensions.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrZeroMagnitude is returned when normalisation would divide by
	// zero because every value in the grid is zero.
	ErrZeroMagnitude = errors.New("zero magnitude")

	// ErrRegionOutsideGrid is returned by Subregion when the
	// pixel-aligned superset of the requested region is not fully
	// inside the grid.
	ErrRegionOutsideGrid = errors.New("region outside grid")
)

// A Point is a geographic location on the east/south axis pair.
type Point struct {
	East  float64
	South float64
}

// A Region is an axis-aligned geographic bounding box defined by its
// northwest and southeast corners.
type Region struct {
	nw Point
	se Point
}

// NewRegion returns the Region with the given northwest and southeast
// corners.
func NewRegion(northWest, southEast Point) Region {
	return Region{nw: northWest, se: southEast}
}

// NorthWest returns r's northwest corner.
func (r Region) NorthWest() Point { return r.nw }

// NorthEast returns r's northeast corner.
func (r Region) NorthEast() Point { return Point{East: r.se.East, South: r.nw.South} }

// SouthEast returns r's southeast corner.
func (r Region) SouthEast() Point { return r.se }

// SouthWest returns r's southwest corner.
func (r Region) SouthWest() Point { return Point{East: r.nw.East, South: r.se.South} }

// A Grid is an evenly-spaced raster of scalar measurements with a
// geographic anchor. Grids are immutable once constructed, so
// concurrent reads need no locking.
type Grid interface {
	// Dim returns the pixel extent.
	Dim() (width, height int)
	// Resolution returns the geographic units spanned by one pixel
	// along each axis.
	Resolution() (eastRes, southRes float64)
	// Corner returns the grid's northwest origin.
	Corner() Point
	// Data returns the grid's width*height values, row-major from the
	// northwest corner.
	Data() ([]float64, error)
	// Subregion returns a new independent Grid restricted to the
	// pixel-aligned superset of region, using the same outward
	// rounding as AlignCrop so the result always fully covers region.
	Subregion(region Region) (Grid, error)
}

// GridParams returns the parameters needed to construct a grid with
// the same geometry as g.
func GridParams(g Grid) (width, height int, eastRes, southRes float64, corner Point) {
	width, height = g.Dim()
	eastRes, southRes = g.Resolution()
	return width, height, eastRes, southRes, g.Corner()
}
