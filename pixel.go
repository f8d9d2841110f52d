package geogrid

// A PixelCoord is a fractional, zero-indexed pixel coordinate within a
// grid. Either component may be negative: the pixel spanning [-1, 0)
// has index -1.
type PixelCoord struct {
	X float64
	Y float64
}

// PointToPixel maps p to its fractional pixel coordinate within g. No
// rounding is applied, so the result keeps full float64 precision and
// may lie outside the grid.
func PointToPixel(p Point, g Grid) PixelCoord {
	eastRes, southRes := g.Resolution()
	corner := g.Corner()
	return PixelCoord{
		X: (p.East - corner.East) / eastRes,
		Y: (p.South - corner.South) / southRes,
	}
}
