package geogrid

import "math"

// Overruns are the fractional pixel distances by which an
// outward-aligned crop boundary exceeds the requested boundary, one
// per side, each in [0, 1). An overrun is exactly 0 only when the
// corresponding geographic boundary falls on a pixel boundary.
type Overruns struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// A CropAlignment is an inclusive pixel-aligned index range covering a
// requested region, together with the per-side overruns. Indexes may
// be negative or exceed the grid's extent when the requested region is
// not fully inside the grid; callers that need in-bounds offsets must
// check them against the grid's Dim themselves.
type CropAlignment struct {
	StartX   int
	StartY   int
	EndX     int
	EndY     int
	Overruns Overruns
}

// Width returns the pixel width of the aligned range.
func (a CropAlignment) Width() int { return a.EndX - a.StartX + 1 }

// Height returns the pixel height of the aligned range.
func (a CropAlignment) Height() int { return a.EndY - a.StartY + 1 }

// AlignCrop aligns region to g's pixel boundaries, rounding outward so
// that the inclusive range [StartX..EndX] x [StartY..EndY] always
// fully covers region's fractional pixel footprint. The aligned range
// is never smaller than region and never exceeds it by a full pixel on
// any side.
func AlignCrop(region Region, g Grid) CropAlignment {
	nwPix := PointToPixel(region.NorthWest(), g)
	startX := int(math.Floor(nwPix.X))
	startY := int(math.Floor(nwPix.Y))

	sePix := PointToPixel(region.SouthEast(), g)
	// The inclusive end index is the smallest integer i with
	// i+1 >= sePix.
	endX := int(math.Ceil(sePix.X - 1))
	endY := int(math.Ceil(sePix.Y - 1))

	return CropAlignment{
		StartX: startX,
		StartY: startY,
		EndX:   endX,
		EndY:   endY,
		Overruns: Overruns{
			Top:    nwPix.Y - float64(startY),
			Bottom: float64(endY+1) - sePix.Y,
			Left:   nwPix.X - float64(startX),
			Right:  float64(endX+1) - sePix.X,
		},
	}
}
