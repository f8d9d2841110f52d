package geogrid

// CoveredRegion returns the geographic region spanned by g: from its
// northwest corner to the point one full pixel extent further east and
// south.
func CoveredRegion(g Grid) Region {
	width, height := g.Dim()
	eastRes, southRes := g.Resolution()
	corner := g.Corner()
	return NewRegion(corner, Point{
		East:  corner.East + float64(width)*eastRes,
		South: corner.South + float64(height)*southRes,
	})
}
