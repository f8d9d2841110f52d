package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	geogrid "github.com/cartolab/go-geogrid"
)

func run() error {
	gridPath := flag.String("grid-path", os.Getenv("GEOGRID_PATH"), "path to a tiled float32 GeoTIFF")
	flag.Parse()

	if flag.NArg() != 4 {
		return errors.New("syntax: geogrid-example nwEast nwSouth seEast seSouth")
	}
	coords := make([]float64, 4)
	for i := range coords {
		var err error
		coords[i], err = strconv.ParseFloat(flag.Arg(i), 64)
		if err != nil {
			return err
		}
	}

	grid, err := geogrid.NewGeoTIFFGrid(os.DirFS(filepath.Dir(*gridPath)), filepath.Base(*gridPath))
	if err != nil {
		return err
	}
	defer grid.Close()

	covered := geogrid.CoveredRegion(grid)
	fmt.Printf("covered: nw=(%g, %g) se=(%g, %g)\n",
		covered.NorthWest().East, covered.NorthWest().South,
		covered.SouthEast().East, covered.SouthEast().South)

	region := geogrid.NewRegion(
		geogrid.Point{East: coords[0], South: coords[1]},
		geogrid.Point{East: coords[2], South: coords[3]},
	)
	alignment := geogrid.AlignCrop(region, grid)
	fmt.Printf("aligned: pixels (%d,%d)-(%d,%d), overruns top=%g bottom=%g left=%g right=%g\n",
		alignment.StartX, alignment.StartY, alignment.EndX, alignment.EndY,
		alignment.Overruns.Top, alignment.Overruns.Bottom,
		alignment.Overruns.Left, alignment.Overruns.Right)

	subregion, err := grid.Subregion(region)
	if err != nil {
		return err
	}
	normalized, err := geogrid.Normalize(subregion)
	if err != nil {
		return err
	}
	width, height := subregion.Dim()
	fmt.Printf("subregion: %dx%d pixels, %d normalized values\n", width, height, len(normalized))

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
