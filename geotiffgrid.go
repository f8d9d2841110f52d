package geogrid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sync"

	"github.com/google/tiff"
	_ "github.com/google/tiff/bigtiff"
	_ "github.com/google/tiff/geotiff"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/image/tiff/lzw"
)

const noDataBits = 0xff7fffff

var (
	errShortRead = errors.New("short read")
	noData       = math.Float32frombits(noDataBits)
)

var (
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geogrid_tile_cache_hits_total",
		Help: "The total number of hits on the decoded tile cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geogrid_tile_cache_misses_total",
		Help: "The total number of misses on the decoded tile cache",
	})
	tileCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geogrid_tile_cache_evictions_total",
		Help: "The total number of evictions from the decoded tile cache",
	})
)

// A tileCoord addresses one tile within a tiled GeoTIFF.
type tileCoord struct {
	c int // Column.
	r int // Row.
}

// A GeoTIFFGrid is a Grid lazily backed by a tiled float32
// LZW-compressed GeoTIFF file. Tiles are decoded on demand and kept in
// an LRU cache, so only the tiles a read touches are ever loaded. The
// GeoTIFF's north-up Y axis is negated into the south-positive axis
// convention. No-data samples surface as NaN.
type GeoTIFFGrid struct {
	file                      *os.File
	width                     int
	height                    int
	eastRes                   float64
	southRes                  float64
	corner                    Point
	tileWidth                 int
	tileLength                int
	tilesAcross               int
	tilesDown                 int
	tileOffsets               []uint64
	tileByteCounts            []uint64
	tileSampleCount           int
	tileByteCountUncompressed int
	tileCacheSizeBytes        int
	mutex                     sync.Mutex
	tileSamplesCache          *lru.Cache[tileCoord, []float32]
}

// A GeoTIFFGridOption sets an option on a GeoTIFFGrid.
type GeoTIFFGridOption func(*GeoTIFFGrid)

// WithTileCacheSize sets the approximate size in bytes of the decoded
// tile cache.
func WithTileCacheSize(tileCacheSizeBytes int) GeoTIFFGridOption {
	return func(g *GeoTIFFGrid) {
		g.tileCacheSizeBytes = tileCacheSizeBytes
	}
}

// A geoTIFFIFD is a struct into which github.com/google/tiff can
// unmarshal an IFD.
type geoTIFFIFD struct {
	ImageWidth                uint16    `tiff:"field,tag=256"`
	ImageLength               uint16    `tiff:"field,tag=257"`
	BitsPerSample             uint16    `tiff:"field,tag=258"`
	Compression               uint16    `tiff:"field,tag=259"`
	PhotometricInterpretation uint16    `tiff:"field,tag=262"`
	SamplesPerPixel           uint16    `tiff:"field,tag=277"`
	PlanarConfiguration       uint16    `tiff:"field,tag=284"`
	Predictor                 uint16    `tiff:"field,tag=317"`
	TileWidth                 uint16    `tiff:"field,tag=322"`
	TileLength                uint16    `tiff:"field,tag=323"`
	TileOffsets               []uint64  `tiff:"field,tag=324"`
	TileByteCounts            []uint64  `tiff:"field,tag=325"`
	SampleFormat              uint16    `tiff:"field,tag=339"`
	ModelPixelScaleTag        []float64 `tiff:"field,tag=33550"`
	ModelTiepointTag          []float64 `tiff:"field,tag=33922"`
	GeoKeyDirectoryTag        []uint16  `tiff:"field,tag=34735"`
	GDALNoData                string    `tiff:"field,tag=42113"`
}

// NewGeoTIFFGrid returns a new GeoTIFFGrid reading filename from fsys.
func NewGeoTIFFGrid(fsys fs.FS, filename string, options ...GeoTIFFGridOption) (*GeoTIFFGrid, error) {
	ok := false

	g := &GeoTIFFGrid{
		tileCacheSizeBytes: 128 << 20, // 128MB.
	}
	for _, option := range options {
		option(g)
	}

	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	osFile, isOSFile := file.(*os.File)
	if !isOSFile {
		return nil, errors.ErrUnsupported
	}
	g.file = osFile
	defer func() {
		if !ok {
			_ = g.file.Close()
		}
	}()

	tiffTIFF, err := tiff.Parse(g.file, tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return nil, err
	}

	if len(tiffTIFF.IFDs()) != 1 {
		return nil, fmt.Errorf("found %d IFDs, expected 1", len(tiffTIFF.IFDs()))
	}

	var ifd geoTIFFIFD
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &ifd); err != nil {
		return nil, err
	}

	if ifd.BitsPerSample != 32 ||
		ifd.Compression != 5 ||
		ifd.PhotometricInterpretation != 1 ||
		ifd.SamplesPerPixel != 1 ||
		ifd.PlanarConfiguration != 1 ||
		ifd.Predictor != 1 ||
		ifd.SampleFormat != 3 ||
		ifd.GDALNoData != "-3.4028234663852886e+038" {
		return nil, errors.ErrUnsupported
	}

	// Pixel values must represent areas anchored at the northwest
	// pixel corner, otherwise the grid's geometry would be off by half
	// a pixel.
	if len(ifd.GeoKeyDirectoryTag) > 0 {
		params, err := geoKeyParams(ifd.GeoKeyDirectoryTag)
		if err != nil {
			return nil, err
		}
		if rasterType, found := params[geoKeyGTRasterType]; found && rasterType != rasterTypePixelIsArea {
			return nil, errors.ErrUnsupported
		}
	}

	if len(ifd.ModelPixelScaleTag) != 3 || ifd.ModelPixelScaleTag[2] != 0 {
		return nil, errors.ErrUnsupported
	}
	if len(ifd.ModelTiepointTag) != 6 ||
		ifd.ModelTiepointTag[0] != 0 || ifd.ModelTiepointTag[1] != 0 || ifd.ModelTiepointTag[2] != 0 ||
		ifd.ModelTiepointTag[5] != 0 {
		return nil, errors.ErrUnsupported
	}

	g.width = int(ifd.ImageWidth)
	g.height = int(ifd.ImageLength)
	g.eastRes = ifd.ModelPixelScaleTag[0]
	g.southRes = ifd.ModelPixelScaleTag[1]
	// The tiepoint is the north-up upper left corner; flip its Y into
	// the south-positive axis.
	g.corner = Point{
		East:  ifd.ModelTiepointTag[3],
		South: -ifd.ModelTiepointTag[4],
	}
	if g.width < 1 || g.height < 1 {
		return nil, fmt.Errorf("%w: dimension %dx%d", ErrInvalidGrid, g.width, g.height)
	}
	if g.eastRes <= 0 || g.southRes <= 0 {
		return nil, fmt.Errorf("%w: resolution %gx%g", ErrInvalidGrid, g.eastRes, g.southRes)
	}

	g.tileWidth = int(ifd.TileWidth)
	g.tileLength = int(ifd.TileLength)
	if g.tileWidth < 1 || g.tileLength < 1 {
		return nil, errors.ErrUnsupported
	}
	g.tilesAcross = (g.width + g.tileWidth - 1) / g.tileWidth
	g.tilesDown = (g.height + g.tileLength - 1) / g.tileLength
	tilesPerImage := g.tilesAcross * g.tilesDown
	if len(ifd.TileByteCounts) != tilesPerImage || len(ifd.TileOffsets) != tilesPerImage {
		return nil, errors.New("incorrect number of tile byte counts or offsets")
	}
	g.tileOffsets = ifd.TileOffsets
	g.tileByteCounts = ifd.TileByteCounts
	g.tileSampleCount = g.tileWidth * g.tileLength
	g.tileByteCountUncompressed = g.tileSampleCount * int(ifd.BitsPerSample) / 8

	tileCacheCount := max(g.tileCacheSizeBytes/g.tileByteCountUncompressed, 1)
	g.tileSamplesCache, err = lru.NewWithEvict(tileCacheCount, func(tileCoord, []float32) {
		tileCacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}

	ok = true
	return g, nil
}

// Close closes g's underlying file.
func (g *GeoTIFFGrid) Close() error {
	return g.file.Close()
}

// Dim returns g's pixel extent.
func (g *GeoTIFFGrid) Dim() (int, int) { return g.width, g.height }

// Resolution returns g's per-axis resolution.
func (g *GeoTIFFGrid) Resolution() (float64, float64) { return g.eastRes, g.southRes }

// Corner returns g's northwest origin.
func (g *GeoTIFFGrid) Corner() Point { return g.corner }

// Data materialises g's full raster, row-major from the northwest
// corner. No-data samples are NaN.
func (g *GeoTIFFGrid) Data() ([]float64, error) {
	return g.readWindow(0, 0, g.width, g.height)
}

// Subregion reads the pixel-aligned superset of region into a new
// DenseGrid, touching only the tiles that cover the aligned window. It
// returns an error wrapping ErrRegionOutsideGrid when the aligned
// range is not fully inside g.
func (g *GeoTIFFGrid) Subregion(region Region) (Grid, error) {
	a := AlignCrop(region, g)
	if a.StartX < 0 || a.StartY < 0 || a.EndX >= g.width || a.EndY >= g.height {
		return nil, fmt.Errorf("%w: pixels (%d,%d)-(%d,%d) of %dx%d grid",
			ErrRegionOutsideGrid, a.StartX, a.StartY, a.EndX, a.EndY, g.width, g.height)
	}
	data, err := g.readWindow(a.StartX, a.StartY, a.Width(), a.Height())
	if err != nil {
		return nil, err
	}
	return NewDenseGrid(a.Width(), a.Height(), g.eastRes, g.southRes, Point{
		East:  g.corner.East + float64(a.StartX)*g.eastRes,
		South: g.corner.South + float64(a.StartY)*g.southRes,
	}, data)
}

// readWindow reads the width x height pixel window anchored at
// (startX, startY), populating it one tile at a time. The window must
// be inside g.
func (g *GeoTIFFGrid) readWindow(startX, startY, width, height int) ([]float64, error) {
	window := make([]float64, width*height)
	for tileR := startY / g.tileLength; tileR <= (startY+height-1)/g.tileLength; tileR++ {
		for tileC := startX / g.tileWidth; tileC <= (startX+width-1)/g.tileWidth; tileC++ {
			tileSamples, err := g.getTileSamplesCached(tileCoord{c: tileC, r: tileR})
			if err != nil {
				return nil, err
			}
			// Copy the intersection of the tile and the window.
			x0 := max(startX, tileC*g.tileWidth)
			x1 := min(startX+width, (tileC+1)*g.tileWidth)
			y0 := max(startY, tileR*g.tileLength)
			y1 := min(startY+height, (tileR+1)*g.tileLength)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sample := tileSamples[(x-tileC*g.tileWidth)+(y-tileR*g.tileLength)*g.tileWidth]
					if sample == noData {
						window[(x-startX)+(y-startY)*width] = math.NaN()
					} else {
						window[(x-startX)+(y-startY)*width] = float64(sample)
					}
				}
			}
		}
	}
	return window, nil
}

// getTileSamples reads, decompresses, and decodes the tile at coord.
func (g *GeoTIFFGrid) getTileSamples(coord tileCoord) ([]float32, error) {
	tileIndex := coord.c + g.tilesAcross*coord.r
	tileByteCount := g.tileByteCounts[tileIndex]
	tileOffset := g.tileOffsets[tileIndex]
	compressedData := make([]byte, tileByteCount)
	switch n, err := g.file.ReadAt(compressedData, int64(tileOffset)); {
	case err != nil:
		return nil, err
	case n != int(tileByteCount):
		return nil, errShortRead
	}

	tileData := make([]byte, g.tileByteCountUncompressed)
	r := lzw.NewReader(bytes.NewReader(compressedData), lzw.MSB, 8)
	for bytesRead := 0; bytesRead < g.tileByteCountUncompressed; {
		n, err := r.Read(tileData[bytesRead:])
		if err != nil {
			return nil, err
		}
		bytesRead += n
	}

	tileSamples := make([]float32, g.tileSampleCount)
	for i := range g.tileSampleCount {
		b := binary.LittleEndian.Uint32(tileData[i*4 : (i+1)*4])
		tileSamples[i] = math.Float32frombits(b)
	}
	return tileSamples, nil
}

// getTileSamplesCached returns the tile at coord using g's cache.
func (g *GeoTIFFGrid) getTileSamplesCached(coord tileCoord) ([]float32, error) {
	if tileSamples, found := g.tileSamplesCache.Get(coord); found {
		tileCacheHits.Inc()
		return tileSamples, nil
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if tileSamples, found := g.tileSamplesCache.Get(coord); found {
		tileCacheHits.Inc()
		return tileSamples, nil
	}

	tileCacheMisses.Inc()

	tileSamples, err := g.getTileSamples(coord)
	if err != nil {
		return nil, err
	}
	g.tileSamplesCache.Add(coord, tileSamples)
	return tileSamples, nil
}
