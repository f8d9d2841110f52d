package geogrid

import "errors"

var errGeoKeys = errors.New("malformed geo key directory")

// Geo keys checked when opening a GeoTIFF-backed grid.
const (
	geoKeyGTModelType  uint16 = 1024
	geoKeyGTRasterType uint16 = 1025
)

// Raster space types for geoKeyGTRasterType.
const (
	rasterTypePixelIsArea  = 1
	rasterTypePixelIsPoint = 2
)

// geoKeyParams extracts the inline SHORT-valued keys from a GeoTIFF
// geo key directory. Keys whose values live in the double or ASCII
// params tags are skipped: grid validation only needs short values.
func geoKeyParams(directory []uint16) (map[uint16]int, error) {
	if len(directory) < 4 {
		return nil, errGeoKeys
	}
	if keyDirectoryVersion := directory[0]; keyDirectoryVersion != 1 {
		return nil, errGeoKeys
	}
	if keyRevision, minorRevision := directory[1], directory[2]; keyRevision != 1 || minorRevision > 1 {
		return nil, errGeoKeys
	}
	numberOfKeys := int(directory[3])
	if len(directory) != 4+4*numberOfKeys {
		return nil, errGeoKeys
	}

	params := make(map[uint16]int)
	for i := range numberOfKeys {
		entry := directory[4+4*i : 4+4*(i+1)]
		// TIFF tag location 0 means the value is stored inline in the
		// directory entry itself.
		if tiffTagLocation, numberOfValues := entry[1], entry[2]; tiffTagLocation != 0 || numberOfValues != 1 {
			continue
		}
		params[entry[0]] = int(entry[3])
	}
	return params, nil
}
