// Package bathyio reads a clipped bathymetry depth grid from a GEBCO-style
// NetCDF raster, implementing voyage.BathymetryReader. Depth windows are
// read with github.com/ctessum/cdf's strided Reader so only the requested
// window is loaded into memory.
package bathyio

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ctessum/cdf"

	"github.com/oceanrouting/voyage"
)

// Reader reads depth windows from a NetCDF bathymetry grid with 1-D "lat"
// and "lon" coordinate variables and a 2-D depth variable dimensioned
// (lat, lon).
type Reader struct {
	file *cdf.File
	lats []float64
	lons []float64

	depthVar string
	latsDesc bool // true if lats is stored north-to-south (descending)
}

// Open opens a NetCDF bathymetry file and reads its coordinate axes.
// GEBCO grids name their variables "lat", "lon", and "elevation"; pass the
// source's own names if they differ.
func Open(path, latVar, lonVar, depthVar string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bathyio: opening %s: %w", path, err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("bathyio: reading header of %s: %w", path, err)
	}

	lats, err := readAxis(cf, latVar)
	if err != nil {
		return nil, err
	}
	lons, err := readAxis(cf, lonVar)
	if err != nil {
		return nil, err
	}

	return &Reader{
		file:     cf,
		lats:     lats,
		lons:     lons,
		depthVar: depthVar,
		latsDesc: len(lats) > 1 && lats[0] > lats[len(lats)-1],
	}, nil
}

func readAxis(f *cdf.File, name string) ([]float64, error) {
	n := f.Header.Lengths(name)
	if len(n) != 1 {
		return nil, fmt.Errorf("bathyio: coordinate variable %q is not 1-D", name)
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(n[0])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("bathyio: reading %q: %w", name, err)
	}
	out, err := toFloat64s(buf)
	if err != nil {
		return nil, fmt.Errorf("bathyio: variable %q: %w", name, err)
	}
	return out, nil
}

// toFloat64s converts whatever numeric slice the NetCDF reader allocated
// (int16 for GEBCO elevation grids, float32/float64 for others) to a
// []float64.
func toFloat64s(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported variable type %T", buf)
	}
}

// ReadWindow implements voyage.BathymetryReader. It clips to the nearest
// enclosing pixel window and returns the depth values it actually read,
// which may cover a slightly larger area than requested.
func (r *Reader) ReadWindow(bounds voyage.BoundingBox) (*voyage.BathymetryRaster, error) {
	lonLo, lonHi := indexRange(r.lons, bounds.MinLon, bounds.MaxLon)
	var latLo, latHi int
	if r.latsDesc {
		revLo, revHi := indexRange(reverseCopy(r.lats), bounds.MinLat, bounds.MaxLat)
		n := len(r.lats)
		latLo, latHi = n-1-revHi, n-1-revLo
	} else {
		latLo, latHi = indexRange(r.lats, bounds.MinLat, bounds.MaxLat)
	}

	rows := latHi - latLo + 1
	cols := lonHi - lonLo + 1
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("bathyio: requested window does not overlap raster extent")
	}

	begin := []int{latLo, lonLo}
	end := []int{latLo + rows, lonLo + cols}
	rd := r.file.Reader(r.depthVar, begin, end)
	buf := rd.Zero(rows * cols)
	if _, err := rd.Read(buf); err != nil {
		return nil, fmt.Errorf("bathyio: reading depth window: %w", err)
	}
	vals, err := toFloat64s(buf)
	if err != nil {
		return nil, fmt.Errorf("bathyio: depth variable %q: %w", r.depthVar, err)
	}

	depth := make([]float64, rows*cols)
	// NetCDF sources are usually stored south-to-north; NavigableGrid's
	// raster wants north-to-south (row 0 = north), so reverse row order
	// unless the source is already north-to-south.
	for i := 0; i < rows; i++ {
		srcRow := i
		if !r.latsDesc {
			srcRow = rows - 1 - i
		}
		for j := 0; j < cols; j++ {
			depth[i*cols+j] = vals[srcRow*cols+j]
		}
	}

	actualBounds := voyage.BoundingBox{
		MinLat: math.Min(r.lats[latLo], r.lats[latHi]),
		MaxLat: math.Max(r.lats[latLo], r.lats[latHi]),
		MinLon: r.lons[lonLo],
		MaxLon: r.lons[lonHi],
	}

	return &voyage.BathymetryRaster{
		Bounds: actualBounds,
		Rows:   rows,
		Cols:   cols,
		Depth:  depth,
	}, nil
}

// indexRange returns the first/last index of a sorted ascending axis that
// overlaps [lo, hi], clamped to the axis extent.
func indexRange(axis []float64, lo, hi float64) (int, int) {
	i := sort.SearchFloat64s(axis, lo)
	if i > 0 {
		i--
	}
	j := sort.SearchFloat64s(axis, hi)
	if j >= len(axis) {
		j = len(axis) - 1
	}
	if i > j {
		i = j
	}
	return i, j
}

func reverseCopy(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
