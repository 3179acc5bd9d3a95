package voyage

import (
	"fmt"
	"log"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// CellType classifies a single grid cell.
type CellType int

// Cell classifications. UNKNOWN never survives a completed grid build.
const (
	Unknown CellType = iota
	Land
	Shallow
	Navigable
)

func (t CellType) String() string {
	switch t {
	case Land:
		return "LAND"
	case Shallow:
		return "SHALLOW"
	case Navigable:
		return "NAVIGABLE"
	default:
		return "UNKNOWN"
	}
}

// NavigableGrid is a dense rows x cols classification of a bounding box,
// built once per voyage and read-only afterward.
type NavigableGrid struct {
	mapper GeoIndexMapper
	cells  *sparse.DenseArrayInt
}

// Bounds returns the grid's bounding box.
func (g *NavigableGrid) Bounds() BoundingBox { return g.mapper.Bounds() }

// Rows returns the number of grid rows.
func (g *NavigableGrid) Rows() int { return g.mapper.Rows() }

// Cols returns the number of grid columns.
func (g *NavigableGrid) Cols() int { return g.mapper.Cols() }

// Mapper returns the grid's coordinate mapper.
func (g *NavigableGrid) Mapper() GeoIndexMapper { return g.mapper }

// At returns the classification of a cell. Out-of-bounds coordinates return
// Unknown.
func (g *NavigableGrid) At(c GridCoordinate) CellType {
	if !g.mapper.InBounds(c) {
		return Unknown
	}
	return CellType(g.cells.Get(c.Row, c.Col))
}

func (g *NavigableGrid) set(c GridCoordinate, t CellType) {
	g.cells.Set(int(t), c.Row, c.Col)
}

// IsNavigable reports whether c is in bounds and classified NAVIGABLE. The
// SHALLOW classification is retained for future use but is, today,
// non-navigable just like LAND.
func (g *NavigableGrid) IsNavigable(c GridCoordinate) bool {
	return g.At(c) == Navigable
}

// --- External collaborators ---

// BathymetryRaster is a clipped window of depth samples (meters, negative
// below sea level) plus the geotransform describing the window actually
// delivered. The delivered window may differ from the one requested (e.g.
// clamped to raster extent); callers must use Bounds/Rows/Cols, not the
// values they asked for.
type BathymetryRaster struct {
	Bounds     BoundingBox
	Rows, Cols int
	// Depth is row-major, length Rows*Cols, north-to-south / west-to-east,
	// matching NavigableGrid's own row/col orientation.
	Depth []float64
}

// BathymetryReader delivers a clipped depth raster for a bounding box. The
// concrete implementation (e.g. bathyio.Reader) is injected by the caller;
// the engine treats it as an opaque capability.
type BathymetryReader interface {
	ReadWindow(bounds BoundingBox) (*BathymetryRaster, error)
}

// LandPolygon is a land polygon given as one or more closed rings of
// GeoCoordinate vertices, as delivered by a CoastlineReader. Implementations are free
// to use whatever in-memory geometry representation they like internally;
// this is only the wire shape between collaborator and rasterizer.
type LandPolygon struct {
	Rings [][]GeoCoordinate
}

// CoastlineReader delivers land polygons clipped to a bounding box.
type CoastlineReader interface {
	ReadPolygons(bounds BoundingBox) ([]LandPolygon, error)
}

// PolygonRasterizer burns polygon interiors into a rows x cols bit mask
// matching the given mapper's geotransform, with "all-touched" semantics
// (boundary cells count as land).
type PolygonRasterizer interface {
	Rasterize(mapper GeoIndexMapper, polygons []LandPolygon) ([][]bool, error)
}

// --- Grid builder ---

const kmPerPixelLat = 0.4625 // 15 arc-seconds at Earth radius.

// GridBuilderConfig holds the inputs to BuildNavigableGrid beyond the
// waypoint list itself.
type GridBuilderConfig struct {
	TargetCellKm float64
	MarginCells  int
	Bathymetry   BathymetryReader
	Coastline    CoastlineReader
	Rasterizer   PolygonRasterizer
}

const maxGridDimension = 9000

// BuildNavigableGrid fuses a downsampled bathymetry block-average with a
// rasterized land mask into a NavigableGrid.
func BuildNavigableGrid(waypoints []GeoCoordinate, cfg GridBuilderConfig) (*NavigableGrid, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("%w: empty waypoint list", ErrGridBuildFailed)
	}

	baseROI := NewBoundingBox(waypoints)
	avgLat := (baseROI.MinLat + baseROI.MaxLat) / 2

	blockLat := int(math.Max(1, math.Round(cfg.TargetCellKm/kmPerPixelLat)))
	blockLon := int(math.Max(1, math.Round(cfg.TargetCellKm/(kmPerPixelLat*math.Cos(degToRad(avgLat))))))

	marginCells := cfg.MarginCells
	marginLat := float64(maxInt(blockLat, blockLon)*marginCells) * kmPerPixelLatDeg()
	marginLon := marginLat / math.Max(math.Cos(degToRad(avgLat)), 1e-6)

	expandedROI := baseROI.Expand(marginLat, marginLon)
	expandedROI = clampBounds(expandedROI)

	if cfg.Bathymetry == nil {
		return nil, fmt.Errorf("%w: no bathymetry reader configured", ErrBathymetryLoadFailed)
	}
	raster, err := cfg.Bathymetry.ReadWindow(expandedROI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBathymetryLoadFailed, err)
	}
	if raster == nil || raster.Rows == 0 || raster.Cols == 0 {
		return nil, fmt.Errorf("%w: empty bathymetry source", ErrGridBuildFailed)
	}

	// The grid is re-derived from the raster actually delivered, so it stays
	// pixel-aligned with the source.
	expandedROI = raster.Bounds

	rows := raster.Rows / blockLat
	cols := raster.Cols / blockLon
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: block size larger than source window", ErrGridBuildFailed)
	}
	if rows*blockLat > raster.Rows || cols*blockLon > raster.Cols {
		return nil, fmt.Errorf("%w: implied upsampling", ErrGridBuildFailed)
	}

	rows = minInt(rows, maxGridDimension)
	cols = minInt(cols, maxGridDimension)

	// Only whole blocks are averaged, so trim the bounds to the source pixels
	// those blocks cover (row 0 is north, col 0 is west).
	pixLat := (raster.Bounds.MaxLat - raster.Bounds.MinLat) / float64(raster.Rows)
	pixLon := (raster.Bounds.MaxLon - raster.Bounds.MinLon) / float64(raster.Cols)
	expandedROI.MinLat = expandedROI.MaxLat - float64(rows*blockLat)*pixLat
	expandedROI.MaxLon = expandedROI.MinLon + float64(cols*blockLon)*pixLon

	log.Println("Building navigable grid:", rows, "x", cols)

	depth := blockAverage(raster, rows, cols, blockLat, blockLon)

	mapper := NewGeoIndexMapper(expandedROI, rows, cols)
	grid := &NavigableGrid{mapper: mapper, cells: sparse.ZerosDenseInt(rows, cols)}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := depth[r*cols+c]
			grid.set(GridCoordinate{Row: r, Col: c}, classifyDepth(d))
		}
	}

	if cfg.Coastline == nil || cfg.Rasterizer == nil {
		return nil, fmt.Errorf("%w: no coastline reader/rasterizer configured", ErrCoastlineLoadFailed)
	}
	polygons, err := cfg.Coastline.ReadPolygons(expandedROI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoastlineLoadFailed, err)
	}
	mask, err := cfg.Rasterizer.Rasterize(mapper, polygons)
	if err != nil {
		return nil, fmt.Errorf("%w: rasterizer failure: %v", ErrGridBuildFailed, err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r < len(mask) && c < len(mask[r]) && mask[r][c] {
				grid.set(GridCoordinate{Row: r, Col: c}, Land)
			}
		}
	}

	return grid, nil
}

func classifyDepth(depth float64) CellType {
	switch {
	case depth >= 0:
		return Land
	case depth > -15:
		return Shallow
	default:
		return Navigable
	}
}

// blockAverage downsamples raster.Depth by averaging disjoint
// blockLat x blockLon source tiles into each output cell.
func blockAverage(raster *BathymetryRaster, rows, cols, blockLat, blockLon int) []float64 {
	out := make([]float64, rows*cols)
	block := make([]float64, 0, blockLat*blockLon)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			block = block[:0]
			for dr := 0; dr < blockLat; dr++ {
				srcRow := r*blockLat + dr
				if srcRow >= raster.Rows {
					continue
				}
				for dc := 0; dc < blockLon; dc++ {
					srcCol := c*blockLon + dc
					if srcCol >= raster.Cols {
						continue
					}
					block = append(block, raster.Depth[srcRow*raster.Cols+srcCol])
				}
			}
			if len(block) > 0 {
				out[r*cols+c] = stat.Mean(block, nil)
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// kmPerPixelLatDeg converts the 15-arc-second bathymetry pixel size to
// degrees of latitude, for computing the pixel margin in degrees.
func kmPerPixelLatDeg() float64 {
	return kmPerPixelLat / (earthRadiusKm * math.Pi / 180)
}

// clampBounds clamps a bounding box to valid lat/lon ranges.
func clampBounds(b BoundingBox) BoundingBox {
	return BoundingBox{
		MinLat: math.Max(b.MinLat, -90),
		MaxLat: math.Min(b.MaxLat, 90),
		MinLon: math.Max(b.MinLon, -180),
		MaxLon: math.Min(b.MaxLon, 180),
	}
}
