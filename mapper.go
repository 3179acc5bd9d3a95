package voyage

import "math"

// GeoIndexMapper is a bijection between grid indices and the geographic
// centers of the cells they name, for a fixed bounding box and dimensions.
//
// It is held as a value on NavigableGrid rather than exposed as free
// functions so that build-time and query-time geotransforms can never drift
// apart.
type GeoIndexMapper struct {
	bounds      BoundingBox
	rows, cols  int
	cellSizeLat float64
	cellSizeLon float64
}

// NewGeoIndexMapper builds a mapper for a bounding box divided into rows x
// cols cells.
func NewGeoIndexMapper(bounds BoundingBox, rows, cols int) GeoIndexMapper {
	return GeoIndexMapper{
		bounds:      bounds,
		rows:        rows,
		cols:        cols,
		cellSizeLat: (bounds.MaxLat - bounds.MinLat) / float64(rows),
		cellSizeLon: (bounds.MaxLon - bounds.MinLon) / float64(cols),
	}
}

// Bounds returns the mapper's bounding box.
func (m GeoIndexMapper) Bounds() BoundingBox { return m.bounds }

// Rows returns the number of grid rows.
func (m GeoIndexMapper) Rows() int { return m.rows }

// Cols returns the number of grid columns.
func (m GeoIndexMapper) Cols() int { return m.cols }

// CellSizeLat returns the cell height in degrees.
func (m GeoIndexMapper) CellSizeLat() float64 { return m.cellSizeLat }

// CellSizeLon returns the cell width in degrees.
func (m GeoIndexMapper) CellSizeLon() float64 { return m.cellSizeLon }

// GeoToGrid maps a geographic coordinate to the grid cell containing it.
// Inputs outside the mapper's bounds are clamped, not rejected.
func (m GeoIndexMapper) GeoToGrid(g GeoCoordinate) GridCoordinate {
	row := int(math.Floor((m.bounds.MaxLat - g.Latitude) / m.cellSizeLat))
	col := int(math.Floor((g.Longitude - m.bounds.MinLon) / m.cellSizeLon))
	return GridCoordinate{
		Row: clampInt(row, 0, m.rows-1),
		Col: clampInt(col, 0, m.cols-1),
	}
}

// GridToGeo returns the geographic center of a grid cell.
func (m GeoIndexMapper) GridToGeo(c GridCoordinate) GeoCoordinate {
	return GeoCoordinate{
		Latitude:  m.bounds.MaxLat - (float64(c.Row)+0.5)*m.cellSizeLat,
		Longitude: m.bounds.MinLon + (float64(c.Col)+0.5)*m.cellSizeLon,
	}
}

// InBounds reports whether c is a valid index into this mapper's grid.
func (m GeoIndexMapper) InBounds(c GridCoordinate) bool {
	return c.Row >= 0 && c.Row < m.rows && c.Col >= 0 && c.Col < m.cols
}
