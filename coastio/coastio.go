// Package coastio reads coastline polygons from a GSHHS-style shapefile and
// rasterizes them onto a voyage grid, implementing voyage.CoastlineReader
// and voyage.PolygonRasterizer. Features are decoded with
// github.com/ctessum/geom/encoding/shp, reprojected to WGS84 with
// github.com/ctessum/geom/proj, and indexed in an
// github.com/ctessum/geom/index/rtree.Rtree for fast bounding-box queries.
package coastio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"

	"github.com/oceanrouting/voyage"
)

// wgs84 is the geographic coordinate system coastline shapefiles are
// reprojected into, matching the voyage package's GeoCoordinate convention.
const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

// landFeature is an rtree-indexable wrapper around a single shapefile
// polygon feature and the attribute fields loaded for it.
type landFeature struct {
	geom.Polygonal
	fields map[string]string
}

// Reader loads GSHHS-style land polygons from a shapefile and answers
// ReadPolygons queries against an in-memory r-tree index. An optional
// govaluate expression filters polygons by attribute, e.g. keeping only
// GSHHS "level 1" (mainland/island) boundaries and excluding lakes.
type Reader struct {
	tree       *rtree.Rtree
	filter     *govaluate.EvaluableExpression
	filterVars []string
}

// Open decodes path (a shapefile, excluding its .shp extension per
// github.com/ctessum/geom/encoding/shp's convention) and reprojects every
// feature to WGS84 lat/lon. filterExpr is a govaluate boolean expression
// over the shapefile's attribute fields (e.g. "level == 1"); pass "" to
// keep every polygon.
func Open(path string, filterExpr string) (*Reader, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("coastio: opening %s: %w", path, err)
	}
	defer dec.Close()

	srcSR, err := dec.SR()
	if err != nil {
		return nil, fmt.Errorf("coastio: reading spatial reference of %s: %w", path, err)
	}
	dstSR, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("coastio: parsing destination projection: %w", err)
	}
	trans, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, fmt.Errorf("coastio: building reprojection: %w", err)
	}

	var expr *govaluate.EvaluableExpression
	var vars []string
	if filterExpr != "" {
		expr, err = govaluate.NewEvaluableExpression(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("coastio: parsing filter expression %q: %w", filterExpr, err)
		}
		vars = expr.Vars()
	}

	tree := rtree.NewTree(25, 50)
	var names []string
	for _, f := range dec.Fields() {
		names = append(names, shpFieldName(f.Name))
	}

	for {
		g, fields, more := dec.DecodeRowFields(names...)
		if !more {
			break
		}
		if expr != nil && !matches(expr, vars, fields) {
			continue
		}
		gg, err := g.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("coastio: reprojecting feature: %w", err)
		}
		poly, ok := gg.(geom.Polygonal)
		if !ok {
			continue
		}
		tree.Insert(&landFeature{Polygonal: poly, fields: fields})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("coastio: decoding %s: %w", path, err)
	}

	return &Reader{tree: tree, filter: expr, filterVars: vars}, nil
}

func matches(expr *govaluate.EvaluableExpression, vars []string, fields map[string]string) bool {
	params := make(map[string]interface{}, len(vars))
	for _, v := range vars {
		raw, ok := fields[v]
		if !ok {
			continue
		}
		if f, err := parseFloat(raw); err == nil {
			params[v] = f
		} else {
			params[v] = raw
		}
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func parseFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}

// shpFieldName trims the null-padded fixed-width dbase field name that
// github.com/jonas-p/go-shp exposes via Field.Name into a plain string.
func shpFieldName(name [11]byte) string {
	b := bytes.Trim(name[:], "\x00")
	if n := bytes.IndexByte(b, 0); n != -1 {
		b = b[:n]
	}
	return strings.TrimSpace(string(b))
}

// ReadPolygons implements voyage.CoastlineReader. It returns every indexed
// land polygon that overlaps bounds, converted to voyage.LandPolygon.
func (r *Reader) ReadPolygons(bounds voyage.BoundingBox) ([]voyage.LandPolygon, error) {
	b := &geom.Bounds{
		Min: geom.Point{X: bounds.MinLon, Y: bounds.MinLat},
		Max: geom.Point{X: bounds.MaxLon, Y: bounds.MaxLat},
	}
	hits := r.tree.SearchIntersect(b)

	out := make([]voyage.LandPolygon, 0, len(hits))
	for _, h := range hits {
		lf, ok := h.(*landFeature)
		if !ok {
			continue
		}
		for _, poly := range lf.Polygons() {
			var rings [][]voyage.GeoCoordinate
			for _, path := range poly {
				var ring []voyage.GeoCoordinate
				for _, pt := range path {
					ring = append(ring, voyage.GeoCoordinate{Latitude: pt.Y, Longitude: pt.X})
				}
				rings = append(rings, ring)
			}
			out = append(out, voyage.LandPolygon{Rings: rings})
		}
	}
	return out, nil
}

// Rasterizer implements voyage.PolygonRasterizer using a point-in-polygon
// test (github.com/ctessum/geom's Within) evaluated at every grid cell
// center, with "all-touched" semantics: a cell counts as land if its center,
// or any of its four corners, falls inside or on the edge of a polygon.
type Rasterizer struct{}

// Rasterize implements voyage.PolygonRasterizer.
func (Rasterizer) Rasterize(mapper voyage.GeoIndexMapper, polygons []voyage.LandPolygon) ([][]bool, error) {
	rows, cols := mapper.Rows(), mapper.Cols()
	mask := make([][]bool, rows)
	for i := range mask {
		mask[i] = make([]bool, cols)
	}
	if len(polygons) == 0 {
		return mask, nil
	}

	tree := rtree.NewTree(25, 50)
	for _, lp := range polygons {
		poly, err := toGeomPolygon(lp)
		if err != nil {
			continue
		}
		tree.Insert(polyBounds{Polygonal: poly})
	}

	halfLat := mapper.CellSizeLat() / 2
	halfLon := mapper.CellSizeLon() / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := mapper.GridToGeo(voyage.GridCoordinate{Row: row, Col: col})
			corners := [5]voyage.GeoCoordinate{
				center,
				{Latitude: center.Latitude - halfLat, Longitude: center.Longitude - halfLon},
				{Latitude: center.Latitude - halfLat, Longitude: center.Longitude + halfLon},
				{Latitude: center.Latitude + halfLat, Longitude: center.Longitude - halfLon},
				{Latitude: center.Latitude + halfLat, Longitude: center.Longitude + halfLon},
			}

			b := &geom.Bounds{
				Min: geom.Point{X: center.Longitude - halfLon, Y: center.Latitude - halfLat},
				Max: geom.Point{X: center.Longitude + halfLon, Y: center.Latitude + halfLat},
			}
			hits := tree.SearchIntersect(b)
			if len(hits) == 0 {
				continue
			}

			for _, c := range corners {
				pt := geom.Point{X: c.Longitude, Y: c.Latitude}
				for _, h := range hits {
					pb := h.(polyBounds)
					if pt.Within(pb.Polygonal) != geom.Outside {
						mask[row][col] = true
						break
					}
				}
				if mask[row][col] {
					break
				}
			}
		}
	}
	return mask, nil
}

type polyBounds struct {
	geom.Polygonal
}

func toGeomPolygon(lp voyage.LandPolygon) (geom.Polygon, error) {
	var poly geom.Polygon
	for _, ring := range lp.Rings {
		var gring []geom.Point
		for _, c := range ring {
			gring = append(gring, geom.Point{X: c.Longitude, Y: c.Latitude})
		}
		poly = append(poly, gring)
	}
	if len(poly) == 0 {
		return nil, fmt.Errorf("coastio: polygon has no rings")
	}
	return poly, nil
}
