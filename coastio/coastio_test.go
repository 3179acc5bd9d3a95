package coastio

import (
	"testing"

	"github.com/oceanrouting/voyage"
)

func TestShpFieldName(t *testing.T) {
	cases := []struct {
		name [11]byte
		want string
	}{
		{name: toFixed11("LEVEL"), want: "LEVEL"},
		{name: toFixed11("ID"), want: "ID"},
		{name: toFixed11(""), want: ""},
	}
	for _, c := range cases {
		if got := shpFieldName(c.name); got != c.want {
			t.Errorf("shpFieldName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func toFixed11(s string) [11]byte {
	var out [11]byte
	copy(out[:], s)
	return out
}

func TestParseFloat(t *testing.T) {
	if f, err := parseFloat("3.14"); err != nil || f != 3.14 {
		t.Errorf("parseFloat(3.14) = (%v, %v)", f, err)
	}
	if _, err := parseFloat("not-a-number"); err == nil {
		t.Error("expected an error parsing a non-numeric string")
	}
}

func TestToGeomPolygonRequiresRings(t *testing.T) {
	_, err := toGeomPolygon(voyage.LandPolygon{})
	if err == nil {
		t.Error("expected an error converting a polygon with no rings")
	}
}

// squareLand is a 1x1 degree square of land centered on (0, 0).
func squareLand() voyage.LandPolygon {
	return voyage.LandPolygon{
		Rings: [][]voyage.GeoCoordinate{{
			{Latitude: -0.5, Longitude: -0.5},
			{Latitude: -0.5, Longitude: 0.5},
			{Latitude: 0.5, Longitude: 0.5},
			{Latitude: 0.5, Longitude: -0.5},
			{Latitude: -0.5, Longitude: -0.5},
		}},
	}
}

func TestRasterizeMarksCellsInsidePolygon(t *testing.T) {
	bounds := voyage.BoundingBox{MinLat: -2, MaxLat: 2, MinLon: -2, MaxLon: 2}
	mapper := voyage.NewGeoIndexMapper(bounds, 8, 8)

	mask, err := Rasterizer{}.Rasterize(mapper, []voyage.LandPolygon{squareLand()})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	center := mapper.GeoToGrid(voyage.GeoCoordinate{Latitude: 0, Longitude: 0})
	if !mask[center.Row][center.Col] {
		t.Errorf("expected the cell at the polygon's center to be marked land")
	}

	corner := mapper.GeoToGrid(voyage.GeoCoordinate{Latitude: 1.9, Longitude: 1.9})
	if mask[corner.Row][corner.Col] {
		t.Errorf("expected a far corner cell to remain unmarked")
	}
}

func TestRasterizeNoPolygonsYieldsAllFalse(t *testing.T) {
	bounds := voyage.BoundingBox{MinLat: -2, MaxLat: 2, MinLon: -2, MaxLon: 2}
	mapper := voyage.NewGeoIndexMapper(bounds, 4, 4)

	mask, err := Rasterizer{}.Rasterize(mapper, nil)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	for r := range mask {
		for c := range mask[r] {
			if mask[r][c] {
				t.Fatalf("expected no land with zero input polygons, cell (%d,%d) was marked", r, c)
			}
		}
	}
}
