package voyage

import "testing"

func TestGeoIndexMapperRoundTrip(t *testing.T) {
	bounds := BoundingBox{MinLat: 30, MaxLat: 40, MinLon: 120, MaxLon: 130}
	m := NewGeoIndexMapper(bounds, 10, 10)

	for _, g := range []GeoCoordinate{
		{Latitude: 35, Longitude: 125},
		{Latitude: 30.5, Longitude: 120.5},
		{Latitude: 39.9, Longitude: 129.9},
	} {
		c := m.GeoToGrid(g)
		if !m.InBounds(c) {
			t.Fatalf("GeoToGrid(%+v) = %+v out of bounds", g, c)
		}
		back := m.GridToGeo(c)
		if back.Latitude < bounds.MinLat || back.Latitude > bounds.MaxLat {
			t.Errorf("round-tripped latitude %v outside bounds", back.Latitude)
		}
		if back.Longitude < bounds.MinLon || back.Longitude > bounds.MaxLon {
			t.Errorf("round-tripped longitude %v outside bounds", back.Longitude)
		}
	}
}

func TestGeoIndexMapperClampsOutOfBounds(t *testing.T) {
	bounds := BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	m := NewGeoIndexMapper(bounds, 5, 5)

	c := m.GeoToGrid(GeoCoordinate{Latitude: 1000, Longitude: -1000})
	if c.Row != 0 || c.Col != 0 {
		t.Errorf("expected clamp to (0,0), got %+v", c)
	}

	c = m.GeoToGrid(GeoCoordinate{Latitude: -1000, Longitude: 1000})
	if c.Row != m.Rows()-1 || c.Col != m.Cols()-1 {
		t.Errorf("expected clamp to (rows-1,cols-1), got %+v", c)
	}
}

func TestGeoIndexMapperInBounds(t *testing.T) {
	bounds := BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	m := NewGeoIndexMapper(bounds, 5, 5)

	if !m.InBounds(GridCoordinate{Row: 0, Col: 0}) {
		t.Error("expected (0,0) in bounds")
	}
	if m.InBounds(GridCoordinate{Row: -1, Col: 0}) {
		t.Error("expected (-1,0) out of bounds")
	}
	if m.InBounds(GridCoordinate{Row: 5, Col: 0}) {
		t.Error("expected (rows,0) out of bounds")
	}
}
