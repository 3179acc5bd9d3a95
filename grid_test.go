package voyage

import "testing"

func TestCellTypeString(t *testing.T) {
	cases := map[CellType]string{
		Land:         "LAND",
		Shallow:      "SHALLOW",
		Navigable:    "NAVIGABLE",
		Unknown:      "UNKNOWN",
		CellType(99): "UNKNOWN",
	}
	for ct, want := range cases {
		if got := ct.String(); got != want {
			t.Errorf("CellType(%d).String() = %q, want %q", ct, got, want)
		}
	}
}

func TestClassifyDepth(t *testing.T) {
	cases := []struct {
		depth float64
		want  CellType
	}{
		{depth: 5, want: Land},
		{depth: 0, want: Land},
		{depth: -5, want: Shallow},
		{depth: -14.9, want: Shallow},
		{depth: -15, want: Navigable},
		{depth: -2000, want: Navigable},
	}
	for _, c := range cases {
		if got := classifyDepth(c.depth); got != c.want {
			t.Errorf("classifyDepth(%v) = %v, want %v", c.depth, got, c.want)
		}
	}
}

// fakeBathymetry returns a uniform raster covering exactly the requested
// bounds, deep enough everywhere to classify Navigable.
type fakeBathymetry struct {
	rows, cols int
	depth      float64
}

func (f *fakeBathymetry) ReadWindow(bounds BoundingBox) (*BathymetryRaster, error) {
	depth := make([]float64, f.rows*f.cols)
	for i := range depth {
		depth[i] = f.depth
	}
	return &BathymetryRaster{Bounds: bounds, Rows: f.rows, Cols: f.cols, Depth: depth}, nil
}

type fakeCoastline struct{ polygons []LandPolygon }

func (f *fakeCoastline) ReadPolygons(bounds BoundingBox) ([]LandPolygon, error) {
	return f.polygons, nil
}

type fakeRasterizer struct{}

func (fakeRasterizer) Rasterize(mapper GeoIndexMapper, polygons []LandPolygon) ([][]bool, error) {
	mask := make([][]bool, mapper.Rows())
	for r := range mask {
		mask[r] = make([]bool, mapper.Cols())
	}
	return mask, nil
}

func TestBuildNavigableGridAllDeepNoLand(t *testing.T) {
	waypoints := []GeoCoordinate{
		{Latitude: 34, Longitude: 128},
		{Latitude: 35, Longitude: 129},
	}
	cfg := GridBuilderConfig{
		TargetCellKm: 5,
		MarginCells:  2,
		Bathymetry:   &fakeBathymetry{rows: 200, cols: 200, depth: -3000},
		Coastline:    &fakeCoastline{},
		Rasterizer:   fakeRasterizer{},
	}
	grid, err := BuildNavigableGrid(waypoints, cfg)
	if err != nil {
		t.Fatalf("BuildNavigableGrid failed: %v", err)
	}
	if grid.Rows() == 0 || grid.Cols() == 0 {
		t.Fatalf("expected non-empty grid, got %dx%d", grid.Rows(), grid.Cols())
	}
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			if !grid.IsNavigable(GridCoordinate{Row: r, Col: c}) {
				t.Fatalf("cell (%d,%d) expected navigable, got %v", r, c, grid.At(GridCoordinate{Row: r, Col: c}))
			}
		}
	}
}

func TestBuildNavigableGridEmptyWaypoints(t *testing.T) {
	_, err := BuildNavigableGrid(nil, GridBuilderConfig{})
	if err == nil {
		t.Fatal("expected error for empty waypoint list")
	}
}

func TestBuildNavigableGridMissingBathymetry(t *testing.T) {
	waypoints := []GeoCoordinate{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 1}}
	_, err := BuildNavigableGrid(waypoints, GridBuilderConfig{TargetCellKm: 5, MarginCells: 1})
	if err == nil {
		t.Fatal("expected error for missing bathymetry reader")
	}
}
