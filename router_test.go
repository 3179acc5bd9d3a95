package voyage

import "testing"

// openOceanBathymetry returns a uniform deep-water raster, letting
// BuildNavigableGrid produce an all-navigable grid once downsampled.
func openOceanBathymetry(rows, cols int) *fakeBathymetry {
	return &fakeBathymetry{rows: rows, cols: cols, depth: -3000}
}

func TestCalculateRouteEndToEndOpenOcean(t *testing.T) {
	router, err := NewShipRouter(
		openOceanBathymetry(400, 400),
		&fakeCoastline{},
		fakeRasterizer{},
		WeatherSet{},
		&fakeShipDynamics{baseRateKgPerH: 500},
	)
	if err != nil {
		t.Fatalf("NewShipRouter failed: %v", err)
	}

	waypoints := []GeoCoordinate{
		{Latitude: 34.0, Longitude: 128.0},
		{Latitude: 35.0, Longitude: 129.0},
	}
	cfg := DefaultVoyageConfig()
	cfg.GridCellSizeKm = 10
	cfg.GridMarginCells = 3

	result, err := router.CalculateRoute(waypoints, cfg)
	if err != nil {
		t.Fatalf("CalculateRoute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if result.Shortest == nil || len(result.Shortest.PathDetails) < 2 {
		t.Fatalf("expected a non-trivial shortest path, got %+v", result.Shortest)
	}
	if result.Optimized == nil || len(result.Optimized.PathDetails) < 2 {
		t.Fatalf("expected a non-trivial optimized path, got %+v", result.Optimized)
	}
	if result.Shortest.Summary.TotalDistanceKm <= 0 {
		t.Errorf("expected positive total distance, got %v", result.Shortest.Summary.TotalDistanceKm)
	}
	for _, s := range result.Snapping {
		if s.Status == SnapFailed {
			t.Errorf("unexpected snap failure: %+v", s)
		}
	}
}

func TestCalculateRouteThreeWaypointsStitchesSegments(t *testing.T) {
	router, err := NewShipRouter(
		openOceanBathymetry(400, 400),
		&fakeCoastline{},
		fakeRasterizer{},
		WeatherSet{},
		&fakeShipDynamics{baseRateKgPerH: 200},
	)
	if err != nil {
		t.Fatalf("NewShipRouter failed: %v", err)
	}

	waypoints := []GeoCoordinate{
		{Latitude: 34.0, Longitude: 128.0},
		{Latitude: 34.5, Longitude: 128.5},
		{Latitude: 35.0, Longitude: 129.0},
	}
	cfg := DefaultVoyageConfig()
	cfg.GridCellSizeKm = 10
	cfg.GridMarginCells = 3

	result, err := router.CalculateRoute(waypoints, cfg)
	if err != nil {
		t.Fatalf("CalculateRoute failed: %v", err)
	}
	for name, sp := range map[string]*SinglePathResult{
		"shortest":  result.Shortest,
		"optimized": result.Optimized,
	} {
		if sp == nil {
			t.Fatalf("%s: expected a path result", name)
		}
		details := sp.PathDetails
		if len(details) < 3 {
			t.Fatalf("%s: expected a stitched multi-segment path, got %d points", name, len(details))
		}
		for i := 0; i+1 < len(details); i++ {
			if details[i].Position == details[i+1].Position {
				t.Errorf("%s: duplicate consecutive position at %d: %+v", name, i, details[i].Position)
			}
			if details[i+1].CumulativeDistanceKm < details[i].CumulativeDistanceKm {
				t.Errorf("%s: cumulative distance decreased at %d", name, i+1)
			}
		}
		if sp.Summary.TotalFuelKg <= 0 {
			t.Errorf("%s: expected positive total fuel, got %v", name, sp.Summary.TotalFuelKg)
		}
	}
}

func TestCalculateRouteTooFewWaypoints(t *testing.T) {
	router, err := NewShipRouter(openOceanBathymetry(50, 50), &fakeCoastline{}, fakeRasterizer{}, WeatherSet{}, &fakeShipDynamics{baseRateKgPerH: 1})
	if err != nil {
		t.Fatalf("NewShipRouter failed: %v", err)
	}
	_, err = router.CalculateRoute([]GeoCoordinate{{Latitude: 0, Longitude: 0}}, DefaultVoyageConfig())
	if err != ErrTooFewWaypoints {
		t.Fatalf("expected ErrTooFewWaypoints, got %v", err)
	}
}

func TestNewShipRouterRequiresCollaborators(t *testing.T) {
	_, err := NewShipRouter(nil, &fakeCoastline{}, fakeRasterizer{}, WeatherSet{}, &fakeShipDynamics{})
	if err == nil {
		t.Fatal("expected error when bathymetry collaborator is nil")
	}
}

func TestCalculateRouteZeroRadiusAlreadyNavigable(t *testing.T) {
	router, err := NewShipRouter(openOceanBathymetry(200, 200), &fakeCoastline{}, fakeRasterizer{}, WeatherSet{}, &fakeShipDynamics{baseRateKgPerH: 100})
	if err != nil {
		t.Fatalf("NewShipRouter failed: %v", err)
	}
	waypoints := []GeoCoordinate{
		{Latitude: 34.0, Longitude: 128.0},
		{Latitude: 34.01, Longitude: 128.01},
	}
	cfg := DefaultVoyageConfig()
	cfg.MaxSnapRadiusKm = 0
	cfg.GridCellSizeKm = 5
	cfg.GridMarginCells = 2

	result, err := router.CalculateRoute(waypoints, cfg)
	// With an all-navigable grid, waypoints should already be navigable and
	// snapping should succeed regardless of radius; this exercises the
	// AlreadyNavigable branch end-to-end rather than SnapFailed.
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range result.Snapping {
		if s.Status != AlreadyNavigable {
			t.Errorf("expected AlreadyNavigable on an all-deep grid, got %v", s.Status)
		}
	}
}
