package voyage

import "errors"

// Error kinds surfaced to callers of ShipRouter. These are not recovered
// locally; they propagate out of CalculateRoute as the cause of a failed
// VoyageResult.
var (
	// ErrNotInitialized is returned when routing is requested before the
	// grid sources have been loaded successfully.
	ErrNotInitialized = errors.New("voyage: router not initialized")

	// ErrTooFewWaypoints is returned when fewer than two waypoints are given.
	ErrTooFewWaypoints = errors.New("voyage: at least two waypoints are required")

	// ErrBathymetryLoadFailed is returned when the bathymetry collaborator
	// fails to deliver a depth grid for the requested window.
	ErrBathymetryLoadFailed = errors.New("voyage: bathymetry load failed")

	// ErrCoastlineLoadFailed is returned when the coastline collaborator
	// fails to deliver land polygons for the requested window.
	ErrCoastlineLoadFailed = errors.New("voyage: coastline load failed")

	// ErrGridBuildFailed is returned for any failure while fusing bathymetry
	// and coastline data into a NavigableGrid, including an implied
	// upsampling, an empty source window, or a rasterizer failure.
	ErrGridBuildFailed = errors.New("voyage: grid build failed")

	// ErrSnappingFailed is returned when at least one waypoint has no
	// navigable cell within its search radius.
	ErrSnappingFailed = errors.New("voyage: waypoint snapping failed")

	// ErrEndpointNotNavigable is returned when an A* start or goal cell is
	// out of bounds or not navigable, despite snapping.
	ErrEndpointNotNavigable = errors.New("voyage: endpoint is not navigable")

	// ErrPathNotFound is returned when the A* open set is exhausted without
	// reaching the goal.
	ErrPathNotFound = errors.New("voyage: no path found")

	// ErrShipDynamicsFailed wraps an error returned by the injected
	// ShipDynamics collaborator.
	ErrShipDynamicsFailed = errors.New("voyage: ship dynamics evaluation failed")

	// ErrTimeBeforeRange is returned by the weather interpolator when a
	// query time precedes the weather table's start time.
	ErrTimeBeforeRange = errors.New("voyage: query time precedes weather table start")
)
