package voyage

import (
	"fmt"
	"log"
)

// PathPointDetail is one point along a stitched route, with cumulative and
// instantaneous telemetry.
type PathPointDetail struct {
	Position             GeoCoordinate `json:"position"`
	CumulativeTimeHours  float64       `json:"cumulativeTimeHours"`
	CumulativeDistanceKm float64       `json:"cumulativeDistanceKm"`
	CumulativeFuelKg     float64       `json:"cumulativeFuelKg"`
	FuelRateKgPerH       float64       `json:"fuelRateKgPerH"`
	SpeedMps             float64       `json:"speedMps"`
	HeadingDeg           float64       `json:"headingDeg"`
	Weather              Weather       `json:"weather"`
}

// PathSummary aggregates a SinglePathResult's telemetry.
type PathSummary struct {
	TotalDistanceKm   float64 `json:"totalDistanceKm"`
	TotalTimeHours    float64 `json:"totalTimeHours"`
	TotalFuelKg       float64 `json:"totalFuelKg"`
	AvgSpeedMps       float64 `json:"avgSpeedMps"`
	AvgFuelRateKgPerH float64 `json:"avgFuelRateKgPerH"`
}

// SinglePathResult is one strategy's route between the full set of
// waypoints: the stitched path plus its telemetry.
type SinglePathResult struct {
	Summary     PathSummary       `json:"summary"`
	PathDetails []PathPointDetail `json:"pathDetails"`
}

// VoyageResult is the top-level output of CalculateRoute.
type VoyageResult struct {
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	Snapping     []SnappingInfo    `json:"snapping"`
	Shortest     *SinglePathResult `json:"shortest,omitempty"`
	Optimized    *SinglePathResult `json:"optimized,omitempty"`
}

// ShipRouter is the route orchestrator. It owns the external collaborators
// for the lifetime of the router; the navigable grid, weather tables, and
// voyage configuration are borrowed immutably by strategies and the A*
// engine for the duration of a single CalculateRoute call.
type ShipRouter struct {
	bathymetry BathymetryReader
	coastline  CoastlineReader
	rasterizer PolygonRasterizer
	weather    WeatherSet
	dynamics   ShipDynamics
}

// NewShipRouter builds a ShipRouter from its required collaborators. It
// returns ErrNotInitialized if any required collaborator is missing.
func NewShipRouter(bathymetry BathymetryReader, coastline CoastlineReader, rasterizer PolygonRasterizer, weather WeatherSet, dynamics ShipDynamics) (*ShipRouter, error) {
	if bathymetry == nil || coastline == nil || rasterizer == nil || dynamics == nil {
		return nil, fmt.Errorf("%w: a required collaborator was not provided", ErrNotInitialized)
	}
	return &ShipRouter{
		bathymetry: bathymetry,
		coastline:  coastline,
		rasterizer: rasterizer,
		weather:    weather,
		dynamics:   dynamics,
	}, nil
}

// CalculateRoute plans a voyage across the given waypoints. It is fully
// synchronous on the calling goroutine.
func (r *ShipRouter) CalculateRoute(waypoints []GeoCoordinate, cfg VoyageConfig) (*VoyageResult, error) {
	if len(waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}

	grid, err := BuildNavigableGrid(waypoints, GridBuilderConfig{
		TargetCellKm: cfg.GridCellSizeKm,
		MarginCells:  cfg.GridMarginCells,
		Bathymetry:   r.bathymetry,
		Coastline:    r.coastline,
		Rasterizer:   r.rasterizer,
	})
	if err != nil {
		return &VoyageResult{Success: false, ErrorMessage: err.Error()}, err
	}

	log.Println("Snapping waypoints")
	snapping := make([]SnappingInfo, len(waypoints))
	anyFailed := false
	for i, wp := range waypoints {
		snapping[i] = SnapWaypoint(grid, wp, cfg.MaxSnapRadiusKm)
		if snapping[i].Status == SnapFailed {
			anyFailed = true
		}
	}
	if anyFailed {
		return &VoyageResult{Success: false, ErrorMessage: ErrSnappingFailed.Error(), Snapping: snapping}, ErrSnappingFailed
	}

	cells := make([]GridCoordinate, len(waypoints))
	for i, s := range snapping {
		cells[i] = s.Cell
	}

	result := &VoyageResult{Success: true, Snapping: snapping}

	if cfg.CalculateShortest {
		log.Println("Searching shortest-distance route")
		sp, err := r.runStrategy(grid, cells, cfg, func(_, _ GridCoordinate) (Strategy, error) {
			return NewDistanceStrategy(grid.Mapper(), cfg), nil
		})
		if err != nil {
			result.Success = false
			result.ErrorMessage = err.Error()
			result.Shortest = sp
			return result, err
		}
		result.Shortest = sp
	}

	if cfg.CalculateOptimized {
		log.Println("Searching fuel-optimized route")
		sp, err := r.runStrategy(grid, cells, cfg, func(start, goal GridCoordinate) (Strategy, error) {
			return NewFuelStrategy(grid.Mapper(), r.weather, cfg, r.dynamics, start, goal)
		})
		if err != nil {
			result.Success = false
			result.ErrorMessage = err.Error()
			result.Optimized = sp
			return result, err
		}
		result.Optimized = sp
	}

	return result, nil
}

// runStrategy runs a strategy across every consecutive waypoint pair,
// stitches the per-segment paths, and integrates telemetry. newStrategy is
// called once per segment with that segment's endpoints, so strategies
// whose heuristic depends on the start and goal (the fuel strategy's
// minFuelRate) are initialized per segment rather than once for the whole
// voyage. On a segment failure, the segments computed so far are still
// returned alongside the error.
func (r *ShipRouter) runStrategy(grid *NavigableGrid, cells []GridCoordinate, cfg VoyageConfig, newStrategy func(start, goal GridCoordinate) (Strategy, error)) (*SinglePathResult, error) {
	var stitched []GridCoordinate
	for i := 0; i+1 < len(cells); i++ {
		strategy, err := newStrategy(cells[i], cells[i+1])
		if err != nil {
			partial := &SinglePathResult{}
			if len(stitched) > 0 {
				partial = r.integrateTelemetry(grid.Mapper(), stitched, cfg)
			}
			return partial, err
		}
		segResult, err := RunAStar(grid, cells[i], cells[i+1], strategy)
		if err != nil {
			partial := &SinglePathResult{}
			if len(stitched) > 0 {
				partial = r.integrateTelemetry(grid.Mapper(), stitched, cfg)
			}
			return partial, err
		}
		if len(stitched) == 0 {
			stitched = append(stitched, segResult.Path...)
		} else {
			// skip the first cell: it duplicates the previous segment's end.
			stitched = append(stitched, segResult.Path[1:]...)
		}
	}

	return r.integrateTelemetry(grid.Mapper(), stitched, cfg), nil
}

// integrateTelemetry walks a stitched path and accumulates distance, time,
// and fuel using the fuel model's per-edge rules, regardless of which
// strategy produced the path.
func (r *ShipRouter) integrateTelemetry(mapper GeoIndexMapper, path []GridCoordinate, cfg VoyageConfig) *SinglePathResult {
	model := NewFuelModel(mapper, r.weather, cfg, r.dynamics)

	details := make([]PathPointDetail, 0, len(path))
	if len(path) == 0 {
		return &SinglePathResult{PathDetails: details}
	}

	first := mapper.GridToGeo(path[0])
	details = append(details, PathPointDetail{Position: first})

	var cumDist, cumTime, cumFuel float64
	for i := 0; i+1 < len(path); i++ {
		t, err := model.EvaluateEdge(path[i], path[i+1], cumTime)
		if err != nil {
			// A telemetry-only evaluation failure degrades to zero-weather
			// values for this edge rather than aborting an otherwise
			// successful route; the path itself is already known valid.
			from, to := mapper.GridToGeo(path[i]), mapper.GridToGeo(path[i+1])
			d := GreatCircleDistanceKm(from, to)
			t = EdgeTelemetry{DistanceKm: d, DeltaTimeHours: d / (cfg.ShipSpeedMps * 3.6), HeadingDeg: InitialBearingDeg(from, to)}
			out, derr := r.dynamics.Evaluate(ShipInput{ShipSpeedMps: cfg.ShipSpeedMps, DraftM: cfg.DraftM, TrimM: cfg.TrimM, HeadingDeg: t.HeadingDeg})
			if derr == nil {
				t.FuelRateKgPerH = out.FuelRateKgPerHour
				t.FuelKg = out.FuelRateKgPerHour * t.DeltaTimeHours
			}
		}
		cumDist += t.DistanceKm
		cumTime += t.DeltaTimeHours
		cumFuel += t.FuelKg

		speed := cfg.ShipSpeedMps
		details = append(details, PathPointDetail{
			Position:             mapper.GridToGeo(path[i+1]),
			CumulativeTimeHours:  cumTime,
			CumulativeDistanceKm: cumDist,
			CumulativeFuelKg:     cumFuel,
			FuelRateKgPerH:       t.FuelRateKgPerH,
			SpeedMps:             speed,
			HeadingDeg:           t.HeadingDeg,
			Weather:              t.Weather,
		})
	}

	summary := PathSummary{
		TotalDistanceKm: cumDist,
		TotalTimeHours:  cumTime,
		TotalFuelKg:     cumFuel,
	}
	if cumTime > 0 {
		summary.AvgSpeedMps = (cumDist * 1000) / (cumTime * 3600)
		summary.AvgFuelRateKgPerH = cumFuel / cumTime
	}

	return &SinglePathResult{Summary: summary, PathDetails: details}
}
