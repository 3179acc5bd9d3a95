package voyage

import (
	"context"
	"fmt"
	"math"

	"github.com/ctessum/requestcache"
)

// noParent is the sentinel parent coordinate for a search root; a node
// with no parent always passes the turn-angle check.
var noParent = GridCoordinate{Row: -1, Col: -1}

// ShipInput is the environment and ship state passed to a ShipDynamics
// collaborator for a single edge evaluation.
type ShipInput struct {
	ShipSpeedMps float64
	DraftM       float64
	TrimM        float64
	HeadingDeg   float64
	Weather      Weather
}

// ShipOutput is the result of a ShipDynamics evaluation.
type ShipOutput struct {
	FuelRateKgPerHour float64
}

// ShipDynamics computes fuel rate in kg/h given ship and environment
// inputs. Implementations may be backed by a loaded native library and are
// not required to be safe for concurrent use; callers must serialize calls
// unless the implementation declares otherwise.
type ShipDynamics interface {
	Evaluate(ShipInput) (ShipOutput, error)
}

// Strategy is the capability set the A* engine needs from a cost model.
type Strategy interface {
	EdgeCost(from, to GridCoordinate, accumulatedTimeHours float64) (cost, deltaTimeHours float64, err error)
	Heuristic(current, goal GridCoordinate) float64
	IsValidTransition(parent, current, neighbor GridCoordinate) bool
}

// isValidAngleTransition implements the shared angle-limit check used by
// both strategies. current is the node being expanded; parent is its
// parent (or noParent if current is the search root); neighbor is the
// candidate next cell.
func isValidAngleTransition(parent, current, neighbor GridCoordinate, maxAngleDegrees float64) bool {
	if parent == noParent {
		return true
	}
	dxPrev := float64(current.Col - parent.Col)
	dyPrev := float64(current.Row - parent.Row)
	dxCurr := float64(neighbor.Col - current.Col)
	dyCurr := float64(neighbor.Row - current.Row)

	magPrev := math.Hypot(dxPrev, dyPrev)
	magCurr := math.Hypot(dxCurr, dyCurr)
	if magPrev == 0 || magCurr == 0 {
		return true
	}
	dot := dxPrev*dxCurr + dyPrev*dyCurr
	cosAngle := dot / (magPrev * magCurr)
	cosAngle = math.Min(1, math.Max(-1, cosAngle))
	angle := radToDeg(math.Acos(cosAngle))
	return angle <= maxAngleDegrees
}

// --- Distance strategy ---

// DistanceStrategy costs edges by great-circle distance between cell
// centers.
type DistanceStrategy struct {
	mapper          GeoIndexMapper
	shipSpeedMps    float64
	maxAngleDegrees float64
}

// NewDistanceStrategy builds a DistanceStrategy over the given grid mapper
// and voyage configuration.
func NewDistanceStrategy(mapper GeoIndexMapper, cfg VoyageConfig) *DistanceStrategy {
	return &DistanceStrategy{
		mapper:          mapper,
		shipSpeedMps:    cfg.ShipSpeedMps,
		maxAngleDegrees: cfg.MaxAngleDegrees,
	}
}

// EdgeCost returns the great-circle distance in km between the centers of
// from and to, plus the time in hours to traverse it at ShipSpeedMps.
func (s *DistanceStrategy) EdgeCost(from, to GridCoordinate, _ float64) (float64, float64, error) {
	d := greatCircleDistanceKm(s.mapper.GridToGeo(from), s.mapper.GridToGeo(to))
	deltaTimeHours := d / (s.shipSpeedMps * 3.6)
	return d, deltaTimeHours, nil
}

// Heuristic returns the great-circle distance to goal, which is admissible
// and consistent.
func (s *DistanceStrategy) Heuristic(current, goal GridCoordinate) float64 {
	return greatCircleDistanceKm(s.mapper.GridToGeo(current), s.mapper.GridToGeo(goal))
}

// IsValidTransition applies the shared turn-angle limit.
func (s *DistanceStrategy) IsValidTransition(parent, current, neighbor GridCoordinate) bool {
	return isValidAngleTransition(parent, current, neighbor, s.maxAngleDegrees)
}

// --- Fuel strategy ---

// FuelStrategy costs edges by the fuel (kg) a ship-dynamics model predicts
// burning across them, accounting for time-varying wind, wave, and current.
type FuelStrategy struct {
	mapper          GeoIndexMapper
	weather         WeatherSet
	voyageCfg       VoyageConfig
	dynamics        ShipDynamics
	cache           *requestcache.Cache
	maxAngleDegrees float64

	goal        GridCoordinate
	minFuelRate float64 // kg/h, zero-weather rate at the search's start point
}

// NewFuelStrategy builds a FuelStrategy for a single A* search from start to
// goal. The heuristic's minFuelRate is computed once here, at construction,
// from the zero-weather ship-dynamics rate at the start point heading
// toward goal: an empirical lower bound that is not provably admissible
// under adverse weather, but is used for pruning regardless.
//
// ShipDynamics calls are routed through a single-worker requestcache.Cache
// so that concurrent callers of EdgeCost never invoke a (potentially
// non-reentrant) collaborator at the same time.
func NewFuelStrategy(mapper GeoIndexMapper, weather WeatherSet, cfg VoyageConfig, dynamics ShipDynamics, start, goal GridCoordinate) (*FuelStrategy, error) {
	cache := requestcache.NewCache(shipDynamicsProcessor(dynamics), 1, requestcache.Memory(1024))

	s := &FuelStrategy{
		mapper:          mapper,
		weather:         weather,
		voyageCfg:       cfg,
		dynamics:        dynamics,
		cache:           cache,
		maxAngleDegrees: cfg.MaxAngleDegrees,
		goal:            goal,
	}

	startGeo := mapper.GridToGeo(start)
	goalGeo := mapper.GridToGeo(goal)
	heading := initialBearingDeg(startGeo, goalGeo)
	out, err := s.evaluate(ShipInput{
		ShipSpeedMps: cfg.ShipSpeedMps,
		DraftM:       cfg.DraftM,
		TrimM:        cfg.TrimM,
		HeadingDeg:   heading,
		Weather:      Weather{},
	}, "heuristic-start")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShipDynamicsFailed, err)
	}
	s.minFuelRate = out.FuelRateKgPerHour

	return s, nil
}

// NewFuelModel builds a FuelStrategy for edge/telemetry evaluation only,
// skipping the heuristic-specific minFuelRate computation NewFuelStrategy
// performs. Used by the route orchestrator to integrate fuel telemetry
// along a stitched path that may have been found by either strategy.
func NewFuelModel(mapper GeoIndexMapper, weather WeatherSet, cfg VoyageConfig, dynamics ShipDynamics) *FuelStrategy {
	return &FuelStrategy{
		mapper:          mapper,
		weather:         weather,
		voyageCfg:       cfg,
		dynamics:        dynamics,
		cache:           requestcache.NewCache(shipDynamicsProcessor(dynamics), 1, requestcache.Memory(1024)),
		maxAngleDegrees: cfg.MaxAngleDegrees,
	}
}

// EdgeTelemetry is the full result of evaluating a single grid edge under
// the fuel model: distance, timing, fuel, heading, and the weather snapshot
// used to derive them. EdgeCost uses only DistanceKm/DeltaTimeHours/FuelKg;
// the route orchestrator's telemetry integration uses the rest to populate
// PathPointDetail.
type EdgeTelemetry struct {
	DistanceKm     float64
	DeltaTimeHours float64
	FuelKg         float64
	FuelRateKgPerH float64
	HeadingDeg     float64
	Weather        Weather
}

// EvaluateEdge runs the full fuel calculation for a single grid edge. It
// is shared by EdgeCost (the A* engine's view) and the route
// orchestrator's telemetry integration, which needs the same per-edge
// weather/heading/fuel-rate breakdown for every stitched path segment,
// including ones found by the distance strategy.
func (s *FuelStrategy) EvaluateEdge(from, to GridCoordinate, accumulatedTimeHours float64) (EdgeTelemetry, error) {
	fromGeo := s.mapper.GridToGeo(from)
	toGeo := s.mapper.GridToGeo(to)
	return s.EvaluateEdgeGeo(fromGeo, toGeo, accumulatedTimeHours)
}

// EvaluateEdgeGeo is EvaluateEdge's geographic-coordinate form, used when
// the endpoints are not (or need not be) grid cells.
func (s *FuelStrategy) EvaluateEdgeGeo(fromGeo, toGeo GeoCoordinate, accumulatedTimeHours float64) (EdgeTelemetry, error) {
	d := greatCircleDistanceKm(fromGeo, toGeo)
	deltaTimeHours := d / (s.voyageCfg.ShipSpeedMps * 3.6)

	mid := midpoint(fromGeo, toGeo)
	heading := initialBearingDeg(fromGeo, toGeo)
	midTimeUnix := s.voyageCfg.StartTimeUnix + int64(math.Round((accumulatedTimeHours+deltaTimeHours/2)*3600))

	w, err := LookupWeather(s.weather, midTimeUnix, mid.Latitude, mid.Longitude)
	if err != nil {
		return EdgeTelemetry{}, err
	}

	out, err := s.evaluate(ShipInput{
		ShipSpeedMps: s.voyageCfg.ShipSpeedMps,
		DraftM:       s.voyageCfg.DraftM,
		TrimM:        s.voyageCfg.TrimM,
		HeadingDeg:   heading,
		Weather:      w,
	}, fmt.Sprintf("edge:%.5f,%.5f,%.1f,%d", mid.Latitude, mid.Longitude, heading, midTimeUnix))
	if err != nil {
		return EdgeTelemetry{}, fmt.Errorf("%w: %v", ErrShipDynamicsFailed, err)
	}

	return EdgeTelemetry{
		DistanceKm:     d,
		DeltaTimeHours: deltaTimeHours,
		FuelKg:         out.FuelRateKgPerHour * deltaTimeHours,
		FuelRateKgPerH: out.FuelRateKgPerHour,
		HeadingDeg:     heading,
		Weather:        w,
	}, nil
}

// EdgeCost returns the fuel in kg burned crossing the edge, and the
// crossing time in hours.
func (s *FuelStrategy) EdgeCost(from, to GridCoordinate, accumulatedTimeHours float64) (float64, float64, error) {
	t, err := s.EvaluateEdge(from, to, accumulatedTimeHours)
	if err != nil {
		return 0, 0, err
	}
	return t.FuelKg, t.DeltaTimeHours, nil
}

// Heuristic returns minFuelRate times the time to reach goal at
// ShipSpeedMps.
func (s *FuelStrategy) Heuristic(current, goal GridCoordinate) float64 {
	d := greatCircleDistanceKm(s.mapper.GridToGeo(current), s.mapper.GridToGeo(goal))
	timeToGoalHours := d / (s.voyageCfg.ShipSpeedMps * 3.6)
	return s.minFuelRate * timeToGoalHours
}

// IsValidTransition applies the shared turn-angle limit.
func (s *FuelStrategy) IsValidTransition(parent, current, neighbor GridCoordinate) bool {
	return isValidAngleTransition(parent, current, neighbor, s.maxAngleDegrees)
}

func (s *FuelStrategy) evaluate(in ShipInput, key string) (ShipOutput, error) {
	req := s.cache.NewRequest(context.Background(), in, key)
	res, err := req.Result()
	if err != nil {
		return ShipOutput{}, err
	}
	return res.(ShipOutput), nil
}

func shipDynamicsProcessor(dynamics ShipDynamics) requestcache.ProcessFunc {
	return func(_ context.Context, payload interface{}) (interface{}, error) {
		in := payload.(ShipInput)
		return dynamics.Evaluate(in)
	}
}
