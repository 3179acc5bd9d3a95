package voyage

import "math"

// earthRadiusKm is the Earth radius used throughout this package for
// great-circle calculations.
const earthRadiusKm = 6371.0

// GeoCoordinate is an immutable geographic point.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GridCoordinate is an immutable grid cell index. Row 0 is the northernmost
// band; Col 0 is the westernmost band within the grid's bounding box.
type GridCoordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// BoundingBox is an axis-aligned geographic extent. It never crosses the
// anti-meridian.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// NewBoundingBox returns the bounding box spanning the given waypoints.
func NewBoundingBox(points []GeoCoordinate) BoundingBox {
	b := BoundingBox{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
	}
	for _, p := range points {
		b.MinLat = math.Min(b.MinLat, p.Latitude)
		b.MaxLat = math.Max(b.MaxLat, p.Latitude)
		b.MinLon = math.Min(b.MinLon, p.Longitude)
		b.MaxLon = math.Max(b.MaxLon, p.Longitude)
	}
	return b
}

// Expand grows the box by marginLat/marginLon degrees on every side.
func (b BoundingBox) Expand(marginLat, marginLon float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - marginLat,
		MaxLat: b.MaxLat + marginLat,
		MinLon: b.MinLon - marginLon,
		MaxLon: b.MaxLon + marginLon,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// greatCircleDistanceKm returns the Haversine distance between a and b, in
// kilometers, using earthRadiusKm.
func greatCircleDistanceKm(a, b GeoCoordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}
	lat1, lat2 := degToRad(a.Latitude), degToRad(b.Latitude)
	dLat := lat2 - lat1
	dLon := degToRad(b.Longitude - a.Longitude)

	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLon2*sinDLon2
	h = math.Min(1, math.Max(0, h))
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// GreatCircleDistanceKm is the exported form of greatCircleDistanceKm, used
// by callers (telemetry integration, tests) outside the cost strategies.
func GreatCircleDistanceKm(a, b GeoCoordinate) float64 {
	return greatCircleDistanceKm(a, b)
}

// initialBearingDeg returns the initial compass bearing from a to b, in
// [0, 360). Bearing from a point to itself is undefined by the formula; this
// returns 0 rather than NaN.
func initialBearingDeg(a, b GeoCoordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}
	lat1, lat2 := degToRad(a.Latitude), degToRad(b.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x)
	deg := math.Mod(radToDeg(theta)+360, 360)
	return deg
}

// InitialBearingDeg is the exported form of initialBearingDeg.
func InitialBearingDeg(a, b GeoCoordinate) float64 {
	return initialBearingDeg(a, b)
}

// GreatCirclePoints returns n+1 points evenly spaced along the great
// circle from start to end, inclusive of both endpoints, by spherical
// interpolation. Identical endpoints yield n+1 copies of start.
func GreatCirclePoints(start, end GeoCoordinate, n int) []GeoCoordinate {
	if n < 1 {
		n = 1
	}
	points := make([]GeoCoordinate, 0, n+1)

	d := greatCircleDistanceKm(start, end) / earthRadiusKm // angular distance
	if d == 0 {
		for i := 0; i <= n; i++ {
			points = append(points, start)
		}
		return points
	}

	lat1, lon1 := degToRad(start.Latitude), degToRad(start.Longitude)
	lat2, lon2 := degToRad(end.Latitude), degToRad(end.Longitude)
	sinD := math.Sin(d)

	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		a := math.Sin((1-f)*d) / sinD
		b := math.Sin(f*d) / sinD

		x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
		y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
		z := a*math.Sin(lat1) + b*math.Sin(lat2)

		points = append(points, GeoCoordinate{
			Latitude:  radToDeg(math.Atan2(z, math.Hypot(x, y))),
			Longitude: radToDeg(math.Atan2(y, x)),
		})
	}
	return points
}

// midpoint returns the arithmetic mean of a and b's lat/lon. This is only
// accurate at grid scale (a few kilometers).
func midpoint(a, b GeoCoordinate) GeoCoordinate {
	return GeoCoordinate{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}
