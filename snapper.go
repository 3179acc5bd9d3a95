package voyage

import "container/heap"

// SnapStatus describes how a requested waypoint relates to the navigable
// grid.
type SnapStatus int

const (
	// AlreadyNavigable means the input point's own cell is navigable.
	AlreadyNavigable SnapStatus = iota
	// Snapped means a nearby navigable cell was found within the radius.
	Snapped
	// SnapFailed means no navigable cell was found within the radius.
	SnapFailed
)

func (s SnapStatus) String() string {
	switch s {
	case AlreadyNavigable:
		return "AlreadyNavigable"
	case Snapped:
		return "Snapped"
	case SnapFailed:
		return "SnapFailed"
	default:
		return "Unknown"
	}
}

// SnappingInfo is the outcome of snapping a single waypoint.
type SnappingInfo struct {
	Status     SnapStatus     `json:"status"`
	Original   GeoCoordinate  `json:"original"`
	Snapped    GeoCoordinate  `json:"snapped"`
	Cell       GridCoordinate `json:"cell"`
	DistanceKm float64        `json:"distanceKm"`
	FailReason string         `json:"failReason,omitempty"`
}

// SnapWaypoint maps a requested geographic waypoint to the nearest
// navigable cell within maxSearchRadiusKm, by uniform-cost search (a
// priority queue keyed by great-circle distance from the original point)
// over 8-connected grid neighbors.
func SnapWaypoint(grid *NavigableGrid, point GeoCoordinate, maxSearchRadiusKm float64) SnappingInfo {
	start := grid.Mapper().GeoToGrid(point)

	if grid.IsNavigable(start) {
		return SnappingInfo{
			Status:     AlreadyNavigable,
			Original:   point,
			Snapped:    point,
			Cell:       start,
			DistanceKm: 0,
		}
	}

	pq := &snapHeap{}
	heap.Init(pq)
	heap.Push(pq, snapEntry{cell: start, dist: greatCircleDistanceKm(point, grid.Mapper().GridToGeo(start))})

	visited := make(map[GridCoordinate]bool)

	for pq.Len() > 0 {
		e := heap.Pop(pq).(snapEntry)
		if visited[e.cell] {
			continue
		}
		visited[e.cell] = true

		if e.dist > maxSearchRadiusKm {
			break
		}

		if grid.IsNavigable(e.cell) {
			center := grid.Mapper().GridToGeo(e.cell)
			return SnappingInfo{
				Status:     Snapped,
				Original:   point,
				Snapped:    center,
				Cell:       e.cell,
				DistanceKm: e.dist,
			}
		}

		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				n := GridCoordinate{Row: e.cell.Row + dr, Col: e.cell.Col + dc}
				if !grid.Mapper().InBounds(n) || visited[n] {
					continue
				}
				d := greatCircleDistanceKm(point, grid.Mapper().GridToGeo(n))
				if d > maxSearchRadiusKm {
					continue
				}
				heap.Push(pq, snapEntry{cell: n, dist: d})
			}
		}
	}

	return SnappingInfo{
		Status:     SnapFailed,
		Original:   point,
		Cell:       start,
		FailReason: "no navigable cell within search radius",
	}
}

type snapEntry struct {
	cell GridCoordinate
	dist float64
}

// snapHeap is a container/heap min-heap over snapEntry, ordered by distance.
// Tie-breaking among equally-distant candidates is unspecified.
type snapHeap []snapEntry

func (h snapHeap) Len() int            { return len(h) }
func (h snapHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h snapHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *snapHeap) Push(x interface{}) {
	*h = append(*h, x.(snapEntry))
}
func (h *snapHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
