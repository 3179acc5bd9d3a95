package voyage

import (
	"container/heap"
	"fmt"
)

// PathNode is a single open-set entry. It lives only inside the A* engine's
// open set; nothing outside a single RunAStar call retains a reference.
type PathNode struct {
	Pos                  GridCoordinate
	G, H, F              float64
	Parent               GridCoordinate
	AccumulatedTimeHours float64
}

// PathSearchResult is the outcome of a single A* search between two grid
// cells.
type PathSearchResult struct {
	Path           []GridCoordinate
	TotalCost      float64
	TotalTimeHours float64
}

var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// RunAStar finds a path from start to goal over grid's navigable cells,
// using strategy for edge costs, heuristics, and transition legality.
func RunAStar(grid *NavigableGrid, start, goal GridCoordinate, strategy Strategy) (*PathSearchResult, error) {
	if start == goal {
		return &PathSearchResult{Path: []GridCoordinate{start}, TotalCost: 0, TotalTimeHours: 0}, nil
	}
	if !grid.IsNavigable(start) || !grid.IsNavigable(goal) {
		return nil, ErrEndpointNotNavigable
	}

	open := &nodeHeap{}
	heap.Init(open)

	gScore := map[GridCoordinate]float64{start: 0}
	parent := map[GridCoordinate]GridCoordinate{start: noParent}
	closed := map[GridCoordinate]bool{}

	heap.Push(open, &PathNode{
		Pos:                  start,
		G:                    0,
		H:                    strategy.Heuristic(start, goal),
		Parent:               noParent,
		AccumulatedTimeHours: 0,
	})

	for open.Len() > 0 {
		current := heap.Pop(open).(*PathNode)
		if closed[current.Pos] {
			continue
		}
		if current.Pos == goal {
			return reconstructPath(parent, current), nil
		}
		closed[current.Pos] = true

		for _, off := range neighborOffsets {
			neighbor := GridCoordinate{Row: current.Pos.Row + off[0], Col: current.Pos.Col + off[1]}
			if !grid.Mapper().InBounds(neighbor) || !grid.IsNavigable(neighbor) {
				continue
			}
			if closed[neighbor] {
				continue
			}
			if !strategy.IsValidTransition(current.Parent, current.Pos, neighbor) {
				continue
			}

			edgeCost, deltaTimeHours, err := strategy.EdgeCost(current.Pos, neighbor, current.AccumulatedTimeHours)
			if err != nil {
				return nil, fmt.Errorf("voyage: edge cost evaluation: %w", err)
			}

			newG := current.G + edgeCost
			if existing, ok := gScore[neighbor]; !ok || newG < existing {
				gScore[neighbor] = newG
				parent[neighbor] = current.Pos
				newAccumTime := current.AccumulatedTimeHours + deltaTimeHours
				heap.Push(open, &PathNode{
					Pos:                  neighbor,
					G:                    newG,
					H:                    strategy.Heuristic(neighbor, goal),
					Parent:               current.Pos,
					AccumulatedTimeHours: newAccumTime,
				})
			}
		}
	}

	return nil, ErrPathNotFound
}

func reconstructPath(parent map[GridCoordinate]GridCoordinate, goalNode *PathNode) *PathSearchResult {
	path := []GridCoordinate{goalNode.Pos}
	cur := goalNode.Pos
	for {
		p, ok := parent[cur]
		if !ok || p == noParent {
			break
		}
		path = append(path, p)
		cur = p
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return &PathSearchResult{
		Path:           path,
		TotalCost:      goalNode.G,
		TotalTimeHours: goalNode.AccumulatedTimeHours,
	}
}

// nodeHeap implements container/heap for the A* open list (min-heap by
// f = g + h). Stale entries for an already-closed cell are simply skipped
// on pop rather than removed via decrease-key.
type nodeHeap []*PathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	fi := h[i].G + h[i].H
	fj := h[j].G + h[j].H
	if fi != fj {
		return fi < fj
	}
	return false
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) {
	*h = append(*h, x.(*PathNode))
}
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
