package routing

import (
	"container/heap"
	"fmt"
	"math"
)

// Unreachable is the distance reported for stations the search never reached.
const Unreachable = math.MaxInt

// Paths holds the result of a single-source search: the best known seconds to
// each settled or relaxed station and the edge used to reach it.
type Paths struct {
	Source string
	dist   map[string]int
	prev   map[string]Edge
}

// Seconds returns the travel time from the source to id, or (Unreachable, false).
func (p *Paths) Seconds(id string) (int, bool) {
	d, ok := p.dist[id]
	if !ok {
		return Unreachable, false
	}
	return d, true
}

// Previous returns the edge the best path uses to arrive at id.
func (p *Paths) Previous(id string) (Edge, bool) {
	e, ok := p.prev[id]
	return e, ok
}

type queueItem struct {
	id      string
	seconds int
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].seconds < pq[j].seconds }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)        { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Solve runs Dijkstra from start. When target is non-empty the search stops as
// soon as target is settled; other distances may then be incomplete. An edge
// only replaces a known path when it is strictly faster.
func Solve(g *Graph, start, target string) (*Paths, error) {
	if !g.HasStation(start) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, start)
	}

	paths := &Paths{
		Source: start,
		dist:   map[string]int{start: 0},
		prev:   make(map[string]Edge),
	}
	settled := make(map[string]bool)

	pq := &priorityQueue{{id: start, seconds: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if settled[item.id] || item.seconds > paths.dist[item.id] {
			continue
		}
		settled[item.id] = true
		if item.id == target {
			break
		}

		for _, e := range g.Edges(item.id) {
			candidate := item.seconds + e.Weight
			if known, ok := paths.dist[e.To]; ok && candidate >= known {
				continue
			}
			paths.dist[e.To] = candidate
			paths.prev[e.To] = e
			heap.Push(pq, queueItem{id: e.To, seconds: candidate})
		}
	}

	return paths, nil
}
