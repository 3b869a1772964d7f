// Package graph implements the preference graph: a directed
// multigraph over opaque vertex keys (attribute names or Interval
// tuples) with interval-aware reachability, used by internal/theory
// for both global and local consistency testing.
//
// It is a thin domain wrapper over github.com/katalvlaran/lvlath's
// core.Graph (string-keyed vertex/edge storage) and dfs package
// (hook-driven traversal): lvlath supplies the graph storage and walk
// primitives, this package supplies the interval-aware overlap
// predicate that reachability and intersection expansion need.
package graph

import (
	"errors"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/cprefsql/cprefengine/internal/interval"
)

// VertexKind discriminates the two flavors of vertex the preference
// graph carries: a plain attribute name (global consistency graph) or
// an Interval (local, rule-rewriting consistency graph).
type VertexKind int

const (
	AttrVertex VertexKind = iota
	IntervalVertex
)

// Vertex is an opaque vertex key: either an attribute name or an
// Interval.
type Vertex struct {
	Kind     VertexKind
	Attr     string
	Interval interval.Interval
}

func Attr(name string) Vertex { return Vertex{Kind: AttrVertex, Attr: name} }
func Ivl(i interval.Interval) Vertex { return Vertex{Kind: IntervalVertex, Interval: i} }

func (v Vertex) id() string {
	if v.Kind == AttrVertex {
		return "A:" + v.Attr
	}
	return "I:" + v.Interval.String()
}

// overlaps is the Vertex-level analogue of interval.Intersect: two
// Interval vertices overlap under Interval semantics;
// any other pair (including mixed kinds, which never occurs in a
// well-formed graph) overlaps only if they are the identical vertex.
func overlaps(a, b Vertex) bool {
	if a.Kind == IntervalVertex && b.Kind == IntervalVertex {
		return interval.Intersect(a.Interval, b.Interval)
	}
	return a.id() == b.id()
}

// Graph is a directed multigraph keyed by Vertex, backed by lvlath's
// core.Graph for storage and lvlath's dfs package for traversal.
type Graph struct {
	g        *core.Graph
	vertices map[string]Vertex // id -> original Vertex, for overlap tests and iteration
}

func New() *Graph {
	return &Graph{
		g:        core.NewGraph(core.WithDirected(true), core.WithMultiEdges()),
		vertices: make(map[string]Vertex),
	}
}

func (pg *Graph) ensure(v Vertex) string {
	id := v.id()
	if _, ok := pg.vertices[id]; !ok {
		pg.vertices[id] = v
		_ = pg.g.AddVertex(id)
	}
	return id
}

// AddVertex creates v if absent, with no edges. Needed for vertices
// that may have no comparison at all (an isolated maximal formula
// still belongs in layer zero).
func (pg *Graph) AddVertex(v Vertex) { pg.ensure(v) }

// AddEdge creates u and v if absent and adds a u->v edge, deduping
// parallel edges.
func (pg *Graph) AddEdge(u, v Vertex) {
	uid, vid := pg.ensure(u), pg.ensure(v)
	if pg.g.HasEdge(uid, vid) {
		return
	}
	_, _ = pg.g.AddEdge(uid, vid, 0)
}

var errReached = errors.New("graph: goal reached")

// DFSReach reports whether a path of at least one edge exists from
// start to any vertex that overlaps goal. The walk starts from each
// direct successor of start
// rather than from start itself: the trivial zero-length path (start
// overlaps goal when goal is start) must not count, but a cycle that
// returns to start must — so start stays unvisited and reachable
// from its own successors.
func (pg *Graph) DFSReach(start, goal Vertex) bool {
	startID := start.id()
	if _, ok := pg.vertices[startID]; !ok {
		return false
	}
	edges, err := pg.g.Neighbors(startID)
	if err != nil {
		return false
	}
	tried := map[string]bool{}
	for _, e := range edges {
		if tried[e.To] {
			continue
		}
		tried[e.To] = true
		_, derr := dfs.DFS(pg.g, e.To, dfs.WithOnVisit(func(id string) error {
			if overlaps(pg.vertices[id], goal) {
				return errReached
			}
			return nil
		}))
		if errors.Is(derr, errReached) {
			return true
		}
	}
	return false
}

// IsAcyclic reports whether no vertex can reach a vertex overlapping
// itself.
func (pg *Graph) IsAcyclic() bool {
	for _, id := range pg.sortedIDs() {
		v := pg.vertices[id]
		if pg.DFSReach(v, v) {
			return false
		}
	}
	return true
}

// UpdateIntersections materializes interval equivalence classes: for
// each edge (u,v), add edges (u,w) for every other vertex w that
// overlaps v. This is a single deterministic pass over vertices (in
// sorted-ID order) reading the live edge set as it goes; it is a
// single pass, not a fixed-point loop.
func (pg *Graph) UpdateIntersections() {
	for _, uid := range pg.sortedIDs() {
		edges, _ := pg.g.Neighbors(uid)
		var toAdd []string
		for _, e := range edges {
			v := pg.vertices[e.To]
			for _, wid := range pg.sortedIDs() {
				if wid == e.To {
					continue
				}
				if overlaps(v, pg.vertices[wid]) {
					toAdd = append(toAdd, wid)
				}
			}
		}
		for _, wid := range toAdd {
			if !pg.g.HasEdge(uid, wid) {
				_, _ = pg.g.AddEdge(uid, wid, 0)
			}
		}
	}
}

// TopVertices returns the vertices with in-degree zero, in
// deterministic (sorted) order.
func (pg *Graph) TopVertices() []Vertex {
	indeg := pg.inDegrees()
	var tops []Vertex
	for _, id := range pg.sortedIDs() {
		if indeg[id] == 0 {
			tops = append(tops, pg.vertices[id])
		}
	}
	return tops
}

// TopologicalLayers performs a destructive layered peel (Kahn's
// algorithm, grouped by round) over a private working copy, producing
// vertex sets in preference order: layer 0 is most preferred.
func (pg *Graph) TopologicalLayers() [][]Vertex {
	remaining := make(map[string]bool, len(pg.vertices))
	for id := range pg.vertices {
		remaining[id] = true
	}
	edgesFrom := func(id string) []string {
		neighbors, _ := pg.g.Neighbors(id)
		var out []string
		for _, e := range neighbors {
			if remaining[e.To] {
				out = append(out, e.To)
			}
		}
		return out
	}

	var layers [][]Vertex
	for len(remaining) > 0 {
		indeg := map[string]int{}
		for id := range remaining {
			indeg[id] = 0
		}
		for id := range remaining {
			for _, to := range edgesFrom(id) {
				indeg[to]++
			}
		}
		var ids []string
		for id := range remaining {
			if indeg[id] == 0 {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			// Residual cycle: peel everything left as a final layer so
			// callers always terminate (callers are expected to have
			// already verified acyclicity via IsAcyclic).
			for id := range remaining {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		layer := make([]Vertex, len(ids))
		for i, id := range ids {
			layer[i] = pg.vertices[id]
			delete(remaining, id)
		}
		layers = append(layers, layer)
	}
	return layers
}

func (pg *Graph) inDegrees() map[string]int {
	indeg := map[string]int{}
	for id := range pg.vertices {
		indeg[id] = 0
	}
	for _, id := range pg.sortedIDs() {
		neighbors, _ := pg.g.Neighbors(id)
		for _, e := range neighbors {
			indeg[e.To]++
		}
	}
	return indeg
}

func (pg *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(pg.vertices))
	for id := range pg.vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Vertices returns every vertex currently in the graph, sorted by ID
// for deterministic iteration.
func (pg *Graph) Vertices() []Vertex {
	ids := pg.sortedIDs()
	out := make([]Vertex, len(ids))
	for i, id := range ids {
		out[i] = pg.vertices[id]
	}
	return out
}
