package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/value"
)

func vi(i int64) value.Value { return value.NewInteger(i) }

func pt(i int64) *value.Value {
	v := vi(i)
	return &v
}

func TestAddEdgeDedupes(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("B"), Attr("C"))

	assert.Len(t, g.Vertices(), 3)
	assert.True(t, g.DFSReach(Attr("A"), Attr("C")))
}

func TestDFSReach(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("B"), Attr("C"))

	assert.True(t, g.DFSReach(Attr("A"), Attr("B")))
	assert.True(t, g.DFSReach(Attr("A"), Attr("C")))
	assert.False(t, g.DFSReach(Attr("C"), Attr("A")))

	// The zero-length path never counts: A does not "reach" itself
	// without a cycle.
	assert.False(t, g.DFSReach(Attr("A"), Attr("A")))

	// Unknown start vertices are unreachable, not an error.
	assert.False(t, g.DFSReach(Attr("Z"), Attr("A")))
}

func TestIsAcyclic(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("B"), Attr("C"))
	assert.True(t, g.IsAcyclic())

	// Closing the loop makes every vertex on it cyclic.
	g.AddEdge(Attr("C"), Attr("A"))
	assert.False(t, g.IsAcyclic())
}

func TestIsAcyclicTwoVertexCycle(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("B"), Attr("A"))
	assert.False(t, g.IsAcyclic())
	assert.True(t, g.DFSReach(Attr("A"), Attr("A")))
}

func TestIntervalVertexOverlapGoal(t *testing.T) {
	// (1,+inf) -> (-inf,1); the goal (0,2) overlaps the reached
	// vertex even though it is not itself in the graph.
	hi := Ivl(interval.Range(pt(1), interval.LT, interval.LE, nil))
	lo := Ivl(interval.Range(nil, interval.LE, interval.LT, pt(1)))
	g := New()
	g.AddEdge(hi, lo)

	goal := Ivl(interval.Range(pt(0), interval.LT, interval.LT, pt(2)))
	assert.True(t, g.DFSReach(hi, goal))
	assert.False(t, g.DFSReach(lo, goal)) // lo has no outgoing edges
}

func TestIntervalCycleDetection(t *testing.T) {
	// Mutually inverted preferences over the same two intervals.
	hi := Ivl(interval.Range(pt(1), interval.LT, interval.LE, nil))
	lo := Ivl(interval.Range(nil, interval.LE, interval.LT, pt(1)))

	g := New()
	g.AddEdge(hi, lo)
	g.AddEdge(lo, hi)
	g.UpdateIntersections()
	assert.False(t, g.IsAcyclic())

	// One direction only stays acyclic.
	g2 := New()
	g2.AddEdge(hi, lo)
	g2.UpdateIntersections()
	assert.True(t, g2.IsAcyclic())
}

func TestUpdateIntersections(t *testing.T) {
	// a -> b, and c overlaps b: update must add a -> c, so c stops
	// being a top (in-degree-zero) vertex.
	a := Ivl(interval.Equality(vi(9)))
	b := Ivl(interval.Range(pt(0), interval.LE, interval.LE, pt(4)))
	c := Ivl(interval.Range(pt(3), interval.LE, interval.LE, pt(6)))

	g := New()
	g.AddEdge(a, b)
	g.AddVertex(c)
	assert.Len(t, g.TopVertices(), 2) // a and c

	g.UpdateIntersections()
	tops := g.TopVertices()
	require.Len(t, tops, 1)
	assert.True(t, interval.Equal(tops[0].Interval, interval.Equality(vi(9))))
}

func TestTopVertices(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("C"), Attr("B"))
	g.AddVertex(Attr("D"))

	tops := g.TopVertices()
	names := make([]string, len(tops))
	for i, v := range tops {
		names[i] = v.Attr
	}
	assert.Equal(t, []string{"A", "C", "D"}, names)
}

func TestTopologicalLayers(t *testing.T) {
	g := New()
	g.AddEdge(Attr("A"), Attr("B"))
	g.AddEdge(Attr("B"), Attr("C"))
	g.AddEdge(Attr("A"), Attr("C"))
	g.AddVertex(Attr("X"))

	layers := g.TopologicalLayers()
	require.Len(t, layers, 3)

	layerNames := func(i int) []string {
		var out []string
		for _, v := range layers[i] {
			out = append(out, v.Attr)
		}
		return out
	}
	assert.Equal(t, []string{"A", "X"}, layerNames(0))
	assert.Equal(t, []string{"B"}, layerNames(1))
	assert.Equal(t, []string{"C"}, layerNames(2))

	// The peel works on a private copy: the graph is intact after.
	assert.True(t, g.DFSReach(Attr("A"), Attr("C")))
}
