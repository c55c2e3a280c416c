package grid

import (
	"bytes"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestGrid(nodes []r3.Vec, loops [][]int, camber r3.Vec) (g *Grid) {
	g = NewGrid(0, types.ST_Wing)
	g.SizeNodeList(len(nodes))
	for i, p := range nodes {
		g.Nodes[i].Position = p
	}
	g.SizeLoopList(len(loops))
	for l, nodes := range loops {
		g.Loops[l].Nodes = append([]int{}, nodes...)
		g.Loops[l].CamberNormal = camber
	}
	return
}

// plateGrid triangulates a flat plate with x along j and y along i. The triangles are listed with a
// clockwise winding so every one of them has to be reversed against the +z camber normal.
func plateGrid(ni, nj int) *Grid {
	var (
		nodes []r3.Vec
		loops [][]int
	)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			nodes = append(nodes, r3.Vec{X: float64(j), Y: float64(i)})
		}
	}
	for i := 0; i < ni-1; i++ {
		for j := 0; j < nj-1; j++ {
			n1, n2 := i*nj+j, (i+1)*nj+j
			n3, n4 := n2+1, n1+1
			loops = append(loops, []int{n1, n2, n3}, []int{n1, n3, n4})
		}
	}
	return newTestGrid(nodes, loops, r3.Vec{Z: 1})
}

func checkTopology(t *testing.T, g *Grid) {
	for i := range g.Edges {
		e := &g.Edges[i]
		assert.Less(t, e.Node1, e.Node2)
		nl := e.NumberOfLoops()
		assert.True(t, nl == 1 || nl == 2)
		if nl == 1 {
			assert.True(t, e.IsBoundaryEdge)
		}
	}
	for l := range g.Loops {
		loop := &g.Loops[l]
		if loop.IsDegenerate {
			continue
		}
		var sum float64
		for k := range loop.Edges {
			if loop.EdgeIsUpwind[k] {
				sum += loop.EdgeUpwindWeight[k]
			}
		}
		assert.InDelta(t, 1., sum, 1.e-9, "loop %d", l)
	}
}

func TestGridTwoTriangles(t *testing.T) {
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[][]int{{0, 1, 2}, {0, 2, 3}}, r3.Vec{Z: 1})
	require.NoError(t, g.Build())
	assert.Equal(t, 5, g.NumberOfEdges())
	checkTopology(t, g)

	shared := g.FindEdge(2, 0)
	require.NotEqual(t, None, shared)
	e := &g.Edges[shared]
	assert.Equal(t, 2, e.NumberOfLoops())
	assert.False(t, e.IsBoundaryEdge)
	// The two loops cross the shared edge in opposite directions
	assert.Equal(t, -e.Direction[0], e.Direction[1])
	// Loop 1 runs 0->2, which is Node1->Node2
	assert.Equal(t, 1, e.LoopL)
	assert.Equal(t, 0, e.LoopR)
	assert.Equal(t, None, g.FindEdge(1, 3))

	for i := range g.Edges {
		e := &g.Edges[i]
		if e.NumberOfLoops() == 1 {
			assert.True(t, e.LoopL == None || e.LoopR == None)
		}
		up, w := g.upwindEntry(e.LoopL, i)
		assert.Equal(t, up, e.Loop1IsDownWind)
		assert.Equal(t, w, e.Loop1DownWindWeight)
		up, w = g.upwindEntry(e.LoopR, i)
		assert.Equal(t, up, e.Loop2IsDownWind)
		assert.Equal(t, w, e.Loop2DownWindWeight)
	}
	assert.InDelta(t, 1., g.TotalArea(), 1.e-14)
}

func TestGridPlate(t *testing.T) {
	ni, nj := 4, 6
	g := plateGrid(ni, nj)
	require.NoError(t, g.Build())
	assert.Equal(t, 2*(ni-1)*(nj-1), g.NumberOfLoops())
	assert.Equal(t, ni*(nj-1)+(ni-1)*nj+(ni-1)*(nj-1), g.NumberOfEdges())
	checkTopology(t, g)

	var boundary int
	for i := range g.Edges {
		if g.Edges[i].IsBoundaryEdge {
			boundary++
		}
		assert.InDelta(t, 1., g.Edges[i].Normal.Z, 1.e-12)
	}
	assert.Equal(t, 2*(ni-1)+2*(nj-1), boundary)
	for l := range g.Loops {
		loop := &g.Loops[l]
		assert.InDelta(t, 1., loop.Normal.Z, 1.e-12)
		assert.InDelta(t, 0.5, loop.Area, 1.e-12)
		assert.InDelta(t, math.Sqrt(2), loop.Length, 1.e-12)
		assert.InDelta(t, 1., loop.RefLength, 1.e-12)
		// Every node order was reversed to agree with the camber normal
		av := geometry3D.AreaVector(g.LoopNodePositions(l))
		assert.Greater(t, av.Z, 0.)
	}
	assert.InDelta(t, float64((ni-1)*(nj-1)), g.TotalArea(), 1.e-12)
}

func TestUpwindWeights(t *testing.T) {
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, [][]int{{0, 1, 2}}, r3.Vec{Z: 1})
	require.NoError(t, g.Build())
	loop := &g.Loops[0]
	for k, e := range loop.Edges {
		edge := &g.Edges[e]
		// Only the edge on x = 0 faces the oncoming flow
		if edge.Node1 == 0 && edge.Node2 == 2 {
			assert.True(t, loop.EdgeIsUpwind[k])
			assert.InDelta(t, 1., loop.EdgeUpwindWeight[k], 1.e-14)
		} else {
			assert.False(t, loop.EdgeIsUpwind[k])
		}
	}

	// Pentagon with two inflow edges
	g = newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}, {X: 1, Y: 2, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[][]int{{0, 1, 2, 3, 4}}, r3.Vec{Z: 1})
	require.NoError(t, g.Build())
	checkTopology(t, g)
	var nUp int
	for k := range g.Loops[0].Edges {
		if g.Loops[0].EdgeIsUpwind[k] {
			nUp++
		}
	}
	assert.Equal(t, 2, nUp)
}

func TestNoUpwindEdges(t *testing.T) {
	// Edge on to the flow
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}, [][]int{{0, 1, 2}}, r3.Vec{})
	err := g.Build()
	require.Error(t, err)
	assert.True(t, IsIntegrityError(err))
	assert.True(t, errors.Is(err, ErrNoUpwindEdges))
	assert.True(t, g.Loops[0].HasNoUpwindEdges)
	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.True(t, ie.AllOf(ErrNoUpwindEdges))
	assert.False(t, ie.AllOf(ErrDegenerateLoop))
}

func TestDegenerateLoop(t *testing.T) {
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 2, Y: 0, Z: 0}},
		[][]int{{0, 1, 2}, {0, 1, 3}}, r3.Vec{Z: 1})
	err := g.Build()
	require.Error(t, err)
	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	require.Len(t, ie.Diagnostics, 1)
	assert.Equal(t, 1, ie.Diagnostics[0].Loop)
	assert.True(t, errors.Is(err, ErrDegenerateLoop))
	assert.False(t, errors.Is(err, ErrNoUpwindEdges))
	assert.True(t, g.Loops[1].IsDegenerate)
	assert.Equal(t, r3.Vec{}, g.Loops[1].Normal)
	assert.False(t, g.Loops[0].IsDegenerate)
	checkTopology(t, g)
}

func TestNonManifoldEdge(t *testing.T) {
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 1}},
		[][]int{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}}, r3.Vec{})
	err := g.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonManifoldEdge))
	assert.False(t, IsIntegrityError(err))
}

func TestEdgeAdjacencyDeterminism(t *testing.T) {
	adjacency := func(g *Grid) (adj map[types.EdgeKey][]int) {
		adj = make(map[types.EdgeKey][]int)
		for i := range g.Edges {
			e := &g.Edges[i]
			loops := g.EdgeLoops(i)
			sort.Ints(loops)
			adj[types.NewEdgeKey([2]int{e.Node1, e.Node2})] = loops
		}
		return
	}
	g1 := plateGrid(3, 5)
	require.NoError(t, g1.CreateEdges())
	g2 := plateGrid(3, 5)
	for l := range g2.Loops {
		nodes := g2.Loops[l].Nodes
		shift := l % 3
		g2.Loops[l].Nodes = append(append([]int{}, nodes[shift:]...), nodes[:shift]...)
	}
	require.NoError(t, g2.CreateEdges())
	assert.Equal(t, adjacency(g1), adjacency(g2))
}

func TestWriteMesh(t *testing.T) {
	g := newTestGrid([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0.5}, {X: 0, Y: 1, Z: 0}},
		[][]int{{0, 1, 2}, {0, 2, 3}}, r3.Vec{Z: 1})
	require.NoError(t, g.Build())
	box := g.BoundingBox()
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 0.5}, box.Max)
	assert.InDelta(t, 1.5, geometry3D.BoxSize(box), 1.e-14)
	g.Loops[1].SurfaceID = 3
	var buf bytes.Buffer
	require.NoError(t, g.WriteMesh(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+3*4+2+2)
	assert.Equal(t, "4 2 0", lines[0])
	assert.Equal(t, []string{"0", "1", "1", "0"}, lines[1:5])
	assert.Equal(t, []string{"0", "0", "0.5", "0"}, lines[9:13])
	assert.Equal(t, "1 2 3", lines[13])
	assert.Equal(t, "1 3 4", lines[14])
	assert.Equal(t, "0 0", lines[15])
	assert.Equal(t, "3 3", lines[16])

	g.Loops[0].FineGridLoops = []int{0}
	buf.Reset()
	err := g.WriteMesh(&buf)
	assert.True(t, errors.Is(err, ErrUnorderedLoops))
	assert.Zero(t, buf.Len())
}

func TestUpdateGeometryLocation(t *testing.T) {
	g := plateGrid(3, 4)
	require.NoError(t, g.Build())
	g.SizeKuttaNodeList(1)
	g.KuttaNodes[0] = KuttaNode{Node: 0, WakeTrailingEdge: g.Nodes[0].Position}
	var (
		orig     = make([]r3.Vec, g.NumberOfNodes())
		origCent = make([]r3.Vec, g.NumberOfLoops())
	)
	for i := range g.Nodes {
		orig[i] = g.Nodes[i].Position
	}
	for l := range g.Loops {
		origCent[l] = g.Loops[l].Centroid
	}
	rm := geometry3D.NewRigidMotion(r3.Vec{X: 3, Y: -1, Z: 2}, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1, Y: 1, Z: 1}, 0.7)
	g.UpdateGeometryLocation(rm, nil)
	assert.NotEqual(t, orig[5], g.Nodes[5].Position)
	// Normals follow the rotation
	assert.InDelta(t, 1., r3.Dot(g.Loops[0].Normal, rm.Rotate(r3.Vec{Z: 1})), 1.e-12)
	g.UpdateGeometryLocation(rm.Inverse(), nil)
	for i := range g.Nodes {
		assert.InDelta(t, 0., r3.Norm(r3.Sub(orig[i], g.Nodes[i].Position)), 1.e-9)
	}
	for l := range g.Loops {
		assert.InDelta(t, 0., r3.Norm(r3.Sub(origCent[l], g.Loops[l].Centroid)), 1.e-9)
		assert.InDelta(t, 1., g.Loops[l].Normal.Z, 1.e-9)
	}
	assert.InDelta(t, 0., r3.Norm(r3.Sub(orig[0], g.KuttaNodes[0].WakeTrailingEdge)), 1.e-9)

	// Components outside the group stay put
	for _, n := range []int{0, 1} {
		g.Nodes[n].ComponentID = 7
	}
	g.Loops[0].ComponentID = 7
	var (
		before     = make([]r3.Vec, g.NumberOfNodes())
		beforeCent = make([]r3.Vec, g.NumberOfLoops())
		beforeWake = g.KuttaNodes[0].WakeTrailingEdge
	)
	for i := range g.Nodes {
		before[i] = g.Nodes[i].Position
	}
	for l := range g.Loops {
		beforeCent[l] = g.Loops[l].Centroid
	}
	g.UpdateGeometryLocation(rm, ComponentGroup(7))
	for i := range g.Nodes {
		if i < 2 {
			assert.Equal(t, rm.Apply(before[i]), g.Nodes[i].Position)
			continue
		}
		assert.Equal(t, before[i], g.Nodes[i].Position)
	}
	assert.Equal(t, rm.Apply(beforeCent[0]), g.Loops[0].Centroid)
	for l := 1; l < g.NumberOfLoops(); l++ {
		assert.Equal(t, beforeCent[l], g.Loops[l].Centroid)
	}
	assert.Equal(t, beforeWake, g.KuttaNodes[0].WakeTrailingEdge)
}
