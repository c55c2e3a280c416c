package grid

import (
	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"
)

// CreateEdges builds the edge list of a level whose loops carry ordered node lists
func (g *Grid) CreateEdges() (err error) {
	segments := make([][]types.OrientedEdge, len(g.Loops))
	for l := range g.Loops {
		segments[l] = g.loopSegments(l)
	}
	return g.CreateEdgesFromSegments(segments)
}

func (g *Grid) loopSegments(l int) (segs []types.OrientedEdge) {
	nodes := g.Loops[l].Nodes
	segs = make([]types.OrientedEdge, 0, len(nodes))
	for i, n1 := range nodes {
		n2 := nodes[(i+1)%len(nodes)]
		if n1 == n2 {
			continue
		}
		segs = append(segs, types.NewOrientedEdge([2]int{n1, n2}))
	}
	return
}

/*
CreateEdgesFromSegments deduplicates the oriented segments of every loop into canonical edges. Edge
ids are handed out in order of first appearance. A segment met twice from the same loop leaves a one
loop boundary edge, a third distinct loop on one edge is an ErrNonManifoldEdge.
*/
func (g *Grid) CreateEdgesFromSegments(segments [][]types.OrientedEdge) (err error) {
	if len(segments) != len(g.Loops) {
		return errors.Errorf("have segments for %d loops, grid has %d loops", len(segments), len(g.Loops))
	}
	g.edgeMap = make(map[types.EdgeKey]int, 4*len(g.Nodes))
	g.Edges = g.Edges[:0]
	for l, segs := range segments {
		loop := &g.Loops[l]
		loop.Edges = make([]int, 0, len(segs))
		loop.EdgeDirection = make([]int, 0, len(segs))
		for _, oe := range segs {
			key := oe.GetKey()
			id, ok := g.edgeMap[key]
			if !ok {
				id = len(g.Edges)
				nodes := key.GetNodes(false)
				g.Edges = append(g.Edges, Edge{
					Node1: nodes[0], Node2: nodes[1],
					Loop1: l, Loop2: l,
					Direction:    [2]int{oe.Direction(), oe.Direction()},
					LoopL:        None,
					LoopR:        None,
					FineGridEdge: None, CoarseGridEdge: None,
				})
				g.edgeMap[key] = id
			} else {
				e := &g.Edges[id]
				switch {
				case e.Loop1 == l || e.Loop2 == l:
					// Self adjacency, stays an open edge of this loop
				case e.Loop1 == e.Loop2:
					e.Loop2 = l
					e.Direction[1] = oe.Direction()
				default:
					return errors.Wrapf(ErrNonManifoldEdge, "edge %d (%d,%d) borders loops %d and %d, loop %d",
						id, e.Node1, e.Node2, e.Loop1, e.Loop2, l)
				}
			}
			loop.Edges = append(loop.Edges, id)
			loop.EdgeDirection = append(loop.EdgeDirection, oe.Direction())
		}
	}
	g.NumberOfSurfaceEdges = len(g.Edges)
	klog.V(2).Infof("level %d: %d edges from %d loops and %d nodes",
		g.Level, len(g.Edges), len(g.Loops), len(g.Nodes))
	return
}

// FindEdge returns the edge joining two nodes, None if there is none
func (g *Grid) FindEdge(n1, n2 int) int {
	if id, ok := g.edgeMap[types.NewEdgeKey([2]int{n1, n2})]; ok {
		return id
	}
	return None
}

/*
CalculateEdgeProperties classifies edges and computes length, bounding box and the area weighted normal.
Edges between loops of different surfaces or components are boundaries.
*/
func (g *Grid) CalculateEdgeProperties() {
	for i := range g.Edges {
		var (
			e      = &g.Edges[i]
			l1, l2 = &g.Loops[e.Loop1], &g.Loops[e.Loop2]
			n1, n2 = &g.Nodes[e.Node1], &g.Nodes[e.Node2]
			single = e.Loop1 == e.Loop2
		)
		e.SurfaceID, e.ComponentID = l1.SurfaceID, l1.ComponentID
		n1.ComponentID, n2.ComponentID = l1.ComponentID, l1.ComponentID
		e.IsBoundaryEdge = single
		e.IsLeadingEdge = single && n1.IsLeadingEdge && n2.IsLeadingEdge
		e.IsTrailingEdge = single && n1.IsTrailingEdge && n2.IsTrailingEdge
		if !single && !e.IsTrailingEdge &&
			(l1.SurfaceID != l2.SurfaceID || l1.ComponentID != l2.ComponentID) {
			e.IsBoundaryEdge = true
		}
		e.Length = r3.Norm(r3.Sub(n2.Position, n1.Position))
		e.BoundBox = geometry3D.NewBoundingBox(n1.Position, n2.Position)
		an := r3.Scale(l1.Area, l1.Normal)
		if !single {
			an = r3.Add(an, r3.Scale(l2.Area, l2.Normal))
		}
		e.Normal, _ = geometry3D.SafeUnit(an, 0)
	}
}
