package grid

import (
	"github.com/notargets/vlmgrid/geometry3D"
)

/*
UpdateGeometryLocation moves the level in place by a rigid motion. When inGroup is not nil only nodes,
edges, loops and Kutta nodes whose component is in the group are moved. Topology is untouched and
bounding boxes are rebuilt from the moved node positions, so applying rm.Inverse() restores the level.
*/
func (g *Grid) UpdateGeometryLocation(rm geometry3D.RigidMotion, inGroup func(componentID int) bool) {
	move := func(componentID int) bool {
		return inGroup == nil || inGroup(componentID)
	}
	for i := range g.Nodes {
		if n := &g.Nodes[i]; move(n.ComponentID) {
			n.Position = rm.Apply(n.Position)
		}
	}
	for i := range g.Edges {
		if e := &g.Edges[i]; move(e.ComponentID) {
			e.Normal = rm.Rotate(e.Normal)
			e.BoundBox = geometry3D.NewBoundingBox(g.Nodes[e.Node1].Position, g.Nodes[e.Node2].Position)
		}
	}
	for l := range g.Loops {
		if loop := &g.Loops[l]; move(loop.ComponentID) {
			loop.Centroid = rm.Apply(loop.Centroid)
			loop.Normal = rm.Rotate(loop.Normal)
			loop.CamberNormal = rm.Rotate(loop.CamberNormal)
			loop.BoundBox = g.nodeBox(l)
		}
	}
	for i := range g.KuttaNodes {
		if k := &g.KuttaNodes[i]; move(k.ComponentID) {
			k.WakeTrailingEdge = rm.Apply(k.WakeTrailingEdge)
		}
	}
}

// ComponentGroup returns a filter for UpdateGeometryLocation matching the listed component ids
func ComponentGroup(ids ...int) func(int) bool {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id int) bool {
		_, ok := set[id]
		return ok
	}
}
