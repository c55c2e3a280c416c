package grid

import (
	"math"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"
)

// DegenerateTolerance is the smallest |cross| / span^2 ratio accepted for a loop
const DegenerateTolerance = 1.e-12

/*
CalculateLoopGeometry computes normal, area, centroid and bounding box of every ordered loop. A loop
whose right hand normal opposes its CamberNormal has its node order reversed first, so it has to run
before CreateEdges. Degenerate loops are flagged, get a zero normal and are reported in the returned
*IntegrityError.
*/
func (g *Grid) CalculateLoopGeometry() (err error) {
	var (
		ie      = &IntegrityError{Level: g.Level}
		flipped int
	)
	for l := range g.Loops {
		loop := &g.Loops[l]
		if !loop.IsOrdered() {
			continue
		}
		pts := g.LoopNodePositions(l)
		av := geometry3D.AreaVector(pts)
		span := geometry3D.MaxSpan(pts)
		normal, mag := geometry3D.SafeUnit(av, DegenerateTolerance*span*span)
		loop.Area = 0.5 * mag
		loop.Centroid = geometry3D.Centroid(pts)
		loop.BoundBox = geometry3D.NewBoundingBox(pts...)
		loop.IsDegenerate = normal == (r3.Vec{})
		if loop.IsDegenerate {
			loop.Normal = r3.Vec{}
			ie.add(l, errors.Wrapf(ErrDegenerateLoop, "area %g, span %g", loop.Area, span))
			continue
		}
		if r3.Dot(normal, loop.CamberNormal) < 0 {
			if len(loop.Edges) != 0 {
				return errors.Errorf("loop %d needs reordering after its edges were built", l)
			}
			reverse(loop.Nodes)
			normal = r3.Scale(-1, normal)
			flipped++
		}
		loop.Normal = normal
	}
	if flipped > 0 {
		klog.V(2).Infof("level %d: reversed %d loops to agree with the camber normal", g.Level, flipped)
	}
	return ie.errOrNil()
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// nodeBox is the bounding box of the nodes of a loop
func (g *Grid) nodeBox(loop int) r3.Box {
	return geometry3D.NewBoundingBox(g.LoopNodePositions(loop)...)
}

func (g *Grid) loopLengths(l int) {
	loop := &g.Loops[l]
	loop.Length = math.Max(math.Sqrt(loop.Area), geometry3D.MaxSpan(g.LoopNodePositions(l)))
	loop.RefLength = 0
	for i, e := range loop.Edges {
		if i == 0 || g.Edges[e].Length < loop.RefLength {
			loop.RefLength = g.Edges[e].Length
		}
	}
}

// BoundingBox encloses the boxes of every loop of the level
func (g *Grid) BoundingBox() (box r3.Box) {
	for l := range g.Loops {
		if l == 0 {
			box = g.Loops[l].BoundBox
			continue
		}
		box = geometry3D.MergeBoxes(box, g.Loops[l].BoundBox)
	}
	return
}
