package multigrid

import (
	"math"
	"sort"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/grid"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"
)

// AreaTolerance is the relative tolerance of coarse loop area conservation
const AreaTolerance = 1.e-9

/*
Coarsen builds the next level from the partition returned by agg. Coarse loops are linked to their
children both ways and get area weighted geometry. The fine edges that separate different coarse loops,
or that are boundaries, survive together with their nodes and become the coarse edges.
Per loop diagnostics on the coarse level come back as a *grid.IntegrityError along with the coarse grid,
any other error leaves coarse nil.
*/
func Coarsen(fine *grid.Grid, agg Agglomerator) (coarse *grid.Grid, err error) {
	var coarseOf []int
	if coarseOf, err = agg.Partition(fine); err != nil {
		return nil, err
	}
	var nCoarse int
	if nCoarse, err = checkPartition(fine.NumberOfLoops(), coarseOf); err != nil {
		return nil, errors.Wrapf(err, "level %d", fine.Level)
	}
	coarse = grid.NewGrid(fine.Level+1, fine.SurfaceType)
	coarse.SizeLoopList(nCoarse)
	for l, c := range coarseOf {
		fine.Loops[l].CoarseGridLoop = c
		coarse.Loops[c].FineGridLoops = append(coarse.Loops[c].FineGridLoops, l)
	}

	var (
		survives    = make([]bool, fine.NumberOfEdges())
		coarseNode  = make([]int, fine.NumberOfNodes())
		nodeCount   int
		coarseEdges = make([][]types.OrientedEdge, nCoarse)
	)
	for e := range fine.Edges {
		fe := &fine.Edges[e]
		survives[e] = fe.Loop1 == fe.Loop2 || coarseOf[fe.Loop1] != coarseOf[fe.Loop2]
	}
	for n := range coarseNode {
		coarseNode[n] = grid.None
	}
	for e := range fine.Edges {
		if !survives[e] {
			continue
		}
		for _, n := range [2]int{fine.Edges[e].Node1, fine.Edges[e].Node2} {
			if coarseNode[n] == grid.None {
				coarseNode[n] = nodeCount
				nodeCount++
			}
		}
	}
	// Renumber surviving nodes in fine order
	renumberInOrder(coarseNode)
	coarse.SizeNodeList(nodeCount)
	for n, cn := range coarseNode {
		fine.Nodes[n].CoarseGridNode = cn
		if cn == grid.None {
			continue
		}
		fn := &fine.Nodes[n]
		coarse.Nodes[cn] = grid.Node{
			Position:         fn.Position,
			IsLeadingEdge:    fn.IsLeadingEdge,
			IsTrailingEdge:   fn.IsTrailingEdge,
			IsBoundaryEdge:   fn.IsBoundaryEdge,
			IsBoundaryCorner: fn.IsBoundaryCorner,
			ComponentID:      fn.ComponentID,
			FineGridNode:     n,
			CoarseGridNode:   grid.None,
		}
	}

	for c := range coarse.Loops {
		cl := &coarse.Loops[c]
		var (
			areaNormal, areaCamber, areaCentroid, centroid r3.Vec
			nodeSet                                        = make(map[int]struct{})
		)
		first := &fine.Loops[cl.FineGridLoops[0]]
		cl.SurfaceID, cl.ComponentID, cl.SpanStation = first.SurfaceID, first.ComponentID, first.SpanStation
		for _, l := range cl.FineGridLoops {
			fl := &fine.Loops[l]
			cl.Area += fl.Area
			areaNormal = r3.Add(areaNormal, r3.Scale(fl.Area, fl.Normal))
			areaCamber = r3.Add(areaCamber, r3.Scale(fl.Area, fl.CamberNormal))
			areaCentroid = r3.Add(areaCentroid, r3.Scale(fl.Area, fl.Centroid))
			centroid = r3.Add(centroid, fl.Centroid)
			cl.IsTrailingEdgeLoop = cl.IsTrailingEdgeLoop || fl.IsTrailingEdgeLoop
			cl.IsLeadingEdgeLoop = cl.IsLeadingEdgeLoop || fl.IsLeadingEdgeLoop
			if fl.SpanStation < cl.SpanStation {
				cl.SpanStation = fl.SpanStation
			}
			for k, e := range fl.Edges {
				if !survives[e] {
					continue
				}
				fe := &fine.Edges[e]
				n1, n2 := coarseNode[fe.Node1], coarseNode[fe.Node2]
				if fl.EdgeDirection[k] < 0 {
					n1, n2 = n2, n1
				}
				coarseEdges[c] = append(coarseEdges[c], types.NewOrientedEdge([2]int{n1, n2}))
				nodeSet[n1], nodeSet[n2] = struct{}{}, struct{}{}
			}
		}
		if cl.Area > 0 {
			cl.Centroid = r3.Scale(1./cl.Area, areaCentroid)
		} else {
			cl.Centroid = r3.Scale(1./float64(len(cl.FineGridLoops)), centroid)
		}
		cl.Normal, _ = geometry3D.SafeUnit(areaNormal, 0)
		cl.CamberNormal, _ = geometry3D.SafeUnit(areaCamber, 0)
		cl.IsDegenerate = cl.Normal == (r3.Vec{})
		for n := range nodeSet {
			cl.Nodes = append(cl.Nodes, n)
		}
		sort.Ints(cl.Nodes)
		cl.BoundBox = geometry3D.NewBoundingBox(coarse.LoopNodePositions(c)...)
	}

	if err = coarse.CreateEdgesFromSegments(coarseEdges); err != nil {
		return nil, err
	}
	for e := range coarse.Edges {
		ce := &coarse.Edges[e]
		fe := fine.FindEdge(coarse.Nodes[ce.Node1].FineGridNode, coarse.Nodes[ce.Node2].FineGridNode)
		ce.FineGridEdge = fe
		if fe != grid.None {
			fine.Edges[fe].CoarseGridEdge = e
		}
	}
	coarse.CalculateEdgeProperties()
	upErr := coarse.CalculateUpwindEdges()
	coarse.CreateUpwindEdgeData()
	carryKuttaNodes(fine, coarse)

	if err = ValidateLevel(fine, coarse); err != nil {
		return nil, err
	}
	klog.V(2).Infof("level %d: %d loops, %d edges, %d nodes, %d kutta nodes",
		coarse.Level, coarse.NumberOfLoops(), coarse.NumberOfEdges(), coarse.NumberOfNodes(),
		coarse.NumberOfKuttaNodes())
	return coarse, upErr
}

func renumberInOrder(index []int) {
	var next int
	for i, v := range index {
		if v != grid.None {
			index[i] = next
			next++
		}
	}
}

func checkPartition(nFine int, coarseOf []int) (nCoarse int, err error) {
	if len(coarseOf) != nFine {
		return 0, errors.Wrapf(ErrInvalidPartition, "%d entries for %d loops", len(coarseOf), nFine)
	}
	for l, c := range coarseOf {
		if c < 0 {
			return 0, errors.Wrapf(ErrInvalidPartition, "loop %d is unassigned", l)
		}
		if c+1 > nCoarse {
			nCoarse = c + 1
		}
	}
	used := make([]bool, nCoarse)
	for _, c := range coarseOf {
		used[c] = true
	}
	for c, u := range used {
		if !u {
			return 0, errors.Wrapf(ErrInvalidPartition, "coarse loop %d has no children", c)
		}
	}
	if nCoarse >= nFine {
		return 0, errors.Wrapf(ErrNoCoarsening, "%d loops into %d", nFine, nCoarse)
	}
	return
}

// carryKuttaNodes keeps the Kutta nodes whose node survives on a coarse trailing edge
func carryKuttaNodes(fine, coarse *grid.Grid) {
	onTrailingEdge := make(map[int]bool)
	for e := range coarse.Edges {
		if ce := &coarse.Edges[e]; ce.IsTrailingEdge {
			onTrailingEdge[ce.Node1], onTrailingEdge[ce.Node2] = true, true
		}
	}
	coarse.KuttaNodes = coarse.KuttaNodes[:0]
	for _, k := range fine.KuttaNodes {
		if cn := fine.Nodes[k.Node].CoarseGridNode; cn != grid.None && onTrailingEdge[cn] {
			k.Node = cn
			coarse.KuttaNodes = append(coarse.KuttaNodes, k)
		}
	}
}

/*
ValidateLevel checks a coarse level against the fine level it was built from: every coarse loop area is
the sum of its children's areas, parent and child links agree, and every coarse edge borders one or two
valid loops.
*/
func ValidateLevel(fine, coarse *grid.Grid) (err error) {
	for c := range coarse.Loops {
		cl := &coarse.Loops[c]
		var sum float64
		for _, l := range cl.FineGridLoops {
			if fine.Loops[l].CoarseGridLoop != c {
				return errors.Wrapf(ErrInvalidPartition, "fine loop %d does not point back to coarse loop %d", l, c)
			}
			sum += fine.Loops[l].Area
		}
		if math.Abs(cl.Area-sum) > AreaTolerance*cl.Area {
			return errors.Wrapf(ErrAreaNotConserved, "level %d loop %d: area %g, children %g",
				coarse.Level, c, cl.Area, sum)
		}
	}
	nl := coarse.NumberOfLoops()
	for e := range coarse.Edges {
		ce := &coarse.Edges[e]
		if ce.Loop1 < 0 || ce.Loop1 >= nl || ce.Loop2 < 0 || ce.Loop2 >= nl {
			return errors.Wrapf(ErrInvalidCoarseEdge, "level %d edge %d: loops %d, %d",
				coarse.Level, e, ce.Loop1, ce.Loop2)
		}
		if ce.Loop1 == ce.Loop2 && !ce.IsBoundaryEdge {
			return errors.Wrapf(ErrInvalidCoarseEdge, "level %d edge %d has one loop and is not a boundary",
				coarse.Level, e)
		}
	}
	return
}
