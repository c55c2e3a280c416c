package grid

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// FluxTolerance is the smallest normalized edge flux counted as inflow
const FluxTolerance = 1.e-12

// FreeStreamDirection is the reference flow direction in the grid frame
var FreeStreamDirection = r3.Vec{X: 1}

/*
CalculateUpwindEdges marks, for every loop, the edges the reference flow enters through. For an edge
with unit tangent t in loop traversal order the outward in plane direction is t x n, and the edge
flux is max(-(outward . x), 0). Weights are the fluxes normalized to sum to one per loop. Loops
without inflow are flagged HasNoUpwindEdges and reported in the returned *IntegrityError. Degenerate
loops and loops with no edges at all get no upwind edges and are skipped.
The reference length and shortest edge length of each loop are set here as well.
*/
func (g *Grid) CalculateUpwindEdges() (err error) {
	ie := &IntegrityError{Level: g.Level}
	for l := range g.Loops {
		loop := &g.Loops[l]
		g.loopLengths(l)
		loop.EdgeIsUpwind = make([]bool, len(loop.Edges))
		loop.EdgeUpwindWeight = make([]float64, len(loop.Edges))
		loop.HasNoUpwindEdges = false
		// A loop without edges is a closed agglomerate, nothing flows through it
		if loop.IsDegenerate || len(loop.Edges) == 0 {
			continue
		}
		var total float64
		for i, e := range loop.Edges {
			if flux := g.edgeFlux(l, i, e); flux > FluxTolerance {
				loop.EdgeIsUpwind[i] = true
				loop.EdgeUpwindWeight[i] = flux
				total += flux
			}
		}
		if total == 0 {
			loop.HasNoUpwindEdges = true
			ie.add(l, errors.Wrapf(ErrNoUpwindEdges, "normal %v", loop.Normal))
			continue
		}
		for i := range loop.EdgeUpwindWeight {
			loop.EdgeUpwindWeight[i] /= total
		}
	}
	return ie.errOrNil()
}

func (g *Grid) edgeFlux(l, i, e int) float64 {
	var (
		loop  = &g.Loops[l]
		edge  = &g.Edges[e]
		delta = r3.Sub(g.Nodes[edge.Node2].Position, g.Nodes[edge.Node1].Position)
	)
	if edge.Length == 0 {
		return 0
	}
	tangent := r3.Scale(float64(loop.EdgeDirection[i])/edge.Length, delta)
	outward := r3.Cross(tangent, loop.Normal)
	return math.Max(-r3.Dot(outward, FreeStreamDirection), 0)
}

/*
CreateUpwindEdgeData sets the left and right loops of every edge and copies the downwind flags and
weights of each side from the loops' own upwind tables. The left loop is the one whose traversal runs
Node1->Node2. A missing side is None and never downwind.
*/
func (g *Grid) CreateUpwindEdgeData() {
	for i := range g.Edges {
		e := &g.Edges[i]
		other := None
		if e.Loop2 != e.Loop1 {
			other = e.Loop2
		}
		if g.traversesForward(e.Loop1, i) {
			e.LoopL, e.LoopR = e.Loop1, other
		} else {
			e.LoopL, e.LoopR = other, e.Loop1
		}
		e.Loop1IsDownWind, e.Loop1DownWindWeight = g.upwindEntry(e.LoopL, i)
		e.Loop2IsDownWind, e.Loop2DownWindWeight = g.upwindEntry(e.LoopR, i)
	}
}

// traversesForward reports whether the loop's own traversal crosses the edge from Node1 to Node2
func (g *Grid) traversesForward(l, edge int) bool {
	var (
		loop = &g.Loops[l]
		e    = &g.Edges[edge]
	)
	if loop.IsOrdered() {
		nn := len(loop.Nodes)
		for k, n := range loop.Nodes {
			if n == e.Node1 && loop.Nodes[(k+1)%nn] == e.Node2 {
				return true
			}
		}
		return false
	}
	for k, le := range loop.Edges {
		if le == edge {
			return loop.EdgeDirection[k] > 0
		}
	}
	return false
}

func (g *Grid) upwindEntry(l, edge int) (upwind bool, weight float64) {
	if l == None {
		return
	}
	loop := &g.Loops[l]
	for k, le := range loop.Edges {
		if le == edge && k < len(loop.EdgeIsUpwind) {
			return loop.EdgeIsUpwind[k], loop.EdgeUpwindWeight[k]
		}
	}
	return
}
