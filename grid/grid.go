package grid

import (
	"github.com/notargets/vlmgrid/types"
	"gonum.org/v1/gonum/spatial/r3"
)

// None marks an absent node, loop or edge index
const None = -1

// noCopy flags accidental copies of arena owners with go vet's copylocks check
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type Node struct {
	Position         r3.Vec
	IsLeadingEdge    bool
	IsTrailingEdge   bool
	IsBoundaryEdge   bool
	IsBoundaryCorner bool
	ComponentID      int
	FineGridNode     int // Node on the next finer level this node was taken from
	CoarseGridNode   int // Node on the next coarser level, None if the node did not survive
}

type Edge struct {
	Node1, Node2 int // Node1 < Node2
	Loop1, Loop2 int // Loop2 == Loop1 for a boundary edge
	// Direction is +1 when the adjacent loop traverses Node1->Node2, -1 otherwise
	Direction [2]int

	IsLeadingEdge  bool
	IsTrailingEdge bool
	IsBoundaryEdge bool

	Normal      r3.Vec
	Length      float64
	BoundBox    r3.Box
	SurfaceID   int
	ComponentID int

	// Upwind cross reference, side 1 is LoopL and side 2 is LoopR
	LoopL, LoopR        int
	Loop1IsDownWind     bool
	Loop2IsDownWind     bool
	Loop1DownWindWeight float64
	Loop2DownWindWeight float64

	FineGridEdge   int
	CoarseGridEdge int
}

// NumberOfLoops is 1 for boundary edges and 2 for interior edges
func (e *Edge) NumberOfLoops() int {
	if e.Loop2 == e.Loop1 {
		return 1
	}
	return 2
}

// OtherLoop returns the loop across the edge from loop, None if there is none
func (e *Edge) OtherLoop(loop int) int {
	switch {
	case e.Loop1 == e.Loop2:
		return None
	case e.Loop1 == loop:
		return e.Loop2
	case e.Loop2 == loop:
		return e.Loop1
	}
	return None
}

func (e *Edge) Class() types.EdgeClass {
	switch {
	case e.IsTrailingEdge:
		return types.EC_TrailingEdge
	case e.IsLeadingEdge:
		return types.EC_LeadingEdge
	case e.IsBoundaryEdge:
		return types.EC_Boundary
	}
	return types.EC_Interior
}

/*
Loop is a panel. Level 0 loops are triangles (or input quads) whose Nodes are ordered so that the
right hand normal agrees with the camber normal. Agglomerated loops hold the unordered set of their
surviving boundary nodes and rely on EdgeDirection for their traversal.
*/
type Loop struct {
	_ noCopy

	Nodes            []int
	Edges            []int
	EdgeDirection    []int
	EdgeIsUpwind     []bool
	EdgeUpwindWeight []float64

	Normal       r3.Vec
	CamberNormal r3.Vec
	Centroid     r3.Vec
	Area         float64
	BoundBox     r3.Box
	Length       float64 // max(sqrt(Area), largest node to node distance)
	RefLength    float64 // shortest edge

	SurfaceID   int
	ComponentID int
	SpanStation int

	IsTrailingEdgeLoop bool
	IsLeadingEdgeLoop  bool
	IsDegenerate       bool
	HasNoUpwindEdges   bool

	CoarseGridLoop int
	FineGridLoops  []int
}

func (l *Loop) NumberOfEdges() int { return len(l.Edges) }

// IsOrdered is true when consecutive Nodes are the loop's own traversal
func (l *Loop) IsOrdered() bool {
	return len(l.FineGridLoops) == 0
}

// KuttaNode is a trailing edge node that launches a wake
type KuttaNode struct {
	Node             int
	WakeTrailingEdge r3.Vec
	ComponentID      int
	SpanFraction     float64
	IsWingTip        bool
	IsPeriodic       bool
}

/*
Grid owns the node, edge and loop arenas of one multigrid level. All cross references are indices into
these slices. Wake elements, when present, are appended after the first NumberOfSurface* entries.
*/
type Grid struct {
	_ noCopy

	Level       int
	SurfaceType types.SurfaceType

	Nodes      []Node
	Edges      []Edge
	Loops      []Loop
	KuttaNodes []KuttaNode

	NumberOfSurfaceNodes int
	NumberOfSurfaceLoops int
	NumberOfSurfaceEdges int

	edgeMap map[types.EdgeKey]int
}

func NewGrid(level int, st types.SurfaceType) *Grid {
	return &Grid{
		Level:       level,
		SurfaceType: st,
	}
}

func (g *Grid) NumberOfNodes() int      { return len(g.Nodes) }
func (g *Grid) NumberOfLoops() int      { return len(g.Loops) }
func (g *Grid) NumberOfEdges() int      { return len(g.Edges) }
func (g *Grid) NumberOfKuttaNodes() int { return len(g.KuttaNodes) }

func (g *Grid) SizeNodeList(n int) {
	g.Nodes = make([]Node, n)
	for i := range g.Nodes {
		g.Nodes[i].FineGridNode = None
		g.Nodes[i].CoarseGridNode = None
	}
	g.NumberOfSurfaceNodes = n
}

func (g *Grid) SizeLoopList(n int) {
	g.Loops = make([]Loop, n)
	for i := range g.Loops {
		g.Loops[i].CoarseGridLoop = None
	}
	g.NumberOfSurfaceLoops = n
}

func (g *Grid) SizeEdgeList(n int) {
	g.Edges = make([]Edge, 0, n)
	g.NumberOfSurfaceEdges = 0
}

func (g *Grid) SizeKuttaNodeList(n int) {
	g.KuttaNodes = make([]KuttaNode, n)
}

// LoopNodePositions returns the positions of the loop's nodes in stored order
func (g *Grid) LoopNodePositions(loop int) (pts []r3.Vec) {
	l := &g.Loops[loop]
	pts = make([]r3.Vec, len(l.Nodes))
	for i, n := range l.Nodes {
		pts[i] = g.Nodes[n].Position
	}
	return
}

// TotalArea is the sum of the surface loop areas
func (g *Grid) TotalArea() (area float64) {
	for i := 0; i < g.NumberOfSurfaceLoops; i++ {
		area += g.Loops[i].Area
	}
	return
}

// EdgeLoops returns the distinct loops adjacent to an edge
func (g *Grid) EdgeLoops(edge int) []int {
	e := &g.Edges[edge]
	if e.Loop1 == e.Loop2 {
		return []int{e.Loop1}
	}
	return []int{e.Loop1, e.Loop2}
}

// LoopNeighbors returns the loops sharing an edge with loop, in edge order
func (g *Grid) LoopNeighbors(loop int) (nbrs []int) {
	for _, e := range g.Loops[loop].Edges {
		if other := g.Edges[e].OtherLoop(loop); other != None {
			nbrs = append(nbrs, other)
		}
	}
	return
}
