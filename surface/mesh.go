package surface

import (
	"github.com/notargets/vlmgrid/grid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
CreateWingTriMesh triangulates the plate two triangles per cell. Node (i,j) becomes node i*NumJ+j.
On a lifting surface the j = 0 row is the trailing edge and each of its nodes a Kutta node.
*/
func (s *Surface) CreateWingTriMesh() (err error) {
	var (
		fp      = s.Plate
		ni, nj  = fp.NumI, fp.NumJ
		g       = grid.NewGrid(0, s.SurfaceType)
		lifting = s.IsLiftingSurface
	)
	s.IsPeriodic = fp.rowGap(0, ni-1) <= ClosureTolerance
	g.SizeNodeList(ni * nj)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			n := &g.Nodes[i*nj+j]
			n.Position = fp.Point(i, j)
			n.ComponentID = s.ComponentID
			n.IsTrailingEdge = j == 0 && lifting
			n.IsLeadingEdge = j == nj-1
			n.IsBoundaryEdge = i == 0 || i == ni-1 || (j == 0 && lifting)
			n.IsBoundaryCorner = (i == 0 || i == ni-1) && (j == 0 || j == nj-1)
		}
	}
	g.SizeLoopList(2 * (ni - 1) * (nj - 1))
	var l int
	for i := 0; i < ni-1; i++ {
		for j := 0; j < nj-1; j++ {
			var (
				n1, n2 = i*nj + j, (i+1)*nj + j
				n3, n4 = n2 + 1, n1 + 1
				c1, c2 = [2]int{i, j}, [2]int{i + 1, j}
				c3, c4 = [2]int{i + 1, j + 1}, [2]int{i, j + 1}
			)
			for _, tri := range []struct {
				nodes  []int
				camber r3.Vec
			}{
				{[]int{n3, n2, n1}, s.camberNormal(c1, c2, c3)},
				{[]int{n4, n3, n1}, s.camberNormal(c1, c3, c4)},
			} {
				loop := &g.Loops[l]
				loop.Nodes = tri.nodes
				loop.CamberNormal = tri.camber
				loop.SurfaceID = s.SurfaceID
				loop.ComponentID = s.ComponentID
				loop.SpanStation = i
				loop.IsTrailingEdgeLoop = j == 0 && lifting
				loop.IsLeadingEdgeLoop = j == nj-2
				l++
			}
		}
	}
	if lifting {
		s.createKuttaNodes(g)
	}
	if err = g.Build(); err != nil && !grid.IsIntegrityError(err) {
		return errors.Wrapf(err, "component %s", s.ComponentName)
	}
	s.Grids = []*grid.Grid{g}
	return s.checkIntegrity(err)
}

// createKuttaNodes adds one Kutta node per trailing edge station, with its fraction of the trailing
// edge arc length
func (s *Surface) createKuttaNodes(g *grid.Grid) {
	var (
		ni, nj = s.Plate.NumI, s.Plate.NumJ
		arc    = make([]float64, ni)
	)
	for i := 1; i < ni; i++ {
		arc[i] = arc[i-1] + r3.Norm(r3.Sub(g.Nodes[i*nj].Position, g.Nodes[(i-1)*nj].Position))
	}
	g.SizeKuttaNodeList(ni)
	for i := 0; i < ni; i++ {
		k := &g.KuttaNodes[i]
		k.Node = i * nj
		k.WakeTrailingEdge = g.Nodes[k.Node].Position
		k.ComponentID = s.ComponentID
		if arc[ni-1] > 0 {
			k.SpanFraction = arc[i] / arc[ni-1]
		}
		k.IsPeriodic = s.IsPeriodic
		k.IsWingTip = !s.IsPeriodic && (i == 0 || i == ni-1)
	}
}

/*
CreateBodyTriMesh triangulates a body plate. A nose or tail station whose points coincide collapses into
a single node, and the triangles degenerating there are dropped, J-1 per closed end. When the first and
last circumferential points coincide the surface is periodic and the seam nodes are shared.
*/
func (s *Surface) CreateBodyTriMesh() (err error) {
	var (
		fp     = s.Plate
		ni, nj = fp.NumI, fp.NumJ
		g      = grid.NewGrid(0, s.SurfaceType)
		node   = make([][]int, ni)
		next   int
		tris   [][]int
		camber []r3.Vec
		span   []int
	)
	s.NoseIsClosed = fp.rowSpread(0) <= ClosureTolerance
	s.TailIsClosed = fp.rowSpread(ni-1) <= ClosureTolerance
	s.IsPeriodic = fp.columnGap(0, nj-1) <= ClosureTolerance
	for i := range node {
		node[i] = make([]int, nj)
		for j := range node[i] {
			switch {
			case i == 0 && s.NoseIsClosed && j > 0:
				node[i][j] = node[0][0]
			case i == ni-1 && s.TailIsClosed && j > 0:
				node[i][j] = node[ni-1][0]
			case s.IsPeriodic && j == nj-1:
				node[i][j] = node[i][0]
			default:
				node[i][j] = next
				next++
			}
		}
	}
	g.SizeNodeList(next)
	placed := make([]bool, next)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			if placed[node[i][j]] {
				continue
			}
			placed[node[i][j]] = true
			n := &g.Nodes[node[i][j]]
			var (
				openNose = i == 0 && !s.NoseIsClosed
				openTail = i == ni-1 && !s.TailIsClosed
				openSeam = !s.IsPeriodic && (j == 0 || j == nj-1)
			)
			n.Position = fp.Point(i, j)
			n.ComponentID = s.ComponentID
			n.IsLeadingEdge = openNose
			n.IsBoundaryEdge = openNose || openTail || openSeam
			n.IsBoundaryCorner = (openNose || openTail) && openSeam
		}
	}
	for i := 0; i < ni-1; i++ {
		for j := 0; j < nj-1; j++ {
			var (
				quad = [4]int{node[i][j], node[i+1][j], node[i+1][j+1], node[i][j+1]}
				ij   = [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}}
				diag = [2][3]int{{0, 1, 2}, {0, 2, 3}}
			)
			if j+1 > nj/2 {
				diag = [2][3]int{{0, 1, 3}, {1, 2, 3}}
			}
			for _, d := range diag {
				t := []int{quad[d[0]], quad[d[1]], quad[d[2]]}
				if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
					continue
				}
				tris = append(tris, t)
				camber = append(camber, s.camberNormal(ij[d[0]], ij[d[1]], ij[d[2]]))
				span = append(span, i)
			}
		}
	}
	g.SizeLoopList(len(tris))
	for l, tri := range tris {
		loop := &g.Loops[l]
		loop.Nodes = tri
		loop.CamberNormal = camber[l]
		loop.SurfaceID = s.SurfaceID
		loop.ComponentID = s.ComponentID
		loop.SpanStation = span[l]
		loop.IsLeadingEdgeLoop = !s.NoseIsClosed && span[l] == 0
	}
	if err = g.Build(); err != nil && !grid.IsIntegrityError(err) {
		return errors.Wrapf(err, "component %s", s.ComponentName)
	}
	s.Grids = []*grid.Grid{g}
	return s.checkIntegrity(err)
}
