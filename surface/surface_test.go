package surface

import (
	"math"
	"testing"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/grid"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func rectangularWing(t *testing.T, name string, ni, nj int) *Surface {
	fp, err := WingPlanform{Span: float64(ni - 1), RootChord: float64(nj - 1), TipChord: float64(nj - 1)}.
		FlatPlate(ni, nj)
	require.NoError(t, err)
	s, err := NewSurface(name, 1, 1, types.ST_Wing, fp, 0, Options{Strict: true})
	require.NoError(t, err)
	return s
}

func TestFlatPlateWing(t *testing.T) {
	s := rectangularWing(t, "Wing", 5, 9)
	require.NoError(t, s.CreateMesh())
	g := s.Grids[0]
	assert.True(t, s.IsLiftingSurface)
	assert.False(t, s.IsPeriodic)
	assert.Equal(t, 64, g.NumberOfLoops())
	assert.Equal(t, 45, g.NumberOfNodes())
	assert.Equal(t, 5, g.NumberOfKuttaNodes())
	for l := range g.Loops {
		assert.InDelta(t, 0., r3.Norm(r3.Sub(g.Loops[l].Normal, r3.Vec{Z: 1})), 1.e-12)
	}
	var single int
	for e := range g.Edges {
		edge := &g.Edges[e]
		p1, p2 := g.Nodes[edge.Node1].Position, g.Nodes[edge.Node2].Position
		onPerimeter := (p1.X == p2.X && (p1.X == 0 || p1.X == 8)) || (p1.Y == p2.Y && (p1.Y == 0 || p1.Y == 4))
		if onPerimeter {
			assert.Equal(t, 1, edge.NumberOfLoops())
			single++
		} else {
			assert.Equal(t, 2, edge.NumberOfLoops())
		}
		// The trailing edge is the x = 8 side
		assert.Equal(t, onPerimeter && p1.X == 8 && p2.X == 8, edge.IsTrailingEdge)
		assert.Equal(t, onPerimeter && p1.X == 0 && p2.X == 0, edge.IsLeadingEdge)
	}
	assert.Equal(t, 2*4+2*8, single)
	assert.InDelta(t, 32., g.TotalArea(), 1.e-12)
	assert.InDelta(t, 32.*math.Pi, s.WettedArea, 1.e-9)
	assert.InDelta(t, 8., s.AverageChord, 1.e-12)

	for i, k := range g.KuttaNodes {
		assert.Equal(t, 8., k.WakeTrailingEdge.X)
		assert.InDelta(t, float64(i)/4, k.SpanFraction, 1.e-12)
		assert.Equal(t, i == 0 || i == 4, k.IsWingTip)
		assert.False(t, k.IsPeriodic)
		assert.Equal(t, 1, k.ComponentID)
	}
	for l := range g.Loops {
		loop := &g.Loops[l]
		assert.Equal(t, loop.Centroid.X > 7, loop.IsTrailingEdgeLoop)
		assert.Equal(t, loop.Centroid.X < 1, loop.IsLeadingEdgeLoop)
	}
}

func TestLiftingSurfaceCounts(t *testing.T) {
	for _, ij := range [][2]int{{2, 2}, {3, 7}, {11, 4}} {
		s := rectangularWing(t, "Wing", ij[0], ij[1])
		require.NoError(t, s.CreateMesh())
		assert.Equal(t, ij[0], s.Grids[0].NumberOfKuttaNodes())
		assert.Equal(t, 2*(ij[0]-1)*(ij[1]-1), s.Grids[0].NumberOfLoops())
	}
}

func TestNoWakeSurface(t *testing.T) {
	s := rectangularWing(t, "Strut_NOWAKE", 3, 4)
	require.NoError(t, s.CreateMesh())
	g := s.Grids[0]
	assert.False(t, s.IsLiftingSurface)
	assert.Zero(t, g.NumberOfKuttaNodes())
	for e := range g.Edges {
		assert.False(t, g.Edges[e].IsTrailingEdge)
	}
}

func TestTaperedWing(t *testing.T) {
	fp, err := WingPlanform{Span: 5, RootChord: 2, TipChord: 1, Sweep: 30, Dihedral: 5}.FlatPlate(6, 5)
	require.NoError(t, err)
	s, err := NewSurface("Wing", 0, 0, types.ST_Wing, fp, 12.5, Options{Strict: true})
	require.NoError(t, err)
	require.NoError(t, s.Build())
	assert.Equal(t, 12.5, s.WettedArea)
	assert.InDelta(t, 1.5, s.AverageChord, 1.e-12)
	assert.InDelta(t, 7.5, s.Grids[0].TotalArea(), 1.e-9)
	normal := fp.Normal(0, 0)
	for l := range s.Grids[0].Loops {
		assert.InDelta(t, 1., r3.Dot(normal, s.Grids[0].Loops[l].Normal), 1.e-12)
	}
}

func TestAgglomerateMesh(t *testing.T) {
	s := rectangularWing(t, "Wing", 5, 9)
	require.NoError(t, s.Build())
	assert.Equal(t, 8, s.MaxNumberOfGridLevels)
	require.LessOrEqual(t, s.NumberOfGridLevels(), s.MaxNumberOfGridLevels)
	coarsest := s.Grids[s.NumberOfGridLevels()-1]
	assert.Equal(t, 1, coarsest.NumberOfLoops())
	assert.InDelta(t, 32., coarsest.Loops[0].Area, 1.e-9*32)
	for lev := 1; lev < s.NumberOfGridLevels(); lev++ {
		fine, coarse := s.Grids[lev-1], s.Grids[lev]
		assert.Equal(t, lev, coarse.Level)
		assert.Less(t, coarse.NumberOfLoops(), fine.NumberOfLoops())
		assert.InDelta(t, 32., coarse.TotalArea(), 1.e-9*32)
		assert.Equal(t, 5, coarse.NumberOfKuttaNodes())
	}
}

func TestMotionAllLevels(t *testing.T) {
	s := rectangularWing(t, "Rotor", 4, 5)
	require.NoError(t, s.Build())
	orig := make([][]r3.Vec, s.NumberOfGridLevels())
	for lev, g := range s.Grids {
		for n := range g.Nodes {
			orig[lev] = append(orig[lev], g.Nodes[n].Position)
		}
	}
	rm := geometry3D.NewRigidMotion(r3.Vec{X: -2, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{Y: 1}, 1.3)
	s.UpdateGeometryLocation(rm, grid.ComponentGroup(s.ComponentID))
	s.UpdateGeometryLocation(rm.Inverse(), nil)
	for lev, g := range s.Grids {
		for n := range g.Nodes {
			assert.InDelta(t, 0., r3.Norm(r3.Sub(orig[lev][n], g.Nodes[n].Position)), 1.e-9)
		}
		for i, k := range g.KuttaNodes {
			assert.InDelta(t, 0., r3.Norm(r3.Sub(g.Nodes[k.Node].Position, k.WakeTrailingEdge)), 1.e-9, "kutta %d", i)
		}
	}
}

func TestClosedBody(t *testing.T) {
	ni, nj := 9, 13
	fp, err := BodyOfRevolution{Length: 4, Radius: 1}.FlatPlate(ni, nj)
	require.NoError(t, err)
	s, err := NewSurface("Fuselage", 2, 3, types.ST_Body, fp, 0, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Build())
	assert.True(t, s.NoseIsClosed)
	assert.True(t, s.TailIsClosed)
	assert.True(t, s.IsPeriodic)
	assert.False(t, s.IsLiftingSurface)
	assert.InDelta(t, 4., s.AverageChord, 1.e-9)

	g := s.Grids[0]
	assert.Equal(t, 2*(ni-1)*(nj-1)-2*(nj-1), g.NumberOfLoops())
	assert.Equal(t, 2+(ni-2)*(nj-1), g.NumberOfNodes())
	assert.Zero(t, g.NumberOfKuttaNodes())
	// Closed surface
	assert.Equal(t, 2, g.NumberOfNodes()-g.NumberOfEdges()+g.NumberOfLoops())
	for e := range g.Edges {
		assert.Equal(t, 2, g.Edges[e].NumberOfLoops())
		assert.False(t, g.Edges[e].IsBoundaryEdge)
	}
	center := r3.Vec{X: 2}
	for l := range g.Loops {
		loop := &g.Loops[l]
		assert.False(t, loop.IsDegenerate)
		assert.Greater(t, r3.Dot(loop.Normal, r3.Sub(loop.Centroid, center)), 0.)
	}
	for lev := 1; lev < s.NumberOfGridLevels(); lev++ {
		assert.InDelta(t, g.TotalArea(), s.Grids[lev].TotalArea(), 1.e-9*g.TotalArea())
	}
}

func TestClosedBodyStrict(t *testing.T) {
	fp, err := BodyOfRevolution{Length: 4, Radius: 1}.FlatPlate(9, 13)
	require.NoError(t, err)
	s, err := NewSurface("Fuselage", 2, 3, types.ST_Body, fp, 0, Options{Strict: true})
	require.NoError(t, err)
	require.NoError(t, s.Build())
	coarsest := s.Grids[s.NumberOfGridLevels()-1]
	assert.Equal(t, 1, coarsest.NumberOfLoops())
	assert.Zero(t, coarsest.NumberOfEdges())
	assert.False(t, coarsest.Loops[0].HasNoUpwindEdges)
	for lev := 1; lev < s.NumberOfGridLevels(); lev++ {
		assert.Less(t, s.Grids[lev].NumberOfLoops(), s.Grids[lev-1].NumberOfLoops())
	}
}

func TestOpenBody(t *testing.T) {
	ni, nj := 4, 7
	fp, err := NewFlatPlate(ni, nj)
	require.NoError(t, err)
	// Half cylinder, open at both ends and along the seam
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			theta := math.Pi * float64(j) / float64(nj-1)
			n := r3.Vec{Y: math.Cos(theta), Z: math.Sin(theta)}
			fp.SetPoint(i, j, r3.Add(r3.Vec{X: float64(i)}, n))
			fp.SetNormal(i, j, n)
		}
	}
	s, err := NewSurface("Pod", 0, 0, types.ST_Body, fp, 0, Options{Strict: true})
	require.NoError(t, err)
	require.NoError(t, s.CreateMesh())
	assert.False(t, s.NoseIsClosed)
	assert.False(t, s.TailIsClosed)
	assert.False(t, s.IsPeriodic)
	g := s.Grids[0]
	assert.Equal(t, 2*(ni-1)*(nj-1), g.NumberOfLoops())
	assert.Equal(t, ni*nj, g.NumberOfNodes())
	var boundary int
	for e := range g.Edges {
		if g.Edges[e].IsBoundaryEdge {
			boundary++
		}
	}
	assert.Equal(t, 2*(ni-1)+2*(nj-1), boundary)
	assert.True(t, g.Nodes[0].IsBoundaryCorner)
	// The open nose is a leading edge, the open tail is not
	var leading int
	for e := range g.Edges {
		if g.Edges[e].Class() == types.EC_LeadingEdge {
			leading++
		}
	}
	assert.Equal(t, nj-1, leading)
	for j := 0; j < nj; j++ {
		assert.True(t, g.Nodes[j].IsLeadingEdge)
		assert.False(t, g.Nodes[(ni-1)*nj+j].IsLeadingEdge)
	}
}

func TestInvalidInput(t *testing.T) {
	_, err := NewFlatPlate(1, 5)
	assert.True(t, errors.Is(err, ErrInvalidPlate))
	_, err = WingPlanform{Span: -1, RootChord: 1}.FlatPlate(3, 3)
	assert.True(t, errors.Is(err, ErrInvalidPlate))

	fp, err := NewFlatPlate(3, 3)
	require.NoError(t, err)
	fp.X.Set(1, 1, math.NaN())
	_, err = NewSurface("Wing", 0, 0, types.ST_Wing, fp, 0, Options{})
	assert.True(t, errors.Is(err, ErrInvalidPlate))
	_, err = NewSurface("Wing", 0, 0, types.ST_Wing, nil, 0, Options{})
	assert.True(t, errors.Is(err, ErrInvalidPlate))
}

func TestDegenerateStations(t *testing.T) {
	build := func(strict bool) (*Surface, error) {
		fp, err := WingPlanform{Span: 2, RootChord: 1, TipChord: 1}.FlatPlate(3, 3)
		require.NoError(t, err)
		// Collapse the second station onto the first
		for j := 0; j < 3; j++ {
			fp.SetPoint(1, j, fp.Point(0, j))
		}
		s, err := NewSurface("Wing", 0, 0, types.ST_Wing, fp, 0, Options{Strict: strict})
		require.NoError(t, err)
		return s, s.CreateMesh()
	}
	_, err := build(true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, grid.ErrDegenerateLoop))

	s, err := build(false)
	require.NoError(t, err)
	var degenerate int
	for l := range s.Grids[0].Loops {
		if s.Grids[0].Loops[l].IsDegenerate {
			degenerate++
		}
	}
	assert.Equal(t, 4, degenerate)
	require.NoError(t, s.AgglomerateMesh())
	assert.Greater(t, s.NumberOfGridLevels(), 1)
}
