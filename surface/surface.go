package surface

import (
	"math"
	"strings"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/grid"
	"github.com/notargets/vlmgrid/multigrid"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ClosureTolerance is the mean squared distance under which two rows of plate points coincide
const ClosureTolerance = 1.e-7

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type Options struct {
	// Strict turns per loop integrity diagnostics into errors, otherwise they are logged
	Strict bool
	// Agglomerator partitions each level, FrontAgglomerator when nil
	Agglomerator multigrid.Agglomerator
}

// Surface converts the flat plate of one component into a panel mesh and its multigrid levels
type Surface struct {
	_ noCopy

	ComponentName string
	ComponentID   int
	SurfaceID     int
	SurfaceType   types.SurfaceType
	Plate         *FlatPlate

	Grids                 []*grid.Grid
	MaxNumberOfGridLevels int

	WettedArea       float64
	AverageChord     float64
	IsLiftingSurface bool
	NoseIsClosed     bool
	TailIsClosed     bool
	IsPeriodic       bool

	Options Options
}

/*
NewSurface sets up a component. Wings are lifting unless the component name contains NOWAKE. A wetted
area <= 0 is replaced by an estimate from the panel areas once the mesh is built.
*/
func NewSurface(name string, componentID, surfaceID int, st types.SurfaceType, plate *FlatPlate,
	wettedArea float64, opts Options) (s *Surface, err error) {
	if plate == nil {
		return nil, errors.Wrapf(ErrInvalidPlate, "component %s has no plate", name)
	}
	if err = plate.Validate(); err != nil {
		return nil, errors.Wrapf(err, "component %s", name)
	}
	if st == types.ST_None {
		return nil, errors.Errorf("component %s: unknown surface type", name)
	}
	s = &Surface{
		ComponentName:    name,
		ComponentID:      componentID,
		SurfaceID:        surfaceID,
		SurfaceType:      st,
		Plate:            plate,
		WettedArea:       wettedArea,
		IsLiftingSurface: st == types.ST_Wing && !strings.Contains(name, "NOWAKE"),
		Options:          opts,
	}
	nij := float64(plate.NumI * plate.NumJ)
	s.MaxNumberOfGridLevels = 4 * int(math.Log(nij)/math.Log(4))
	return
}

// Build meshes the plate and agglomerates it into the multigrid levels
func (s *Surface) Build() (err error) {
	if err = s.CreateMesh(); err != nil {
		return
	}
	return s.AgglomerateMesh()
}

// CreateMesh builds level 0 and the component scalars derived from it
func (s *Surface) CreateMesh() (err error) {
	switch s.SurfaceType {
	case types.ST_Wing:
		err = s.CreateWingTriMesh()
	case types.ST_Body:
		err = s.CreateBodyTriMesh()
	}
	if err != nil {
		return
	}
	g := s.Grids[0]
	if s.WettedArea <= 0 {
		areas := make([]float64, g.NumberOfSurfaceLoops)
		for l := range areas {
			areas[l] = g.Loops[l].Area
		}
		s.WettedArea = math.Pi * floats.Sum(areas)
	}
	s.AverageChord = s.averageChord()
	klog.V(2).Infof("%s: %d nodes, %d loops, %d edges, %d kutta nodes, wetted area %g",
		s.ComponentName, g.NumberOfNodes(), g.NumberOfLoops(), g.NumberOfEdges(), g.NumberOfKuttaNodes(),
		s.WettedArea)
	return
}

// averageChord is the mean trailing to leading edge distance for wings and the nose to tail length of
// bodies
func (s *Surface) averageChord() float64 {
	fp := s.Plate
	if s.SurfaceType == types.ST_Body {
		var nose, tail r3.Vec
		for j := 0; j < fp.NumJ; j++ {
			nose = r3.Add(nose, fp.Point(0, j))
			tail = r3.Add(tail, fp.Point(fp.NumI-1, j))
		}
		return r3.Norm(r3.Sub(tail, nose)) / float64(fp.NumJ)
	}
	chords := make([]float64, fp.NumI)
	for i := range chords {
		chords[i] = r3.Norm(r3.Sub(fp.Point(i, fp.NumJ-1), fp.Point(i, 0)))
	}
	return floats.Sum(chords) / float64(fp.NumI)
}

// checkIntegrity logs per loop diagnostics unless the surface is strict, other errors are wrapped
func (s *Surface) checkIntegrity(err error) error {
	switch {
	case err == nil:
		return nil
	case grid.IsIntegrityError(err) && !s.Options.Strict:
		klog.Warningf("%s: %v", s.ComponentName, err)
		return nil
	}
	return errors.Wrapf(err, "component %s", s.ComponentName)
}

// camberNormal is the normalized mean of the plate normals at the given (i,j) points
func (s *Surface) camberNormal(ij ...[2]int) (n r3.Vec) {
	for _, p := range ij {
		n = r3.Add(n, s.Plate.Normal(p[0], p[1]))
	}
	n, _ = geometry3D.SafeUnit(n, 0)
	return
}

func (s *Surface) NumberOfGridLevels() int { return len(s.Grids) }

/*
AgglomerateMesh adds coarse levels until MaxNumberOfGridLevels is reached, the last level has a single
loop, or the agglomerator can no longer reduce the loop count. Coarse loops without inflow are logged
and never fatal, they come from the agglomeration and not from the input mesh.
*/
func (s *Surface) AgglomerateMesh() (err error) {
	if len(s.Grids) == 0 {
		return errors.Errorf("component %s: no mesh to agglomerate", s.ComponentName)
	}
	agg := s.Options.Agglomerator
	if agg == nil {
		agg = multigrid.NewFrontAgglomerator()
	}
	for len(s.Grids) < s.MaxNumberOfGridLevels {
		fine := s.Grids[len(s.Grids)-1]
		if fine.NumberOfLoops() <= 1 {
			break
		}
		coarse, cErr := multigrid.Coarsen(fine, agg)
		if coarse == nil {
			if errors.Is(cErr, multigrid.ErrNoCoarsening) {
				klog.V(2).Infof("%s: level %d does not coarsen further", s.ComponentName, fine.Level)
				break
			}
			return errors.Wrapf(cErr, "component %s", s.ComponentName)
		}
		s.Grids = append(s.Grids, coarse)
		var ie *grid.IntegrityError
		if errors.As(cErr, &ie) && ie.AllOf(grid.ErrNoUpwindEdges) {
			// Agglomerates wrapping around the body can face the flow head on
			klog.V(1).Infof("%s: %v", s.ComponentName, cErr)
			cErr = nil
		}
		if err = s.checkIntegrity(cErr); err != nil {
			return
		}
	}
	klog.V(2).Infof("%s: %d grid levels, coarsest has %d loops", s.ComponentName, len(s.Grids),
		s.Grids[len(s.Grids)-1].NumberOfLoops())
	return
}

// UpdateGeometryLocation moves every level of the surface, one level after the other
func (s *Surface) UpdateGeometryLocation(rm geometry3D.RigidMotion, inGroup func(componentID int) bool) {
	for _, g := range s.Grids {
		g.UpdateGeometryLocation(rm, inGroup)
	}
}
