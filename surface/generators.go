package surface

import (
	"math"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
WingPlanform is a straight tapered wing half with a flat camber surface. Sweep is the leading edge sweep
and Dihedral the dihedral angle, both in degrees. The root leading edge sits at Origin.
*/
type WingPlanform struct {
	Span      float64
	RootChord float64
	TipChord  float64
	Sweep     float64
	Dihedral  float64
	Origin    r3.Vec
}

func (wp WingPlanform) FlatPlate(ni, nj int) (fp *FlatPlate, err error) {
	if wp.Span <= 0 || wp.RootChord <= 0 || wp.TipChord < 0 {
		return nil, errors.Wrapf(ErrInvalidPlate, "span %g, root chord %g, tip chord %g",
			wp.Span, wp.RootChord, wp.TipChord)
	}
	if fp, err = NewFlatPlate(ni, nj); err != nil {
		return
	}
	var (
		eta    = floats.Span(make([]float64, ni), 0, 1)
		xi     = floats.Span(make([]float64, nj), 1, 0) // trailing edge first
		tanSw  = math.Tan(wp.Sweep * math.Pi / 180)
		dih    = wp.Dihedral * math.Pi / 180
		normal = r3.Vec{Y: -math.Sin(dih), Z: math.Cos(dih)}
	)
	for i := 0; i < ni; i++ {
		var (
			s     = wp.Span * eta[i]
			chord = wp.RootChord + (wp.TipChord-wp.RootChord)*eta[i]
			le    = r3.Vec{X: s * tanSw, Y: s * math.Cos(dih), Z: s * math.Sin(dih)}
		)
		for j := 0; j < nj; j++ {
			fp.SetPoint(i, j, r3.Add(wp.Origin, r3.Add(le, r3.Vec{X: chord * xi[j]})))
			fp.SetNormal(i, j, normal)
		}
	}
	return
}

/*
BodyOfRevolution is an ellipsoid of revolution about an axis parallel to x, with its nose at Origin.
Stations run from nose to tail and points around the circumference, the first and last points of a
station coincide.
*/
type BodyOfRevolution struct {
	Length float64
	Radius float64
	Origin r3.Vec
}

func (br BodyOfRevolution) FlatPlate(ni, nj int) (fp *FlatPlate, err error) {
	if br.Length <= 0 || br.Radius <= 0 {
		return nil, errors.Wrapf(ErrInvalidPlate, "length %g, radius %g", br.Length, br.Radius)
	}
	if fp, err = NewFlatPlate(ni, nj); err != nil {
		return
	}
	var (
		a     = 0.5 * br.Length
		xs    = floats.Span(make([]float64, ni), 0, br.Length)
		theta = floats.Span(make([]float64, nj), 0, 2*math.Pi)
	)
	for i := 0; i < ni; i++ {
		var (
			u = (xs[i] - a) / a
			r = br.Radius * math.Sqrt(math.Max(1-u*u, 0))
		)
		for j := 0; j < nj; j++ {
			sin, cos := math.Sincos(theta[j])
			p := r3.Vec{X: xs[i], Y: r * cos, Z: r * sin}
			grad := r3.Vec{X: (xs[i] - a) / (a * a), Y: p.Y / (br.Radius * br.Radius), Z: p.Z / (br.Radius * br.Radius)}
			n, _ := geometry3D.SafeUnit(grad, 0)
			fp.SetPoint(i, j, r3.Add(br.Origin, p))
			fp.SetNormal(i, j, n)
		}
	}
	return
}
