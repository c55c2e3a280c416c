package surface

import (
	"github.com/notargets/vlmgrid/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidPlate = errors.New("invalid flat plate")

/*
FlatPlate is the structured camber surface of one component, NumI stations by NumJ points per station.
For wings i runs along the span and j from the trailing edge (j = 0) to the leading edge. For bodies
i runs from nose to tail and j around the circumference.
*/
type FlatPlate struct {
	NumI, NumJ int
	X, Y, Z    *mat.Dense
	Nx, Ny, Nz *mat.Dense
}

func NewFlatPlate(ni, nj int) (fp *FlatPlate, err error) {
	if ni < 2 || nj < 2 {
		return nil, errors.Wrapf(ErrInvalidPlate, "need at least 2x2 points, have %dx%d", ni, nj)
	}
	fp = &FlatPlate{
		NumI: ni, NumJ: nj,
		X: mat.NewDense(ni, nj, nil), Y: mat.NewDense(ni, nj, nil), Z: mat.NewDense(ni, nj, nil),
		Nx: mat.NewDense(ni, nj, nil), Ny: mat.NewDense(ni, nj, nil), Nz: mat.NewDense(ni, nj, nil),
	}
	return
}

func (fp *FlatPlate) Point(i, j int) r3.Vec {
	return r3.Vec{X: fp.X.At(i, j), Y: fp.Y.At(i, j), Z: fp.Z.At(i, j)}
}

func (fp *FlatPlate) Normal(i, j int) r3.Vec {
	return r3.Vec{X: fp.Nx.At(i, j), Y: fp.Ny.At(i, j), Z: fp.Nz.At(i, j)}
}

func (fp *FlatPlate) SetPoint(i, j int, p r3.Vec) {
	fp.X.Set(i, j, p.X)
	fp.Y.Set(i, j, p.Y)
	fp.Z.Set(i, j, p.Z)
}

func (fp *FlatPlate) SetNormal(i, j int, n r3.Vec) {
	fp.Nx.Set(i, j, n.X)
	fp.Ny.Set(i, j, n.Y)
	fp.Nz.Set(i, j, n.Z)
}

// Validate checks array shapes and values
func (fp *FlatPlate) Validate() (err error) {
	if fp.NumI < 2 || fp.NumJ < 2 {
		return errors.Wrapf(ErrInvalidPlate, "need at least 2x2 points, have %dx%d", fp.NumI, fp.NumJ)
	}
	for k, m := range []*mat.Dense{fp.X, fp.Y, fp.Z, fp.Nx, fp.Ny, fp.Nz} {
		if m == nil {
			return errors.Wrapf(ErrInvalidPlate, "array %d is missing", k)
		}
		if r, c := m.Dims(); r != fp.NumI || c != fp.NumJ {
			return errors.Wrapf(ErrInvalidPlate, "array %d is %dx%d, want %dx%d", k, r, c, fp.NumI, fp.NumJ)
		}
		if utils.IsNan(m.RawMatrix().Data) {
			return errors.Wrapf(ErrInvalidPlate, "array %d has NaN values", k)
		}
	}
	return
}

// rowSpread is the mean squared distance of the points of station i from its first point
func (fp *FlatPlate) rowSpread(i int) (msd float64) {
	p0 := fp.Point(i, 0)
	for j := 0; j < fp.NumJ; j++ {
		msd += r3.Norm2(r3.Sub(fp.Point(i, j), p0))
	}
	return msd / float64(fp.NumJ)
}

// rowGap is the mean squared distance between matching points of stations i1 and i2
func (fp *FlatPlate) rowGap(i1, i2 int) (msd float64) {
	for j := 0; j < fp.NumJ; j++ {
		msd += r3.Norm2(r3.Sub(fp.Point(i1, j), fp.Point(i2, j)))
	}
	return msd / float64(fp.NumJ)
}

// columnGap is the mean squared distance between matching points of columns j1 and j2
func (fp *FlatPlate) columnGap(j1, j2 int) (msd float64) {
	for i := 0; i < fp.NumI; i++ {
		msd += r3.Norm2(r3.Sub(fp.Point(i, j1), fp.Point(i, j2)))
	}
	return msd / float64(fp.NumI)
}
