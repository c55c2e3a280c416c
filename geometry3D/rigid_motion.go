package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
RigidMotion rotates about Origin with the unit quaternion Quat, then translates by Translation:

	p' = Quat * (p - Origin) * InvQuat + Origin + Translation
*/
type RigidMotion struct {
	Translation   r3.Vec
	Origin        r3.Vec
	Quat, InvQuat quat.Number
}

// NewRigidMotion builds a motion from a rotation of angle radians about axis
func NewRigidMotion(translation, origin, axis r3.Vec, angle float64) (rm RigidMotion) {
	rm = RigidMotion{
		Translation: translation,
		Origin:      origin,
		Quat:        quat.Number{Real: 1},
	}
	if n := r3.Norm(axis); n > 0 && angle != 0 {
		s := math.Sin(0.5*angle) / n
		rm.Quat = quat.Number{Real: math.Cos(0.5 * angle), Imag: s * axis.X, Jmag: s * axis.Y, Kmag: s * axis.Z}
	}
	rm.InvQuat = quat.Inv(rm.Quat)
	return
}

// Rotate applies only the rotation, used for normals and other direction vectors
func (rm RigidMotion) Rotate(v r3.Vec) r3.Vec {
	q := quat.Mul(quat.Mul(rm.Quat, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), rm.InvQuat)
	return r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

func (rm RigidMotion) Apply(p r3.Vec) r3.Vec {
	return r3.Add(r3.Add(rm.Rotate(r3.Sub(p, rm.Origin)), rm.Origin), rm.Translation)
}

/*
Inverse returns the motion that undoes rm. The rotation origin of the inverse is the translated
origin, so that Inverse().Apply(Apply(p)) == p for any translation.
*/
func (rm RigidMotion) Inverse() RigidMotion {
	return RigidMotion{
		Translation: r3.Scale(-1, rm.Translation),
		Origin:      r3.Add(rm.Origin, rm.Translation),
		Quat:        rm.InvQuat,
		InvQuat:     rm.Quat,
	}
}

func (rm RigidMotion) IsIdentity() bool {
	return rm.Translation == (r3.Vec{}) && rm.Quat == quat.Number{Real: 1}
}
