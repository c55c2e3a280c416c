package geometry3D

import (
	"gonum.org/v1/gonum/spatial/r3"
)

/*
AreaVector returns the vector whose direction is the right hand normal of the polygon traversed in
the given order and whose magnitude is twice the enclosed area. Triangles use the cross product of
the two edges leaving the first point, larger polygons use Newell's method.
*/
func AreaVector(pts []r3.Vec) (av r3.Vec) {
	switch len(pts) {
	case 0, 1, 2:
		return
	case 3:
		return r3.Cross(r3.Sub(pts[1], pts[0]), r3.Sub(pts[2], pts[0]))
	}
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		av.X += (p.Y - q.Y) * (p.Z + q.Z)
		av.Y += (p.Z - q.Z) * (p.X + q.X)
		av.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return
}

func Centroid(pts []r3.Vec) (c r3.Vec) {
	if len(pts) == 0 {
		return
	}
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1./float64(len(pts)), c)
}

// MaxSpan is the largest distance between any two of the points
func MaxSpan(pts []r3.Vec) (span float64) {
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if d := r3.Norm(r3.Sub(pts[i], pts[j])); d > span {
				span = d
			}
		}
	}
	return
}

// SafeUnit returns the unit vector and the input magnitude, or a zero vector when the magnitude
// does not exceed tol
func SafeUnit(v r3.Vec, tol float64) (u r3.Vec, mag float64) {
	mag = r3.Norm(v)
	if mag <= tol {
		return r3.Vec{}, mag
	}
	return r3.Scale(1./mag, v), mag
}
