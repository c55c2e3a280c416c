package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewBoundingBox returns the axis aligned box enclosing all points, flat boxes are allowed
func NewBoundingBox(points ...r3.Vec) (box r3.Box) {
	if len(points) == 0 {
		return
	}
	box.Min, box.Max = points[0], points[0]
	for _, p := range points[1:] {
		box = ExtendBox(box, p)
	}
	return
}

// ExtendBox grows box to include p. Unlike r3.Box.Union it does not discard boxes with zero
// thickness, which are the norm for flat panels.
func ExtendBox(box r3.Box, p r3.Vec) r3.Box {
	box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
	box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	return box
}

func MergeBoxes(a, b r3.Box) r3.Box {
	return ExtendBox(ExtendBox(a, b.Min), b.Max)
}

// BoxSize is the diagonal length of the box
func BoxSize(box r3.Box) float64 {
	return r3.Norm(box.Size())
}
