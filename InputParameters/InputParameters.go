package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/notargets/vlmgrid/types"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

type Vector [3]float64

func (v Vector) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Component describes one flat plate generator
type Component struct {
	Name       string  `json:"Name"`
	Type       string  `json:"Type"` // wing or body
	NumI       int     `json:"NumI"`
	NumJ       int     `json:"NumJ"`
	Span       float64 `json:"Span"`
	RootChord  float64 `json:"RootChord"`
	TipChord   float64 `json:"TipChord"`
	Sweep      float64 `json:"Sweep"`    // degrees
	Dihedral   float64 `json:"Dihedral"` // degrees
	Length     float64 `json:"Length"`
	Radius     float64 `json:"Radius"`
	Origin     Vector  `json:"Origin"`
	WettedArea float64 `json:"WettedArea"`
}

func (c Component) SurfaceType() types.SurfaceType { return types.NewSurfaceType(c.Type) }

// Motion is a rigid motion applied to the components listed in Group, or to all of them
type Motion struct {
	Translation Vector  `json:"Translation"`
	Origin      Vector  `json:"Origin"`
	Axis        Vector  `json:"Axis"`
	AngleDeg    float64 `json:"AngleDeg"`
	Group       []int   `json:"Group"`
}

func (m *Motion) RigidMotion() geometry3D.RigidMotion {
	return geometry3D.NewRigidMotion(m.Translation.R3(), m.Origin.R3(), m.Axis.R3(), m.AngleDeg*math.Pi/180)
}

// Parameters obtained from the YAML input file
type InputParametersMesh struct {
	Title      string      `json:"Title"`
	Strict     bool        `json:"Strict"`
	Components []Component `json:"Components"`
	Motion     *Motion     `json:"Motion"`
}

func (ip *InputParametersMesh) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return errors.Wrap(err, "parsing mesh input")
	}
	if len(ip.Components) == 0 {
		return errors.New("mesh input has no components")
	}
	for i, c := range ip.Components {
		if c.SurfaceType() == types.ST_None {
			return errors.Errorf("component %d (%s): unknown type %q", i, c.Name, c.Type)
		}
		if c.NumI < 2 || c.NumJ < 2 {
			return errors.Errorf("component %d (%s): need NumI, NumJ >= 2, have %d, %d", i, c.Name, c.NumI, c.NumJ)
		}
	}
	if ip.Motion != nil {
		for _, id := range ip.Motion.Group {
			if id < 0 || id >= len(ip.Components) {
				return errors.Errorf("motion group references component %d, have %d components", id, len(ip.Components))
			}
		}
	}
	return
}

func (ip *InputParametersMesh) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%v]\t\t\t= Strict\n", ip.Strict)
	for i, c := range ip.Components {
		fmt.Printf("Component[%d] = %s (%s), %dx%d\n", i, c.Name, c.SurfaceType(), c.NumI, c.NumJ)
	}
	if m := ip.Motion; m != nil {
		fmt.Printf("Motion = T%v about %v axis %v by %8.5f deg, group %v\n",
			m.Translation, m.Origin, m.Axis, m.AngleDeg, m.Group)
	}
}
