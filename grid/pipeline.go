package grid

import (
	"github.com/pkg/errors"
)

/*
Build runs the level 0 pipeline over loops carrying ordered node lists: loop geometry, edges, edge
properties, upwind classification and the upwind cross reference. Fatal errors stop the pipeline, per
loop diagnostics of all steps are returned together as one *IntegrityError after it completes.
*/
func (g *Grid) Build() (err error) {
	geomErr := g.CalculateLoopGeometry()
	if geomErr != nil && !IsIntegrityError(geomErr) {
		return geomErr
	}
	if err = g.CreateEdges(); err != nil {
		return
	}
	g.CalculateEdgeProperties()
	upErr := g.CalculateUpwindEdges()
	g.CreateUpwindEdgeData()
	return MergeIntegrityErrors(geomErr, upErr)
}

// IsIntegrityError is true for recoverable per loop diagnostics
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
