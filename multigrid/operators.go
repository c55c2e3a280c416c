package multigrid

import (
	"github.com/notargets/vlmgrid/grid"
	"github.com/notargets/vlmgrid/utils"
)

/*
RestrictionOperator is the (coarse x fine) matrix averaging loop values onto the coarse level with
weights A_fine / A_coarse. Children of a zero area coarse loop are weighted equally.
*/
func RestrictionOperator(fine, coarse *grid.Grid) (R utils.CSR) {
	dok := utils.NewDOK(coarse.NumberOfLoops(), fine.NumberOfLoops())
	for c := range coarse.Loops {
		cl := &coarse.Loops[c]
		for _, l := range cl.FineGridLoops {
			w := 1. / float64(len(cl.FineGridLoops))
			if cl.Area > 0 {
				w = fine.Loops[l].Area / cl.Area
			}
			dok.Set(c, l, w)
		}
	}
	return dok.SetReadOnly("Restriction").ToCSR()
}

// ProlongationOperator is the (fine x coarse) injection of coarse loop values onto their children
func ProlongationOperator(fine, coarse *grid.Grid) (P utils.CSR) {
	dok := utils.NewDOK(fine.NumberOfLoops(), coarse.NumberOfLoops())
	for l := range fine.Loops {
		if c := fine.Loops[l].CoarseGridLoop; c != grid.None {
			dok.Set(l, c, 1)
		}
	}
	return dok.SetReadOnly("Prolongation").ToCSR()
}
