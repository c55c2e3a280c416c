package multigrid

import "github.com/pkg/errors"

var (
	ErrInvalidPartition  = errors.New("invalid agglomeration partition")
	ErrNoCoarsening      = errors.New("partition does not reduce the number of loops")
	ErrAreaNotConserved  = errors.New("coarse loop area differs from the sum of its children")
	ErrInvalidCoarseEdge = errors.New("coarse edge does not border one or two loops")
)
