package grid

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNonManifoldEdge = errors.New("edge shared by more than two loops")
	ErrDegenerateLoop  = errors.New("degenerate loop")
	ErrNoUpwindEdges   = errors.New("loop has no upwind edges")
	ErrUnorderedLoops  = errors.New("agglomerated loops are node sets, not polygons")
)

// LoopDiagnostic is a recoverable problem found on a single loop
type LoopDiagnostic struct {
	Loop int
	Err  error
}

func (ld LoopDiagnostic) Error() string {
	return fmt.Sprintf("loop %d: %v", ld.Loop, ld.Err)
}

func (ld LoopDiagnostic) Unwrap() error { return ld.Err }

/*
IntegrityError collects the per loop diagnostics of one pipeline step. The offending loops are also
flagged in place (IsDegenerate, HasNoUpwindEdges) so a caller may log the error and keep going.
*/
type IntegrityError struct {
	Level       int
	Diagnostics []LoopDiagnostic
}

func (ie *IntegrityError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "grid level %d: %d integrity diagnostics", ie.Level, len(ie.Diagnostics))
	for i, d := range ie.Diagnostics {
		if i == 5 {
			fmt.Fprintf(&sb, "; ...")
			break
		}
		fmt.Fprintf(&sb, "; %v", d)
	}
	return sb.String()
}

func (ie *IntegrityError) Unwrap() []error {
	errs := make([]error, len(ie.Diagnostics))
	for i, d := range ie.Diagnostics {
		errs[i] = d
	}
	return errs
}

// AllOf reports whether every diagnostic is a target error
func (ie *IntegrityError) AllOf(target error) bool {
	for _, d := range ie.Diagnostics {
		if !errors.Is(d.Err, target) {
			return false
		}
	}
	return len(ie.Diagnostics) != 0
}

func (ie *IntegrityError) add(loop int, err error) {
	ie.Diagnostics = append(ie.Diagnostics, LoopDiagnostic{Loop: loop, Err: err})
}

func (ie *IntegrityError) errOrNil() error {
	if ie == nil || len(ie.Diagnostics) == 0 {
		return nil
	}
	return ie
}

// MergeIntegrityErrors folds the diagnostics of several steps into one error, non integrity errors
// are returned as is
func MergeIntegrityErrors(errs ...error) error {
	var merged *IntegrityError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ie *IntegrityError
		if !errors.As(err, &ie) {
			return err
		}
		if merged == nil {
			merged = &IntegrityError{Level: ie.Level}
		}
		merged.Diagnostics = append(merged.Diagnostics, ie.Diagnostics...)
	}
	return merged.errOrNil()
}
