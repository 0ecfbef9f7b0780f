package terasort

import (
	"errors"
	"fmt"

	"github.com/hupe1980/terasort/internal/sequencer"
)

var (
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrTokenLeaseExpired is returned when the output token does not arrive
	// within the lease set by WithTokenLease.
	ErrTokenLeaseExpired = sequencer.ErrTokenLeaseExpired
)

// PhaseError reports which phase of which worker failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type PhaseError struct {
	Phase Phase
	Rank  int
	cause error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("rank %d: %s: %v", e.Rank, e.Phase, e.cause)
}

func (e *PhaseError) Unwrap() error { return e.cause }
