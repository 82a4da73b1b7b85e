package mutationboard

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmer-error preconditions (spec.md §7). Routine
// placement failure is never one of these: InfeasibleInstance is a silent
// skip reflected in a lower placement rate, not a returned error.
var (
	// ErrUnknownMutation is returned by Optimize when a workload id is absent
	// from the catalog. OptimizeLayout drops unknown allowed-pool ids instead.
	ErrUnknownMutation = errors.New("mutationboard: unknown mutation id")
	// ErrMalformedSize is returned when a catalog "WxH" size string does not
	// parse to two integers in {1,2,3}.
	ErrMalformedSize = errors.New("mutationboard: malformed size string")
	// ErrNegativeQuantity is returned for a workload entry with quantity <= 0.
	ErrNegativeQuantity = errors.New("mutationboard: non-positive quantity")
	// ErrOutOfRange names a cell coordinate outside the board. No function in
	// this package returns it: NewBoard drops out-of-range cells silently.
	ErrOutOfRange = errors.New("mutationboard: coordinate out of range")
	// ErrAllSpecial is returned by OptimizeLayout when every allowed-pool
	// mutation has an unsatisfiable "special" condition or an unmet
	// dependency; the engine returns an empty state with zero iterations
	// rather than looping (spec.md §7).
	ErrAllSpecial = errors.New("mutationboard: allowed pool has no placeable mutation")
)

func wrapf(base error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, base)...)
}
