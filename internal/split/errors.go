package split

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by session operations when no transaction is
	// selected for splitting.
	ErrNoSession = errors.New("split: no active session")

	// ErrCommitInFlight is returned when a commit is attempted while another
	// one is still running.
	ErrCommitInFlight = errors.New("split: commit already in progress")

	// ErrNotSplittable is returned when the selected transaction has fewer
	// than two products, is reconciled, or was already split this session.
	ErrNotSplittable = errors.New("split: transaction is not splittable")
)

// CountMismatchError reports an allocation list whose length no longer
// matches the product count of the selected transaction.
type CountMismatchError struct {
	Want int
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("split: allocation count %d does not match product count %d", e.Got, e.Want)
}
