package vincenty

import (
	"errors"
	"fmt"
)

// ErrConvergenceFailure is matched by every error returned when the iteration cap is hit.
var ErrConvergenceFailure = errors.New("formula failed to converge")

// ConvergenceError reports which solution failed and after how many iterations.
type ConvergenceError struct {
	Op         string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("vincenty %s: %s after %d iterations", e.Op, ErrConvergenceFailure, e.Iterations)
}

// Unwrap lets errors.Is match ErrConvergenceFailure.
func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceFailure
}
