package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integrator input validation.
var (
	// ErrInvalidStep indicates a step size that is not a positive finite number.
	ErrInvalidStep = errors.New("ode: step size must be positive and finite")

	// ErrInvalidRange indicates tmax <= t0 or a non-finite bound.
	ErrInvalidRange = errors.New("ode: time span must satisfy t0 < tmax")

	// ErrAllocation indicates the requested run is too long to allocate.
	ErrAllocation = errors.New("ode: trajectory too large to allocate")

	// ErrNilDerivative indicates Integrate was called without a derivative.
	ErrNilDerivative = errors.New("ode: nil derivative function")
)

// InputError wraps a validation error with the inputs that caused it.
type InputError struct {
	T0     float64
	Tmax   float64
	H      float64
	Points float64
	Err    error
}

func (e *InputError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidStep):
		return fmt.Sprintf("%v (h=%g)", e.Err, e.H)
	case errors.Is(e.Err, ErrInvalidRange):
		return fmt.Sprintf("%v (t0=%g, tmax=%g)", e.Err, e.T0, e.Tmax)
	case errors.Is(e.Err, ErrAllocation):
		return fmt.Sprintf("%v (%g points)", e.Err, e.Points)
	}
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}
