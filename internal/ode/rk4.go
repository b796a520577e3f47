package ode

import (
	"fmt"
	"math"
	"strings"
)

// DefaultMaxPoints caps the number of points a single run may allocate.
const DefaultMaxPoints = 1 << 26

// EndpointPolicy decides how the last step relates to tmax.
type EndpointPolicy int

const (
	// EndpointClamp stretches the last step so the final time equals tmax.
	// Because N = ceil((tmax-t0)/h), that final interval is tmax minus the
	// second-to-last time and lies in (h, 2h]; it is exactly 2h when h divides
	// the span. Use EndpointFixed for uniform spacing.
	EndpointClamp EndpointPolicy = iota
	// EndpointFixed advances every step by h; the final time is t0+(N-1)h.
	EndpointFixed
)

func (p EndpointPolicy) String() string {
	switch p {
	case EndpointClamp:
		return "clamp"
	case EndpointFixed:
		return "fixed"
	}
	return fmt.Sprintf("EndpointPolicy(%d)", int(p))
}

// ParseEndpoint parses "clamp" or "fixed". An empty string yields EndpointClamp.
func ParseEndpoint(s string) (EndpointPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return EndpointClamp, nil
	case "fixed":
		return EndpointFixed, nil
	}
	return 0, fmt.Errorf("unknown endpoint policy: %s", s)
}

type Option func(*RK4)

func WithEndpoint(p EndpointPolicy) Option {
	return func(r *RK4) { r.policy = p }
}

// WithMaxPoints sets the allocation cap. Values <= 0 keep DefaultMaxPoints.
func WithMaxPoints(n int) Option {
	return func(r *RK4) {
		if n > 0 {
			r.maxPoints = n
		}
	}
}

type RK4 struct {
	policy    EndpointPolicy
	maxPoints int
}

func NewRK4(opts ...Option) *RK4 {
	r := &RK4{
		policy:    EndpointClamp,
		maxPoints: DefaultMaxPoints,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RK4) Policy() EndpointPolicy { return r.policy }

// Step advances (t, y) by one classical RK4 step of size h.
func (r *RK4) Step(f Derivative, t, y, h float64) float64 {
	half := h * 0.5

	k1 := f(t, y)
	k2 := f(t+half, y+half*k1)
	k3 := f(t+half, y+half*k2)
	k4 := f(t+h, y+h*k3)

	return y + h/6.0*(k1+2*k2+2*k3+k4)
}

// Points returns N = ceil((tmax-t0)/h) after validating the inputs. No
// derivative is evaluated and nothing is allocated.
func (r *RK4) Points(t0, tmax, h float64) (int, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0, &InputError{T0: t0, Tmax: tmax, H: h, Err: ErrInvalidStep}
	}
	if math.IsNaN(t0) || math.IsNaN(tmax) || math.IsInf(t0, 0) || math.IsInf(tmax, 0) || tmax <= t0 {
		return 0, &InputError{T0: t0, Tmax: tmax, H: h, Err: ErrInvalidRange}
	}

	n := math.Ceil((tmax - t0) / h)
	if math.IsInf(n, 0) || n > float64(r.maxPoints) {
		return 0, &InputError{T0: t0, Tmax: tmax, H: h, Points: n, Err: ErrAllocation}
	}
	// span/h can underflow to zero when h dwarfs the span
	if n < 1 {
		n = 1
	}
	return int(n), nil
}

// Integrate solves dy/dt = f(t, y) from (t0, y0) towards tmax with step h.
// Either a fully populated trajectory or an error is returned.
func (r *RK4) Integrate(f Derivative, t0, tmax, y0, h float64) (*Trajectory, error) {
	if f == nil {
		return nil, ErrNilDerivative
	}
	n, err := r.Points(t0, tmax, h)
	if err != nil {
		return nil, err
	}

	tr := newTrajectory(n, h, r.policy)
	tr.Times[0] = t0
	tr.Values[0] = y0

	for i := 1; i < n; i++ {
		t, y := tr.Times[i-1], tr.Values[i-1]
		step := h
		if r.policy == EndpointClamp && i == n-1 {
			step = tmax - t
		}

		tr.Values[i] = r.Step(f, t, y, step)
		if r.policy == EndpointClamp && i == n-1 {
			tr.Times[i] = tmax
		} else {
			tr.Times[i] = t + step
		}
	}
	tr.Evaluations = 4 * (n - 1)

	return tr, nil
}

var defaultRK4 = NewRK4()

// Integrate runs the default clamped integrator.
func Integrate(f Derivative, t0, tmax, y0, h float64) (*Trajectory, error) {
	return defaultRK4.Integrate(f, t0, tmax, y0, h)
}
