package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/odekit/internal/ode"
)

var ErrPerturbation = errors.New("analysis: perturbation must be positive")

// LyapunovExponent estimates the growth rate of the separation between the
// solution through (t0, y0) and one started perturbation away. After every
// step the perturbed solution is pulled back to the initial separation.
//
// For y' = λy the result approaches λ as h shrinks.
func LyapunovExponent(integ *ode.RK4, f ode.Derivative, t0, y0, h, duration, perturbation float64) (float64, error) {
	if perturbation <= 0 || math.IsNaN(perturbation) {
		return 0, ErrPerturbation
	}
	if _, err := integ.Points(t0, t0+duration, h); err != nil {
		return 0, err
	}

	steps := int(duration / h)
	if steps == 0 {
		steps = 1
	}

	d0 := perturbation
	y, yp := y0, y0+d0
	t := t0
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		y = integ.Step(f, t, y, h)
		yp = integ.Step(f, t, yp, h)
		t += h

		sep := math.Abs(yp - y)
		if sep == 0 {
			// solutions merged to rounding; contraction is faster than we can resolve
			return math.Inf(-1), nil
		}
		sumLog += math.Log(sep / d0)

		yp = y + math.Copysign(d0, yp-y)
	}

	return sumLog / (float64(steps) * h), nil
}
