package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odekit/internal/ode"
)

var ErrDegenerate = errors.New("analysis: convergence fit needs at least two nonzero errors")

type ConvergenceReport struct {
	Steps     []float64
	Errors    []float64
	Order     float64
	Intercept float64
}

// Halvings returns h, h/2, ..., h/2^(levels-1).
func Halvings(h float64, levels int) []float64 {
	hs := make([]float64, 0, levels)
	for i := 0; i < levels; i++ {
		hs = append(hs, h)
		h /= 2
	}
	return hs
}

// Convergence solves the problem once per step size and fits
// log(err) = Order*log(h) + Intercept through the final-point errors.
func Convergence(integ *ode.RK4, f ode.Derivative, exact func(t float64) float64, t0, tmax, y0 float64, hs []float64) (*ConvergenceReport, error) {
	if exact == nil {
		return nil, ErrNoExact
	}

	rep := &ConvergenceReport{
		Steps:  make([]float64, 0, len(hs)),
		Errors: make([]float64, 0, len(hs)),
	}
	for _, h := range hs {
		traj, err := integ.Integrate(f, t0, tmax, y0, h)
		if err != nil {
			return nil, fmt.Errorf("h=%g: %w", h, err)
		}
		tEnd, yEnd := traj.Final()
		rep.Steps = append(rep.Steps, h)
		rep.Errors = append(rep.Errors, math.Abs(yEnd-exact(tEnd)))
	}

	var xs, ys []float64
	for i, e := range rep.Errors {
		if e > 0 {
			xs = append(xs, math.Log(rep.Steps[i]))
			ys = append(ys, math.Log(e))
		}
	}
	if len(xs) < 2 {
		return rep, ErrDegenerate
	}

	rep.Intercept, rep.Order = stat.LinearRegression(xs, ys, nil, false)
	return rep, nil
}
