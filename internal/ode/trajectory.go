package ode

import "math"

// Derivative is the right hand side of dy/dt = f(t, y).
type Derivative func(t, y float64) float64

// Trajectory is the discretized solution of one integrator run.
type Trajectory struct {
	Times       []float64
	Values      []float64
	Count       int
	Step        float64
	Policy      EndpointPolicy
	Evaluations int
}

func newTrajectory(n int, h float64, policy EndpointPolicy) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, n),
		Values: make([]float64, n),
		Count:  n,
		Step:   h,
		Policy: policy,
	}
}

func (tr *Trajectory) Len() int {
	return tr.Count
}

// At returns the i-th point. It panics if i is out of range, like a slice index.
func (tr *Trajectory) At(i int) (t, y float64) {
	return tr.Times[i], tr.Values[i]
}

// Final returns the last point of the trajectory.
func (tr *Trajectory) Final() (t, y float64) {
	return tr.At(tr.Count - 1)
}

// IsFinite reports whether every value is free of NaN and Inf. Non-finite
// values are never reported as errors by the integrator.
func (tr *Trajectory) IsFinite() bool {
	for _, v := range tr.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
