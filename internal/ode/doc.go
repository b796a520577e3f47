// Package ode integrates a single scalar ordinary differential equation
// dy/dt = f(t, y) with the classical fixed-step Runge-Kutta 4 method.
//
// The package is built around three types:
//
//   - [Derivative]: the right hand side f(t, y)
//   - [RK4]: a configurable, stateless integrator
//   - [Trajectory]: the discretized solution returned by a run
//
// # Example
//
//	traj, err := ode.Integrate(func(t, y float64) float64 { return -y }, 0, 0.5, 1, 0.1)
//	if err != nil {
//	    return err
//	}
//	t, y := traj.Final()
//
// # Endpoint Policy
//
// A run produces N = ceil((tmax-t0)/h) points. With [EndpointClamp] (the
// default) the last step is stretched so that the final point lands exactly on
// tmax. The stretched interval is longer than h and at most 2h: integrating
// [0, 1] with h = 0.1 gives ten points whose last gap is 0.2. With [EndpointFixed] every step advances by h and the final time is
// t0+(N-1)h.
//
// # Thread Safety
//
// RK4 values hold only immutable options and may be shared between goroutines.
// Every call allocates its own Trajectory.
package ode
