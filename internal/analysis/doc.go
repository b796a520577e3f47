// Package analysis measures the quality of integrator output.
//
// The package includes:
//
//   - [CompareExact]: pointwise error of a trajectory against a closed form
//   - [Convergence]: empirical order of accuracy from a step-size sequence
//   - [LyapunovExponent]: growth rate of the separation of nearby solutions
//
// # Order Check
//
// RK4 is fourth order, so halving h should shrink the final error ~16x:
//
//	rep, _ := analysis.Convergence(ode.NewRK4(), f, sol, 0, 1, 1, analysis.Halvings(0.2, 4))
//	// rep.Order ≈ 4
package analysis
