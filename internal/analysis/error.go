package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odekit/internal/linalg"
	"github.com/san-kum/odekit/internal/ode"
)

var ErrNoExact = errors.New("analysis: problem has no exact solution")

// ErrorReport summarizes |y_i - y(t_i)| over a trajectory.
type ErrorReport struct {
	MaxAbs    float64
	RMS       float64
	Final     float64
	FinalTime float64
	Points    int
}

// Errors returns the pointwise absolute error of traj against exact.
func Errors(traj *ode.Trajectory, exact func(t float64) float64) []float64 {
	n := traj.Len()
	want := make([]float64, n)
	for i := range want {
		want[i] = exact(traj.Times[i])
	}

	got, err := linalg.VectorFrom(traj.Values[:n])
	if err != nil {
		return nil
	}
	ref, _ := linalg.VectorFrom(want)
	diff, _ := linalg.NewVector(n)
	if err := linalg.AddScaled(diff, got, ref, -1); err != nil {
		return nil
	}

	errs := diff.Raw()
	for i, d := range errs {
		errs[i] = math.Abs(d)
	}
	return errs
}

func CompareExact(traj *ode.Trajectory, exact func(t float64) float64) (ErrorReport, error) {
	if exact == nil {
		return ErrorReport{}, ErrNoExact
	}

	errs := Errors(traj, exact)
	n := len(errs)
	tEnd, _ := traj.Final()

	return ErrorReport{
		MaxAbs:    floats.Max(errs),
		RMS:       floats.Norm(errs, 2) / math.Sqrt(float64(n)),
		Final:     errs[n-1],
		FinalTime: tEnd,
		Points:    n,
	}, nil
}
