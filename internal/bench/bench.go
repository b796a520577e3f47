// Package bench times repeated solves of registered problems.
package bench

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/logx"
	"github.com/san-kum/odekit/internal/problems"
)

const DefaultRepetitions = 20

type Timing struct {
	Problem     string
	Points      int
	Repetitions int
	Mean        time.Duration
	StdDev      time.Duration
	PointsPerS  float64
	FinalError  float64
}

type Runner struct {
	registry *problems.Registry
	reps     int
	log      *slog.Logger
}

func New(registry *problems.Registry, reps int, log *slog.Logger) *Runner {
	if reps <= 0 {
		reps = DefaultRepetitions
	}
	return &Runner{registry: registry, reps: reps, log: logx.OrDiscard(log)}
}

// Run solves cfg reps times and reports wall-clock statistics. FinalError is
// NaN when the problem has no closed form.
func (r *Runner) Run(cfg *config.Config) (*Timing, error) {
	if err := cfg.ValidateIn(r.registry); err != nil {
		return nil, err
	}
	p, err := r.registry.Get(cfg.Problem)
	if err != nil {
		return nil, err
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return nil, err
	}

	samples := make([]float64, r.reps)
	points := 0
	finalErr := math.NaN()

	for i := 0; i < r.reps; i++ {
		start := time.Now()
		traj, err := integ.Integrate(p.F, cfg.T0, cfg.Tmax, cfg.Y0, cfg.H)
		elapsed := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("%s rep %d: %w", cfg.Problem, i, err)
		}
		samples[i] = elapsed.Seconds()
		r.log.Debug("bench repetition", "problem", cfg.Problem, "rep", i, "elapsed", elapsed)

		if i == 0 {
			points = traj.Len()
			if sol := p.Solution(cfg.T0, cfg.Y0); sol != nil {
				rep, _ := analysis.CompareExact(traj, sol)
				finalErr = rep.Final
			}
		}
	}

	mean, std := stat.MeanStdDev(samples, nil)
	if r.reps == 1 {
		std = 0
	}

	t := &Timing{
		Problem:     cfg.Problem,
		Points:      points,
		Repetitions: r.reps,
		Mean:        time.Duration(mean * float64(time.Second)),
		StdDev:      time.Duration(std * float64(time.Second)),
		FinalError:  finalErr,
	}
	if mean > 0 {
		t.PointsPerS = float64(points) / mean
	}
	r.log.Info("bench complete", "problem", cfg.Problem, "points", points, "mean", t.Mean)
	return t, nil
}

// RunAll benchmarks every problem using its default setup.
func (r *Runner) RunAll(names []string) ([]*Timing, error) {
	timings := make([]*Timing, 0, len(names))
	for _, name := range names {
		p, err := r.registry.Get(name)
		if err != nil {
			return timings, err
		}
		t, err := r.Run(config.FromProblem(p))
		if err != nil {
			return timings, err
		}
		timings = append(timings, t)
	}
	return timings, nil
}
