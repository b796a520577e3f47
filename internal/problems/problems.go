// Package problems is a registry of named scalar initial value problems,
// most with closed-form solutions for checking integrator output.
package problems

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/odekit/internal/ode"
)

var ErrUnknownProblem = errors.New("unknown problem")

// Exact evaluates the closed-form solution through (t0, y0) at time t.
type Exact func(t0, y0, t float64) float64

// Preset is an initial value problem setup: integrate from (T0, Y0) to Tmax
// with step H.
type Preset struct {
	T0   float64
	Tmax float64
	Y0   float64
	H    float64
}

type Problem struct {
	Name        string
	Description string
	F           ode.Derivative
	Exact       Exact
	Default     Preset
}

// Solution binds the exact solution to an initial condition. It returns nil
// when the problem has no closed form.
func (p *Problem) Solution(t0, y0 float64) func(t float64) float64 {
	if p.Exact == nil {
		return nil
	}
	return func(t float64) float64 { return p.Exact(t0, y0, t) }
}

type Registry struct {
	problems map[string]*Problem
}

func NewRegistry() *Registry {
	r := &Registry{problems: make(map[string]*Problem)}

	r.Register(&Problem{
		Name:        "exp_growth",
		Description: "y' = y",
		F:           func(t, y float64) float64 { return y },
		Exact:       func(t0, y0, t float64) float64 { return y0 * math.Exp(t-t0) },
		Default:     Preset{T0: 0, Tmax: 1, Y0: 1, H: 0.1},
	})
	r.Register(&Problem{
		Name:        "exp_decay",
		Description: "y' = -y",
		F:           func(t, y float64) float64 { return -y },
		Exact:       func(t0, y0, t float64) float64 { return y0 * math.Exp(-(t - t0)) },
		Default:     Preset{T0: 0, Tmax: 0.5, Y0: 1, H: 0.1},
	})
	r.Register(&Problem{
		Name:        "stiff_decay",
		Description: "y' = -15y",
		F:           func(t, y float64) float64 { return -15 * y },
		Exact:       func(t0, y0, t float64) float64 { return y0 * math.Exp(-15*(t-t0)) },
		Default:     Preset{T0: 0, Tmax: 1, Y0: 1, H: 1e-3},
	})
	r.Register(&Problem{
		Name:        "constant",
		Description: "y' = 2",
		F:           func(t, y float64) float64 { return 2 },
		Exact:       func(t0, y0, t float64) float64 { return y0 + 2*(t-t0) },
		Default:     Preset{T0: 0, Tmax: 1, Y0: 0, H: 0.1},
	})
	r.Register(&Problem{
		Name:        "logistic",
		Description: "y' = y(1-y)",
		F:           func(t, y float64) float64 { return y * (1 - y) },
		Exact: func(t0, y0, t float64) float64 {
			e := math.Exp(t - t0)
			return y0 * e / (1 - y0 + y0*e)
		},
		Default: Preset{T0: 0, Tmax: 10, Y0: 0.1, H: 0.1},
	})
	r.Register(&Problem{
		Name:        "linear_forced",
		Description: "y' = t - y",
		F:           func(t, y float64) float64 { return t - y },
		Exact: func(t0, y0, t float64) float64 {
			return t - 1 + (y0-t0+1)*math.Exp(-(t-t0))
		},
		Default: Preset{T0: 0, Tmax: 5, Y0: 1, H: 0.05},
	})
	r.Register(&Problem{
		Name:        "cosine",
		Description: "y' = cos(t)",
		F:           func(t, y float64) float64 { return math.Cos(t) },
		Exact:       func(t0, y0, t float64) float64 { return y0 + math.Sin(t) - math.Sin(t0) },
		Default:     Preset{T0: 0, Tmax: 2 * math.Pi, Y0: 0, H: 0.1},
	})

	return r
}

// Register adds or replaces a problem.
func (r *Registry) Register(p *Problem) {
	r.problems[p.Name] = p
}

func (r *Registry) Get(name string) (*Problem, error) {
	p, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProblem, name)
	}
	return p, nil
}

// Names returns the registered problem names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
