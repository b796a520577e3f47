package problems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odekit/internal/ode"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	p, err := r.Get("exp_growth")
	require.NoError(t, err)
	assert.Equal(t, "y' = y", p.Description)

	_, err = r.Get("nonexistent")
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	names := NewRegistry().Names()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "stiff_decay")
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	before := len(r.Names())

	r.Register(&Problem{Name: "exp_growth", F: func(t, y float64) float64 { return 0 }})
	assert.Len(t, r.Names(), before)

	r.Register(&Problem{Name: "zero", F: func(t, y float64) float64 { return 0 }})
	assert.Len(t, r.Names(), before+1)

	p, _ := r.Get("zero")
	assert.Nil(t, p.Solution(0, 1))
}

// Every closed form must pass through its initial condition and satisfy the
// ODE, checked with a central difference.
func TestExactSolutionsSatisfyODE(t *testing.T) {
	r := NewRegistry()
	const eps = 1e-6

	for _, name := range r.Names() {
		p, _ := r.Get(name)
		if p.Exact == nil {
			continue
		}
		t0, y0 := p.Default.T0, p.Default.Y0
		sol := p.Solution(t0, y0)

		assert.InDelta(t, y0, sol(t0), 1e-12, name)

		for _, frac := range []float64{0.25, 0.5, 0.75} {
			tt := t0 + frac*(p.Default.Tmax-t0)
			deriv := (sol(tt+eps) - sol(tt-eps)) / (2 * eps)
			assert.InDelta(t, p.F(tt, sol(tt)), deriv, 1e-5, "%s at t=%g", name, tt)
		}
	}
}

func TestDefaultsIntegrate(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.Names() {
		p, _ := r.Get(name)
		d := p.Default

		traj, err := ode.Integrate(p.F, d.T0, d.Tmax, d.Y0, d.H)
		require.NoError(t, err, name)

		tEnd, yEnd := traj.Final()
		assert.Equal(t, d.Tmax, tEnd, name)
		if sol := p.Solution(d.T0, d.Y0); sol != nil {
			assert.InDelta(t, sol(tEnd), yEnd, 1e-4*math.Max(1, math.Abs(yEnd)), name)
		}
	}
}
