package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/ode"
	"github.com/san-kum/odekit/internal/problems"
	"github.com/san-kum/odekit/internal/storage"
)

const scenarioYAML = `
name: decay-study
description: decay at two step sizes
steps:
  - problem: exp_decay
    h: 0.1
    save_as: coarse
  - problem: exp_decay
    h: 0.01
  - problem: logistic
    endpoint: fixed
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "decay-study", sc.Name)
	require.Len(t, sc.Steps, 3)

	assert.Equal(t, "coarse", sc.Steps[0].SaveAs)
	assert.Equal(t, 0.5, sc.Steps[0].Config.Tmax)
	assert.Equal(t, 0.01, sc.Steps[1].Config.H)
	assert.Empty(t, sc.Steps[1].SaveAs)
	assert.Equal(t, "fixed", sc.Steps[2].Config.Endpoint)
	assert.Equal(t, 0.1, sc.Steps[2].Config.Y0)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, sc.Steps, 3)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunScenarioSaves(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	st := storage.New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), sc, problems.NewRegistry(), Options{Store: st})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotEmpty(t, results[0].RunID)
	assert.Empty(t, results[1].RunID)
	require.NotNil(t, results[0].Error)
	assert.Less(t, results[0].Error.Final, 1e-5)
	assert.Less(t, results[1].Error.Final, results[0].Error.Final)

	meta, err := st.Load(results[0].RunID)
	require.NoError(t, err)
	assert.Equal(t, "coarse", meta.Label)
	assert.Contains(t, meta.Metrics, "final_error")
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Config: config.DefaultConfig()},
		{Config: &config.Config{Problem: "exp_decay", T0: 1, Tmax: 1, H: 0.1}},
		{Config: config.DefaultConfig()},
	}}

	results, err := RunScenario(context.Background(), sc, problems.NewRegistry(), Options{})
	assert.ErrorIs(t, err, ode.ErrInvalidRange)
	assert.ErrorContains(t, err, "step 2")
	assert.Empty(t, results)
}

func TestRunScenarioUnknownProblemSavesNothing(t *testing.T) {
	st := storage.New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	sc := &Scenario{Steps: []ScenarioStep{
		{Config: config.DefaultConfig(), SaveAs: "first"},
		{Config: &config.Config{Problem: "exp_decy", T0: 0, Tmax: 1, Y0: 1, H: 0.1, Endpoint: "clamp"}},
	}}

	results, err := RunScenario(context.Background(), sc, problems.NewRegistry(), Options{Store: st})
	assert.ErrorIs(t, err, problems.ErrUnknownProblem)
	assert.Empty(t, results)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunScenarioCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{Steps: []ScenarioStep{{Config: config.DefaultConfig()}}}
	results, err := RunScenario(ctx, sc, problems.NewRegistry(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("exp_decay", "half")
	results, err := RunSweep(context.Background(), SweepConfig{Base: *base, Levels: 3}, problems.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []float64{0.1, 0.05, 0.025}, []float64{results[0].H, results[1].H, results[2].H})
	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i].FinalError, results[i-1].FinalError)
		assert.Greater(t, results[i].Points, results[i-1].Points)
		assert.Equal(t, 0.5, results[i].FinalTime)
	}

	_, err = RunSweep(context.Background(), SweepConfig{Base: *base}, problems.NewRegistry(), nil)
	assert.Error(t, err)
}

func TestRunEnsembleMatchesSequential(t *testing.T) {
	reg := problems.NewRegistry()
	var cfgs []*config.Config
	for _, name := range reg.Names() {
		p, _ := reg.Get(name)
		cfgs = append(cfgs, config.FromProblem(p), config.FromProblem(p))
	}

	results, err := RunEnsemble(context.Background(), reg, cfgs, 4)
	require.NoError(t, err)
	require.Len(t, results, len(cfgs))

	for i, cfg := range cfgs {
		want, err := Solve(reg, cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.Problem, results[i].Config.Problem)
		assert.Equal(t, want.Trajectory.Values, results[i].Trajectory.Values)
	}
}

func TestRunEnsembleFails(t *testing.T) {
	cfgs := []*config.Config{
		config.DefaultConfig(),
		{Problem: "exp_decay", T0: 0, Tmax: 1, H: -1},
	}
	_, err := RunEnsemble(context.Background(), problems.NewRegistry(), cfgs, 0)
	assert.ErrorIs(t, err, ode.ErrInvalidStep)
}
