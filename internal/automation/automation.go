package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/logx"
	"github.com/san-kum/odekit/internal/ode"
	"github.com/san-kum/odekit/internal/problems"
	"github.com/san-kum/odekit/internal/storage"
)

// Scenario defines a scripted sequence of solves
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"-"`
}

// ScenarioStep is a single solve in a scenario
type ScenarioStep struct {
	Config *config.Config
	SaveAs string
}

// Result is the outcome of one solve.
type Result struct {
	Config     config.Config
	Trajectory *ode.Trajectory
	Error      *analysis.ErrorReport
	RunID      string
}

type Options struct {
	Store *storage.Store
	Log   *slog.Logger
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario. Every step starts from the defaults of
// the problem it names.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Steps {
		cfg, err := config.FromNode(&raw.Steps[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		var extra struct {
			SaveAs string `yaml:"save_as"`
		}
		if err := raw.Steps[i].Decode(&extra); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc.Steps = append(sc.Steps, ScenarioStep{Config: cfg, SaveAs: extra.SaveAs})
	}
	return sc, nil
}

// Solve runs a single config against the registry.
func Solve(registry *problems.Registry, cfg *config.Config) (*Result, error) {
	p, err := registry.Get(cfg.Problem)
	if err != nil {
		return nil, err
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return nil, err
	}

	traj, err := integ.Integrate(p.F, cfg.T0, cfg.Tmax, cfg.Y0, cfg.H)
	if err != nil {
		return nil, err
	}

	res := &Result{Config: *cfg, Trajectory: traj}
	if sol := p.Solution(cfg.T0, cfg.Y0); sol != nil {
		rep, err := analysis.CompareExact(traj, sol)
		if err != nil {
			return nil, err
		}
		res.Error = &rep
	}
	return res, nil
}

// Metadata converts a result into a storage record.
func (r *Result) Metadata() storage.RunMetadata {
	meta := storage.NewMetadata(r.Config.Problem, r.Config.T0, r.Config.Tmax, r.Config.Y0, r.Trajectory)
	meta.Label = r.Config.Label
	if r.Error != nil {
		meta.Metrics["max_abs_error"] = storage.Float(r.Error.MaxAbs)
		meta.Metrics["rms_error"] = storage.Float(r.Error.RMS)
		meta.Metrics["final_error"] = storage.Float(r.Error.Final)
	}
	return meta
}

// RunScenario executes all steps in order. Every step is validated before the
// first one runs, so a bad step never leaves earlier runs saved. Cancellation
// is checked between steps; a solve that has started always completes.
func RunScenario(ctx context.Context, scenario *Scenario, registry *problems.Registry, opts Options) ([]Result, error) {
	log := logx.OrDiscard(opts.Log)
	for i, step := range scenario.Steps {
		if err := step.Config.ValidateIn(registry); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	results := make([]Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "problem", step.Config.Problem)

		res, err := Solve(registry, step.Config)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.SaveAs != "" && opts.Store != nil {
			meta := res.Metadata()
			meta.Label = step.SaveAs
			id, err := opts.Store.Save(meta, res.Trajectory)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}

		results = append(results, *res)
	}

	return results, nil
}

// SweepConfig solves one problem with h, h/2, ... for Levels levels.
type SweepConfig struct {
	Base   config.Config
	Levels int
}

// SweepResult holds results from one step size of a sweep
type SweepResult struct {
	H          float64
	Points     int
	FinalTime  float64
	FinalValue float64
	FinalError float64
	Finite     bool
}

// RunSweep executes a step-size sweep. FinalError is zero when the problem
// has no closed form.
func RunSweep(ctx context.Context, sweep SweepConfig, registry *problems.Registry, log *slog.Logger) ([]SweepResult, error) {
	log = logx.OrDiscard(log)
	if sweep.Levels <= 0 {
		return nil, fmt.Errorf("sweep needs at least one level, got %d", sweep.Levels)
	}

	results := make([]SweepResult, 0, sweep.Levels)
	for i, h := range analysis.Halvings(sweep.Base.H, sweep.Levels) {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := sweep.Base
		cfg.H = h
		res, err := Solve(registry, &cfg)
		if err != nil {
			return results, fmt.Errorf("h=%g: %w", h, err)
		}

		tEnd, yEnd := res.Trajectory.Final()
		sr := SweepResult{
			H:          h,
			Points:     res.Trajectory.Len(),
			FinalTime:  tEnd,
			FinalValue: yEnd,
			Finite:     res.Trajectory.IsFinite(),
		}
		if res.Error != nil {
			sr.FinalError = res.Error.Final
		}
		results = append(results, sr)

		log.Debug("sweep level", "level", i+1, "h", h, "points", sr.Points)
	}

	return results, nil
}
