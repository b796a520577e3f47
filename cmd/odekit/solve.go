package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/automation"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/problems"
	"github.com/san-kum/odekit/internal/viz"
)

// resolveConfig builds the run config in increasing precedence: problem
// defaults, preset, config file, explicitly set flags.
func resolveConfig(cmd *cobra.Command, reg *problems.Registry, args []string) (*config.Config, error) {
	var fileCfg *config.Config
	if configFile != "" {
		var err error
		fileCfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	name := config.DefaultProblem
	switch {
	case len(args) > 0:
		name = args[0]
	case fileCfg != nil:
		name = fileCfg.Problem
	}

	p, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	cfg := config.FromProblem(p)

	if preset != "" {
		pc := config.GetPreset(name, preset)
		if pc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = pc
	}

	if fileCfg != nil {
		if fileCfg.Problem != name {
			return nil, fmt.Errorf("config file is for %s, not %s", fileCfg.Problem, name)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("tmax") {
		cfg.Tmax = tmax
	}
	if flags.Changed("y0") {
		cfg.Y0 = y0
	}
	if flags.Changed("h") {
		cfg.H = h
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("max-points") {
		cfg.MaxPoints = maxPoints
	}
	if flags.Changed("label") {
		cfg.Label = label
	}

	return cfg, cfg.Validate()
}

func solve(cmd *cobra.Command, args []string) error {
	reg := problems.NewRegistry()
	cfg, err := resolveConfig(cmd, reg, args)
	if err != nil {
		return err
	}

	log.Info("solving", "problem", cfg.Problem, "t0", cfg.T0, "tmax", cfg.Tmax, "y0", cfg.Y0, "h", cfg.H, "endpoint", cfg.Endpoint)
	start := time.Now()

	res, err := automation.Solve(reg, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fields := viz.TrajectoryFields(res.Trajectory)
	fields = append(fields, viz.Field{Label: "elapsed", Value: elapsed.String()})
	if res.Error != nil {
		fields = append(fields,
			viz.Field{Label: "max |error|", Value: fmt.Sprintf("%.3e", res.Error.MaxAbs)},
			viz.Field{Label: "final error", Value: fmt.Sprintf("%.3e", res.Error.Final)},
		)
	}
	fmt.Println(viz.Summary(cfg.Problem, fields...))

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(res.Metadata(), res.Trajectory)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if showPlot {
		fmt.Println()
		fmt.Println(viz.Plot(res.Trajectory, fmt.Sprintf("%s, h=%g", cfg.Problem, cfg.H)))
	}

	return nil
}

func listProblems(cmd *cobra.Command, args []string) error {
	reg := problems.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEQUATION\tEXACT\tT0\tTMAX\tY0\tH")
	for _, name := range reg.Names() {
		p, _ := reg.Get(name)
		exact := "no"
		if p.Exact != nil {
			exact = "yes"
		}
		d := p.Default
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%g\n", p.Name, p.Description, exact, d.T0, d.Tmax, d.Y0, d.H)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := problems.NewRegistry().Names()
	if len(args) > 0 {
		names = args
	}

	found := false
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			if len(args) > 0 {
				fmt.Printf("no presets for problem: %s\n", name)
			}
			continue
		}
		found = true
		fmt.Printf("%s: %s\n", name, strings.Join(presets, ", "))
	}
	if !found && len(args) == 0 {
		fmt.Println("no presets defined")
	}
	return nil
}
