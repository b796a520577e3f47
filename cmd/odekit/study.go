package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/automation"
	"github.com/san-kum/odekit/internal/bench"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/problems"
	"github.com/san-kum/odekit/internal/viz"
)

func formatError(e float64) string {
	if math.IsNaN(e) {
		return "-"
	}
	return fmt.Sprintf("%.3e", e)
}

func benchProblems(cmd *cobra.Command, args []string) error {
	reg := problems.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.Names()
	}

	runner := bench.New(reg, reps, log)

	var timings []*bench.Timing
	if cmd.Flags().Changed("h") {
		for _, name := range names {
			p, err := reg.Get(name)
			if err != nil {
				return err
			}
			cfg := config.FromProblem(p)
			cfg.H = h
			t, err := runner.Run(cfg)
			if err != nil {
				return err
			}
			timings = append(timings, t)
		}
	} else {
		var err error
		if timings, err = runner.RunAll(names); err != nil {
			return err
		}
	}

	fmt.Printf("%d repetitions per problem\n\n", reps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tPOINTS\tMEAN\tSTD\tPOINTS/S\tFINAL ERROR")
	for _, t := range timings {
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.3g\t%s\n",
			t.Problem, t.Points, t.Mean, t.StdDev, t.PointsPerS, formatError(t.FinalError))
	}
	return w.Flush()
}

func converge(cmd *cobra.Command, args []string) error {
	p, err := problems.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	cfg := config.FromProblem(p)
	if h > 0 {
		cfg.H = h
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return err
	}

	// a degenerate fit still returns the per-step errors
	rep, fitErr := analysis.Convergence(integ, p.F, p.Solution(cfg.T0, cfg.Y0), cfg.T0, cfg.Tmax, cfg.Y0, analysis.Halvings(cfg.H, levels))
	if rep == nil {
		return fitErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tFINAL ERROR\tRATIO")
	for i, hs := range rep.Steps {
		ratio := "-"
		if i > 0 && rep.Errors[i] > 0 {
			ratio = fmt.Sprintf("%.2f", rep.Errors[i-1]/rep.Errors[i])
		}
		fmt.Fprintf(w, "%g\t%.3e\t%s\n", hs, rep.Errors[i], ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if fitErr != nil {
		return fitErr
	}

	fmt.Println()
	fmt.Println(viz.Summary("convergence", viz.Field{Label: "order", Value: fmt.Sprintf("%.3f", rep.Order)}))
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	p, err := problems.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	cfg := config.FromProblem(p)
	if h > 0 {
		cfg.H = h
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return err
	}

	lambda, err := analysis.LyapunovExponent(integ, p.F, cfg.T0, cfg.Y0, cfg.H, duration, perturbation)
	if err != nil {
		return err
	}

	status := viz.StatusOK.Render("contracting")
	if lambda > 0 {
		status = viz.StatusWarn.Render("expanding")
	}
	fmt.Println(viz.Summary(p.Name,
		viz.Field{Label: "exponent", Value: fmt.Sprintf("%.6f", lambda)},
		viz.Field{Label: "duration", Value: fmt.Sprintf("%g", duration)},
		viz.Field{Label: "step", Value: fmt.Sprintf("%g", cfg.H)},
		viz.Field{Label: "behaviour", Value: status},
	))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, sc, problems.NewRegistry(), automation.Options{Store: st, Log: log})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPROBLEM\tH\tPOINTS\tFINAL\tFINAL ERROR\tRUN")
	for i, res := range results {
		_, yEnd := res.Trajectory.Final()
		errStr := "-"
		if res.Error != nil {
			errStr = formatError(res.Error.Final)
		}
		fmt.Fprintf(w, "%d\t%s\t%g\t%d\t%.6g\t%s\t%s\n",
			i+1, res.Config.Problem, res.Config.H, res.Trajectory.Len(), yEnd, errStr, res.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	reg := problems.NewRegistry()
	p, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	base := config.FromProblem(p)
	if preset != "" {
		if base = config.GetPreset(p.Name, preset); base == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(p.Name))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, automation.SweepConfig{Base: *base, Levels: levels}, reg, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tPOINTS\tFINAL T\tFINAL Y\tFINAL ERROR")
	for _, r := range results {
		errStr := formatError(r.FinalError)
		if p.Exact == nil {
			errStr = "-"
		}
		if !r.Finite {
			errStr = viz.StatusError.Render("non-finite")
		}
		fmt.Fprintf(w, "%g\t%d\t%.6g\t%.10g\t%s\n", r.H, r.Points, r.FinalTime, r.FinalValue, errStr)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	reg := problems.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.Names()
	}

	cfgs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		cfgs = append(cfgs, config.FromProblem(p))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunEnsemble(ctx, reg, cfgs, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tPOINTS\tFINAL T\tFINAL Y\tMAX |ERROR|\tSHAPE")
	for _, res := range results {
		tEnd, yEnd := res.Trajectory.Final()
		errStr := "-"
		if res.Error != nil {
			errStr = formatError(res.Error.MaxAbs)
		}
		fmt.Fprintf(w, "%s\t%d\t%.6g\t%.10g\t%s\t%s\n",
			res.Config.Problem, res.Trajectory.Len(), tEnd, yEnd, errStr, viz.Sparkline(res.Trajectory.Values, 24))
	}
	return w.Flush()
}
