package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/bench"
	"github.com/san-kum/odekit/internal/logx"
	"github.com/san-kum/odekit/internal/storage"
)

var (
	dataDir  string
	logLevel string
	log      *slog.Logger

	t0        float64
	tmax      float64
	y0        float64
	h         float64
	endpoint  string
	maxPoints int
	label     string
	save      bool
	showPlot  bool

	configFile string
	preset     string

	transpose bool

	svgWidth  int
	svgHeight int
	svgStroke string

	reps         int
	levels       int
	workers      int
	duration     float64
	perturbation float64
)

// main registers the odekit commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "odekit",
		Short:        "fixed-step RK4 solver for scalar initial value problems",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logx.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log = logx.New(os.Stderr, level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odekit", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "integrate a problem",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solve,
	}
	solveCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	solveCmd.Flags().Float64Var(&tmax, "tmax", 1, "end time")
	solveCmd.Flags().Float64Var(&y0, "y0", 1, "initial value")
	solveCmd.Flags().Float64Var(&h, "h", 0.1, "step size")
	solveCmd.Flags().StringVar(&endpoint, "endpoint", "clamp", "last step policy (clamp, fixed)")
	solveCmd.Flags().IntVar(&maxPoints, "max-points", 0, "point cap (0 uses the default)")
	solveCmd.Flags().StringVar(&label, "label", "", "run label")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	solveCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list built-in problems",
		Args:  cobra.NoArgs,
		RunE:  listProblems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "page through the points of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	matrixCmd := &cobra.Command{
		Use:   "matrix [run_id]",
		Short: "print a run as a time/value matrix",
		Args:  cobra.ExactArgs(1),
		RunE:  printMatrix,
	}
	matrixCmd.Flags().BoolVar(&transpose, "transpose", false, "print one row per column")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run plot to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVar(&svgStroke, "stroke", "#00ccff", "line color")

	benchCmd := &cobra.Command{
		Use:   "bench [problem...]",
		Short: "time repeated solves (all problems by default)",
		RunE:  benchProblems,
	}
	benchCmd.Flags().IntVar(&reps, "reps", bench.DefaultRepetitions, "repetitions per problem")
	benchCmd.Flags().Float64Var(&h, "h", 0, "override the step size")

	convergeCmd := &cobra.Command{
		Use:   "converge [problem]",
		Short: "estimate the empirical order of accuracy",
		Args:  cobra.ExactArgs(1),
		RunE:  converge,
	}
	convergeCmd.Flags().IntVar(&levels, "levels", 5, "number of step halvings")
	convergeCmd.Flags().Float64Var(&h, "h", 0, "coarsest step size (problem default when 0)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [problem]",
		Short: "estimate the local separation rate of nearby solutions",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunov,
	}
	lyapunovCmd.Flags().Float64Var(&duration, "duration", 5, "integration time")
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation")
	lyapunovCmd.Flags().Float64Var(&h, "h", 0, "step size (problem default when 0)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of solves",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [problem]",
		Short: "solve with successively halved step sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&levels, "levels", 5, "number of step sizes")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [problem...]",
		Short: "solve several problems concurrently (all problems by default)",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "concurrent solves (GOMAXPROCS when 0)")

	rootCmd.AddCommand(solveCmd, problemsCmd, presetsCmd, listCmd, showCmd, plotCmd, viewCmd, matrixCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, benchCmd, convergeCmd, lyapunovCmd, scenarioCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, log)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	return st, nil
}
