package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/export"
	"github.com/san-kum/odekit/internal/linalg"
	"github.com/san-kum/odekit/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tLABEL\tTIME\tPOINTS\tH\tENDPOINT\tFINAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%g\t%s\t%.6g\n",
			run.ID,
			run.Problem,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.H,
			run.Endpoint,
			run.FinalValue,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fields := []viz.Field{
		{Label: "problem", Value: meta.Problem},
		{Label: "saved", Value: meta.Timestamp.Format("2006-01-02 15:04:05")},
		{Label: "interval", Value: fmt.Sprintf("[%g, %g]", meta.T0, meta.Tmax)},
		{Label: "y0", Value: fmt.Sprintf("%g", meta.Y0)},
		{Label: "step", Value: fmt.Sprintf("%g", meta.H)},
		{Label: "endpoint", Value: meta.Endpoint},
		{Label: "points", Value: fmt.Sprintf("%d", meta.Points)},
		{Label: "evaluations", Value: fmt.Sprintf("%d", meta.Evaluations)},
		{Label: "final", Value: fmt.Sprintf("y(%.6g) = %.10g", meta.FinalTime, meta.FinalValue)},
	}
	if meta.Label != "" {
		fields = append(fields, viz.Field{Label: "label", Value: meta.Label})
	}

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields = append(fields, viz.Field{Label: name, Value: fmt.Sprintf("%.3e", meta.Metrics[name])})
	}

	fmt.Println(viz.Summary(meta.ID, fields...))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("points: %d\n\n", traj.Len())
	fmt.Println(viz.Plot(traj, fmt.Sprintf("y vs point index, h=%g", meta.H)))
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewViewer(traj, args[0]), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func printMatrix(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	m, err := linalg.MatrixFromColumns(traj.Times, traj.Values)
	if err != nil {
		return err
	}
	if transpose {
		m = m.Transpose()
	}
	return m.Fprint(os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, export.NewExportData(meta, traj))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(traj, svgWidth, svgHeight, svgStroke)
	if svg == "" {
		return fmt.Errorf("run %s: need at least two points to draw", args[0])
	}
	_, err = fmt.Fprintln(os.Stdout, svg)
	return err
}
