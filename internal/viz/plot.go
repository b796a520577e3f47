package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odekit/internal/ode"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// Plot draws y against the point index. Non-finite values leave gaps.
func Plot(traj *ode.Trajectory, caption string) string {
	if traj == nil || traj.Len() == 0 {
		return Subtle.Render("(no points)")
	}

	data := make([]float64, traj.Len())
	finite := 0
	for i, v := range traj.Values[:traj.Len()] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = math.NaN()
			continue
		}
		data[i] = v
		finite++
	}
	if finite == 0 {
		return StatusError.Render("(no finite values)")
	}
	if traj.Len() == 1 {
		// asciigraph needs two samples to draw a line
		data = append(data, data[0])
	}

	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

type Field struct {
	Label string
	Value string
}

// Summary renders a titled block of label/value rows.
func Summary(title string, fields ...Field) string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render(title) + "\n")
	for _, f := range fields {
		s.WriteString(MetricLabel.Render(f.Label) + MetricValue.Render(f.Value) + "\n")
	}
	return Panel.Render(strings.TrimRight(s.String(), "\n"))
}

func TrajectoryFields(traj *ode.Trajectory) []Field {
	tEnd, yEnd := traj.Final()
	status := StatusOK.Render("finite")
	if !traj.IsFinite() {
		status = StatusWarn.Render("non-finite")
	}
	return []Field{
		{"points", fmt.Sprintf("%d", traj.Len())},
		{"step", fmt.Sprintf("%g", traj.Step)},
		{"endpoint", traj.Policy.String()},
		{"evaluations", fmt.Sprintf("%d", traj.Evaluations)},
		{"final t", fmt.Sprintf("%.6g", tEnd)},
		{"final y", fmt.Sprintf("%.10g", yEnd)},
		{"values", status},
	}
}
