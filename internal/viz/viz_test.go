package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odekit/internal/ode"
)

func growth(t *testing.T, tmax, h float64) *ode.Trajectory {
	t.Helper()
	traj, err := ode.Integrate(func(t, y float64) float64 { return y }, 0, tmax, 1, h)
	require.NoError(t, err)
	return traj
}

func press(v Viewer, key string) Viewer {
	var msg tea.KeyMsg
	switch key {
	case "pgdown":
		msg = tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		msg = tea.KeyMsg{Type: tea.KeyPgUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := v.Update(msg)
	return m.(Viewer)
}

func TestViewerNavigation(t *testing.T) {
	v := NewViewer(growth(t, 10, 0.1), "exp_growth")
	m, _ := v.Update(tea.WindowSizeMsg{Width: 80, Height: 17})
	v = m.(Viewer)

	v = press(v, "j")
	v = press(v, "j")
	assert.Equal(t, 2, v.Cursor())

	v = press(v, "k")
	assert.Equal(t, 1, v.Cursor())

	v = press(v, "pgdown")
	assert.Equal(t, 11, v.Cursor())
	assert.Equal(t, 2, v.Offset())

	v = press(v, "G")
	assert.Equal(t, 99, v.Cursor())
	assert.Equal(t, 90, v.Offset())

	v = press(v, "j")
	assert.Equal(t, 99, v.Cursor())

	v = press(v, "pgup")
	assert.Equal(t, 89, v.Cursor())
	assert.Equal(t, 89, v.Offset())

	v = press(v, "g")
	assert.Equal(t, 0, v.Cursor())
	assert.Equal(t, 0, v.Offset())
}

func TestViewerQuit(t *testing.T) {
	v := NewViewer(growth(t, 1, 0.1), "exp_growth")
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestViewerView(t *testing.T) {
	v := NewViewer(growth(t, 1, 0.1), "exp_growth")
	out := v.View()

	assert.Contains(t, out, "exp_growth")
	assert.Contains(t, out, "point 1/10")
	assert.Contains(t, out, "2.718")
	assert.Contains(t, out, "◆")
}

func TestSeparator(t *testing.T) {
	assert.Contains(t, Separator(20), "◆")
	assert.Contains(t, Separator(0), "◆")
}

func TestViewerSinglePoint(t *testing.T) {
	v := NewViewer(growth(t, 0.05, 0.1), "short")
	v = press(v, "G")
	v = press(v, "pgdown")
	assert.Equal(t, 0, v.Cursor())
	assert.Contains(t, v.View(), "point 1/1")
}

func TestPlot(t *testing.T) {
	out := Plot(growth(t, 1, 0.1), "y' = y")
	assert.Contains(t, out, "y' = y")
	assert.Greater(t, strings.Count(out, "\n"), 5)

	assert.Contains(t, Plot(nil, "empty"), "no points")
	assert.NotPanics(t, func() { Plot(growth(t, 0.05, 0.1), "one") })

	nan := growth(t, 1, 0.1)
	for i := range nan.Values {
		nan.Values[i] = math.NaN()
	}
	assert.Contains(t, Plot(nan, "nan"), "no finite values")
}

func TestSummary(t *testing.T) {
	out := Summary("run", TrajectoryFields(growth(t, 1, 0.1))...)
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "points")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "clamp")
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, strings.Repeat("─", 5), Sparkline(nil, 5))
	out := Sparkline([]float64{1, 2, math.NaN(), 4}, 4)
	assert.Contains(t, out, "·")
}
