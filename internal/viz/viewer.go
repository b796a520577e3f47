package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odekit/internal/ode"
)

const (
	defaultPageSize = 15
	// rows taken by title, sparkline, header and key hints
	viewerChrome = 7
)

// Viewer pages through the points of a trajectory.
type Viewer struct {
	traj     *ode.Trajectory
	title    string
	cursor   int
	offset   int
	pageSize int
	width    int
	quitting bool
}

func NewViewer(traj *ode.Trajectory, title string) Viewer {
	return Viewer{
		traj:     traj,
		title:    title,
		pageSize: defaultPageSize,
		width:    plotWidth,
	}
}

// Cursor is the index of the highlighted point.
func (v Viewer) Cursor() int { return v.cursor }

func (v Viewer) Offset() int { return v.offset }

func (v Viewer) Init() tea.Cmd {
	return nil
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			v.quitting = true
			return v, tea.Quit
		case "j", "down":
			v.move(1)
		case "k", "up":
			v.move(-1)
		case "pgdown", " ", "f":
			v.move(v.pageSize)
		case "pgup", "b":
			v.move(-v.pageSize)
		case "g", "home":
			v.move(-v.traj.Len())
		case "G", "end":
			v.move(v.traj.Len())
		}
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.pageSize = max(msg.Height-viewerChrome, 1)
		v.move(0)
	}
	return v, nil
}

// move shifts the cursor by delta, clamped to the trajectory, and scrolls the
// page so the cursor stays visible.
func (v *Viewer) move(delta int) {
	last := v.traj.Len() - 1
	v.cursor = min(max(v.cursor+delta, 0), last)

	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+v.pageSize {
		v.offset = v.cursor - v.pageSize + 1
	}
}

func (v Viewer) View() string {
	if v.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(Title.Render(v.title) + "\n")
	width := min(v.width, plotWidth)
	s.WriteString(Sparkline(v.traj.Values[:v.traj.Len()], width) + "\n")
	s.WriteString(Separator(width) + "\n\n")
	s.WriteString(HeaderStyle.Render(fmt.Sprintf("%8s  %16s  %20s", "i", "t", "y")) + "\n")

	end := min(v.offset+v.pageSize, v.traj.Len())
	for i := v.offset; i < end; i++ {
		t, y := v.traj.At(i)
		row := fmt.Sprintf("%8d  %16.8g  %20.12g", i, t, y)
		if i == v.cursor {
			s.WriteString(Selected.Render(row) + "\n")
		} else {
			s.WriteString(row + "\n")
		}
	}

	s.WriteString("\n" + KeyHint.Render(fmt.Sprintf("point %d/%d  j/k move  pgup/pgdn page  g/G ends  q quit",
		v.cursor+1, v.traj.Len())))
	return s.String()
}
