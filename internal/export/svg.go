package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/odekit/internal/ode"
)

// TrajectoryToSVG draws y against t as a single polyline.
func TrajectoryToSVG(traj *ode.Trajectory, width, height int, strokeColor string) string {
	if traj == nil || traj.Len() < 2 {
		return ""
	}

	minX, maxX := traj.Times[0], traj.Times[0]
	minY, maxY := traj.Values[0], traj.Values[0]
	for i := 0; i < traj.Len(); i++ {
		x, y := traj.At(i)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < traj.Len(); i++ {
		t, y := traj.At(i)
		px := (t - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
