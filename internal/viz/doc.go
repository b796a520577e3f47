// Package viz renders trajectories in the terminal.
//
//   - [Plot]: asciigraph line chart of y over the point index
//   - [Summary]: styled label/value panel
//   - [Viewer]: Bubble Tea model for paging through the points of a run
//
// # Key Bindings
//
//	j/k       - Next/previous point
//	pgdn/pgup - Next/previous page
//	g/G       - First/last point
//	q         - Quit
package viz
