package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/odekit/internal/ode"
	"github.com/san-kum/odekit/internal/storage"
)

// ExportData is the JSON form of a saved run. Values and metrics may be NaN
// or infinite after a blow-up, so they use storage.Float.
type ExportData struct {
	ID       string                   `json:"id"`
	Problem  string                   `json:"problem"`
	Endpoint string                   `json:"endpoint"`
	T0       float64                  `json:"t0"`
	Tmax     float64                  `json:"tmax"`
	Y0       storage.Float            `json:"y0"`
	H        float64                  `json:"h"`
	Points   int                      `json:"points"`
	Times    []float64                `json:"times"`
	Values   []storage.Float          `json:"values"`
	Metrics  map[string]storage.Float `json:"metrics,omitempty"`
}

func NewExportData(meta *storage.RunMetadata, traj *ode.Trajectory) ExportData {
	return ExportData{
		ID:       meta.ID,
		Problem:  meta.Problem,
		Endpoint: meta.Endpoint,
		T0:       meta.T0,
		Tmax:     meta.Tmax,
		Y0:       meta.Y0,
		H:        meta.H,
		Points:   traj.Len(),
		Times:    traj.Times,
		Values:   storage.Floats(traj.Values),
		Metrics:  meta.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes a time,y header followed by one row per point.
func WriteCSV(w io.Writer, traj *ode.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "y"}); err != nil {
		return err
	}
	for i := 0; i < traj.Len(); i++ {
		t, y := traj.At(i)
		row := []string{strconv.FormatFloat(t, 'f', 6, 64), strconv.FormatFloat(y, 'f', 6, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
