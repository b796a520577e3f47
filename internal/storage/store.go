package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/odekit/internal/linalg"
	"github.com/san-kum/odekit/internal/logx"
	"github.com/san-kum/odekit/internal/ode"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	matrixFile     = "trajectory.mat"
)

type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string, log *slog.Logger) *Store {
	return &Store{baseDir: baseDir, log: logx.OrDiscard(log)}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string           `json:"id"`
	Problem     string           `json:"problem"`
	Label       string           `json:"label,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	T0          float64          `json:"t0"`
	Tmax        float64          `json:"tmax"`
	Y0          Float            `json:"y0"`
	H           float64          `json:"h"`
	Endpoint    string           `json:"endpoint"`
	Points      int              `json:"points"`
	Evaluations int              `json:"evaluations"`
	Finite      bool             `json:"finite"`
	FinalTime   float64          `json:"final_time"`
	FinalValue  Float            `json:"final_value"`
	Metrics     map[string]Float `json:"metrics,omitempty"`
}

// NewMetadata fills the trajectory-derived fields of a run record.
func NewMetadata(problem string, t0, tmax, y0 float64, traj *ode.Trajectory) RunMetadata {
	tEnd, yEnd := traj.Final()
	return RunMetadata{
		Problem:     problem,
		T0:          t0,
		Tmax:        tmax,
		Y0:          Float(y0),
		H:           traj.Step,
		Endpoint:    traj.Policy.String(),
		Points:      traj.Len(),
		Evaluations: traj.Evaluations,
		Finite:      traj.IsFinite(),
		FinalTime:   tEnd,
		FinalValue:  Float(yEnd),
		Metrics:     make(map[string]Float),
	}
}

// Save writes the run under a fresh directory and returns its id. A failed
// save removes the directory so List never sees a partial run.
func (s *Store) Save(meta RunMetadata, traj *ode.Trajectory) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Problem, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	if err := writeRun(runDir, meta, traj); err != nil {
		if rerr := os.RemoveAll(runDir); rerr != nil {
			s.log.Warn("could not remove partial run", "dir", runDir, "err", rerr)
		}
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	s.log.Info("run saved", "id", runID, "points", traj.Len())
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, traj *ode.Trajectory) error {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeTrajectoryCSV(filepath.Join(runDir, trajectoryFile), traj); err != nil {
		return err
	}

	m, err := linalg.MatrixFromColumns(traj.Times, traj.Values)
	if err != nil {
		return err
	}
	return m.WriteFile(filepath.Join(runDir, matrixFile))
}

func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectoryCSV(path string, traj *ode.Trajectory) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "y"}); err != nil {
		return err
	}
	for i := 0; i < traj.Len(); i++ {
		t, y := traj.At(i)
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(y, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory rebuilds the trajectory of a saved run.
func (s *Store) LoadTrajectory(runID string) (*ode.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: empty trajectory", runID)
	}

	policy, err := ode.ParseEndpoint(meta.Endpoint)
	if err != nil {
		return nil, err
	}

	n := len(records) - 1
	traj := &ode.Trajectory{
		Times:       make([]float64, n),
		Values:      make([]float64, n),
		Count:       n,
		Step:        meta.H,
		Policy:      policy,
		Evaluations: meta.Evaluations,
	}
	for i, record := range records[1:] {
		if traj.Times[i], err = strconv.ParseFloat(record[0], 64); err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		if traj.Values[i], err = strconv.ParseFloat(record[1], 64); err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
	}

	return traj, nil
}

// MatrixPath is the text matrix dump of a run (time and y columns).
func (s *Store) MatrixPath(runID string) string {
	return filepath.Join(s.baseDir, runID, matrixFile)
}
