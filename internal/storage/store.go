// Package storage persists finished runs as a directory per run:
// metadata.json, samples.csv, field.csv for heat runs and the scene.yaml
// needed to reproduce them.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/san-kum/matsim/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	fieldFile    = "field.csv"
	sceneFile    = "scene.yaml"
)

var sampleHeader = []string{"step", "time", "kinetic", "potential", "total", "temperature"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Steps     int                `json:"steps"`
	Time      float64            `json:"time"`
	Elapsed   string             `json:"elapsed"`
	Metrics   map[string]float64 `json:"metrics"`
	Error     string             `json:"error,omitempty"`
	NX        int                `json:"nx,omitempty"`
	NY        int                `json:"ny,omitempty"`
}

// Save writes res, and scene when non-nil, under a fresh run directory and
// returns its ID.
func (s *Store) Save(scene *config.Scene, res *experiment.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(res.Scene, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     res.Scene,
		Mode:      res.Mode,
		Timestamp: now,
		Seed:      res.Seed,
		Steps:     res.Steps,
		Time:      res.Time,
		Elapsed:   res.Elapsed.String(),
		Metrics:   finiteOnly(res.Metrics),
		Error:     res.Err,
		NX:        res.NX,
		NY:        res.NY,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), res.Samples); err != nil {
		return "", err
	}
	if len(res.Field) > 0 {
		if err := writeField(filepath.Join(runDir, fieldFile), res.Field, res.NX, res.NY); err != nil {
			return "", err
		}
	}
	if scene != nil {
		if err := config.SaveScene(filepath.Join(runDir, sceneFile), scene); err != nil {
			return "", err
		}
	}

	logrus.Debugf("saved run %s to %s", runID, runDir)
	return runID, nil
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s", sanitize(name), now.Format("20060102-150405"))
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
}

// finiteOnly drops NaN and ±Inf, which encoding/json rejects.
func finiteOnly(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSamples(path string, samples []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Step),
			formatFloat(sm.Time),
			formatFloat(sm.Kinetic),
			formatFloat(sm.Potential),
			formatFloat(sm.Total),
			formatFloat(sm.Temperature),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeField writes one CSV row per grid row; a 1D field is a single row.
func writeField(path string, field []float64, nx, ny int) error {
	if nx <= 0 {
		nx = len(field)
	}
	if ny <= 0 {
		ny = 1
	}
	if nx*ny != len(field) {
		return fmt.Errorf("field has %d values, want %dx%d", len(field), nx, ny)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			row[i] = formatFloat(field[j*nx+i])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			logrus.Debugf("skipping %s: %v", entry.Name(), err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadScene returns the scene saved with the run.
func (s *Store) LoadScene(runID string) (*config.Scene, error) {
	return config.LoadScene(filepath.Join(s.baseDir, runID, sceneFile))
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(sampleHeader) {
			return nil, fmt.Errorf("%s row %d: want %d fields, got %d", samplesFile, i+2, len(sampleHeader), len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", samplesFile, i+2, err)
		}
		var vals [5]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", samplesFile, i+2, err)
			}
		}
		samples = append(samples, metrics.Sample{
			Step:        step,
			Time:        vals[0],
			Kinetic:     vals[1],
			Potential:   vals[2],
			Total:       vals[3],
			Temperature: vals[4],
		})
	}
	return samples, nil
}

// LoadField returns the saved temperature field and its grid shape.
func (s *Store) LoadField(runID string) ([]float64, int, int, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) == 0 {
		return nil, 0, 0, fmt.Errorf("%s: empty field", runID)
	}

	nx, ny := len(records[0]), len(records)
	field := make([]float64, 0, nx*ny)
	for j, record := range records {
		if len(record) != nx {
			return nil, 0, 0, fmt.Errorf("%s row %d: ragged field", fieldFile, j+1)
		}
		for _, v := range record {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("%s row %d: %w", fieldFile, j+1, err)
			}
			field = append(field, f)
		}
	}
	return field, nx, ny, nil
}
