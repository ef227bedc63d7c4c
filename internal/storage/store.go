package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/san-kum/gaitsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes a finished run for Save.
type RunInfo struct {
	Model      string
	Integrator string
	Dt         float64
	Duration   float64
	Seed       int64
	// Document is the serialized model the run was built from.
	Document []byte
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	ModelHash    string             `json:"model_hash"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Integrator   string             `json:"integrator"`
	Steps        int                `json:"steps"`
	WrapFailures int                `json:"wrap_failures"`
	Metrics      map[string]float64 `json:"metrics"`
	Columns      []string           `json:"columns"`
}

// ModelHash fingerprints a serialized model so runs of the same model can
// be grouped.
func ModelHash(doc []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(doc))
}

func runName(model string) string {
	base := filepath.Base(model)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", runName(info.Model), uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	var columns []string
	if len(result.Frames) > 0 {
		columns = Columns(&result.Frames[0])
	}
	meta := RunMetadata{
		ID:           runID,
		Model:        info.Model,
		ModelHash:    ModelHash(info.Document),
		Timestamp:    time.Now(),
		Seed:         info.Seed,
		Dt:           info.Dt,
		Duration:     info.Duration,
		Integrator:   info.Integrator,
		Steps:        result.StepsTaken,
		WrapFailures: result.WrapFailures,
		Metrics:      result.Metrics,
		Columns:      columns,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
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

// Samples is the recorded table of a run. Rows exclude the time column.
type Samples struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Series returns one named column.
func (s *Samples) Series(column string) ([]float64, error) {
	idx := -1
	for i, c := range s.Columns {
		if c == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	out := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

func (s *Store) LoadSamples(runID string) (*Samples, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := &Samples{}
	if len(records) == 0 {
		return samples, nil
	}
	samples.Columns = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		samples.Times = append(samples.Times, t)
		samples.Rows = append(samples.Rows, row)
	}
	return samples, nil
}
