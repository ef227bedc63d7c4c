package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/gaitsim/internal/sim"
)

// Columns names the sample channels of a frame, excluding time.
func Columns(f *sim.Frame) []string {
	var cols []string
	for _, s := range f.Straps {
		cols = append(cols, s.Name+".length", s.Name+".velocity", s.Name+".tension", s.Name+".status")
	}
	for _, a := range f.Actuators {
		cols = append(cols, a.Name+".activation")
	}
	for _, j := range f.Joints {
		cols = append(cols, j.Name+".force")
	}
	for _, b := range f.Bodies {
		cols = append(cols, b.Name+".x", b.Name+".y", b.Name+".z")
	}
	return cols
}

// Row is the sample values of a frame in Columns order.
func Row(f *sim.Frame) []float64 {
	var row []float64
	for _, s := range f.Straps {
		row = append(row, s.Length, s.Velocity, s.Tension, float64(s.Status))
	}
	for _, a := range f.Actuators {
		row = append(row, a.Activation)
	}
	for _, j := range f.Joints {
		row = append(row, j.Feedback.Force1.Magnitude())
	}
	for _, b := range f.Bodies {
		row = append(row, b.Position.X, b.Position.Y, b.Position.Z)
	}
	return row
}

func formatSample(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

// WriteCSV writes the recorded frames with a time column first.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if len(result.Frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := append([]string{"time"}, Columns(&result.Frames[0])...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range result.Frames {
		f := &result.Frames[i]
		record := []string{strconv.FormatFloat(f.Time, 'f', 6, 64)}
		for _, v := range Row(f) {
			record = append(record, formatSample(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type ExportData struct {
	Model        string             `json:"model"`
	Integrator   string             `json:"integrator"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Steps        int                `json:"steps"`
	WrapFailures int                `json:"wrap_failures"`
	Columns      []string           `json:"columns"`
	Times        []float64          `json:"times"`
	Samples      [][]float64        `json:"samples"`
	Metrics      map[string]float64 `json:"metrics"`
}

// ExportJSON writes the run with its recorded frames flattened to rows.
func ExportJSON(out io.Writer, info RunInfo, result *sim.Result) error {
	data := ExportData{
		Model:        info.Model,
		Integrator:   info.Integrator,
		Dt:           info.Dt,
		Duration:     info.Duration,
		Steps:        result.StepsTaken,
		WrapFailures: result.WrapFailures,
		Times:        make([]float64, len(result.Frames)),
		Samples:      make([][]float64, len(result.Frames)),
		Metrics:      result.Metrics,
	}
	if len(result.Frames) > 0 {
		data.Columns = Columns(&result.Frames[0])
	}
	for i := range result.Frames {
		data.Times[i] = result.Frames[i].Time
		data.Samples[i] = Row(&result.Frames[i])
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
