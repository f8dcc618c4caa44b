package utils

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// TelemetryRecord is one CSV row, written once per generation
type TelemetryRecord struct {
	Generation     int     `csv:"generation"`
	Alive          int     `csv:"alive"`
	Dying          int     `csv:"dying"`
	Visible        int     `csv:"visible"`
	BoundingVolume int     `csv:"bounding_volume"`
	TickMicros     int64   `csv:"tick_us"`
	PopulationMean float64 `csv:"population_mean"`
	PopulationStd  float64 `csv:"population_std"`
}

// TelemetryWriter appends TelemetryRecords to a CSV file
type TelemetryWriter struct {
	file          *os.File
	headerWritten bool
}

// NewTelemetryWriter creates the CSV file at path. An empty path disables
// telemetry and returns a nil writer, which is safe to use.
func NewTelemetryWriter(path string) (*TelemetryWriter, error) {
	if path == "" {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "[NewTelemetryWriter] failed to create directory for: %+v", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewTelemetryWriter] failed to create file: %+v", path)
	}

	return &TelemetryWriter{file: f}, nil
}

// Write appends one record, emitting the header before the first row
func (w *TelemetryWriter) Write(record TelemetryRecord) error {
	if w == nil {
		return nil
	}

	rows := []TelemetryRecord{record}
	var err error
	if !w.headerWritten {
		err = gocsv.Marshal(&rows, w.file)
		w.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, w.file)
	}
	return errors.Wrap(err, "[TelemetryWriter.Write] failed to write record")
}

// Close flushes and closes the underlying file
func (w *TelemetryWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}
