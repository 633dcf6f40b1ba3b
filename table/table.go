// Package table reads and writes the on-disk CSV form of a Table. The
// header is fixed: note_name,start_time,duration,velocity,tempo. A missing
// velocity is an empty field.
package table

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jsphweid/notetab/model"
)

var header = []string{"note_name", "start_time", "duration", "velocity", "tempo"}

// Write emits the table as CSV, header first.
func Write(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range t {
		velocity := ""
		if row.Velocity != nil {
			velocity = strconv.Itoa(*row.Velocity)
		}
		record := []string{
			row.NoteName,
			strconv.FormatFloat(row.Start, 'f', -1, 64),
			strconv.FormatFloat(row.Duration, 'f', -1, 64),
			velocity,
			strconv.FormatFloat(row.Tempo, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses CSV into a Table, validating the header.
func Read(r io.Reader) (model.Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}
	for i, name := range header {
		if i >= len(records[0]) || records[0][i] != name {
			return nil, errors.Errorf("bad header, want %v", header)
		}
	}

	t := make(model.Table, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %v", i)
		}
		t = append(t, row)
	}
	return t, nil
}

func parseRecord(record []string) (model.Row, error) {
	var row model.Row
	if len(record) != len(header) {
		return row, errors.Errorf("want %v fields, got %v", len(header), len(record))
	}

	row.NoteName = record[0]
	var err error
	if row.Start, err = strconv.ParseFloat(record[1], 64); err != nil {
		return row, errors.Wrap(err, "start_time")
	}
	if row.Duration, err = strconv.ParseFloat(record[2], 64); err != nil {
		return row, errors.Wrap(err, "duration")
	}
	if record[3] != "" {
		// NaN reads as an absent velocity, matching older exports
		v, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return row, errors.Wrap(err, "velocity")
		}
		if !math.IsNaN(v) {
			velocity := int(v)
			row.Velocity = &velocity
		}
	}
	if row.Tempo, err = strconv.ParseFloat(record[4], 64); err != nil {
		return row, errors.Wrap(err, "tempo")
	}
	return row, nil
}

// WriteFile writes the table to path atomically: the CSV lands in a
// uuid-named temp file in the same directory and is renamed into place, so
// a failure never leaves a partial table behind.
func WriteFile(path string, t model.Table) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return &model.EncodeError{Path: path, Err: err}
	}
	if err := Write(f, t); err != nil {
		f.Close()
		os.Remove(tmp)
		return &model.EncodeError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &model.EncodeError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &model.EncodeError{Path: path, Err: err}
	}
	return nil
}

// ReadFile parses the CSV file at path into a Table.
func ReadFile(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	return t, nil
}

// Concat appends tables end to end in input order, preserving each row
// untouched.
func Concat(tables ...model.Table) model.Table {
	var res model.Table
	for _, t := range tables {
		res = append(res, t...)
	}
	return res
}
