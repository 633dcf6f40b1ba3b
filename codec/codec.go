// Package codec serializes between Streams and flat Tables. The table side
// collapses an event's kind into the note_name string: the literal "Rest",
// a single pitch spelling, comma-joined spellings for a chord, or an
// unpitched event's display label. Only this package produces or consumes
// that encoding.
//
// Known gap: decode classifies any bare non-"Rest" name as a Note, so an
// Unpitched row comes back as a Note. The on-disk schema has no kind column
// and this asymmetry is kept deliberately.
package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/model"
	"github.com/jsphweid/notetab/pitch"
)

// Round3 rounds to 3 decimal places, half away from zero. Every offset and
// duration written to a table goes through this, so encoding is stable.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Encode flattens a stream into a table, one row per event in traversal
// order. Events carrying lyric text are filtered out entirely. The stream
// tempo is copied onto every row.
func Encode(s *model.Stream) model.Table {
	tempo := s.Tempo
	if tempo == 0 {
		tempo = constants.DefaultTempo
	}

	table := make(model.Table, 0, len(s.Events))
	for _, ev := range s.Events {
		if ev.Lyric != "" {
			continue
		}

		row := model.Row{
			NoteName: noteName(ev),
			Start:    Round3(ev.Start),
			Duration: Round3(ev.Duration),
			Tempo:    tempo,
		}
		if ev.HasVelocity {
			velocity := ev.Velocity
			row.Velocity = &velocity
		}
		table = append(table, row)
	}
	return table
}

func noteName(ev model.TimedEvent) string {
	switch ev.Kind {
	case model.KindRest:
		return constants.RestName
	case model.KindChord:
		return strings.Join(ev.Pitches, ",")
	default:
		// Note and Unpitched both carry one spelling
		if len(ev.Pitches) == 0 {
			return constants.RestName
		}
		return ev.Pitches[0]
	}
}

// Decode rebuilds a stream from a table. Rows become events placed at their
// own offsets; the tempo comes from the first row only (an empty table
// yields no tempo). A row that cannot be understood aborts the whole
// conversion.
func Decode(t model.Table) (*model.Stream, error) {
	s := &model.Stream{}
	if len(t) == 0 {
		return s, nil
	}
	s.Tempo = t[0].Tempo

	for i, row := range t {
		ev, err := decodeRow(i, row)
		if err != nil {
			return nil, err
		}
		s.Insert(ev)
	}
	return s, nil
}

func decodeRow(i int, row model.Row) (model.TimedEvent, error) {
	ev := model.TimedEvent{
		Start:    row.Start,
		Duration: row.Duration,
	}

	if row.Duration < 0 {
		return ev, &model.SchemaError{
			Row:   i,
			Field: "duration",
			Value: strconv.FormatFloat(row.Duration, 'f', -1, 64),
		}
	}
	if row.Velocity != nil && (*row.Velocity < 0 || *row.Velocity > 127) {
		return ev, &model.SchemaError{
			Row:   i,
			Field: "velocity",
			Value: strconv.Itoa(*row.Velocity),
		}
	}

	switch {
	case row.NoteName == constants.RestName:
		ev.Kind = model.KindRest
		return ev, nil

	case strings.Contains(row.NoteName, ","):
		ev.Kind = model.KindChord
		for _, spelling := range strings.Split(row.NoteName, ",") {
			if _, err := pitch.Parse(spelling); err != nil {
				return ev, &model.DecodeError{Err: errors.Wrapf(err, "row %v", i)}
			}
			ev.Pitches = append(ev.Pitches, spelling)
		}

	default:
		ev.Kind = model.KindNote
		if _, err := pitch.Parse(row.NoteName); err != nil {
			return ev, &model.DecodeError{Err: errors.Wrapf(err, "row %v", i)}
		}
		ev.Pitches = []string{row.NoteName}
		if row.Velocity == nil {
			return ev, &model.SchemaError{Row: i, Field: "velocity"}
		}
	}

	if row.Velocity != nil {
		ev.Velocity = *row.Velocity
		ev.HasVelocity = true
	}
	return ev, nil
}
