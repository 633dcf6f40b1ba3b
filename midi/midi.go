// Package midi adapts Standard MIDI Files to the timed event model: decode
// turns file bytes into a flat Stream, encode turns a Stream back into
// bytes. Multi-track structure is not preserved; everything lands on one
// timeline measured in quarter notes.
package midi

import (
	"bytes"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/model"
	"github.com/jsphweid/notetab/pitch"
)

const percussionChannel = 9

func slot(channel, key uint8) uint16 {
	return uint16(channel)<<8 | uint16(key)
}

func closeNote(notes []rawNote, open map[uint16][]int, slot uint16, absTicks int64) {
	if idxs := open[slot]; len(idxs) > 0 {
		notes[idxs[0]].endTicks = absTicks
		open[slot] = idxs[1:]
	}
}

// rawNote is one paired note-on/note-off, in absolute ticks.
type rawNote struct {
	startTicks int64
	endTicks   int64
	channel    uint8
	key        uint8
	velocity   uint8
}

// ReadMidiFile decodes the MIDI file at path into a Stream.
func ReadMidiFile(path string) (*model.Stream, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	s, err := Decode(dat)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	return s, nil
}

var readSMF = smf.ReadFrom

// Decode parses MIDI bytes into a Stream: note on/off pairs become Notes,
// simultaneous equal-length notes on one channel become Chords, channel 10
// percussion becomes Unpitched events, lyric meta text at a note's tick is
// attached to it, and the first tempo marker wins (120 when there is none).
func Decode(data []byte) (s *model.Stream, e error) {
	// the smf parser panics on some malformed files, and not always with a
	// string value
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Errorf("parsing smf: %v", r)
		}
	}()

	parsed, err := readSMF(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing smf")
	}
	return fromSMF(parsed), nil
}

func ticksPerQuarter(parsed *smf.SMF) float64 {
	if mt, ok := parsed.TimeFormat.(smf.MetricTicks); ok {
		return float64(mt)
	}
	return 480
}

func fromSMF(parsed *smf.SMF) *model.Stream {
	tpq := ticksPerQuarter(parsed)

	var notes []rawNote
	lyrics := make(map[int64]string)
	tempo := float64(0)

	for _, track := range parsed.Tracks {
		var absTicks int64
		open := make(map[uint16][]int) // channel<<8|key -> open note indexes
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			var bpm float64
			var text string
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					// a zero-velocity note on is a note off in disguise
					closeNote(notes, open, slot(channel, key), absTicks)
					continue
				}
				notes = append(notes, rawNote{
					startTicks: absTicks,
					endTicks:   absTicks,
					channel:    channel,
					key:        key,
					velocity:   velocity,
				})
				open[slot(channel, key)] = append(open[slot(channel, key)], len(notes)-1)
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				closeNote(notes, open, slot(channel, key), absTicks)
			case event.Message.GetMetaTempo(&bpm):
				if tempo == 0 {
					tempo = bpm
				}
			case event.Message.GetMetaLyric(&text):
				if text != "" {
					lyrics[absTicks] = text
				}
			}
		}
		// a note left hanging at end of track sounds until the last event
		for _, idxs := range open {
			for _, i := range idxs {
				notes[i].endTicks = absTicks
			}
		}
	}

	if tempo == 0 {
		tempo = constants.DefaultTempo
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].startTicks != notes[j].startTicks {
			return notes[i].startTicks < notes[j].startTicks
		}
		return notes[i].key < notes[j].key
	})

	res := &model.Stream{Tempo: tempo}
	for i := 0; i < len(notes); {
		n := notes[i]
		if n.channel == percussionChannel {
			res.Events = append(res.Events, unpitchedEvent(n, tpq, lyrics))
			i++
			continue
		}

		// group simultaneous equal-length notes into a chord
		j := i + 1
		for j < len(notes) &&
			notes[j].channel == n.channel &&
			notes[j].startTicks == n.startTicks &&
			notes[j].endTicks == n.endTicks {
			j++
		}
		res.Events = append(res.Events, pitchedEvent(notes[i:j], tpq, lyrics))
		i = j
	}
	return res
}

func unpitchedEvent(n rawNote, tpq float64, lyrics map[int64]string) model.TimedEvent {
	return model.TimedEvent{
		Kind:        model.KindUnpitched,
		Pitches:     []string{pitch.Name(n.key)},
		Start:       float64(n.startTicks) / tpq,
		Duration:    float64(n.endTicks-n.startTicks) / tpq,
		Velocity:    int(n.velocity),
		HasVelocity: true,
		Lyric:       lyrics[n.startTicks],
	}
}

func pitchedEvent(group []rawNote, tpq float64, lyrics map[int64]string) model.TimedEvent {
	kind := model.KindNote
	if len(group) > 1 {
		kind = model.KindChord
	}
	var pitches []string
	for _, n := range group {
		pitches = append(pitches, pitch.Name(n.key))
	}
	n := group[0]
	return model.TimedEvent{
		Kind:        kind,
		Pitches:     pitches,
		Start:       float64(n.startTicks) / tpq,
		Duration:    float64(n.endTicks-n.startTicks) / tpq,
		Velocity:    int(n.velocity),
		HasVelocity: true,
		Lyric:       lyrics[n.startTicks],
	}
}
