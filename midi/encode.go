package midi

import (
	"bytes"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/model"
	"github.com/jsphweid/notetab/pitch"
)

// onOffMessage is a note on or off pinned to an absolute tick, before
// delta computation.
type onOffMessage struct {
	absTicks int64
	isOff    bool
	channel  uint8
	key      uint8
	velocity uint8
}

// Encode renders a Stream as single-track MIDI bytes. Events are placed by
// their own offsets; Rests produce no messages (the silence falls out of
// the deltas). The stream tempo is written first.
func Encode(s *model.Stream) ([]byte, error) {
	messages, err := streamMessages(s)
	if err != nil {
		return nil, err
	}

	// note offs first on ties so re-struck pitches keep their pairing
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].absTicks != messages[j].absTicks {
			return messages[i].absTicks < messages[j].absTicks
		}
		return messages[i].isOff && !messages[j].isOff
	})

	var track smf.Track
	tempo := s.Tempo
	if tempo == 0 {
		tempo = constants.DefaultTempo
	}
	track.Add(0, smf.MetaTempo(tempo))

	var prevTicks int64
	for _, m := range messages {
		delta := uint32(m.absTicks - prevTicks)
		prevTicks = m.absTicks
		if m.isOff {
			track.Add(delta, gomidi.NoteOff(m.channel, m.key))
		} else {
			track.Add(delta, gomidi.NoteOn(m.channel, m.key, m.velocity))
		}
	}
	track.Close(0)

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	out.Tracks = append(out.Tracks, track)

	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing smf")
	}
	return buf.Bytes(), nil
}

// WriteMidiFile encodes the stream and writes it to path in one shot, so a
// failed encode leaves no file behind.
func WriteMidiFile(path string, s *model.Stream) error {
	data, err := Encode(s)
	if err != nil {
		return &model.EncodeError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return &model.EncodeError{Path: path, Err: err}
	}
	return nil
}

func streamMessages(s *model.Stream) ([]onOffMessage, error) {
	var messages []onOffMessage
	for _, ev := range s.Events {
		if ev.Kind == model.KindRest {
			continue
		}

		if ev.Duration < 0 {
			return nil, errors.Errorf("negative duration %v", ev.Duration)
		}
		velocity := uint8(constants.DefaultVelocity)
		if ev.HasVelocity {
			if ev.Velocity < 0 || ev.Velocity > 127 {
				return nil, errors.Errorf("velocity %v out of range", ev.Velocity)
			}
			velocity = uint8(ev.Velocity)
		}
		var channel uint8
		if ev.Kind == model.KindUnpitched {
			channel = percussionChannel
		}

		start := int64(math.Round(ev.Start * constants.TicksPerQuarter))
		end := int64(math.Round((ev.Start + ev.Duration) * constants.TicksPerQuarter))
		for _, spelling := range ev.Pitches {
			key, err := pitch.Parse(spelling)
			if err != nil {
				return nil, err
			}
			messages = append(messages,
				onOffMessage{absTicks: start, channel: channel, key: key, velocity: velocity},
				onOffMessage{absTicks: end, isOff: true, channel: channel, key: key})
		}
	}
	return messages, nil
}
