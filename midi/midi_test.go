package midi

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/notetab/model"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := &model.Stream{
		Tempo: 90,
		Events: []model.TimedEvent{
			{Kind: model.KindNote, Pitches: []string{"C4"}, Start: 0, Duration: 1, Velocity: 80, HasVelocity: true},
			{Kind: model.KindChord, Pitches: []string{"E4", "G4"}, Start: 1, Duration: 2, Velocity: 72, HasVelocity: true},
			{Kind: model.KindNote, Pitches: []string{"A4"}, Start: 4, Duration: 0.5, Velocity: 64, HasVelocity: true},
		},
	}

	data, err := Encode(original)
	assert := assert.New(t)
	assert.NoError(err)

	decoded, err := Decode(data)
	assert.NoError(err)
	assert.Equal(original.Tempo, decoded.Tempo)
	assert.Equal(len(original.Events), len(decoded.Events))
	for i, want := range original.Events {
		got := decoded.Events[i]
		assert.Equal(want.Kind, got.Kind, "event %v kind", i)
		assert.Equal(want.Pitches, got.Pitches, "event %v pitches", i)
		assert.InDelta(want.Start, got.Start, 0.001, "event %v start", i)
		assert.InDelta(want.Duration, got.Duration, 0.001, "event %v duration", i)
		assert.Equal(want.Velocity, got.Velocity, "event %v velocity", i)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("this is not a midi file"))
	assert.Error(t, err)
}

func TestDecodeDefaultsTempoTo120(t *testing.T) {
	// a file written without any tempo marker
	var track smf.Track
	track.Add(0, gomidi.NoteOn(0, 60, 90))
	track.Add(960, gomidi.NoteOff(0, 60))
	track.Close(0)

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(960)
	out.Tracks = append(out.Tracks, track)

	assert := assert.New(t)
	var buf bytes.Buffer
	_, err := out.WriteTo(&buf)
	assert.NoError(err)

	decoded, err := Decode(buf.Bytes())
	assert.NoError(err)
	assert.Equal(float64(120), decoded.Tempo)
}

func TestRestsProduceNoMessagesButKeepSpacing(t *testing.T) {
	original := &model.Stream{
		Tempo: 120,
		Events: []model.TimedEvent{
			{Kind: model.KindNote, Pitches: []string{"C4"}, Start: 0, Duration: 1, Velocity: 64, HasVelocity: true},
			{Kind: model.KindRest, Start: 1, Duration: 2},
			{Kind: model.KindNote, Pitches: []string{"D4"}, Start: 3, Duration: 1, Velocity: 64, HasVelocity: true},
		},
	}

	data, err := Encode(original)
	assert := assert.New(t)
	assert.NoError(err)

	decoded, err := Decode(data)
	assert.NoError(err)
	// the rest itself is gone; the gap it left is not
	assert.Len(decoded.Events, 2)
	assert.InDelta(3.0, decoded.Events[1].Start, 0.001)
}

func TestSimultaneousEqualLengthNotesGroupIntoChord(t *testing.T) {
	var track smf.Track
	track.Add(0, gomidi.NoteOn(0, 60, 90))
	track.Add(0, gomidi.NoteOn(0, 64, 90))
	track.Add(0, gomidi.NoteOn(0, 67, 90))
	track.Add(960, gomidi.NoteOff(0, 60))
	track.Add(0, gomidi.NoteOff(0, 64))
	track.Add(0, gomidi.NoteOff(0, 67))
	track.Close(0)

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(960)
	out.Tracks = append(out.Tracks, track)

	assert := assert.New(t)
	var buf bytes.Buffer
	_, err := out.WriteTo(&buf)
	assert.NoError(err)

	decoded, err := Decode(buf.Bytes())
	assert.NoError(err)
	assert.Len(decoded.Events, 1)
	assert.Equal(model.KindChord, decoded.Events[0].Kind)
	assert.Equal([]string{"C4", "E4", "G4"}, decoded.Events[0].Pitches)
}

func TestLyricTextAttachesToNoteAtSameTick(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaLyric("la"))
	track.Add(0, gomidi.NoteOn(0, 60, 90))
	track.Add(960, gomidi.NoteOff(0, 60))
	track.Add(0, gomidi.NoteOn(0, 62, 90))
	track.Add(960, gomidi.NoteOff(0, 62))
	track.Close(0)

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(960)
	out.Tracks = append(out.Tracks, track)

	assert := assert.New(t)
	var buf bytes.Buffer
	_, err := out.WriteTo(&buf)
	assert.NoError(err)

	decoded, err := Decode(buf.Bytes())
	assert.NoError(err)
	assert.Len(decoded.Events, 2)
	assert.Equal("la", decoded.Events[0].Lyric)
	assert.Equal("", decoded.Events[1].Lyric)
}

func TestPercussionChannelDecodesAsUnpitched(t *testing.T) {
	var track smf.Track
	track.Add(0, gomidi.NoteOn(9, 38, 110))
	track.Add(480, gomidi.NoteOff(9, 38))
	track.Close(0)

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(960)
	out.Tracks = append(out.Tracks, track)

	assert := assert.New(t)
	var buf bytes.Buffer
	_, err := out.WriteTo(&buf)
	assert.NoError(err)

	decoded, err := Decode(buf.Bytes())
	assert.NoError(err)
	assert.Len(decoded.Events, 1)
	assert.Equal(model.KindUnpitched, decoded.Events[0].Kind)
	assert.Equal(110, decoded.Events[0].Velocity)
}

func TestDecodeRecoversNonStringParserPanic(t *testing.T) {
	orig := readSMF
	readSMF = func(io.Reader, ...smf.ReadOption) (*smf.SMF, error) { panic(errors.New("index out of range")) }
	defer func() { readSMF = orig }()

	s, err := Decode([]byte{0x4d, 0x54, 0x68, 0x64})
	assert := assert.New(t)
	assert.Nil(s)
	assert.Error(err)
}

func TestEncodeRejectsOutOfRangeVelocity(t *testing.T) {
	s := &model.Stream{Events: []model.TimedEvent{
		{Kind: model.KindNote, Pitches: []string{"C4"}, Start: 0, Duration: 1, Velocity: 300, HasVelocity: true},
	}}
	_, err := Encode(s)
	assert.Error(t, err)
}

func TestEncodeRejectsNegativeDuration(t *testing.T) {
	s := &model.Stream{Events: []model.TimedEvent{
		{Kind: model.KindNote, Pitches: []string{"C4"}, Start: 2, Duration: -1, Velocity: 64, HasVelocity: true},
	}}
	_, err := Encode(s)
	assert.Error(t, err)
}

func TestEncodeRejectsBadPitchSpelling(t *testing.T) {
	s := &model.Stream{Events: []model.TimedEvent{
		{Kind: model.KindNote, Pitches: []string{"H4"}, Start: 0, Duration: 1},
	}}
	_, err := Encode(s)
	assert.Error(t, err)
}

func TestReadMidiFileMissingPathIsDecodeError(t *testing.T) {
	_, err := ReadMidiFile("no/such/file.mid")

	var decodeErr *model.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
