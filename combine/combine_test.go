package combine

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/notetab/midi"
	"github.com/jsphweid/notetab/model"
)

func note(spelling string, start, duration float64) model.TimedEvent {
	return model.TimedEvent{
		Kind:        model.KindNote,
		Pitches:     []string{spelling},
		Start:       start,
		Duration:    duration,
		Velocity:    64,
		HasVelocity: true,
	}
}

func TestStreamsShiftsLaterStreamsPastTheExtent(t *testing.T) {
	a := &model.Stream{Tempo: 90, Events: []model.TimedEvent{
		note("C4", 0, 1),
		note("D4", 2, 2), // extent 4
	}}
	b := &model.Stream{Tempo: 200, Events: []model.TimedEvent{
		note("E4", 0, 1),
		note("F4", 1, 1),
	}}

	combined := Streams(a, b)

	assert := assert.New(t)
	assert.Equal(float64(90), combined.Tempo, "first stream's tempo dominates")
	assert.Len(combined.Events, 4)
	for _, ev := range combined.Events[2:] {
		assert.GreaterOrEqual(ev.Start, 4.0)
	}
	// B keeps its relative order and spacing
	assert.Equal("E4", combined.Events[2].Pitches[0])
	assert.Equal("F4", combined.Events[3].Pitches[0])
	assert.InDelta(1.0, combined.Events[3].Start-combined.Events[2].Start, 0.001)
}

func TestStreamsWithNoInputIsEmpty(t *testing.T) {
	combined := Streams()
	assert := assert.New(t)
	assert.Empty(combined.Events)
	assert.Equal(float64(0), combined.Tempo)
}

func writeMidi(t *testing.T, path string, s *model.Stream) {
	t.Helper()
	assert.NoError(t, midi.WriteMidiFile(path, s))
}

func TestFilesSkipsAndReportsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.mid")
	bad := filepath.Join(dir, "b.mid")
	good2 := filepath.Join(dir, "c.mid")

	writeMidi(t, good1, &model.Stream{Tempo: 120, Events: []model.TimedEvent{note("C4", 0, 1)}})
	assert.NoError(t, os.WriteFile(bad, []byte("garbage"), 0666))
	writeMidi(t, good2, &model.Stream{Tempo: 120, Events: []model.TimedEvent{note("D4", 0, 1)}})

	var logged bytes.Buffer
	logger := log.New(&logged, "", 0)
	combined, failed := Files([]string{good1, bad, good2}, logger)

	assert := assert.New(t)
	assert.Len(failed, 1)
	assert.Equal(bad, failed[0].Path)
	assert.Contains(logged.String(), "Skipping")
	assert.Len(combined.Events, 2)
	// the second good file's note sits after the first one's extent
	assert.GreaterOrEqual(combined.Events[1].Start, combined.Events[0].Start+combined.Events[0].Duration)
}
