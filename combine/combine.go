// Package combine concatenates decoded MIDI streams end to end along the
// timeline.
package combine

import (
	"log"

	"github.com/jsphweid/notetab/midi"
	"github.com/jsphweid/notetab/model"
)

// Streams appends each stream onto the previous one's extent, in input
// order. The shifting itself is Stream.Append's job; the first stream's
// tempo dominates.
func Streams(streams ...*model.Stream) *model.Stream {
	res := &model.Stream{}
	for _, s := range streams {
		res.Append(s)
	}
	return res
}

// Files decodes each MIDI file and combines the results. A file that fails
// to decode is logged, reported and skipped; the rest still combine.
func Files(paths []string, logger *log.Logger) (*model.Stream, []model.FileError) {
	var failed []model.FileError
	res := &model.Stream{}
	for _, path := range paths {
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			logger.Printf("Skipping %v because: %v", path, err)
			failed = append(failed, model.FileError{Path: path, Err: err})
			continue
		}
		res.Append(s)
	}
	return res, failed
}
