package model

// EventKind tags what a TimedEvent is. The flat table encoding collapses
// this into the note_name string; in memory the kind stays explicit.
type EventKind int

const (
	KindNote EventKind = iota
	KindChord
	KindRest
	KindUnpitched
)

func (k EventKind) String() string {
	switch k {
	case KindNote:
		return "Note"
	case KindChord:
		return "Chord"
	case KindRest:
		return "Rest"
	case KindUnpitched:
		return "Unpitched"
	}
	return "Unknown"
}

// TimedEvent is one musical occurrence on the timeline. Start and Duration
// are in quarter-note units. Pitches holds zero spellings for a Rest, one
// for a Note, two or more for a Chord and a single display label for an
// Unpitched event.
type TimedEvent struct {
	Kind        EventKind
	Pitches     []string
	Start       float64
	Duration    float64
	Velocity    int
	HasVelocity bool
	Lyric       string
}

// Stream is an ordered, timed collection of events plus one tempo.
type Stream struct {
	Events []TimedEvent
	Tempo  float64
}

// Extent returns the end of the last sounding event, i.e. the highest
// Start+Duration over all events.
func (s *Stream) Extent() float64 {
	var max float64
	for _, ev := range s.Events {
		if end := ev.Start + ev.Duration; end > max {
			max = end
		}
	}
	return max
}

// Insert places an event by its own Start offset, keeping the event list
// ordered by offset. Events with equal offsets keep insertion order.
func (s *Stream) Insert(ev TimedEvent) {
	i := len(s.Events)
	for i > 0 && s.Events[i-1].Start > ev.Start {
		i--
	}
	s.Events = append(s.Events, TimedEvent{})
	copy(s.Events[i+1:], s.Events[i:])
	s.Events[i] = ev
}

// Append concatenates other onto s along the timeline: every event of other
// is shifted to start after s's current extent, keeping other's relative
// ordering. The receiver's tempo dominates; other's tempo is only adopted
// when s has none yet.
func (s *Stream) Append(other *Stream) {
	shift := s.Extent()
	for _, ev := range other.Events {
		ev.Start += shift
		s.Events = append(s.Events, ev)
	}
	if s.Tempo == 0 {
		s.Tempo = other.Tempo
	}
}

// Row is the flat encoding of one TimedEvent plus the stream's tempo,
// denormalized onto every row for on-disk compatibility.
type Row struct {
	NoteName string
	Start    float64
	Duration float64
	Velocity *int
	Tempo    float64
}

// Table is an ordered sequence of rows, in stream traversal order. It is
// never sorted by time.
type Table []Row
