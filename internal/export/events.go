package export

import "riffga/internal/rhythm"

// Event is one note on the sixteenth-note grid
type Event struct {
	Step int // start, in steps from the bar start
	Len  int // duration in steps
}

// Events turns every onset into a one-step note. An all-rest genome still
// produces a single note on step 0 so the sequence is never empty.
func Events(g rhythm.Genome) []Event {
	onsets := g.Onsets()
	if len(onsets) == 0 {
		return []Event{{Step: 0, Len: 1}}
	}
	events := make([]Event, len(onsets))
	for i, step := range onsets {
		events[i] = Event{Step: step, Len: 1}
	}
	return events
}

// timedNote is a note-on or note-off at a delta from the previous message
type timedNote struct {
	Delta uint32
	On    bool
}

// timeline lays the events out as delta-timed note-on/note-off pairs and
// returns the delta needed to close the bar after the last note-off
func timeline(g rhythm.Genome, ticksPerStep uint32) ([]timedNote, uint32) {
	var notes []timedNote
	cursor := 0
	for _, ev := range Events(g) {
		notes = append(notes,
			timedNote{Delta: uint32(ev.Step-cursor) * ticksPerStep, On: true},
			timedNote{Delta: uint32(ev.Len) * ticksPerStep, On: false},
		)
		cursor = ev.Step + ev.Len
	}
	tail := 0
	if len(g) > cursor {
		tail = len(g) - cursor
	}
	return notes, uint32(tail) * ticksPerStep
}
