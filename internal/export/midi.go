package export

import (
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"riffga/internal/rhythm"
)

const (
	// TicksPerQuarter is the MIDI file resolution
	TicksPerQuarter = 128
	trackName       = "GA Riff"
	channel         = 0
)

// NoteSettings describe how every onset sounds
type NoteSettings struct {
	BPM      int
	Note     uint8
	Velocity uint8
}

// WriteMIDI writes the genome as a single-track Standard MIDI File,
// one sixteenth note per onset
func WriteMIDI(w io.Writer, g rhythm.Genome, s NoteSettings) error {
	clock := smf.MetricTicks(TicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(trackName))
	tr.Add(0, smf.MetaTempo(float64(s.BPM)))

	notes, tail := timeline(g, clock.Ticks16th())
	for _, n := range notes {
		if n.On {
			tr.Add(n.Delta, midi.NoteOn(channel, s.Note, s.Velocity))
		} else {
			tr.Add(n.Delta, midi.NoteOff(channel, s.Note))
		}
	}
	tr.Close(tail)

	file := smf.New()
	file.TimeFormat = clock
	if err := file.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	_, err := file.WriteTo(w)
	return err
}

// SaveMIDI writes the MIDI file to path
func SaveMIDI(path string, g rhythm.Genome, s NoteSettings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMIDI(f, g, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
