package export

import (
	"errors"
	"io"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"riffga/internal/rhythm"
)

// SampleRate is used for rendering and playback
const SampleRate = beep.SampleRate(44100)

// Streamer renders a riff as decaying sine hits, one per onset.
// It implements beep.StreamSeeker so it can be looped.
type Streamer struct {
	hits        []bool
	stepSamples int
	total       int
	position    int
	freq        float64
	amp         float64
	decay       float64 // samples per e-fold
	rate        beep.SampleRate
}

// NewStreamer renders bars repetitions of the genome
func NewStreamer(g rhythm.Genome, s NoteSettings, bars int, rate beep.SampleRate) *Streamer {
	hits := make([]bool, len(g))
	for i, v := range g {
		hits[i] = v == 1
	}
	step := rate.N(StepDuration(s.BPM))
	if step < 1 {
		step = 1
	}
	return &Streamer{
		hits:        hits,
		stepSamples: step,
		total:       step * len(g) * max(bars, 0),
		freq:        NoteFrequency(s.Note),
		amp:         float64(s.Velocity) / 127,
		decay:       float64(step) / 4,
		rate:        rate,
	}
}

// StepDuration is the length of one sixteenth note at bpm
func StepDuration(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Minute / time.Duration(bpm*4)
}

// NoteFrequency converts a MIDI note number to Hz (A4 = 69 = 440 Hz)
func NoteFrequency(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// Step returns the bar step under the play head
func (s *Streamer) Step() int {
	if len(s.hits) == 0 {
		return 0
	}
	return (s.position / s.stepSamples) % len(s.hits)
}

func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.position >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.position >= s.total {
			return i, true
		}
		val := s.sample(s.position)
		samples[i][0] = val
		samples[i][1] = val
		s.position++
	}
	return len(samples), true
}

func (s *Streamer) sample(pos int) float64 {
	step := (pos / s.stepSamples) % len(s.hits)
	if !s.hits[step] {
		return 0
	}
	t := float64(pos % s.stepSamples)
	env := math.Exp(-t / s.decay)
	return s.amp * env * math.Sin(2*math.Pi*s.freq*t/float64(s.rate))
}

func (s *Streamer) Err() error { return nil }

func (s *Streamer) Len() int { return s.total }

func (s *Streamer) Position() int { return s.position }

func (s *Streamer) Seek(p int) error {
	if p < 0 || p > s.total {
		return errors.New("seek position out of range")
	}
	s.position = p
	return nil
}

// WriteWAV renders bars loops of the genome as 16-bit stereo WAV
func WriteWAV(w io.WriteSeeker, g rhythm.Genome, s NoteSettings, bars int) error {
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	return wav.Encode(w, NewStreamer(g, s, bars, SampleRate), format)
}

// SaveWAV writes the WAV render to path
func SaveWAV(path string, g rhythm.Genome, s NoteSettings, bars int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, g, s, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
