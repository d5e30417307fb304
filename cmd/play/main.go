package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"riffga/internal/export"
	"riffga/internal/logging"
	"riffga/internal/rhythm"
)

func main() {
	// Parse flags
	riffPath := flag.String("riff", "techno_riff.json", "path to riff JSON")
	bpm := flag.Int("bpm", 0, "tempo override (default: from the riff)")
	bars := flag.Int("bars", 0, "bars to play, 0 loops until q is pressed")
	wavPath := flag.String("wav", "", "render to this WAV file instead of playing")
	noAudio := flag.Bool("no-audio", false, "show the step grid without sound")
	noDisplay := flag.Bool("no-display", false, "run without display (just print the riff)")
	flag.Parse()

	// Load riff
	rec, err := logging.LoadRiff(*riffPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading riff: %v\n", err)
		os.Exit(1)
	}
	g, err := rec.Genome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in riff %s: %v\n", *riffPath, err)
		os.Exit(1)
	}

	notes := export.NoteSettings{BPM: rec.BPM, Note: uint8(rec.Note), Velocity: uint8(rec.Velocity)}
	if *bpm > 0 {
		notes.BPM = *bpm
	}
	if notes.BPM <= 0 {
		notes.BPM = 120
	}
	if notes.Velocity == 0 {
		notes.Velocity = 90
	}

	fmt.Printf("Loaded riff from %s (preset=%s, fitness=%.3f, hits=%d)\n",
		*riffPath, rec.Preset, rec.Fitness, g.Hits())
	fmt.Printf("Pattern: %s\n", g.Spaced())

	if *wavPath != "" {
		n := *bars
		if n <= 0 {
			n = 4
		}
		if err := export.SaveWAV(*wavPath, g, notes, n); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing WAV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved WAV: %s\n", *wavPath)
		return
	}

	var player *Player
	if !*noAudio {
		player, err = NewPlayer(g, notes, *bars)
		if err != nil {
			// Non-fatal, the grid still runs without sound
			fmt.Fprintf(os.Stderr, "Audio initialization failed: %v\n", err)
		}
	}

	if *noDisplay {
		if player != nil && *bars > 0 {
			<-player.Done()
		}
		return
	}

	display, err := NewDisplay(g, rec, notes.BPM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening terminal: %v\n", err)
		os.Exit(1)
	}
	defer display.Close()

	var clock StepClock
	if player != nil {
		clock = player
	} else {
		clock = newWallClock(len(g), export.StepDuration(notes.BPM), *bars)
	}
	display.Run(clock)
}

// StepClock reports the step under the play head
type StepClock interface {
	Step() int
	Done() <-chan struct{}
}

// Player loops the riff through the speaker
type Player struct {
	streamer *export.Streamer
	done     chan struct{}
}

// NewPlayer starts playback; bars <= 0 loops forever
func NewPlayer(g rhythm.Genome, notes export.NoteSettings, bars int) (*Player, error) {
	if err := speaker.Init(export.SampleRate, export.SampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}

	p := &Player{done: make(chan struct{})}
	var src beep.Streamer
	if bars > 0 {
		p.streamer = export.NewStreamer(g, notes, bars, export.SampleRate)
		src = p.streamer
	} else {
		p.streamer = export.NewStreamer(g, notes, 1, export.SampleRate)
		src = beep.Loop(-1, p.streamer)
	}
	speaker.Play(beep.Seq(src, beep.Callback(func() { close(p.done) })))
	return p, nil
}

func (p *Player) Step() int {
	speaker.Lock()
	defer speaker.Unlock()
	return p.streamer.Step()
}

func (p *Player) Done() <-chan struct{} { return p.done }

// wallClock advances the play head from elapsed time when there is no audio
type wallClock struct {
	start time.Time
	steps int
	step  time.Duration
	done  chan struct{}
}

func newWallClock(steps int, step time.Duration, bars int) *wallClock {
	c := &wallClock{start: time.Now(), steps: steps, step: step, done: make(chan struct{})}
	if bars > 0 {
		time.AfterFunc(time.Duration(bars*steps)*step, func() { close(c.done) })
	}
	return c
}

func (c *wallClock) Step() int {
	if c.step <= 0 || c.steps == 0 {
		return 0
	}
	return int(time.Since(c.start)/c.step) % c.steps
}

func (c *wallClock) Done() <-chan struct{} { return c.done }

// Display handles terminal rendering
type Display struct {
	screen tcell.Screen
	genome rhythm.Genome
	title  string
}

// NewDisplay opens the terminal screen
func NewDisplay(g rhythm.Genome, rec *logging.RiffRecord, bpm int) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Display{
		screen: screen,
		genome: g,
		title:  fmt.Sprintf("GA Riff | preset %s | %d bpm | fitness %.3f", rec.Preset, bpm, rec.Fitness),
	}, nil
}

// Close restores the terminal
func (d *Display) Close() {
	d.screen.Fini()
}

// Run redraws until the clock finishes or q/Esc/Ctrl-C is pressed
func (d *Display) Run(clock StepClock) {
	quit := make(chan struct{})
	go func() {
		for {
			switch ev := d.screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case *tcell.EventResize:
				d.screen.Sync()
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Millisecond)
	defer ticker.Stop()
	for {
		d.Render(clock.Step())
		select {
		case <-quit:
			return
		case <-clock.Done():
			return
		case <-ticker.C:
		}
	}
}

// Render draws the step grid with the play head on cursor
func (d *Display) Render(cursor int) {
	s := d.screen
	s.Clear()

	base := tcell.StyleDefault
	hit := base.Foreground(tcell.ColorOrange).Bold(true)
	beat := base.Foreground(tcell.ColorGray)

	drawText(s, 1, 0, base.Bold(true), d.title)
	for i, v := range d.genome {
		x := 1 + i*2
		style, r := beat, '·'
		if v == 1 {
			style, r = hit, '■'
		}
		if i == cursor {
			style = style.Reverse(true)
		}
		s.SetContent(x, 2, r, nil, style)
		if i%4 == 0 {
			drawText(s, x, 3, beat, fmt.Sprint(i/4+1))
		}
	}
	drawText(s, 1, 5, beat, "q: quit")
	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
