package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"riffga/internal/config"
	"riffga/internal/export"
	"riffga/internal/fitness"
	"riffga/internal/ga"
	"riffga/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	presetsPath := fs.String("presets", "", "path to TOML preset library")
	preset := fs.String("preset", "techno", "rhythm preset (techno|organic|tribal|custom or a library name)")
	steps := fs.Int("steps", 0, "steps per bar (default: preset)")
	targetHits := fs.Int("target-hits", 0, "target onsets per bar (default: preset)")
	bpm := fs.Int("bpm", 120, "tempo for the MIDI/WAV export")
	gens := fs.Int("gens", 200, "generations")
	pop := fs.Int("pop", 120, "population size")
	elitism := fs.Int("elitism", 4, "individuals copied unchanged into the next generation")
	mut := fs.Float64("mut", 0.05, "per-step mutation probability")
	k := fs.Int("k", 3, "tournament size")
	note := fs.Int("note", 36, "MIDI note")
	velocity := fs.Int("velocity", 90, "note velocity")
	outfile := fs.String("outfile", "", "output base name (default: <preset>_riff)")
	seedSpec := fs.String("seed", "", "initial genomes: none or euclid:K")
	rngSeed := fs.Int64("rng-seed", 0, "random seed (0: time based)")
	noMIDI := fs.Bool("no-midi", false, "skip the MIDI export")
	noJSON := fs.Bool("no-json", false, "skip the JSON export")
	wavOut := fs.Bool("wav", false, "also render a WAV file")
	bars := fs.Int("bars", 4, "bars rendered into the WAV file")
	quiet := fs.Bool("quiet", false, "no per-generation console output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Load config
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Flags given on the command line win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "presets":
			cfg.PresetsFile = *presetsPath
		case "preset":
			cfg.Preset = strings.ToLower(*preset)
		case "steps":
			cfg.Overrides.Steps = *steps
		case "target-hits":
			cfg.Overrides.TargetHits = *targetHits
		case "bpm":
			cfg.Output.BPM = *bpm
		case "gens":
			cfg.GA.Generations = *gens
		case "pop":
			cfg.GA.Population = *pop
		case "elitism":
			cfg.GA.Elites = *elitism
		case "mut":
			cfg.GA.MutationRate = *mut
		case "k":
			cfg.GA.TournamentK = *k
		case "note":
			cfg.Output.Note = *note
		case "velocity":
			cfg.Output.Velocity = *velocity
		case "outfile":
			cfg.Output.Outfile = *outfile
		case "seed":
			cfg.SeedSpec = *seedSpec
		case "rng-seed":
			cfg.Seed = *rngSeed
		case "no-midi":
			cfg.Output.NoMIDI = *noMIDI
		case "no-json":
			cfg.Output.NoJSON = *noJSON
		case "wav":
			cfg.Output.WAV = *wavOut
		case "bars":
			cfg.Output.Bars = *bars
		case "quiet":
			cfg.Logging.Quiet = *quiet
		}
	})

	lib, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}
	p := cfg.ResolvePreset(lib)
	params, err := cfg.Params(p)
	if err != nil {
		return err
	}

	fmt.Printf("GA Riffs - Preset: %s (%d steps, target %d hits)\n", cfg.Preset, p.Steps, p.TargetHits)
	fmt.Printf("Population: %d, Elites: %d, Tournament K: %d, Mutation: %.3f, Seed: %s\n",
		params.PopSize, params.Elitism, params.TournamentK, params.MutationRate, params.Seed)
	fmt.Println("---")

	// Initialize RNG
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Create logger
	var console io.Writer = os.Stdout
	if cfg.Logging.Quiet {
		console = nil
	}
	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, console)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	startTime := time.Now()
	best, err := ga.Evolve(params, rng, logger)
	if cerr := logger.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Warning: progress log incomplete: %v\n", cerr)
	}
	if err != nil {
		return err
	}

	fmt.Println("---")
	fmt.Printf("Done: %d generations in %v (run %s, rng seed %d)\n",
		params.Generations, time.Since(startTime).Round(time.Millisecond), logger.RunID(), seed)
	fmt.Printf("\nBest pattern: %s | fitness=%.3f\n", best.Genome.Spaced(), best.Fitness)

	return save(cfg, p, params, best, logger.RunID())
}

func save(cfg *config.Config, p fitness.Preset, params ga.Params, best ga.Result, runID string) error {
	base := cfg.OutfileBase()
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	notes := export.NoteSettings{
		BPM:      cfg.Output.BPM,
		Note:     uint8(cfg.Output.Note),
		Velocity: uint8(cfg.Output.Velocity),
	}

	if !cfg.Output.NoJSON {
		breakdown := fitness.NewEvaluator(p).Breakdown(best.Genome)
		rec := &logging.RiffRecord{
			RunID:       runID,
			Preset:      cfg.Preset,
			TargetHits:  p.TargetHits,
			SeedSpec:    params.Seed.String(),
			Generations: params.Generations,
			BPM:         cfg.Output.BPM,
			Note:        cfg.Output.Note,
			Velocity:    cfg.Output.Velocity,
			Fitness:     best.Fitness,
			Breakdown:   &breakdown,
		}
		rec.SetGenome(best.Genome)
		if err := logging.SaveRiff(base+".json", rec); err != nil {
			return fmt.Errorf("saving JSON: %w", err)
		}
		fmt.Printf("Saved JSON: %s.json\n", base)
	}

	if !cfg.Output.NoMIDI {
		if err := export.SaveMIDI(base+".mid", best.Genome, notes); err != nil {
			return fmt.Errorf("saving MIDI: %w", err)
		}
		fmt.Printf("Saved MIDI: %s.mid\n", base)
	}

	if cfg.Output.WAV {
		if err := export.SaveWAV(base+".wav", best.Genome, notes, cfg.Output.Bars); err != nil {
			return fmt.Errorf("saving WAV: %w", err)
		}
		fmt.Printf("Saved WAV: %s.wav\n", base)
	}
	return nil
}
