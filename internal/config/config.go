package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"riffga/internal/fitness"
	"riffga/internal/ga"
	"riffga/internal/rhythm"
)

// Config is the root configuration structure
type Config struct {
	Seed        int64          `yaml:"seed"`         // 0 picks a time-based seed
	Preset      string         `yaml:"preset"`       // techno|organic|tribal|custom or a library name
	PresetsFile string         `yaml:"presets_file"` // optional TOML preset library
	SeedSpec    string         `yaml:"seed_spec"`    // none|euclid:K
	GA          GAConfig       `yaml:"ga"`
	Overrides   OverrideConfig `yaml:"overrides"`
	Output      OutputConfig   `yaml:"output"`
	Logging     LogConfig      `yaml:"logging"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population   int     `yaml:"population"`
	Generations  int     `yaml:"generations"`
	Elites       int     `yaml:"elites"`
	TournamentK  int     `yaml:"tournament_k"`
	MutationRate float64 `yaml:"mutation_rate"`
}

// OverrideConfig replaces preset fields; zero leaves the preset value
type OverrideConfig struct {
	Steps      int `yaml:"steps"`
	TargetHits int `yaml:"target_hits"`
}

// OutputConfig defines what gets written for the winning riff
type OutputConfig struct {
	Outfile  string `yaml:"outfile"` // base name, extension added per format
	BPM      int    `yaml:"bpm"`
	Note     int    `yaml:"note"`
	Velocity int    `yaml:"velocity"`
	NoJSON   bool   `yaml:"no_json"`
	NoMIDI   bool   `yaml:"no_midi"`
	WAV      bool   `yaml:"wav"`
	Bars     int    `yaml:"bars"` // loops rendered into the WAV file
}

// LogConfig defines progress logging
type LogConfig struct {
	ReportEvery int    `yaml:"report_every"`
	CSVPath     string `yaml:"csv_path"`
	JSONPath    string `yaml:"json_path"`
	Quiet       bool   `yaml:"quiet"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	cfg.Preset = strings.ToLower(strings.TrimSpace(cfg.Preset))
	if cfg.Preset == "" {
		cfg.Preset = "techno"
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 120
	}
	if cfg.GA.Generations == 0 {
		cfg.GA.Generations = 200
	}
	if cfg.GA.Elites == 0 {
		cfg.GA.Elites = 4
	}
	if cfg.GA.TournamentK == 0 {
		cfg.GA.TournamentK = 3
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.05
	}
	if cfg.Output.BPM == 0 {
		cfg.Output.BPM = 120
	}
	if cfg.Output.Note == 0 {
		cfg.Output.Note = 36
	}
	if cfg.Output.Velocity == 0 {
		cfg.Output.Velocity = 90
	}
	if cfg.Output.Bars == 0 {
		cfg.Output.Bars = 4
	}
	if cfg.Logging.ReportEvery == 0 {
		cfg.Logging.ReportEvery = ga.DefaultReportEvery
	}
}

// OutfileBase returns the output base name, defaulting to "<preset>_riff"
func (c *Config) OutfileBase() string {
	if c.Output.Outfile != "" {
		return c.Output.Outfile
	}
	return c.Preset + "_riff"
}

// ResolvePreset picks the named preset from lib and applies the overrides.
// Unknown names fall back to techno.
func (c *Config) ResolvePreset(lib Presets) fitness.Preset {
	p, ok := lib[c.Preset]
	if !ok {
		p = lib[FallbackPreset]
	}
	p = p.Clone()
	if c.Overrides.Steps != 0 {
		p.Steps = c.Overrides.Steps
	}
	if c.Overrides.TargetHits != 0 {
		p.TargetHits = c.Overrides.TargetHits
	}
	return p
}

// Params builds validated run parameters for a resolved preset
func (c *Config) Params(p fitness.Preset) (ga.Params, error) {
	spec, err := rhythm.ParseSeedSpec(c.SeedSpec)
	if err != nil {
		return ga.Params{}, fmt.Errorf("%w: %v", ga.ErrInvalidConfiguration, err)
	}
	if c.Output.BPM <= 0 {
		return ga.Params{}, fmt.Errorf("%w: bpm must be positive, got %d", ga.ErrInvalidConfiguration, c.Output.BPM)
	}
	if c.Output.Note < 0 || c.Output.Note > 127 {
		return ga.Params{}, fmt.Errorf("%w: note must be in [0, 127], got %d", ga.ErrInvalidConfiguration, c.Output.Note)
	}
	if c.Output.Velocity < 1 || c.Output.Velocity > 127 {
		return ga.Params{}, fmt.Errorf("%w: velocity must be in [1, 127], got %d", ga.ErrInvalidConfiguration, c.Output.Velocity)
	}

	params := ga.Params{
		Steps:        p.Steps,
		PopSize:      c.GA.Population,
		Generations:  c.GA.Generations,
		Elitism:      c.GA.Elites,
		MutationRate: c.GA.MutationRate,
		TournamentK:  c.GA.TournamentK,
		Seed:         spec,
		Evaluator:    fitness.NewEvaluator(p),
		ReportEvery:  c.Logging.ReportEvery,
	}
	if err := params.Validate(); err != nil {
		return ga.Params{}, err
	}
	return params, nil
}
