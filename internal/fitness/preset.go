package fitness

// Preset is the rhythmic target a run evolves toward.
// Build one per run and treat it as read-only afterwards.
type Preset struct {
	Name           string  `yaml:"name" toml:"name" json:"name"`
	Steps          int     `yaml:"steps" toml:"steps" json:"steps"`
	TargetHits     int     `yaml:"target_hits" toml:"target_hits" json:"target_hits"`
	Accents        []int   `yaml:"accents" toml:"accents" json:"accents"`
	SyncAppetite   float64 `yaml:"sync_appetite" toml:"sync_appetite" json:"sync_appetite"`
	LongRunPenalty float64 `yaml:"long_run_penalty" toml:"long_run_penalty" json:"long_run_penalty"`
	DensityW       float64 `yaml:"density_w" toml:"density_w" json:"density_w"`
	AccentW        float64 `yaml:"accent_w" toml:"accent_w" json:"accent_w"`
	SyncW          float64 `yaml:"sync_w" toml:"sync_w" json:"sync_w"`
	VarietyW       float64 `yaml:"variety_w" toml:"variety_w" json:"variety_w"`
}

// Clone returns a deep copy so callers can't share the accent slice
func (p Preset) Clone() Preset {
	c := p
	if p.Accents != nil {
		c.Accents = append([]int(nil), p.Accents...)
	}
	return c
}
