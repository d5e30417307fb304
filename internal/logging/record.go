package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"riffga/internal/fitness"
	"riffga/internal/rhythm"
)

// RiffRecord is the saved form of a winning riff and the settings that produced it
type RiffRecord struct {
	RunID       string             `json:"run_id,omitempty"`
	Steps       int                `json:"steps"`
	Pattern     []int              `json:"pattern"`
	Onsets      []int              `json:"onsets"`
	Preset      string             `json:"preset"`
	TargetHits  int                `json:"target_hits"`
	SeedSpec    string             `json:"seed_spec,omitempty"`
	Generations int                `json:"generations,omitempty"`
	BPM         int                `json:"bpm"`
	Note        int                `json:"note"`
	Velocity    int                `json:"velocity,omitempty"`
	Fitness     float64            `json:"fitness"`
	Breakdown   *fitness.Breakdown `json:"breakdown,omitempty"`
}

// SetGenome fills the pattern fields from a genome
func (r *RiffRecord) SetGenome(g rhythm.Genome) {
	r.Steps = len(g)
	r.Pattern = make([]int, len(g))
	for i, v := range g {
		r.Pattern[i] = int(v)
	}
	r.Onsets = g.Onsets()
}

// Genome converts the stored pattern back, rejecting non-binary steps
func (r *RiffRecord) Genome() (rhythm.Genome, error) {
	g := rhythm.New(len(r.Pattern))
	for i, v := range r.Pattern {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("step %d has value %d, want 0 or 1", i, v)
		}
		g[i] = uint8(v)
	}
	if r.Steps != 0 && r.Steps != len(g) {
		return nil, fmt.Errorf("pattern has %d steps, record says %d", len(g), r.Steps)
	}
	return g, nil
}

// SaveRiff writes the record as indented JSON
func SaveRiff(path string, r *RiffRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadRiff loads a riff record from a file
func LoadRiff(path string) (*RiffRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r RiffRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
