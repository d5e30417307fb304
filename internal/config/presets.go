package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"riffga/internal/fitness"
)

// FallbackPreset is used for "custom" and any unknown preset name
const FallbackPreset = "techno"

// Presets maps lower-case names to presets
type Presets map[string]fitness.Preset

// BuiltinPresets returns a fresh copy of the built-in preset table
func BuiltinPresets() Presets {
	return Presets{
		"techno": {
			Name:           "techno",
			Steps:          16,
			TargetHits:     6,
			Accents:        []int{0, 4, 8, 12}, // quarter notes
			SyncAppetite:   0.5,
			LongRunPenalty: 0.3,
			DensityW:       2.0,
			AccentW:        1.6,
			SyncW:          1.2,
			VarietyW:       1.2,
		},
		"organic": {
			Name:           "organic",
			Steps:          12, // ternary feel
			TargetHits:     5,
			Accents:        []int{0, 3, 6, 9},
			SyncAppetite:   0.6,
			LongRunPenalty: 0.25,
			DensityW:       1.8,
			AccentW:        1.3,
			SyncW:          1.4,
			VarietyW:       1.3,
		},
		"tribal": {
			Name:           "tribal",
			Steps:          16,
			TargetHits:     8,
			Accents:        []int{0, 8},
			SyncAppetite:   0.7,
			LongRunPenalty: 0.2,
			DensityW:       1.7,
			AccentW:        1.1,
			SyncW:          1.5,
			VarietyW:       1.4,
		},
	}
}

// presetFile is the TOML layout:
//
//	[presets.house]
//	steps = 16
//	target_hits = 5
//	accents = [0, 4, 8, 12]
type presetFile struct {
	Presets map[string]fitness.Preset `toml:"presets"`
}

// LoadPresets returns the built-in presets extended (or replaced) by the
// presets in a TOML file. An empty path returns the built-ins.
func LoadPresets(path string) (Presets, error) {
	lib := BuiltinPresets()
	if path == "" {
		return lib, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var file presetFile
	if _, err := toml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode presets %s: %w", path, err)
	}
	for name, p := range file.Presets {
		key := strings.ToLower(name)
		if p.Name == "" {
			p.Name = key
		}
		if p.Steps == 0 {
			return nil, fmt.Errorf("preset %q in %s has no steps", name, path)
		}
		lib[key] = p
	}
	return lib, nil
}

// Names lists the preset names in sorted order
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
