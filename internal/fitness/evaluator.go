package fitness

import (
	"math"

	"riffga/internal/rhythm"
)

// Breakdown holds every term of a fitness score
type Breakdown struct {
	Density          float64 `json:"density"`
	Accent           float64 `json:"accent"`
	Syncopation      float64 `json:"syncopation"`
	Variety          float64 `json:"variety"`
	LongRunPenalty   float64 `json:"long_run_penalty"`
	EmptinessPenalty float64 `json:"emptiness_penalty"`
	Score            float64 `json:"score"`
}

// Evaluator scores genomes against a preset. It holds no mutable state.
type Evaluator struct {
	preset Preset
}

// NewEvaluator creates an evaluator for a resolved preset
func NewEvaluator(p Preset) *Evaluator {
	return &Evaluator{preset: p.Clone()}
}

// Preset returns a copy of the preset the evaluator was built from
func (e *Evaluator) Preset() Preset {
	return e.preset.Clone()
}

// Fitness computes the weighted score of a genome
func (e *Evaluator) Fitness(g rhythm.Genome) float64 {
	return e.Breakdown(g).Score
}

// Breakdown computes the score together with its individual terms
func (e *Evaluator) Breakdown(g rhythm.Genome) Breakdown {
	p := &e.preset
	f := Extract(g, p.Accents)

	b := Breakdown{
		Density:          densityScore(f.Hits, p.TargetHits),
		Accent:           accentScore(f.AccentHits, len(p.Accents)),
		Syncopation:      syncopationScore(f.OddHits, f.Hits, p.SyncAppetite),
		Variety:          math.Min(1, f.IOIVariance/2),
		LongRunPenalty:   p.LongRunPenalty * float64(f.LongRuns),
		EmptinessPenalty: emptinessPenalty(f.Hits),
	}
	b.Score = p.DensityW*b.Density +
		p.AccentW*b.Accent +
		p.SyncW*b.Syncopation +
		p.VarietyW*b.Variety -
		(b.LongRunPenalty + b.EmptinessPenalty)
	return b
}

func densityScore(hits, target int) float64 {
	diff := math.Abs(float64(hits - target))
	return math.Max(0, 1-diff/math.Max(1, float64(target)))
}

func accentScore(accentHits, accents int) float64 {
	if accents == 0 {
		return 0
	}
	return float64(accentHits) / float64(accents)
}

func syncopationScore(oddHits, hits int, appetite float64) float64 {
	ratio := 0.0
	if hits > 0 {
		ratio = float64(oddHits) / float64(hits)
	}
	return math.Min(1, ratio+appetite*0.15)
}

func emptinessPenalty(hits int) float64 {
	switch hits {
	case 0:
		return 1.0
	case 1:
		return 0.4
	default:
		return 0
	}
}
