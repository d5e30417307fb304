package ga

import (
	"errors"
	"math/rand"
	"testing"

	"riffga/internal/fitness"
	"riffga/internal/rhythm"
)

func technoEvaluator() *fitness.Evaluator {
	return fitness.NewEvaluator(fitness.Preset{
		Name:           "techno",
		Steps:          16,
		TargetHits:     6,
		Accents:        []int{0, 4, 8, 12},
		SyncAppetite:   0.5,
		LongRunPenalty: 0.3,
		DensityW:       2.0,
		AccentW:        1.6,
		SyncW:          1.2,
		VarietyW:       1.2,
	})
}

func baseParams() Params {
	return Params{
		Steps:        16,
		PopSize:      40,
		Generations:  30,
		Elitism:      2,
		MutationRate: 0.05,
		TournamentK:  3,
		Evaluator:    technoEvaluator(),
	}
}

func TestEvolveConvergedEuclidSeed(t *testing.T) {
	ev := fitness.NewEvaluator(fitness.Preset{
		Steps:      16,
		TargetHits: 4,
		DensityW:   2.0,
	})
	seed, err := rhythm.ParseSeedSpec("euclid:4")
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	params := Params{
		Steps:        16,
		PopSize:      10,
		Generations:  5,
		Elitism:      2,
		MutationRate: 0,
		TournamentK:  1,
		Seed:         seed,
		Evaluator:    ev,
	}

	res, err := Evolve(params, rand.New(rand.NewSource(99)), nil)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if res.Genome.Hits() != 4 {
		t.Fatalf("expected 4 onsets, got %d (%s)", res.Genome.Hits(), res.Genome)
	}
	if res.Fitness != 2.0 {
		t.Fatalf("expected fitness 2.0, got %v", res.Fitness)
	}
	if res.Genome.String() != "1000100010001000" {
		t.Fatalf("expected the euclidean seed to survive, got %s", res.Genome)
	}
}

func TestEvolveBestNeverDecreases(t *testing.T) {
	params := baseParams()
	params.ReportEvery = 1

	var bests []float64
	obs := ObserverFunc(func(p Progress) {
		bests = append(bests, p.Best)
	})

	res, err := Evolve(params, rand.New(rand.NewSource(42)), obs)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if len(bests) != params.Generations {
		t.Fatalf("expected %d reports, got %d", params.Generations, len(bests))
	}
	for i := 1; i < len(bests); i++ {
		if bests[i] < bests[i-1] {
			t.Fatalf("generation %d: best dropped from %v to %v", i, bests[i-1], bests[i])
		}
	}
	if res.Fitness < bests[len(bests)-1] {
		t.Fatalf("result %v below last observed best %v", res.Fitness, bests[len(bests)-1])
	}
}

func TestEvolveResultFitnessIsFresh(t *testing.T) {
	params := baseParams()
	res, err := Evolve(params, rand.New(rand.NewSource(5)), nil)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if len(res.Genome) != params.Steps {
		t.Fatalf("expected %d steps, got %d", params.Steps, len(res.Genome))
	}
	if got := params.Evaluator.Fitness(res.Genome); got != res.Fitness {
		t.Fatalf("stale fitness: stored %v, recomputed %v", res.Fitness, got)
	}
}

func TestEvolveReproducibleWithSeededSource(t *testing.T) {
	params := baseParams()
	a, err := Evolve(params, rand.New(rand.NewSource(11)), nil)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	b, err := Evolve(params, rand.New(rand.NewSource(11)), nil)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if !a.Genome.Equal(b.Genome) || a.Fitness != b.Fitness {
		t.Fatalf("same seed gave %s/%v and %s/%v", a.Genome, a.Fitness, b.Genome, b.Fitness)
	}
}

func TestEvolveReportCadence(t *testing.T) {
	params := baseParams()
	params.Generations = 45

	var gens []int
	_, err := Evolve(params, rand.New(rand.NewSource(1)), ObserverFunc(func(p Progress) {
		gens = append(gens, p.Generation)
		if p.Hits != p.Genome.Hits() {
			t.Errorf("generation %d: hits %d does not match genome %s", p.Generation, p.Hits, p.Genome)
		}
	}))
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	want := []int{0, 20, 40, 44}
	if len(gens) != len(want) {
		t.Fatalf("expected reports at %v, got %v", want, gens)
	}
	for i := range want {
		if gens[i] != want[i] {
			t.Fatalf("expected reports at %v, got %v", want, gens)
		}
	}
}

func TestNextGenerationCopiesElites(t *testing.T) {
	params := baseParams()
	rng := rand.New(rand.NewSource(8))
	pop := NewPopulation(params.PopSize, params.Steps, rhythm.SeedSpec{}, rng)
	pop.Evaluate(params.Evaluator, 0)
	pop.SortByFitness()

	next, err := nextGeneration(pop, params, rng)
	if err != nil {
		t.Fatalf("next generation: %v", err)
	}
	if next.Size() != params.PopSize {
		t.Fatalf("expected %d individuals, got %d", params.PopSize, next.Size())
	}
	for i := 0; i < params.Elitism; i++ {
		elite, orig := next.Individuals[i], pop.Individuals[i]
		if elite == orig {
			t.Fatalf("elite %d is shared, not copied", i)
		}
		if !elite.Genome.Equal(orig.Genome) || elite.Fitness != orig.Fitness {
			t.Fatalf("elite %d differs from its original", i)
		}
		elite.Genome[0] ^= 1
		if elite.Genome.Equal(orig.Genome) {
			t.Fatalf("elite %d genome aliases the original", i)
		}
	}
	for _, ind := range next.Individuals[params.Elitism:] {
		if ind.Fitness != 0 {
			t.Fatalf("offspring evaluated too early: %v", ind.Fitness)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"steps too small", func(p *Params) { p.Steps = 2 }},
		{"population not above elitism", func(p *Params) { p.PopSize = p.Elitism }},
		{"negative elitism", func(p *Params) { p.Elitism = -1 }},
		{"no generations", func(p *Params) { p.Generations = 0 }},
		{"zero tournament", func(p *Params) { p.TournamentK = 0 }},
		{"mutation above one", func(p *Params) { p.MutationRate = 1.5 }},
		{"no evaluator", func(p *Params) { p.Evaluator = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if _, err := Evolve(p, rand.New(rand.NewSource(1)), nil); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("evolve: expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}

	if err := baseParams().Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}
}

func TestPopulationStats(t *testing.T) {
	pop := &Population{Individuals: []*Individual{
		{Fitness: 1}, {Fitness: 3},
	}}
	mean, std := pop.Stats()
	if mean != 2 || std != 1 {
		t.Fatalf("expected mean 2 std 1, got %v %v", mean, std)
	}
	if best := pop.Best(); best.Fitness != 3 {
		t.Fatalf("expected best 3, got %v", best.Fitness)
	}
	if top := pop.TopK(5); len(top) != 2 || top[0].Fitness != 3 {
		t.Fatalf("unexpected top-k %v", top)
	}
}
