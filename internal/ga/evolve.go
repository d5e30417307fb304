package ga

import (
	"fmt"

	"riffga/internal/rhythm"
)

// DefaultReportEvery is the progress cadence when Params.ReportEvery is zero
const DefaultReportEvery = 20

// Evaluator scores a genome. It must be deterministic and free of side effects.
type Evaluator interface {
	Fitness(g rhythm.Genome) float64
}

// Progress is one observation of the running best
type Progress struct {
	Generation int
	Best       float64
	Hits       int
	Genome     rhythm.Genome
	Mean       float64
	Std        float64
}

// Observer receives progress reports; it never influences the run
type Observer interface {
	Observe(p Progress)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(p Progress)

func (f ObserverFunc) Observe(p Progress) { f(p) }

// NopObserver discards every report
type NopObserver struct{}

func (NopObserver) Observe(Progress) {}

// Params is everything one run needs
type Params struct {
	Steps        int
	PopSize      int
	Generations  int
	Elitism      int
	MutationRate float64
	TournamentK  int
	Seed         rhythm.SeedSpec
	Evaluator    Evaluator
	ReportEvery  int // 0 means DefaultReportEvery
}

// Validate rejects parameters the generational loop can't run with
func (p Params) Validate() error {
	switch {
	case p.Steps < 3:
		return fmt.Errorf("%w: steps must be at least 3, got %d", ErrInvalidConfiguration, p.Steps)
	case p.Elitism < 0:
		return fmt.Errorf("%w: elitism must not be negative, got %d", ErrInvalidConfiguration, p.Elitism)
	case p.PopSize <= p.Elitism:
		return fmt.Errorf("%w: population %d must exceed elitism %d", ErrInvalidConfiguration, p.PopSize, p.Elitism)
	case p.Generations < 1:
		return fmt.Errorf("%w: generations must be at least 1, got %d", ErrInvalidConfiguration, p.Generations)
	case p.TournamentK < 1:
		return fmt.Errorf("%w: tournament size must be at least 1, got %d", ErrInvalidConfiguration, p.TournamentK)
	case p.MutationRate < 0 || p.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %g", ErrInvalidConfiguration, p.MutationRate)
	case p.ReportEvery < 0:
		return fmt.Errorf("%w: report cadence must not be negative, got %d", ErrInvalidConfiguration, p.ReportEvery)
	case p.Evaluator == nil:
		return fmt.Errorf("%w: no fitness evaluator", ErrInvalidConfiguration)
	}
	return nil
}

// Result is the fittest individual of the final generation
type Result struct {
	Genome  rhythm.Genome
	Fitness float64
}

// Evolve runs the generational loop for exactly p.Generations generations
func Evolve(p Params, rng rhythm.Rand, obs Observer) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if obs == nil {
		obs = NopObserver{}
	}
	every := p.ReportEvery
	if every == 0 {
		every = DefaultReportEvery
	}

	pop := NewPopulation(p.PopSize, p.Steps, p.Seed, rng)
	pop.Evaluate(p.Evaluator, 0)

	for gen := 0; gen < p.Generations; gen++ {
		pop.SortByFitness()

		if gen%every == 0 || gen == p.Generations-1 {
			obs.Observe(progress(gen, pop))
		}

		next, err := nextGeneration(pop, p, rng)
		if err != nil {
			return Result{}, fmt.Errorf("generation %d: %w", gen, err)
		}
		next.Evaluate(p.Evaluator, p.Elitism)
		pop = next
	}

	pop.SortByFitness()
	best := pop.Individuals[0]
	return Result{Genome: best.Genome.Clone(), Fitness: best.Fitness}, nil
}

// nextGeneration copies the elites of a sorted population and fills the rest
// with unevaluated offspring
func nextGeneration(pop *Population, p Params, rng rhythm.Rand) (*Population, error) {
	next := &Population{
		Individuals: make([]*Individual, 0, p.PopSize),
		Steps:       pop.Steps,
	}

	for i := 0; i < p.Elitism && i < len(pop.Individuals); i++ {
		next.Individuals = append(next.Individuals, pop.Individuals[i].Clone())
	}

	for len(next.Individuals) < p.PopSize {
		p1, p2 := SelectParents(pop.Individuals, p.TournamentK, rng)

		child, err := CreateChild(p1, p2, rng)
		if err != nil {
			return nil, err
		}
		child = Mutate(child, p.MutationRate, rng)

		next.Individuals = append(next.Individuals, &Individual{Genome: child})
	}
	return next, nil
}

func progress(gen int, pop *Population) Progress {
	best := pop.Individuals[0]
	mean, std := pop.Stats()
	return Progress{
		Generation: gen,
		Best:       best.Fitness,
		Hits:       best.Genome.Hits(),
		Genome:     best.Genome.Clone(),
		Mean:       mean,
		Std:        std,
	}
}
