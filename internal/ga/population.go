package ga

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"riffga/internal/rhythm"
)

// Individual is a genome together with its fitness.
// Fitness is recomputed whenever the genome is created or changed.
type Individual struct {
	Genome  rhythm.Genome
	Fitness float64
}

// Clone creates a deep copy of an individual
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Genome:  ind.Genome.Clone(),
		Fitness: ind.Fitness,
	}
}

// Population manages the collection of individuals
type Population struct {
	Individuals []*Individual
	Steps       int
}

// NewPopulation seeds size individuals with the same seed spec.
// Fitness is left at zero until Evaluate is called.
func NewPopulation(size, steps int, spec rhythm.SeedSpec, rng rhythm.Rand) *Population {
	p := &Population{
		Individuals: make([]*Individual, size),
		Steps:       steps,
	}
	for i := 0; i < size; i++ {
		p.Individuals[i] = &Individual{
			Genome: rhythm.Seed(steps, spec, rng),
		}
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Individuals)
}

// Evaluate scores every individual from index from onwards
func (p *Population) Evaluate(ev Evaluator, from int) {
	for i := from; i < len(p.Individuals); i++ {
		ind := p.Individuals[i]
		ind.Fitness = ev.Fitness(ind.Genome)
	}
}

// SortByFitness sorts individuals by fitness (descending).
// Equal fitness keeps the current order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].Fitness > p.Individuals[j].Fitness
	})
}

// TopK returns the top K individuals by fitness
func (p *Population) TopK(k int) []*Individual {
	p.SortByFitness()
	if k > len(p.Individuals) {
		k = len(p.Individuals)
	}
	return p.Individuals[:k]
}

// Best returns the individual with highest fitness
func (p *Population) Best() *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// Stats returns the mean and population standard deviation of fitness
func (p *Population) Stats() (mean, std float64) {
	if len(p.Individuals) == 0 {
		return 0, 0
	}
	fits := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		fits[i] = ind.Fitness
	}
	return stat.PopMeanStdDev(fits, nil)
}
