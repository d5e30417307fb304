package ga

import "riffga/internal/rhythm"

// TournamentSelect samples k individuals with replacement and returns the
// genome of the fittest. Ties go to the first one drawn.
func TournamentSelect(individuals []*Individual, k int, rng rhythm.Rand) rhythm.Genome {
	if len(individuals) == 0 {
		return nil
	}

	best := individuals[rng.Intn(len(individuals))]
	for i := 1; i < k; i++ {
		candidate := individuals[rng.Intn(len(individuals))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Genome
}

// SelectParents selects two parents using tournament selection
func SelectParents(individuals []*Individual, k int, rng rhythm.Rand) (rhythm.Genome, rhythm.Genome) {
	p1 := TournamentSelect(individuals, k, rng)
	p2 := TournamentSelect(individuals, k, rng)
	return p1, p2
}
