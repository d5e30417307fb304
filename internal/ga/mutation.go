package ga

import "riffga/internal/rhythm"

// Mutate returns a copy of g with every step flipped with probability rate.
// The input is never modified.
func Mutate(g rhythm.Genome, rate float64, rng rhythm.Rand) rhythm.Genome {
	out := g.Clone()
	for i := range out {
		if rng.Float64() < rate {
			out[i] ^= 1
		}
	}
	return out
}
