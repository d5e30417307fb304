package ga

import (
	"fmt"

	"riffga/internal/rhythm"
)

// CrossoverRate is the chance a child is recombined instead of cloned from its first parent
const CrossoverRate = 0.9

// SinglePointCrossover cuts both parents at a point drawn from [1, len-2]
// and joins a's prefix with b's suffix
func SinglePointCrossover(a, b rhythm.Genome, rng rhythm.Rand) (rhythm.Genome, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: crossover length mismatch %d != %d", ErrInvariantViolation, len(a), len(b))
	}
	if len(a) < 3 {
		return nil, fmt.Errorf("%w: crossover needs at least 3 steps, got %d", ErrInvalidConfiguration, len(a))
	}
	point := 1 + rng.Intn(len(a)-2)
	return CrossoverAt(a, b, point), nil
}

// CrossoverAt joins a[:point] with b[point:]
func CrossoverAt(a, b rhythm.Genome, point int) rhythm.Genome {
	child := make(rhythm.Genome, len(a))
	copy(child[:point], a[:point])
	copy(child[point:], b[point:])
	return child
}

// CreateChild recombines two parents with probability CrossoverRate,
// otherwise clones the first one
func CreateChild(p1, p2 rhythm.Genome, rng rhythm.Rand) (rhythm.Genome, error) {
	if rng.Float64() < CrossoverRate {
		return SinglePointCrossover(p1, p2, rng)
	}
	return p1.Clone(), nil
}
