package rhythm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSeedSpec is returned for seed specs that are neither empty, "none" nor "euclid:K"
var ErrInvalidSeedSpec = errors.New("invalid seed spec")

// SeedMode selects how initial genomes are built
type SeedMode int

const (
	SeedRandom SeedMode = iota // bounded-random density
	SeedEuclid                 // Bjorklund maximally-even pattern
)

// SeedSpec describes the initial genome of every individual
type SeedSpec struct {
	Mode SeedMode
	Hits int // requested onsets, SeedEuclid only
}

// ParseSeedSpec reads "", "none" or "euclid:K".
// K below 1 is clamped to 1; clamping to the step count happens at seeding time.
func ParseSeedSpec(s string) (SeedSpec, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return SeedSpec{Mode: SeedRandom}, nil
	}
	arg, ok := strings.CutPrefix(s, "euclid:")
	if !ok {
		return SeedSpec{}, fmt.Errorf("%w: %q", ErrInvalidSeedSpec, s)
	}
	k, err := strconv.Atoi(arg)
	if err != nil {
		return SeedSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidSeedSpec, s, err)
	}
	if k < 1 {
		k = 1
	}
	return SeedSpec{Mode: SeedEuclid, Hits: k}, nil
}

func (s SeedSpec) String() string {
	if s.Mode == SeedEuclid {
		return fmt.Sprintf("euclid:%d", s.Hits)
	}
	return "none"
}

// Seed builds one initial genome
func Seed(steps int, spec SeedSpec, rng Rand) Genome {
	if spec.Mode == SeedEuclid {
		return Euclidean(steps, spec.Hits)
	}
	return RandomGenome(steps, rng)
}

// RandomGenome draws an onset count in [2, min(10, steps)] and drops that many
// onsets on random steps. Placements may collide, so the realized count can be
// lower than the drawn one; the density term of the fitness absorbs that.
func RandomGenome(steps int, rng Rand) Genome {
	g := New(steps)
	if steps == 0 {
		return g
	}
	hi := min(10, steps)
	hits := hi
	if hi > 2 {
		hits = 2 + rng.Intn(hi-1)
	}
	for i := 0; i < hits; i++ {
		g[rng.Intn(steps)] = 1
	}
	return g
}

// Euclidean distributes pulses over steps as evenly as possible (Bjorklund).
// pulses is clamped to [1, steps]. The result is rotated so that step 0 is an
// onset, e.g. (8, 3) gives 10010010 and (16, 4) gives 1000100010001000.
func Euclidean(steps, pulses int) Genome {
	if steps <= 0 {
		return Genome{}
	}
	pulses = max(1, min(pulses, steps))

	// Subtractive phase: counts[l] copies of the level below, plus the level two
	// below when remainders[l] is non-zero.
	counts := []int{}
	remainders := []int{pulses}
	divisor := steps - pulses
	level := 0
	for {
		counts = append(counts, divisor/remainders[level])
		remainders = append(remainders, divisor%remainders[level])
		divisor = remainders[level]
		level++
		if remainders[level] <= 1 {
			break
		}
	}
	counts = append(counts, divisor)

	// Expansion phase, bottom up. built[0] is a lone onset, built[1] a lone rest,
	// built[l+2] is the sequence of level l.
	built := make([]Genome, level+3)
	built[0] = Genome{1}
	built[1] = Genome{0}
	for l := 0; l <= level; l++ {
		var seq Genome
		for i := 0; i < counts[l]; i++ {
			seq = append(seq, built[l+1]...)
		}
		if remainders[l] != 0 {
			seq = append(seq, built[l]...)
		}
		built[l+2] = seq
	}

	pattern := built[level+2]
	if len(pattern) > steps {
		pattern = pattern[:steps]
	}
	out := New(steps)
	copy(out, pattern)
	return rotateToOnset(out)
}

func rotateToOnset(g Genome) Genome {
	first := -1
	for i, v := range g {
		if v == 1 {
			first = i
			break
		}
	}
	if first <= 0 {
		return g
	}
	out := make(Genome, 0, len(g))
	out = append(out, g[first:]...)
	return append(out, g[:first]...)
}
