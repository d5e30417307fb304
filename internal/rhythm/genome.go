package rhythm

import (
	"fmt"
	"strings"
)

// Genome is one bar of a rhythm: 1 is an onset, 0 is a rest
type Genome []uint8

// Rand is the source of uniform draws used by seeding and the genetic operators.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// New returns an all-rest genome with the given number of steps
func New(steps int) Genome {
	return make(Genome, steps)
}

// FromString parses a genome written as a run of '0' and '1' characters.
// Spaces are ignored so "1 0 0 1" and "1001" are equivalent.
func FromString(s string) (Genome, error) {
	g := make(Genome, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			g = append(g, 0)
		case '1':
			g = append(g, 1)
		case ' ':
		default:
			return nil, fmt.Errorf("invalid step %q at offset %d", r, i)
		}
	}
	return g, nil
}

// Clone makes a copy of a genome
func (g Genome) Clone() Genome {
	dst := make(Genome, len(g))
	copy(dst, g)
	return dst
}

// Hits counts the onsets
func (g Genome) Hits() int {
	n := 0
	for _, v := range g {
		if v == 1 {
			n++
		}
	}
	return n
}

// Onsets returns the indices of all onsets in ascending order
func (g Genome) Onsets() []int {
	idx := make([]int, 0, len(g))
	for i, v := range g {
		if v == 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// RunLengths returns the length of every maximal run of consecutive onsets
func (g Genome) RunLengths() []int {
	var runs []int
	run := 0
	for _, v := range g {
		if v == 1 {
			run++
			continue
		}
		if run > 0 {
			runs = append(runs, run)
			run = 0
		}
	}
	if run > 0 {
		runs = append(runs, run)
	}
	return runs
}

// InterOnsetIntervals returns the gaps between consecutive onsets.
// Fewer than two onsets yields nil.
func (g Genome) InterOnsetIntervals() []int {
	onsets := g.Onsets()
	if len(onsets) < 2 {
		return nil
	}
	ioi := make([]int, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		ioi[i-1] = onsets[i] - onsets[i-1]
	}
	return ioi
}

// Equal reports whether both genomes have the same steps
func (g Genome) Equal(o Genome) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

func (g Genome) String() string {
	var b strings.Builder
	b.Grow(len(g))
	for _, v := range g {
		if v == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Spaced renders the genome with a space between steps
func (g Genome) Spaced() string {
	parts := make([]string, len(g))
	for i, v := range g {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
