package ga

import (
	"errors"
	"math/rand"
	"testing"

	"riffga/internal/rhythm"
)

// scripted replays fixed draws so operator choices can be pinned
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func genome(t *testing.T, s string) rhythm.Genome {
	t.Helper()
	g, err := rhythm.FromString(s)
	if err != nil {
		t.Fatalf("FromString(%q): %v", s, err)
	}
	return g
}

func TestMutateRateZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := genome(t, "1001001000101100")
	got := Mutate(g, 0, rng)
	if !got.Equal(g) {
		t.Fatalf("expected %s, got %s", g, got)
	}
}

func TestMutateRateOneIsComplement(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := genome(t, "1001001000101100")
	got := Mutate(g, 1, rng)
	if got.String() != "0110110111010011" {
		t.Fatalf("expected complement, got %s", got)
	}
	if g.String() != "1001001000101100" {
		t.Fatalf("input was modified: %s", g)
	}
}

func TestCrossoverAtPrefixSuffix(t *testing.T) {
	a := genome(t, "11111111")
	b := genome(t, "00000000")
	for p := 1; p <= 6; p++ {
		child := CrossoverAt(a, b, p)
		for i := range child {
			want := b[i]
			if i < p {
				want = a[i]
			}
			if child[i] != want {
				t.Fatalf("point %d: step %d is %d, want %d (%s)", p, i, child[i], want, child)
			}
		}
	}
}

func TestSinglePointCrossoverCutRange(t *testing.T) {
	a := genome(t, "11111111")
	b := genome(t, "00000000")
	rng := rand.New(rand.NewSource(3))
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		child, err := SinglePointCrossover(a, b, rng)
		if err != nil {
			t.Fatalf("crossover: %v", err)
		}
		point := child.Hits()
		if point < 1 || point > len(a)-2 {
			t.Fatalf("cut point %d outside [1, %d]", point, len(a)-2)
		}
		seen[point] = true
	}
	if len(seen) != len(a)-2 {
		t.Fatalf("expected all %d cut points, saw %v", len(a)-2, seen)
	}
}

func TestSinglePointCrossoverUsesDrawnPoint(t *testing.T) {
	rng := &scripted{ints: []int{2}}
	child, err := SinglePointCrossover(genome(t, "111111"), genome(t, "000000"), rng)
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if child.String() != "111000" {
		t.Fatalf("expected 111000, got %s", child)
	}
}

func TestSinglePointCrossoverLengthMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := SinglePointCrossover(genome(t, "1010"), genome(t, "10101"), rng)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestCreateChildClonesFirstParent(t *testing.T) {
	p1 := genome(t, "1100")
	p2 := genome(t, "0011")
	rng := &scripted{floats: []float64{0.95}}
	child, err := CreateChild(p1, p2, rng)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if !child.Equal(p1) {
		t.Fatalf("expected clone of %s, got %s", p1, child)
	}
	child[0] = 0
	if p1[0] != 1 {
		t.Fatal("clone aliases the parent")
	}
}

func TestTournamentSelectPicksFittest(t *testing.T) {
	inds := []*Individual{
		{Genome: genome(t, "100"), Fitness: 1},
		{Genome: genome(t, "010"), Fitness: 3},
		{Genome: genome(t, "001"), Fitness: 2},
	}
	rng := &scripted{ints: []int{0, 2, 1, 0}}
	if got := TournamentSelect(inds, 4, rng); got.String() != "010" {
		t.Fatalf("expected 010, got %s", got)
	}
}

func TestTournamentSelectFirstSeenWinsTies(t *testing.T) {
	inds := []*Individual{
		{Genome: genome(t, "100"), Fitness: 2},
		{Genome: genome(t, "010"), Fitness: 2},
	}
	rng := &scripted{ints: []int{1, 0}}
	if got := TournamentSelect(inds, 2, rng); got.String() != "010" {
		t.Fatalf("expected first drawn 010, got %s", got)
	}
}

func TestTournamentSelectSamplesWithReplacement(t *testing.T) {
	inds := []*Individual{
		{Genome: genome(t, "100"), Fitness: 5},
		{Genome: genome(t, "010"), Fitness: 1},
	}
	// k larger than the population is allowed
	rng := &scripted{ints: []int{1, 1, 1, 1, 1}}
	if got := TournamentSelect(inds, 5, rng); got.String() != "010" {
		t.Fatalf("expected 010, got %s", got)
	}
}

func TestIndividualCloneIsDeep(t *testing.T) {
	ind := &Individual{Genome: genome(t, "1010"), Fitness: 1.5}
	c := ind.Clone()
	c.Genome[0] = 0
	c.Fitness = 0
	if ind.Genome[0] != 1 || ind.Fitness != 1.5 {
		t.Fatal("mutating the copy changed the original")
	}
}
