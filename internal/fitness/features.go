package fitness

import (
	"gonum.org/v1/gonum/stat"

	"riffga/internal/rhythm"
)

// longRun is the shortest run of consecutive onsets that gets penalized
const longRun = 4

// Features are the raw measurements the fitness terms are computed from
type Features struct {
	Hits        int     // onsets in the bar
	AccentHits  int     // accent steps carrying an onset
	OddHits     int     // onsets on odd-indexed steps
	LongRuns    int     // maximal onset runs of length >= longRun
	IOIVariance float64 // population variance of inter-onset intervals
}

// Extract measures a genome against the preset's accent grid
func Extract(g rhythm.Genome, accents []int) Features {
	var f Features
	for i, v := range g {
		if v != 1 {
			continue
		}
		f.Hits++
		if i%2 == 1 {
			f.OddHits++
		}
	}

	for _, a := range accents {
		if a >= 0 && a < len(g) && g[a] == 1 {
			f.AccentHits++
		}
	}

	for _, r := range g.RunLengths() {
		if r >= longRun {
			f.LongRuns++
		}
	}

	if ioi := g.InterOnsetIntervals(); len(ioi) > 0 {
		xs := make([]float64, len(ioi))
		for i, v := range ioi {
			xs[i] = float64(v)
		}
		f.IOIVariance = stat.PopVariance(xs, nil)
	}
	return f
}
