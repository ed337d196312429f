package organ

// Package organ estimates per-organ impact from a set of mutations. The
// scoring is a weighted heuristic with optional random noise and is a demo
// stand-in: Predictor is the seam where a real model would slot in.

import (
	"math/rand"
	"sort"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
)

// Impact is the predicted burden on one organ.
type Impact struct {
	Organ string  `json:"organ"`
	Score float64 `json:"score"`
	Risk  string  `json:"risk"`
}

// Predictor maps mutations to organ impacts.
type Predictor interface {
	Predict(muts []mutation.Mutation) []Impact
}

// organs in fixed reporting order.
var organs = []string{"Lungs", "Liver", "Kidneys", "Heart", "Bone Marrow"}

// weights give the per-mutation base impact of each mutation type on each
// organ. Unknown types contribute nothing.
var weights = map[mutation.Type]map[string]float64{
	mutation.SNP:       {"Lungs": 6, "Liver": 3, "Kidneys": 2, "Heart": 2, "Bone Marrow": 1},
	mutation.Insertion: {"Lungs": 9, "Liver": 5, "Kidneys": 4, "Heart": 3, "Bone Marrow": 2},
	mutation.Deletion:  {"Lungs": 12, "Liver": 6, "Kidneys": 5, "Heart": 4, "Bone Marrow": 3},
}

// Simulated accumulates type weights per organ and perturbs each score by
// up to ±Noise. Noise 0 makes prediction deterministic.
type Simulated struct {
	rng   *rand.Rand
	Noise float64
}

// NewSimulated returns a predictor seeded for reproducible output with
// the default noise amplitude.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(seed)), Noise: 5}
}

// Predict returns one Impact per organ, scores clamped to [0,100],
// ordered by descending score.
func (p *Simulated) Predict(muts []mutation.Mutation) []Impact {
	scores := make(map[string]float64, len(organs))
	for _, m := range muts {
		for organ, w := range weights[m.Type] {
			scores[organ] += w
		}
	}
	out := make([]Impact, 0, len(organs))
	for _, organ := range organs {
		s := scores[organ]
		if p.Noise > 0 {
			s += (p.rng.Float64()*2 - 1) * p.Noise
		}
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		out = append(out, Impact{Organ: organ, Score: s, Risk: risk(s)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func risk(score float64) string {
	switch {
	case score >= 67:
		return "high"
	case score >= 34:
		return "moderate"
	default:
		return "low"
	}
}
