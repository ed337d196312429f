package resistance

// Package resistance predicts drug resistance by joining mutations against
// the TB reference table. The Simulated layer then flips each verdict with
// a fixed probability; it is a demo stand-in and says so in its name.

import (
	"math/rand"
	"sort"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/tbref"
)

// Verdict is the predicted response to one drug.
type Verdict struct {
	Drug      string `json:"drug"`
	Resistant bool   `json:"resistant"`
	Basis     string `json:"basis"`   // matching mutation key, or "none"
	Flipped   bool   `json:"flipped"` // true when the simulation inverted the table verdict
}

// Predictor maps mutations to per-drug verdicts.
type Predictor interface {
	Predict(muts []mutation.Mutation) []Verdict
}

// DefaultFlipRate is the probability with which Simulated inverts a
// table-derived verdict.
const DefaultFlipRate = 0.30

// Simulated looks each mutation up in the reference table and then flips
// the resulting verdict with probability FlipRate.
type Simulated struct {
	rng      *rand.Rand
	Table    []tbref.Row
	FlipRate float64
}

// NewSimulated returns a predictor over the given reference table, seeded
// for reproducible output.
func NewSimulated(seed int64, table []tbref.Row) *Simulated {
	return &Simulated{
		rng:      rand.New(rand.NewSource(seed)),
		Table:    table,
		FlipRate: DefaultFlipRate,
	}
}

// Predict emits one verdict per drug named in the table, sorted by drug.
// A drug is table-resistant when any mutation's compact key (e.g. "A42T")
// matches a table row for that drug.
func (p *Simulated) Predict(muts []mutation.Mutation) []Verdict {
	keys := make(map[string]bool, len(muts))
	for _, m := range muts {
		keys[m.Key()] = true
	}

	byDrug := make(map[string]*Verdict)
	var drugs []string
	for _, row := range p.Table {
		v, ok := byDrug[row.Drug]
		if !ok {
			v = &Verdict{Drug: row.Drug, Basis: "none"}
			byDrug[row.Drug] = v
			drugs = append(drugs, row.Drug)
		}
		if keys[row.Mutation] && !v.Resistant {
			v.Resistant = true
			v.Basis = row.Mutation
		}
	}
	sort.Strings(drugs)

	out := make([]Verdict, 0, len(drugs))
	for _, d := range drugs {
		v := *byDrug[d]
		if p.rng.Float64() < p.FlipRate {
			v.Resistant = !v.Resistant
			v.Flipped = true
		}
		out = append(out, v)
	}
	return out
}
