package resistance

import (
	"reflect"
	"testing"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/tbref"
)

var table = []tbref.Row{
	{Gene: "rpoB", Mutation: "S450L", Drug: "Rifampicin", Effect: "resistant"},
	{Gene: "katG", Mutation: "S315T", Drug: "Isoniazid", Effect: "resistant"},
	{Gene: "rpoB", Mutation: "H445Y", Drug: "Rifampicin", Effect: "resistant"},
}

func unflipped(seed int64) *Simulated {
	p := NewSimulated(seed, table)
	p.FlipRate = 0
	return p
}

func TestPredictTableJoin(t *testing.T) {
	muts := []mutation.Mutation{
		{Position: 450, Ref: "S", Alt: "L", Type: mutation.SNP},
	}
	got := unflipped(1).Predict(muts)
	want := []Verdict{
		{Drug: "Isoniazid", Resistant: false, Basis: "none"},
		{Drug: "Rifampicin", Resistant: true, Basis: "S450L"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected verdicts: %+v", got)
	}
}

func TestPredictNoMatches(t *testing.T) {
	got := unflipped(1).Predict([]mutation.Mutation{{Position: 1, Ref: "A", Alt: "T", Type: mutation.SNP}})
	for _, v := range got {
		if v.Resistant || v.Basis != "none" {
			t.Fatalf("expected clean verdicts, got %+v", got)
		}
	}
}

func TestPredictDeterministicUnderSeed(t *testing.T) {
	muts := []mutation.Mutation{{Position: 315, Ref: "S", Alt: "T", Type: mutation.SNP}}
	a := NewSimulated(42, table).Predict(muts)
	b := NewSimulated(42, table).Predict(muts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different verdicts")
	}
}

func TestFlipRateOne(t *testing.T) {
	p := NewSimulated(3, table)
	p.FlipRate = 1
	got := p.Predict([]mutation.Mutation{{Position: 450, Ref: "S", Alt: "L", Type: mutation.SNP}})
	for _, v := range got {
		if !v.Flipped {
			t.Fatalf("flip rate 1 should flip every verdict: %+v", got)
		}
	}
	// the table-resistant drug must now read susceptible
	for _, v := range got {
		if v.Drug == "Rifampicin" && v.Resistant {
			t.Fatalf("expected flipped Rifampicin verdict: %+v", v)
		}
	}
}

func TestFlipRateRoughlyHonored(t *testing.T) {
	p := NewSimulated(7, table)
	flips := 0
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		for _, v := range p.Predict(nil) {
			if v.Flipped {
				flips++
			}
		}
	}
	ratio := float64(flips) / float64(rounds*2)
	if ratio < 0.25 || ratio > 0.35 {
		t.Fatalf("flip ratio %v outside [0.25, 0.35]", ratio)
	}
}
