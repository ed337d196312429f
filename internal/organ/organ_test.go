package organ

import (
	"testing"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
)

func noiseless() *Simulated {
	p := NewSimulated(0)
	p.Noise = 0
	return p
}

func TestPredictDeterministicWithoutNoise(t *testing.T) {
	muts := []mutation.Mutation{
		{Type: mutation.SNP},
		{Type: mutation.Deletion},
	}
	out := noiseless().Predict(muts)
	if len(out) != 5 {
		t.Fatalf("expected 5 organs, got %d", len(out))
	}
	// lungs carry the highest weights: 6 + 12
	if out[0].Organ != "Lungs" || out[0].Score != 18 {
		t.Fatalf("unexpected top impact: %+v", out[0])
	}
	if out[0].Risk != "low" {
		t.Fatalf("expected low risk at 18, got %q", out[0].Risk)
	}
}

func TestPredictUnknownTypeIsNeutral(t *testing.T) {
	out := noiseless().Predict([]mutation.Mutation{{Type: mutation.Type("frameshift")}})
	for _, im := range out {
		if im.Score != 0 {
			t.Fatalf("unknown type should not score: %+v", im)
		}
	}
}

func TestPredictClampsTo100(t *testing.T) {
	muts := make([]mutation.Mutation, 50)
	for i := range muts {
		muts[i] = mutation.Mutation{Type: mutation.Deletion}
	}
	out := noiseless().Predict(muts)
	if out[0].Score != 100 {
		t.Fatalf("expected clamp to 100, got %v", out[0].Score)
	}
	if out[0].Risk != "high" {
		t.Fatalf("expected high risk at 100, got %q", out[0].Risk)
	}
}

func TestRiskBuckets(t *testing.T) {
	cases := map[float64]string{0: "low", 33.9: "low", 34: "moderate", 66.9: "moderate", 67: "high", 100: "high"}
	for score, want := range cases {
		if got := risk(score); got != want {
			t.Fatalf("risk(%v): want %q, got %q", score, want, got)
		}
	}
}

func TestNoiseIsBounded(t *testing.T) {
	p := NewSimulated(99)
	out := p.Predict([]mutation.Mutation{{Type: mutation.SNP}})
	for _, im := range out {
		base := weights[mutation.SNP][im.Organ]
		if im.Score < base-p.Noise-1e-9 || im.Score > base+p.Noise+1e-9 {
			t.Fatalf("noise out of bounds for %s: %v (base %v)", im.Organ, im.Score, base)
		}
	}
}
