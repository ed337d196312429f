package similarity

import (
	"math"
	"testing"

	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

func TestScoreIdentical(t *testing.T) {
	r := Score("ATGCATGC", "ATGCATGC")
	if r.Percent != 100 {
		t.Fatalf("expected 100%%, got %v", r.Percent)
	}
	if r.Class != StrongEvidence {
		t.Fatalf("expected StrongEvidence, got %v", r.Class)
	}
}

func TestScoreAllDifferent(t *testing.T) {
	r := Score("AAAA", "TTTT")
	if r.Percent != 0 || r.Class != NoMatch {
		t.Fatalf("expected 0%% NoMatch, got %v %v", r.Percent, r.Class)
	}
}

func TestScoreSymmetric(t *testing.T) {
	a, b := seq.Sequence("ATGCGT"), seq.Sequence("ATGAGTAA")
	if Score(a, b).Percent != Score(b, a).Percent {
		t.Fatalf("score is not symmetric")
	}
}

func TestScorePrefixOnly(t *testing.T) {
	// unequal lengths compare over the shorter prefix only
	r := Score("AAAA", "TTTTTT")
	if r.Compared != 4 {
		t.Fatalf("expected compared length 4, got %d", r.Compared)
	}
	if r.Percent != 0 || r.Class != NoMatch {
		t.Fatalf("expected 0%% NoMatch, got %v %v", r.Percent, r.Class)
	}
}

func TestScoreThreeOfFour(t *testing.T) {
	r := Score("ATGC", "ATGG")
	if r.Percent != 75 {
		t.Fatalf("expected 75%%, got %v", r.Percent)
	}
	if r.Class != PossibleMatch {
		t.Fatalf("expected PossibleMatch, got %v", r.Class)
	}
}

func TestScoreZeroLength(t *testing.T) {
	r := Score("", "ATGC")
	if r.Percent != 0 || r.Class != NoMatch {
		t.Fatalf("expected defined 0%% for empty input, got %v %v", r.Percent, r.Class)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		percent float64
		want    Class
	}{
		{100, StrongEvidence},
		{80, StrongEvidence},
		{79.999, PossibleMatch},
		{50, PossibleMatch},
		{49.999, NoMatch},
		{0, NoMatch},
	}
	for _, c := range cases {
		if got := Classify(c.percent); got != c.want {
			t.Fatalf("Classify(%v): want %v, got %v", c.percent, c.want, got)
		}
	}
}

func TestCompositeIdentical(t *testing.T) {
	r := Composite("ATGCATGCAT", "ATGCATGCAT")
	if r.Positional != 100 || r.GC != 100 {
		t.Fatalf("expected 100/100, got %+v", r)
	}
	if math.Abs(r.Kmer-100) > 1e-9 {
		t.Fatalf("expected kmer 100, got %v", r.Kmer)
	}
	if math.Abs(r.Weighted-100) > 1e-9 {
		t.Fatalf("expected weighted 100, got %v", r.Weighted)
	}
}

func TestCompositeWeights(t *testing.T) {
	r := Composite("ATGCATGCAT", "ATGAATGCAT")
	want := r.Positional*0.5 + r.Kmer*0.3 + r.GC*0.2
	if math.Abs(r.Weighted-want) > 1e-9 {
		t.Fatalf("weighted blend off: got %v, want %v", r.Weighted, want)
	}
}

func TestKmerCosineShortSequences(t *testing.T) {
	if got := kmerCosine("AT", "ATGC", 3); got != 0 {
		t.Fatalf("expected 0 for sub-k sequence, got %v", got)
	}
}
