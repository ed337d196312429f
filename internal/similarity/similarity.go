package similarity

// Package similarity scores two nucleotide sequences position by position
// over their shared prefix length and classifies the result. There is no
// shifting and no gapped alignment: two sequences identical but offset by
// one base score near zero. That limitation is part of the contract.

import (
	"math"

	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

// Class is the three-bucket verdict derived from a positional percentage.
type Class int

const (
	NoMatch Class = iota
	PossibleMatch
	StrongEvidence
)

func (c Class) String() string {
	switch c {
	case StrongEvidence:
		return "Strong Evidence"
	case PossibleMatch:
		return "Possible TB Strain"
	default:
		return "Unlikely TB"
	}
}

// Confidence returns the confidence label reported next to the class.
func (c Class) Confidence() string {
	switch c {
	case StrongEvidence:
		return "High"
	case PossibleMatch:
		return "Moderate"
	default:
		return "Low"
	}
}

// Recommendation returns the advisory text shown with a verdict.
func (c Class) Recommendation() string {
	switch c {
	case StrongEvidence:
		return "Strong evidence of TB. Consider immediate treatment protocols and infection control measures."
	case PossibleMatch:
		return "Moderate confidence. Additional confirmatory testing recommended before treatment decisions."
	default:
		return "Low confidence for TB. Consider alternative diagnoses and standard clinical evaluation."
	}
}

// MarshalText renders the class label into JSON and CSV output.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Report is the outcome of one positional comparison.
type Report struct {
	Percent  float64 `json:"percent"`
	Matches  int     `json:"matches"`
	Compared int     `json:"compared"`
	LenA     int     `json:"len_a"`
	LenB     int     `json:"len_b"`
	Class    Class   `json:"class"`
}

// Score compares a and b over the prefix of length min(len(a), len(b)).
// A zero-length comparison is defined as 0%, not an error.
func Score(a, b seq.Sequence) Report {
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	r := Report{Compared: l, LenA: len(a), LenB: len(b)}
	if l == 0 {
		r.Class = Classify(0)
		return r
	}
	for i := 0; i < l; i++ {
		if a[i] == b[i] {
			r.Matches++
		}
	}
	r.Percent = float64(r.Matches) / float64(l) * 100
	r.Class = Classify(r.Percent)
	return r
}

// Classify buckets a percentage with inclusive lower bounds: >=80 strong,
// >=50 possible, else no match.
func Classify(percent float64) Class {
	switch {
	case percent >= 80:
		return StrongEvidence
	case percent >= 50:
		return PossibleMatch
	default:
		return NoMatch
	}
}

// CompositeReport blends three similarity measures. Only the positional
// percentage feeds the classifier; the blend is reported as supporting
// detail.
type CompositeReport struct {
	Positional float64 `json:"positional"`
	Kmer       float64 `json:"kmer"`
	GC         float64 `json:"gc"`
	Weighted   float64 `json:"weighted"`
}

// composite weights: positional dominates, k-mer profile and GC agreement
// refine it.
const (
	weightPositional = 0.5
	weightKmer       = 0.3
	weightGC         = 0.2
)

// Composite computes the weighted blend of positional similarity, 3-mer
// cosine similarity and GC-content agreement.
func Composite(a, b seq.Sequence) CompositeReport {
	pos := Score(a, b).Percent
	km := kmerCosine(a, b, 3)
	gcDiff := math.Abs(a.GCContent() - b.GCContent())
	gc := math.Max(0, 100-gcDiff*2)
	return CompositeReport{
		Positional: pos,
		Kmer:       km,
		GC:         gc,
		Weighted:   pos*weightPositional + km*weightKmer + gc*weightGC,
	}
}

// kmerCosine returns the cosine similarity of the two k-mer count
// profiles as a percentage.
func kmerCosine(a, b seq.Sequence, k int) float64 {
	ka := kmerCounts(a, k)
	kb := kmerCounts(b, k)
	if len(ka) == 0 || len(kb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for m, ca := range ka {
		dot += float64(ca) * float64(kb[m])
		na += float64(ca) * float64(ca)
	}
	for _, cb := range kb {
		nb += float64(cb) * float64(cb)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)) * 100
}

func kmerCounts(s seq.Sequence, k int) map[string]int {
	if len(s) < k {
		return nil
	}
	counts := make(map[string]int, len(s)-k+1)
	for i := 0; i+k <= len(s); i++ {
		counts[string(s[i:i+k])]++
	}
	return counts
}
