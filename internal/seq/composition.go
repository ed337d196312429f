package seq

// Base composition features used by the analysis summary and the
// composite similarity blend.

// Counts tallies each base of the alphabet. Every key is present even
// when its count is zero.
func (s Sequence) Counts() map[byte]int {
	h := map[byte]int{'A': 0, 'T': 0, 'G': 0, 'C': 0, 'N': 0}
	for i := 0; i < len(s); i++ {
		h[s[i]]++
	}
	return h
}

// GCContent returns the percentage of G and C bases, 0 for an empty
// sequence.
func (s Sequence) GCContent() float64 {
	if len(s) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 'G' || s[i] == 'C' {
			gc++
		}
	}
	return float64(gc) / float64(len(s)) * 100
}

// NCount returns the number of unresolved bases.
func (s Sequence) NCount() int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 'N' {
			n++
		}
	}
	return n
}

// dinucleotides in fixed reporting order.
var dinucleotides = []string{
	"AA", "AT", "AG", "AC", "TA", "TT", "TG", "TC",
	"GA", "GT", "GG", "GC", "CA", "CT", "CG", "CC",
}

// DinucleotideFreqs returns the frequency of each of the 16 dinucleotides
// over the len-1 adjacent pairs of the sequence. Pairs involving N are
// counted in the denominator but match no dinucleotide.
func (s Sequence) DinucleotideFreqs() map[string]float64 {
	freqs := make(map[string]float64, len(dinucleotides))
	for _, d := range dinucleotides {
		freqs[d] = 0
	}
	if len(s) < 2 {
		return freqs
	}
	for i := 0; i+1 < len(s); i++ {
		pair := string(s[i : i+2])
		if _, ok := freqs[pair]; ok {
			freqs[pair]++
		}
	}
	denom := float64(len(s) - 1)
	for d := range freqs {
		freqs[d] /= denom
	}
	return freqs
}
