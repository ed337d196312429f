package mutation

// Package mutation defines the mutation caller capability. The only
// implementation in this repository is Simulated, which fabricates calls
// from a seeded PRNG; a real caller can replace it without touching any
// call site.

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

// Type labels a called mutation.
type Type string

const (
	SNP       Type = "SNP"
	Insertion Type = "Insertion"
	Deletion  Type = "Deletion"
)

// Mutation is one called variant. Position is zero-based into the input
// sequence; Ref is the base actually present there.
type Mutation struct {
	Position int    `json:"position"`
	Ref      string `json:"reference"`
	Alt      string `json:"alternate"`
	Type     Type   `json:"type"`
}

// Key renders the compact reference-table form, e.g. "A42T".
func (m Mutation) Key() string {
	return fmt.Sprintf("%s%d%s", m.Ref, m.Position, m.Alt)
}

// Caller produces mutation calls for a sequence.
type Caller interface {
	Call(s seq.Sequence) ([]Mutation, error)
}

// Simulated fabricates mutations at Rate per base (minimum one call for a
// non-trivial sequence). It is a demo stand-in, not inference.
type Simulated struct {
	rng  *rand.Rand
	Rate float64
}

// NewSimulated returns a caller seeded for reproducible output.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(seed)), Rate: 0.01}
}

var bases = []string{"A", "T", "G", "C"}

// Call picks distinct positions and fabricates a SNP, insertion or
// deletion at each. Results are sorted by position.
func (c *Simulated) Call(s seq.Sequence) ([]Mutation, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("cannot call mutations on an empty sequence")
	}
	n := int(float64(len(s)) * c.Rate)
	if n < 1 {
		n = 1
	}
	if n > len(s) {
		n = len(s)
	}
	seen := make(map[int]bool, n)
	muts := make([]Mutation, 0, n)
	for len(muts) < n {
		pos := c.rng.Intn(len(s))
		if seen[pos] {
			continue
		}
		seen[pos] = true
		ref := string(s[pos])
		var m Mutation
		switch c.rng.Intn(3) {
		case 0:
			m = Mutation{Position: pos, Ref: ref, Alt: c.otherBase(ref), Type: SNP}
		case 1:
			m = Mutation{Position: pos, Ref: ref, Alt: ref + bases[c.rng.Intn(len(bases))], Type: Insertion}
		default:
			m = Mutation{Position: pos, Ref: ref, Alt: "-", Type: Deletion}
		}
		muts = append(muts, m)
	}
	sort.Slice(muts, func(i, j int) bool { return muts[i].Position < muts[j].Position })
	return muts, nil
}

func (c *Simulated) otherBase(ref string) string {
	for {
		b := bases[c.rng.Intn(len(bases))]
		if b != ref {
			return b
		}
	}
}
