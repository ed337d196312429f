package mutation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

func TestCallDeterministicUnderSeed(t *testing.T) {
	s := seq.Sequence(strings.Repeat("ATGC", 100))
	a, err := NewSimulated(42).Call(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewSimulated(42).Call(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different calls")
	}
}

func TestCallShape(t *testing.T) {
	s := seq.Sequence(strings.Repeat("ATGC", 100))
	muts, err := NewSimulated(1).Call(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(muts) != 4 { // 400 bases at 1% rate
		t.Fatalf("expected 4 calls, got %d", len(muts))
	}
	for i, m := range muts {
		if m.Position < 0 || m.Position >= len(s) {
			t.Fatalf("call %d out of range: %+v", i, m)
		}
		if m.Ref != string(s[m.Position]) {
			t.Fatalf("call %d reference mismatch: %+v", i, m)
		}
		if i > 0 && muts[i-1].Position >= m.Position {
			t.Fatalf("calls not sorted by position")
		}
		switch m.Type {
		case SNP:
			if m.Alt == m.Ref || len(m.Alt) != 1 {
				t.Fatalf("bad SNP alt: %+v", m)
			}
		case Insertion:
			if len(m.Alt) != 2 || m.Alt[:1] != m.Ref {
				t.Fatalf("bad insertion alt: %+v", m)
			}
		case Deletion:
			if m.Alt != "-" {
				t.Fatalf("bad deletion alt: %+v", m)
			}
		default:
			t.Fatalf("unknown type: %+v", m)
		}
	}
}

func TestCallShortSequenceStillCalls(t *testing.T) {
	muts, err := NewSimulated(7).Call("ATGC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(muts) != 1 {
		t.Fatalf("expected the minimum single call, got %d", len(muts))
	}
}

func TestCallEmptySequence(t *testing.T) {
	if _, err := NewSimulated(7).Call(""); err == nil {
		t.Fatalf("expected error for empty sequence")
	}
}

func TestKey(t *testing.T) {
	m := Mutation{Position: 450, Ref: "S", Alt: "L", Type: SNP}
	if m.Key() != "S450L" {
		t.Fatalf("expected S450L, got %s", m.Key())
	}
}
