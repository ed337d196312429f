package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
)

func TestNewSummaryRoundsGC(t *testing.T) {
	// 5 of 12 bases are G/C -> 41.666...%
	s := NewSummary("sample.fasta", "ATGCATGCATGN")
	if s.Length != 12 || s.ACount != 3 || s.GCount != 3 || s.CCount != 2 || s.TCount != 3 || s.NCount != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.GCContent != 41.7 {
		t.Fatalf("expected GC content 41.7, got %v", s.GCContent)
	}
}

func TestWriteSummaryJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, NewSummary("f.fasta", "GGCC")); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, k := range []string{"filename", "sequence", "length", "a_count", "t_count", "g_count", "c_count", "n_count", "gc_content"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing field %q in %s", k, buf.String())
		}
	}
	if m["gc_content"] != 100.0 {
		t.Fatalf("expected gc_content 100, got %v", m["gc_content"])
	}
}

func TestMutationCSVRoundTrip(t *testing.T) {
	muts := []mutation.Mutation{
		{Position: 3, Ref: "A", Alt: "T", Type: mutation.SNP},
		{Position: 9, Ref: "G", Alt: "-", Type: mutation.Deletion},
	}
	var buf bytes.Buffer
	if err := WriteMutationCSV(&buf, muts); err != nil {
		t.Fatalf("WriteMutationCSV failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Position,Reference,Alternate,Type of Mutation\n") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
	got, err := ReadMutationCSV(&buf)
	if err != nil {
		t.Fatalf("ReadMutationCSV failed: %v", err)
	}
	if len(got) != 2 || got[0] != muts[0] || got[1] != muts[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadMutationCSVSynonyms(t *testing.T) {
	for _, header := range []string{"Mutation Type", "mutation_type", "Type", "Variant Type"} {
		in := header + "\nSNP\ninsertion\n"
		got, err := ReadMutationCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("header %q: unexpected error: %v", header, err)
		}
		if len(got) != 2 || got[0].Type != mutation.SNP || got[1].Type != mutation.Insertion {
			t.Fatalf("header %q: unexpected rows: %+v", header, got)
		}
	}
}

func TestReadMutationCSVMissingTypeColumn(t *testing.T) {
	in := "Position,Reference,Alternate\n1,A,T\n"
	_, err := ReadMutationCSV(strings.NewReader(in))
	if err == nil {
		t.Fatalf("expected error for missing type column")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Type of Mutation") {
		t.Fatalf("error should name the missing column: %v", err)
	}
	if !strings.Contains(msg, "Position, Reference, Alternate") {
		t.Fatalf("error should list the columns found: %v", err)
	}
}

func TestReadMutationCSVEmpty(t *testing.T) {
	if _, err := ReadMutationCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]mutation.Type{
		"SNP":          mutation.SNP,
		"substitution": mutation.SNP,
		"INS":          mutation.Insertion,
		"del":          mutation.Deletion,
		"frameshift":   mutation.Type("frameshift"),
	}
	for in, want := range cases {
		if got := normalizeType(in); got != want {
			t.Fatalf("normalizeType(%q): want %v, got %v", in, want, got)
		}
	}
}
