package report

// Package report builds the downloadable artifacts (JSON sequence summary,
// mutation CSV) and ingests user-supplied mutation CSVs into a fixed,
// typed row shape.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

// Summary is the JSON sequence-analysis download.
type Summary struct {
	Filename  string  `json:"filename"`
	Sequence  string  `json:"sequence"`
	Length    int     `json:"length"`
	ACount    int     `json:"a_count"`
	TCount    int     `json:"t_count"`
	GCount    int     `json:"g_count"`
	CCount    int     `json:"c_count"`
	NCount    int     `json:"n_count"`
	GCContent float64 `json:"gc_content"`
}

// NewSummary assembles the summary for one parsed file. GC content is
// reported to one decimal place.
func NewSummary(filename string, s seq.Sequence) Summary {
	counts := s.Counts()
	return Summary{
		Filename:  filename,
		Sequence:  string(s),
		Length:    len(s),
		ACount:    counts['A'],
		TCount:    counts['T'],
		GCount:    counts['G'],
		CCount:    counts['C'],
		NCount:    counts['N'],
		GCContent: math.Round(s.GCContent()*10) / 10,
	}
}

// WriteSummary writes the summary as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Mutation CSV column headers.
const (
	colPosition  = "Position"
	colReference = "Reference"
	colAlternate = "Alternate"
	colType      = "Type of Mutation"
)

// WriteMutationCSV writes the standard four-column mutation export.
func WriteMutationCSV(w io.Writer, muts []mutation.Mutation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colPosition, colReference, colAlternate, colType}); err != nil {
		return err
	}
	for _, m := range muts {
		if err := cw.Write([]string{strconv.Itoa(m.Position), m.Ref, m.Alt, string(m.Type)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// typeSynonyms are the accepted alternate spellings of the required
// "Type of Mutation" column, compared case-insensitively.
var typeSynonyms = []string{
	"type of mutation",
	"mutation type",
	"mutation_type",
	"mutationtype",
	"variant type",
	"variant_type",
	"type",
}

// ReadMutationCSV parses a user-supplied mutation table. The mutation-type
// column is required (under any recognized synonym); position, reference
// and alternate columns are used when present. A missing type column is
// an error naming both the expected column and the columns actually found.
func ReadMutationCSV(r io.Reader) ([]mutation.Mutation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	typeIdx, posIdx, refIdx, altIdx := -1, -1, -1, -1
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case typeIdx < 0 && isTypeColumn(name):
			typeIdx = i
		case name == strings.ToLower(colPosition):
			posIdx = i
		case name == strings.ToLower(colReference):
			refIdx = i
		case name == strings.ToLower(colAlternate):
			altIdx = i
		}
	}
	if typeIdx < 0 {
		return nil, fmt.Errorf("missing required column %q (accepted synonyms: %s); found columns: %s",
			colType, strings.Join(typeSynonyms[1:], ", "), strings.Join(header, ", "))
	}

	var muts []mutation.Mutation
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", line, err)
		}
		m := mutation.Mutation{Type: normalizeType(row[typeIdx])}
		if posIdx >= 0 && posIdx < len(row) {
			if p, err := strconv.Atoi(strings.TrimSpace(row[posIdx])); err == nil {
				m.Position = p
			}
		}
		if refIdx >= 0 && refIdx < len(row) {
			m.Ref = strings.ToUpper(strings.TrimSpace(row[refIdx]))
		}
		if altIdx >= 0 && altIdx < len(row) {
			m.Alt = strings.ToUpper(strings.TrimSpace(row[altIdx]))
		}
		muts = append(muts, m)
	}
	return muts, nil
}

func isTypeColumn(lower string) bool {
	for _, syn := range typeSynonyms {
		if lower == syn {
			return true
		}
	}
	return false
}

// normalizeType maps free-form type spellings onto the fixed set; unknown
// spellings pass through so downstream heuristics can treat them as
// neutral.
func normalizeType(raw string) mutation.Type {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "snp", "substitution", "snv", "point mutation":
		return mutation.SNP
	case "insertion", "ins":
		return mutation.Insertion
	case "deletion", "del":
		return mutation.Deletion
	}
	return mutation.Type(strings.TrimSpace(raw))
}
