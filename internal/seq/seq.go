package seq

// Package seq extracts and validates nucleotide sequences from uploaded
// FASTA/FASTQ text. Only the first record of a file is ever read; the
// upload flows this serves never need more than that.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse failures reported to callers. All are final; nothing here retries.
var (
	ErrInvalidFormat   = errors.New("unrecognized sequence format")
	ErrEmptySequence   = errors.New("no sequence data found")
	ErrInvalidAlphabet = errors.New("disallowed character in sequence")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
)

// Sequence is an uppercase nucleotide string over the alphabet {A,T,G,C,N}.
// It is immutable once parsed; a zero-length Sequence is never returned by
// FirstSequence.
type Sequence string

// Options control a single parse. MaxBytes must come from the call site
// (upload flows use different ceilings); it is deliberately not a package
// constant.
type Options struct {
	// MaxBytes rejects inputs larger than this many bytes. 0 means no limit.
	MaxBytes int64
	// MinLength rejects sequences shorter than this many bases. 0 means 1.
	MinLength int
	// MaxBases truncates the parsed sequence to this many bases. 0 means no
	// truncation.
	MaxBases int
}

// CheckSize pre-checks a declared byte size against the MaxBytes ceiling,
// so callers can refuse an upload before reading its body.
func (o Options) CheckSize(declared int64) error {
	if o.MaxBytes > 0 && declared > o.MaxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, declared, o.MaxBytes)
	}
	return nil
}

// cappedReader fails with ErrFileTooLarge once more than remain bytes have
// been read, guarding parses whose input size is not known up front.
type cappedReader struct {
	r      io.Reader
	remain int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remain < 0 {
		return 0, ErrFileTooLarge
	}
	n, err := c.r.Read(p)
	c.remain -= int64(n)
	if c.remain < 0 {
		return 0, ErrFileTooLarge
	}
	return n, err
}

// FirstSequence reads the first sequence record from r. The format is
// sniffed from the first non-blank character: '>' selects FASTA, '@'
// selects FASTQ, anything else is ErrInvalidFormat.
//
// FASTA mode accumulates the lines between the first and second header,
// trimmed and uppercased, and rejects characters outside {A,T,G,C,N} with
// ErrInvalidAlphabet. FASTQ mode takes line 2 of the first 4-line record
// and coerces out-of-alphabet characters to 'N' instead: quality-bearing
// reads routinely carry ambiguity codes, while FASTA references are
// curated and a stray character there means a corrupt file.
func FirstSequence(r io.Reader, opts Options) (Sequence, error) {
	if opts.MaxBytes > 0 {
		r = &cappedReader{r: r, remain: opts.MaxBytes}
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	// find the first non-blank line
	var first string
	found := false
	for sc.Scan() {
		first = strings.TrimSpace(sc.Text())
		if first != "" {
			found = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return "", readErr(err)
	}
	if !found {
		return "", ErrEmptySequence
	}

	var s string
	var err error
	switch first[0] {
	case '>':
		s, err = firstFasta(sc)
	case '@':
		s, err = firstFastq(sc)
	default:
		return "", fmt.Errorf("%w: leading character %q", ErrInvalidFormat, first[0])
	}
	if err != nil {
		return "", err
	}

	if opts.MaxBases > 0 && len(s) > opts.MaxBases {
		s = s[:opts.MaxBases]
	}
	min := opts.MinLength
	if min <= 0 {
		min = 1
	}
	if len(s) < min {
		if len(s) == 0 {
			return "", ErrEmptySequence
		}
		return "", fmt.Errorf("%w: %d bases (minimum %d)", ErrEmptySequence, len(s), min)
	}
	return Sequence(s), nil
}

// firstFasta accumulates sequence lines until the next header or EOF.
// The scanner is already positioned past the first header line.
func firstFasta(sc *bufio.Scanner) (string, error) {
	var b strings.Builder
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' { // second record: silently truncate to record 1
			break
		}
		line = strings.ToUpper(line)
		for i := 0; i < len(line); i++ {
			if !validBase(line[i]) {
				return "", fmt.Errorf("%w: %q at offset %d", ErrInvalidAlphabet, line[i], b.Len()+i)
			}
		}
		b.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return "", readErr(err)
	}
	return b.String(), nil
}

// firstFastq reads the remainder of the first 4-line record. The header
// line has been consumed; the next line is the sequence. The separator
// line is checked when present so a mislabeled FASTA does not slip
// through.
func firstFastq(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", readErr(err)
		}
		return "", ErrEmptySequence
	}
	raw := strings.ToUpper(strings.TrimSpace(sc.Text()))
	if sc.Scan() {
		sep := strings.TrimSpace(sc.Text())
		if sep != "" && sep[0] != '+' {
			return "", fmt.Errorf("%w: FASTQ separator line must start with '+'", ErrInvalidFormat)
		}
	}
	if err := sc.Err(); err != nil {
		return "", readErr(err)
	}
	out := []byte(raw)
	for i := 0; i < len(out); i++ {
		if !validBase(out[i]) {
			out[i] = 'N'
		}
	}
	return string(out), nil
}

func validBase(c byte) bool {
	switch c {
	case 'A', 'T', 'G', 'C', 'N':
		return true
	}
	return false
}

func readErr(err error) error {
	if errors.Is(err, ErrFileTooLarge) {
		return err
	}
	return fmt.Errorf("read failed: %w", err)
}
