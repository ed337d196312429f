package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/KS-Adharshini/BioIntel/internal/config"
	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/report"
	"github.com/KS-Adharshini/BioIntel/internal/seq"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	total := n
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			break
		}
		ts := time.Now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return total, err
		}
	}
	return total, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// fileAnalysis is one entry of the output JSON: the sequence summary plus
// the simulated mutation calls.
type fileAnalysis struct {
	report.Summary
	Mutations []mutation.Mutation `json:"mutations"`
}

// analyzeFile parses the first sequence of one input file and runs the
// simulated caller over it.
func analyzeFile(path string, opts seq.Options, seed int64) (fileAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileAnalysis{}, err
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		if err := opts.CheckSize(fi.Size()); err != nil {
			return fileAnalysis{}, err
		}
	}
	s, err := seq.FirstSequence(f, opts)
	if err != nil {
		return fileAnalysis{}, err
	}
	muts, err := mutation.NewSimulated(seed).Call(s)
	if err != nil {
		return fileAnalysis{}, err
	}
	return fileAnalysis{Summary: report.NewSummary(filepath.Base(path), s), Mutations: muts}, nil
}

func main() {
	outDir := flag.String("out", ".", "output directory for analysis.json and per-file mutation CSVs")
	configFlag := flag.String("config", "", "path to config.json (optional)")
	seedFlag := flag.Int64("seed", 0, "PRNG seed for the simulated caller (0 = time-based)")
	workers := flag.Int("workers", 4, "number of files processed concurrently")
	dryRun := flag.Bool("dry-run", false, "analyze without writing outputs")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("biointel", version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// configure logger output
	var loggerOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			loggerOut = io.MultiWriter(os.Stderr, f)
			defer f.Close()
		}
	}
	if fi, err := os.Stderr.Stat(); err == nil {
		if fi.Mode()&os.ModeCharDevice != 0 {
			_ = os.Setenv("FORCE_COLOR", "1")
		}
	}
	tw := &timestampWriter{w: loggerOut}
	termW := &terminalWriter{w: tw, fd: os.Stderr.Fd()}
	logger := log.New(termW)

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			logger.SetLevel(log.DebugLevel)
		case "info", "":
			logger.SetLevel(log.InfoLevel)
		case "warn", "warning":
			logger.SetLevel(log.WarnLevel)
		case "error":
			logger.SetLevel(log.ErrorLevel)
		default:
			logger.SetLevel(log.InfoLevel)
			logger.Warn("unknown log_level in config.json, defaulting to info", "provided", cfg.LogLevel)
		}
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		logger.Fatal("no input files; usage: biointel [flags] file.fasta [file2.fastq ...]")
	}

	seed := *seedFlag
	if seed == 0 {
		if cfg.Seed != 0 {
			seed = cfg.Seed
		} else {
			seed = time.Now().UnixNano()
		}
	}

	nworkers := *workers
	if nworkers < 1 {
		nworkers = 1
	}
	if nworkers > len(inputs) {
		nworkers = len(inputs)
	}
	logger.Info("starting analysis", "inputs", len(inputs), "workers", nworkers, "seed", seed, "out", *outDir)

	opts := seq.Options{MaxBytes: cfg.MutationMaxBytes, MinLength: 10}

	type outcome struct {
		analysis fileAnalysis
		path     string
		err      error
	}
	tasks := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < nworkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range tasks {
				start := time.Now()
				a, err := analyzeFile(path, opts, seed)
				logger.Debug("analyzed", "path", path, "duration_ms", time.Since(start).Milliseconds())
				results <- outcome{analysis: a, path: path, err: err}
			}
		}()
	}
	go func() {
		for _, path := range inputs {
			tasks <- path
		}
		close(tasks)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var analyses []fileAnalysis
	failed := 0
	for res := range results {
		if res.err != nil {
			logger.Error("failed to analyze input", "path", res.path, "err", res.err)
			failed++
			continue
		}
		logger.Info("analyzed input", "path", res.path, "length", res.analysis.Length,
			"gc_content", res.analysis.GCContent, "mutations", len(res.analysis.Mutations))
		analyses = append(analyses, res.analysis)
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Filename < analyses[j].Filename })

	if len(analyses) == 0 {
		logger.Fatal("no inputs analyzed successfully", "failed", failed)
	}

	if *dryRun {
		logger.Info("dry-run: would write outputs", "analyses", len(analyses), "out", *outDir)
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("failed to create output directory", "path", *outDir, "err", err)
	}

	for _, a := range analyses {
		csvPath := filepath.Join(*outDir, strings.TrimSuffix(a.Filename, filepath.Ext(a.Filename))+".mutations.csv")
		f, err := os.Create(csvPath)
		if err != nil {
			logger.Error("failed to create mutation CSV", "path", csvPath, "err", err)
			continue
		}
		if err := report.WriteMutationCSV(f, a.Mutations); err != nil {
			logger.Error("failed to write mutation CSV", "path", csvPath, "err", err)
		}
		f.Close()
		logger.Debug("wrote mutation CSV", "path", csvPath, "rows", len(a.Mutations))
	}

	jsonData, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		logger.Fatal("json marshal failed", "err", err)
	}
	outPath := filepath.Join(*outDir, "analysis.json")
	if err := os.WriteFile(outPath, jsonData, 0o644); err != nil {
		logger.Fatal("failed to write analysis JSON", "path", outPath, "err", err)
	}
	logger.Info("wrote analysis JSON", "path", outPath, "analyses", len(analyses), "failed", failed)
}
