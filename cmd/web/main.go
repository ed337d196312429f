package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	stdlog "log"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/KS-Adharshini/BioIntel/internal/config"
	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/organ"
	"github.com/KS-Adharshini/BioIntel/internal/report"
	"github.com/KS-Adharshini/BioIntel/internal/resistance"
	"github.com/KS-Adharshini/BioIntel/internal/seq"
	"github.com/KS-Adharshini/BioIntel/internal/session"
	"github.com/KS-Adharshini/BioIntel/internal/similarity"
	"github.com/KS-Adharshini/BioIntel/internal/tbref"
)

var templates *template.Template

func loadTemplates(dir string) error {
	t := template.New("")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".html") {
			if _, err := t.ParseFiles(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	templates = t
	return nil
}

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *stdlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		if srw.status == 0 {
			srw.status = http.StatusOK
		}
		duration := time.Since(start)
		logger.Printf("%s - %s %s %d %dB %s %q",
			r.RemoteAddr, r.Method, r.URL.RequestURI(), srw.status, srw.written, duration, r.UserAgent())
	})
}

// httpError maps a failure onto a status code and reports the reason
// inline, next to whatever control triggered the request.
func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, seq.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, seq.ErrInvalidFormat),
		errors.Is(err, seq.ErrEmptySequence),
		errors.Is(err, seq.ErrInvalidAlphabet),
		errors.Is(err, http.ErrMissingFile):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNoRecord):
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

// uploadedSequence pulls the named multipart file, pre-checks its declared
// size against the ceiling and parses its first record.
func uploadedSequence(r *http.Request, field string, opts seq.Options) (seq.Sequence, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("missing %s file: %w", field, err)
	}
	defer f.Close()
	if err := opts.CheckSize(hdr.Size); err != nil {
		return "", hdr.Filename, err
	}
	s, err := seq.FirstSequence(f, opts)
	return s, hdr.Filename, err
}

func uploadedFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("missing %s file: %w", field, err)
	}
	return f, hdr, nil
}

func indexHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		rec, err := store.Load()
		if err != nil && !errors.Is(err, session.ErrNoRecord) {
			httpError(w, err)
			return
		}
		page := struct {
			Primary *session.Record
		}{Primary: rec}
		if err := templates.ExecuteTemplate(w, "base.html", page); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "healthy", "service": "biointel"})
	}
}

type fileInfo struct {
	Filename  string  `json:"filename"`
	Length    int     `json:"length"`
	GCContent float64 `json:"gc_content"`
}

type classificationInfo struct {
	Classification string `json:"classification"`
	Confidence     string `json:"confidence"`
	Recommendation string `json:"recommendation"`
}

type analyzeResponse struct {
	SimilarityScore float64                    `json:"similarity_score"`
	Classification  classificationInfo         `json:"classification"`
	Composite       similarity.CompositeReport `json:"composite"`
	SampleInfo      fileInfo                   `json:"sample_info"`
	ReferenceInfo   fileInfo                   `json:"reference_info"`
	AnalysisDetails map[string]interface{}     `json:"analysis_details"`
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// analyzeHandler compares an uploaded sample against an uploaded reference
// and returns the positional similarity verdict with supporting detail.
func analyzeHandler(maxBytes int64) http.HandlerFunc {
	opts := seq.Options{MaxBytes: maxBytes, MaxBases: 100000}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		sample, sampleName, err := uploadedSequence(r, "sample", opts)
		if err != nil {
			httpError(w, err)
			return
		}
		ref, refName, err := uploadedSequence(r, "reference", opts)
		if err != nil {
			httpError(w, err)
			return
		}

		rep := similarity.Score(sample, ref)
		comp := similarity.Composite(sample, ref)
		writeJSON(w, analyzeResponse{
			SimilarityScore: round2(rep.Percent),
			Classification: classificationInfo{
				Classification: rep.Class.String(),
				Confidence:     rep.Class.Confidence(),
				Recommendation: rep.Class.Recommendation(),
			},
			Composite:     comp,
			SampleInfo:    fileInfo{Filename: sampleName, Length: rep.LenA, GCContent: round2(sample.GCContent())},
			ReferenceInfo: fileInfo{Filename: refName, Length: rep.LenB, GCContent: round2(ref.GCContent())},
			AnalysisDetails: map[string]interface{}{
				"method":            "positional prefix comparison",
				"features_compared": []string{"nucleotide_matching", "kmer_similarity", "gc_content"},
				"confidence_threshold": map[string]string{
					"high":     ">=80%",
					"moderate": "50-79%",
					"low":      "<50%",
				},
			},
		})
	}
}

// mutationsHandler runs the simulated mutation caller over an uploaded
// sequence. ?format=csv downloads the table instead of JSON.
func mutationsHandler(maxBytes int64, seed func() int64) http.HandlerFunc {
	opts := seq.Options{MaxBytes: maxBytes, MinLength: 10}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		s, name, err := uploadedSequence(r, "file", opts)
		if err != nil {
			httpError(w, err)
			return
		}
		muts, err := mutation.NewSimulated(seed()).Call(s)
		if err != nil {
			httpError(w, err)
			return
		}
		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="mutations.csv"`)
			if err := report.WriteMutationCSV(w, muts); err != nil {
				httpError(w, err)
			}
			return
		}
		writeJSON(w, map[string]interface{}{
			"filename":  name,
			"length":    len(s),
			"mutations": muts,
			"simulated": true,
		})
	}
}

// organsHandler scores organ impact from an uploaded mutation CSV.
func organsHandler(seed func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		f, _, err := uploadedFile(r, "file")
		if err != nil {
			httpError(w, err)
			return
		}
		defer f.Close()
		muts, err := report.ReadMutationCSV(f)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, map[string]interface{}{
			"impacts":   organ.NewSimulated(seed()).Predict(muts),
			"mutations": len(muts),
			"simulated": true,
		})
	}
}

// resistanceHandler joins an uploaded mutation CSV against the remote
// reference table and reports per-drug verdicts.
func resistanceHandler(datasetURL string, seed func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		f, _, err := uploadedFile(r, "file")
		if err != nil {
			httpError(w, err)
			return
		}
		defer f.Close()
		muts, err := report.ReadMutationCSV(f)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
		defer cancel()
		table, err := tbref.FetchTable(ctx, datasetURL)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"verdicts":  resistance.NewSimulated(seed(), table).Predict(muts),
			"mutations": len(muts),
			"simulated": true,
		})
	}
}

// referenceHandler serves the read-only reference table, filtered by ?q=.
func referenceHandler(datasetURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
		defer cancel()
		rows, err := tbref.FetchTable(ctx, datasetURL)
		if err != nil {
			httpError(w, err)
			return
		}
		rows = tbref.Filter(rows, r.URL.Query().Get("q"))
		writeJSON(w, map[string]interface{}{"rows": rows, "count": len(rows)})
	}
}

// sessionFileHandler manages the primary file record: GET fetches it,
// POST replaces it with an uploaded file, DELETE clears it.
func sessionFileHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rec, err := store.Load()
			if err != nil {
				httpError(w, err)
				return
			}
			writeJSON(w, rec)
		case http.MethodPost:
			f, hdr, err := uploadedFile(r, "file")
			if err != nil {
				httpError(w, err)
				return
			}
			defer f.Close()
			content, err := io.ReadAll(f)
			if err != nil {
				httpError(w, fmt.Errorf("read upload: %w", err))
				return
			}
			rec := session.NewRecord(hdr.Filename, content)
			if err := store.Save(rec); err != nil {
				httpError(w, err)
				return
			}
			writeJSON(w, rec)
		case http.MethodDelete:
			if err := store.Clear(); err != nil {
				httpError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "unsupported method", http.StatusMethodNotAllowed)
		}
	}
}

// sessionSummaryHandler builds the JSON sequence-analysis download for
// the stored primary file.
func sessionSummaryHandler(store session.Store, maxBytes int64) http.HandlerFunc {
	opts := seq.Options{MaxBytes: maxBytes}
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Load()
		if err != nil {
			httpError(w, err)
			return
		}
		s, err := seq.FirstSequence(strings.NewReader(rec.Content), opts)
		if err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="sequence-summary.json"`)
		if err := report.WriteSummary(w, report.NewSummary(rec.Name, s)); err != nil {
			httpError(w, err)
		}
	}
}

func newMux(cfg *config.Config, store session.Store, seed func() int64) *http.ServeMux {
	mux := http.NewServeMux()
	fileServer := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/", indexHandler(store))
	mux.HandleFunc("/api/health", healthHandler())
	mux.HandleFunc("/api/analyze", analyzeHandler(cfg.AnalyzeMaxBytes))
	mux.HandleFunc("/api/mutations", mutationsHandler(cfg.MutationMaxBytes, seed))
	mux.HandleFunc("/api/organs", organsHandler(seed))
	mux.HandleFunc("/api/resistance", resistanceHandler(cfg.DatasetURL, seed))
	mux.HandleFunc("/api/reference", referenceHandler(cfg.DatasetURL))
	mux.HandleFunc("/api/session/file", sessionFileHandler(store))
	mux.HandleFunc("/api/session/summary", sessionSummaryHandler(store, cfg.AnalyzeMaxBytes))
	return mux
}

func openStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case "sqlite":
		return session.NewSQLiteStore(cfg.SessionPath)
	case "json", "":
		return session.NewJSONStore(cfg.SessionPath), nil
	}
	return nil, fmt.Errorf("unknown session_store %q (want json or sqlite)", cfg.SessionStore)
}

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "path to config.json (optional)")
	templatesDir := flag.String("templates", "", "HTML templates directory (overrides config)")
	datasetURL := flag.String("dataset-url", "", "TB reference table URL (overrides config)")
	logFile := flag.String("log", "", "path to write access logs (optional). If empty, logs go to stdout only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *templatesDir != "" {
		cfg.TemplatesDir = *templatesDir
	}
	if *datasetURL != "" {
		cfg.DatasetURL = *datasetURL
	}

	logger := log.New(os.Stderr)
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if err := loadTemplates(cfg.TemplatesDir); err != nil {
		logger.Fatal("failed to load templates", "dir", cfg.TemplatesDir, "err", err)
	}

	if cfg.CachePath != "" {
		if abs, aerr := filepath.Abs(cfg.CachePath); aerr == nil {
			tbref.SetCacheFilePath(abs)
		} else {
			tbref.SetCacheFilePath(cfg.CachePath)
		}
	}
	if cfg.CacheTTLSecs > 0 {
		tbref.SetCacheTTLSeconds(cfg.CacheTTLSecs)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open session store", "err", err)
	}
	defer store.Close()
	if rec, err := store.Load(); err == nil {
		logger.Info("primary file restored", "name", rec.Name, "size", rec.Size, "uploaded_at", rec.UploadedAt)
	}

	seed := func() int64 { return time.Now().UnixNano() }
	if cfg.Seed != 0 {
		seed = func() int64 { return cfg.Seed }
	}

	// configure the access logger
	var out io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Fatal("failed to open log file", "path", *logFile, "err", err)
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	accessLogger := stdlog.New(out, "biointel: ", stdlog.LstdFlags)

	handler := loggingMiddleware(accessLogger, newMux(cfg, store, seed))
	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadTimeout: 30 * time.Second, WriteTimeout: 60 * time.Second}
	logger.Info("serving dashboard", "addr", cfg.Addr, "session_store", cfg.SessionStore)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", "err", err)
	}
}
