package tbref

// Package tbref fetches the static tuberculosis mutation/resistance
// reference table. The table is consumed read-only for display, filtering
// and resistance lookups; fetched copies are cached on disk with a TTL so
// repeated page loads do not hammer the upstream host.

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// httpClient performs requests; tests may replace it with a mock transport.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Row is one entry of the reference table.
type Row struct {
	Gene     string `json:"gene"`
	Mutation string `json:"mutation"`
	Drug     string `json:"drug"`
	Effect   string `json:"effect"`
}

type cachedEntry struct {
	Rows        []Row `json:"rows"`
	RetrievedAt int64 `json:"retrieved_at"`
}

var (
	cacheMu       sync.RWMutex
	cache         map[string]cachedEntry
	cacheLoaded   bool
	cacheFilePath string
	cacheTTLSecs  int64
)

// SetCacheFilePath overrides the on-disk cache location.
func SetCacheFilePath(path string) {
	cacheMu.Lock()
	cacheFilePath = path
	cache = nil
	cacheLoaded = false
	cacheMu.Unlock()
}

// SetCacheTTLSeconds overrides the cache TTL. Zero restores the default
// of 7 days; negative keeps entries forever.
func SetCacheTTLSeconds(secs int64) {
	cacheMu.Lock()
	cacheTTLSecs = secs
	cacheMu.Unlock()
}

func defaultCachePath() string {
	if cacheFilePath != "" {
		return cacheFilePath
	}
	if dir, err := os.UserCacheDir(); err == nil {
		p := filepath.Join(dir, "biointel")
		_ = os.MkdirAll(p, 0o755)
		return filepath.Join(p, "tbref_cache.json")
	}
	return filepath.Join(os.TempDir(), "biointel_tbref_cache.json")
}

func loadCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cacheLoaded {
		return
	}
	path := defaultCachePath()
	cache = make(map[string]cachedEntry)
	data, err := os.ReadFile(path)
	if err != nil {
		cacheLoaded = true
		return
	}
	_ = json.Unmarshal(data, &cache)
	cacheLoaded = true
}

func saveCache() {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	b, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	path := cacheFilePath
	if path == "" {
		path = defaultCachePath()
	}
	_ = os.WriteFile(path, b, 0o644)
}

func getCached(url string) ([]Row, bool) {
	loadCache()
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	e, ok := cache[url]
	if !ok {
		return nil, false
	}
	ttl := cacheTTLSecs
	if ttl == 0 {
		ttl = int64(7 * 24 * 3600)
	}
	if ttl > 0 && time.Now().Unix()-e.RetrievedAt > ttl {
		return nil, false
	}
	return e.Rows, true
}

func setCached(url string, rows []Row) {
	if url == "" || len(rows) == 0 {
		return
	}
	loadCache()
	cacheMu.Lock()
	cache[url] = cachedEntry{Rows: rows, RetrievedAt: time.Now().Unix()}
	cacheMu.Unlock()
	saveCache()
}

// FetchTable downloads and parses the reference table at url, serving
// from the on-disk cache when a fresh copy exists. Transient failures and
// 429 responses are retried up to three times; a Retry-After header is
// honored.
func FetchTable(ctx context.Context, url string) ([]Row, error) {
	if url == "" {
		return nil, fmt.Errorf("no reference table URL configured")
	}
	if rows, ok := getCached(url); ok {
		return rows, nil
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "biointel-tbref/1.0")
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			switch {
			case resp.StatusCode == http.StatusOK:
				rows, err := parseTable(resp.Body)
				resp.Body.Close()
				if err != nil {
					return nil, err
				}
				setCached(url, rows)
				return rows, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				wait := time.Duration(attempt*500) * time.Millisecond
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					if secs, perr := strconv.Atoi(ra); perr == nil {
						wait = time.Duration(secs) * time.Second
					}
				}
				resp.Body.Close()
				lastErr = fmt.Errorf("reference table fetch returned 429")
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			default:
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				return nil, fmt.Errorf("reference table fetch returned status %d: %s", resp.StatusCode, string(body))
			}
		}
		select {
		case <-time.After(time.Duration(attempt*300) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// parseTable reads the CSV body. The header must carry Gene, Mutation and
// Drug columns (case-insensitive); Effect is optional.
func parseTable(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference table header: %w", err)
	}
	gene, mut, drug, effect := -1, -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "gene":
			gene = i
		case "mutation":
			mut = i
		case "drug":
			drug = i
		case "effect":
			effect = i
		}
	}
	if gene < 0 || mut < 0 || drug < 0 {
		return nil, fmt.Errorf("reference table missing required columns (need Gene, Mutation, Drug); found: %s", strings.Join(header, ", "))
	}
	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference table row: %w", err)
		}
		row := Row{Gene: rec[gene], Mutation: rec[mut], Drug: rec[drug]}
		if effect >= 0 && effect < len(rec) {
			row.Effect = rec[effect]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Filter returns the rows whose gene, mutation, drug or effect contains q,
// case-insensitively. An empty query returns all rows.
func Filter(rows []Row, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Gene), q) ||
			strings.Contains(strings.ToLower(r.Mutation), q) ||
			strings.Contains(strings.ToLower(r.Drug), q) ||
			strings.Contains(strings.ToLower(r.Effect), q) {
			out = append(out, r)
		}
	}
	return out
}
