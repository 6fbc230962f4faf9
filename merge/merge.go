// Package merge drives the end-to-end localization pipeline: diff a set
// of extracted keys against each locale store, translate the missing keys
// through the provider manager, validate the output per locale, and write
// the new entries back.
//
// Per-file processing follows a fixed progression: diff, then translate
// (skipped when nothing is missing), then write. Per-key and per-file
// failures degrade to a safe fallback value instead of aborting the run,
// so a partially unavailable backend still makes forward progress.
package merge

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/getx-tools/trkit/dartfile"
	"github.com/getx-tools/trkit/langmeta"
	"github.com/getx-tools/trkit/translate"
)

// ErrNoLocaleFiles is returned when an invocation has no locale stores to
// process.
var ErrNoLocaleFiles = errors.New("no locale files to process")

// Decision is the caller's choice after every provider has failed.
type Decision int

const (
	// DecisionFallback commits the remaining keys with their English
	// fallback (or the key itself) as the value.
	DecisionFallback Decision = iota
	// DecisionRetry attempts the translation once more before falling
	// back; useful after the user reconfigured a provider.
	DecisionRetry
)

// Report summarizes one pipeline invocation.
type Report struct {
	// KeysAdded is the total number of entries written across all files.
	KeysAdded int
	// FilesTouched is the number of files that received new entries.
	FilesTouched int
	// FilesErrored is the number of files skipped due to parse or write
	// failures.
	FilesErrored int
}

// Session owns the state of a pipeline invocation: the provider manager,
// the translation cache, and the English fallback table. Construct one
// per run (or reuse across runs to keep the cache warm); the zero values
// of the tuning fields select sensible defaults.
type Session struct {
	// Manager dispatches translation requests and handles failover.
	Manager *translate.Manager
	// Cache memoizes (source text, locale) results. Created on first use
	// when nil.
	Cache *translate.Cache
	// Validator checks translated output against per-locale script rules.
	Validator *langmeta.Validator
	// BaseLocale is the authoritative source language (default "en").
	BaseLocale string
	// BatchSize is the number of keys translated per batch (default 2).
	BatchSize int
	// BatchDelay is the pause between batches, respecting backend rate
	// limits (default 1s).
	BatchDelay time.Duration
	// Parallel processes non-base locale files concurrently.
	Parallel bool
	// MaxConcurrent caps concurrency in parallel mode (default 3).
	MaxConcurrent int
	// DryRun computes and reports without writing any file.
	DryRun bool

	// OnExhausted is consulted when the manager has run out of providers
	// mid-file. Nil means DecisionFallback.
	OnExhausted func(locale string, cause error) Decision
	// OnLog and OnError receive progress and failure messages.
	OnLog   func(format string, args ...any)
	OnError func(format string, args ...any)

	mu       sync.Mutex
	fallback map[string]string // key → base-language value
	limiter  *rate.Limiter
}

func (s *Session) log(format string, args ...any) {
	if s.OnLog != nil {
		s.OnLog(format, args...)
	}
}

func (s *Session) logError(format string, args ...any) {
	if s.OnError != nil {
		s.OnError(format, args...)
	} else if s.OnLog != nil {
		s.OnLog(format, args...)
	}
}

func (s *Session) batchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return 2
}

func (s *Session) batchDelay() time.Duration {
	if s.BatchDelay > 0 {
		return s.BatchDelay
	}
	return time.Second
}

func (s *Session) maxConcurrent() int {
	if s.MaxConcurrent > 0 {
		return s.MaxConcurrent
	}
	return 3
}

func (s *Session) baseLang() string {
	if s.BaseLocale != "" {
		if loc, ok := langmeta.Parse(s.BaseLocale); ok {
			return loc.Lang
		}
	}
	return langmeta.BaseLanguage
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Run merges keys into every locale store in paths. The base-locale file,
// when present, is processed first with translation disabled — its values
// are the keys themselves — and its table seeds the English fallback used
// for every other locale. Per-file failures are counted, not fatal.
func (s *Session) Run(ctx context.Context, keys []string, paths []string) (Report, error) {
	if len(paths) == 0 {
		return Report{}, ErrNoLocaleFiles
	}

	if s.Cache == nil {
		s.Cache = translate.NewCache()
	}
	if s.Validator == nil {
		s.Validator = &langmeta.Validator{}
	}
	s.mu.Lock()
	if s.fallback == nil {
		s.fallback = make(map[string]string)
	}
	s.mu.Unlock()
	s.limiter = rate.NewLimiter(rate.Every(s.batchDelay()), 1)

	var base, rest []string
	for _, path := range paths {
		if loc, ok := langmeta.FromFileName(path); ok && loc.Lang == s.baseLang() {
			base = append(base, path)
		} else {
			rest = append(rest, path)
		}
	}

	var report Report

	for _, path := range base {
		added, err := s.processBase(path, keys)
		report.apply(added, err, s, path)
	}

	if s.Parallel {
		results := make([]fileResult, len(rest))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.maxConcurrent())
		for i, path := range rest {
			i, path := i, path
			g.Go(func() error {
				added, err := s.processLocale(gctx, path, keys)
				results[i] = fileResult{added: added, err: err}
				return nil
			})
		}
		_ = g.Wait()
		for i, path := range rest {
			report.apply(results[i].added, results[i].err, s, path)
		}
	} else {
		for _, path := range rest {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			added, err := s.processLocale(ctx, path, keys)
			report.apply(added, err, s, path)
		}
	}

	return report, nil
}

type fileResult struct {
	added int
	err   error
}

// apply folds one file's outcome into the report.
func (r *Report) apply(added int, err error, s *Session, path string) {
	if err != nil {
		s.logError("%s: %v", path, err)
		r.FilesErrored++
		return
	}
	if added > 0 {
		r.KeysAdded += added
		r.FilesTouched++
	}
}

// ---------------------------------------------------------------------------
// Base locale
// ---------------------------------------------------------------------------

// processBase merges missing keys into the base-locale store with the key
// as the value, and captures the store's full table as the fallback source
// for the other locales.
func (s *Session) processBase(path string, keys []string) (int, error) {
	f, err := dartfile.ParseFile(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	for _, p := range f.Pairs() {
		s.fallback[p.Key] = p.Value
	}
	s.mu.Unlock()

	missing := f.Missing(keys)
	if len(missing) == 0 {
		return 0, nil
	}

	pairs := make([]dartfile.Pair, len(missing))
	for i, key := range missing {
		pairs[i] = dartfile.Pair{Key: key, Value: key}
	}

	s.mu.Lock()
	for _, p := range pairs {
		s.fallback[p.Key] = p.Value
	}
	s.mu.Unlock()

	if s.DryRun {
		return len(pairs), nil
	}
	if err := f.AppendToFile(pairs); err != nil {
		return 0, err
	}
	s.log("%s: added %d key(s)", path, len(pairs))
	return len(pairs), nil
}

// ---------------------------------------------------------------------------
// Non-base locales
// ---------------------------------------------------------------------------

// processLocale merges missing keys into one locale store, translating
// each key in fixed-size batches with a pause between batches.
func (s *Session) processLocale(ctx context.Context, path string, keys []string) (int, error) {
	f, err := dartfile.ParseFile(path)
	if err != nil {
		return 0, err
	}

	missing := f.Missing(keys)
	if len(missing) == 0 {
		return 0, nil
	}

	loc, _ := langmeta.FromFileName(path)
	langName := langmeta.EnglishName(loc.Code)

	pairs := make([]dartfile.Pair, 0, len(missing))
	exhausted := false

	size := s.batchSize()
	for start := 0; start < len(missing); start += size {
		end := min(start+size, len(missing))

		if !exhausted {
			if err := s.limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}

		for _, key := range missing[start:end] {
			if exhausted {
				pairs = append(pairs, dartfile.Pair{Key: key, Value: s.fallbackValue(key)})
				continue
			}

			value, err := s.translateKey(ctx, key, loc, langName)
			if err != nil {
				if s.OnExhausted != nil && s.OnExhausted(loc.Code, err) == DecisionRetry {
					if retried, rerr := s.translateKey(ctx, key, loc, langName); rerr == nil {
						pairs = append(pairs, dartfile.Pair{Key: key, Value: retried})
						continue
					}
				}
				// Commit the rest with fallback values.
				exhausted = true
				s.logError("%s: %v — falling back to source values", loc.Code, err)
				pairs = append(pairs, dartfile.Pair{Key: key, Value: s.fallbackValue(key)})
				continue
			}
			pairs = append(pairs, dartfile.Pair{Key: key, Value: value})
		}
	}

	if s.DryRun {
		return len(pairs), nil
	}
	if err := f.AppendToFile(pairs); err != nil {
		return 0, err
	}
	s.log("%s: added %d key(s)", path, len(pairs))
	return len(pairs), nil
}

// translateKey translates one key for a locale, consulting the cache
// first and validating the result's script. Invalid or failed per-key
// results degrade to the fallback value; the returned error is non-nil
// only when the provider manager itself has given up (exhaustion), which
// the caller escalates.
func (s *Session) translateKey(ctx context.Context, key string, loc langmeta.Locale, langName string) (string, error) {
	source := s.fallbackValue(key)

	if cached, ok := s.Cache.Get(source, loc.Code); ok {
		return cached, nil
	}

	out, err := s.Manager.Translate(ctx, source, langName)
	if err != nil {
		if errors.Is(err, translate.ErrAllProvidersFailed) || errors.Is(err, translate.ErrNoProviderConfigured) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Isolated per-key failure: fall back, keep going.
		s.logError("%s %q: %v", loc.Code, key, err)
		return source, nil
	}

	if !s.Validator.Valid(loc.Code, out) {
		s.logError("%s %q: translation %q failed script validation", loc.Code, key, out)
		return source, nil
	}

	s.Cache.Put(source, loc.Code, out)
	return out, nil
}

// fallbackValue returns the base-language value recorded for key, or the
// key itself when the base store never held it.
func (s *Session) fallbackValue(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.fallback[key]; ok && v != "" {
		return v
	}
	return key
}
