// Package analyzer orchestrates the analysis pipeline: fetch, scan, parse,
// group, synthesize.
package analyzer

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"repolens/internal/config"
	"repolens/internal/errors"
	"repolens/internal/gitrepo"
	"repolens/internal/graph"
	"repolens/internal/insights"
	"repolens/internal/logging"
	"repolens/internal/parser"
	"repolens/internal/paths"
	"repolens/internal/scanner"
	"repolens/internal/store"
)

// Stage is one phase of the pipeline. Stages are strictly ordered; no
// skipping, no re-entry.
type Stage string

const (
	StageCloning    Stage = "cloning"
	StageParsing    Stage = "parsing"
	StageAnalyzing  Stage = "analyzing"
	StageGenerating Stage = "generating"
	StageComplete   Stage = "complete"
)

// Progress is one progress event.
type Progress struct {
	Stage       Stage  `json:"stage"`
	Percent     int    `json:"percent"`
	Message     string `json:"message"`
	CurrentFile string `json:"currentFile,omitempty"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)

// Stage boundaries on the 0-100 progress scale.
const (
	pctCloningStart    = 0
	pctParsingStart    = 20
	pctAnalyzingStart  = 45
	pctGeneratingStart = 70
	pctGeneratingEnd   = 95
)

// Service runs complete analyses. The store is optional; when present,
// results are cached by repository identifier.
type Service struct {
	cfg       *config.Config
	fetcher   *gitrepo.Fetcher
	store     store.Store
	detectors []graph.PatternDetector
	logger    *logging.Logger
}

// NewService creates a Service.
func NewService(cfg *config.Config, fetcher *gitrepo.Fetcher, st store.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		store:     st,
		detectors: graph.DefaultDetectors(),
		logger:    logger,
	}
}

// SetDetectors replaces the pattern detector strategies. An empty slice
// disables pattern tagging.
func (s *Service) SetDetectors(detectors []graph.PatternDetector) {
	s.detectors = detectors
}

// Analyze runs the full pipeline for a repository identifier (clone URL or
// local path) and returns the assembled analysis. Per-file failures are
// logged and skipped; fetch and aggregation failures abort the run.
func (s *Service) Analyze(ctx context.Context, identifier string, onProgress ProgressFunc) (*insights.RepositoryAnalysis, error) {
	emit := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	if s.store != nil {
		if cached, ok, err := s.store.Get(ctx, identifier); err != nil {
			s.logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		} else if ok {
			s.logger.Info("returning cached analysis", map[string]interface{}{"repository": identifier})
			emit(Progress{Stage: StageComplete, Percent: 100, Message: "analysis loaded from cache"})
			return cached, nil
		}
	}

	emit(Progress{Stage: StageCloning, Percent: pctCloningStart, Message: "fetching repository"})

	checkout, err := s.fetcher.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	defer checkout.Cleanup()

	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.InternalError, "analysis canceled", err)
	}

	emit(Progress{Stage: StageParsing, Percent: pctParsingStart, Message: "scanning source files"})

	sc := scanner.New(scanner.Options{
		Extensions:       s.cfg.Scan.Extensions,
		Ignore:           s.cfg.Scan.Ignore,
		MaxFileSizeBytes: s.cfg.Scan.MaxFileSizeBytes,
	}, s.logger)

	candidates, err := sc.Scan(checkout.Root)
	if err != nil {
		return nil, errors.New(errors.InternalError, "scan failed", err)
	}

	files, err := s.parseAll(ctx, checkout.Root, candidates, emit)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.InternalError, "analysis canceled", err)
	}

	emit(Progress{Stage: StageAnalyzing, Percent: pctAnalyzingStart, Message: "collecting change history"})
	s.applyHistory(ctx, checkout.Root, files)

	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.InternalError, "analysis canceled", err)
	}

	emit(Progress{Stage: StageGenerating, Percent: pctGeneratingStart, Message: "building component graph"})

	arch := graph.NewBuilder(s.detectors).Build(files)

	metrics, ins, err := insights.Synthesize(files, arch, insights.Options{
		DebtThreshold:         s.cfg.Complexity.DebtThreshold,
		CoreFunctionThreshold: s.cfg.Complexity.CoreFunctionThreshold,
	})
	if err != nil {
		return nil, err
	}

	emit(Progress{Stage: StageGenerating, Percent: pctGeneratingEnd, Message: "assembling result"})

	analysis := &insights.RepositoryAnalysis{
		ID:           uuid.NewString(),
		Repository:   identifier,
		Files:        files,
		Architecture: *arch,
		Metrics:      metrics,
		Insights:     ins,
		CreatedAt:    time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Put(ctx, identifier, analysis); err != nil {
			// Caching is best-effort; a failed put never fails the run.
			s.logger.Warn("failed to cache analysis", map[string]interface{}{"error": err.Error()})
		}
	}

	emit(Progress{Stage: StageComplete, Percent: 100, Message: "analysis complete"})

	return analysis, nil
}

// parseAll extracts file records with a bounded worker pool. Results are
// collected under a mutex and sorted by path afterwards so the output is
// independent of completion order. Per-file read or parse failures are
// warnings, never run failures.
func (s *Service) parseAll(ctx context.Context, root string, candidates []string, emit ProgressFunc) ([]parser.FileRecord, error) {
	files := []parser.FileRecord{}
	if len(candidates) == 0 {
		return files, nil
	}

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, absPath := range candidates {
		absPath := absPath
		g.Go(func() error {
			// Tree-sitter parsers are not safe for concurrent use, so each
			// worker invocation gets its own extractor.
			extractor := parser.NewExtractor()

			canonical, err := paths.Canonicalize(absPath, root)
			if err != nil {
				s.logger.Warn("cannot canonicalize path, file skipped", map[string]interface{}{
					"path":  absPath,
					"error": err.Error(),
				})
				return nil
			}

			rec, err := extractor.ExtractFile(gctx, absPath, canonical)

			mu.Lock()
			defer mu.Unlock()
			completed++
			percent := pctParsingStart + completed*(pctAnalyzingStart-pctParsingStart)/len(candidates)

			if err != nil {
				s.logger.Warn("file skipped", map[string]interface{}{
					"path":  canonical,
					"code":  string(errors.CodeOf(err)),
					"error": err.Error(),
				})
				return nil
			}

			files = append(files, *rec)
			emit(Progress{Stage: StageParsing, Percent: percent, Message: "parsing source files", CurrentFile: canonical})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.New(errors.InternalError, "file analysis interrupted", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// applyHistory patches commit counts onto the file records. Missing or
// broken history degrades to zero counts; hotspot detection simply stays
// empty.
func (s *Service) applyHistory(ctx context.Context, root string, files []parser.FileRecord) {
	if !s.cfg.History.Enabled {
		return
	}

	counts, err := gitrepo.History(ctx, root, s.cfg.History.MaxCommits)
	if err != nil {
		s.logger.Warn("commit history unavailable", map[string]interface{}{"error": err.Error()})
		return
	}

	for i := range files {
		files[i].CommitCount = counts[files[i].Path]
	}
}
