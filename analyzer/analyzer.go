package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/use-agent/pagelens/cache"
	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/schema"
)

// Snapshotter provides optional pre-fetched page content used to ground
// the prompt. A failed capture is advisory, never fatal.
type Snapshotter interface {
	Capture(ctx context.Context, url string) (string, error)
}

// Analyzer runs the full extraction pipeline: input validation → optional
// page snapshot → request construction → one model call → normalization.
// All-or-nothing: any failure yields no result at all.
type Analyzer struct {
	gen  Generator
	norm *Normalizer
	out  *genai.Schema
	mode string

	snap  Snapshotter
	cache *cache.Cache
}

// New creates an Analyzer for the given extraction cardinality
// (schema.ModeSingle or schema.ModeMulti).
func New(gen Generator, mode string) (*Analyzer, error) {
	norm, err := NewNormalizer(mode)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		gen:  gen,
		norm: norm,
		out:  schema.Build(mode).GenAI(),
		mode: mode,
	}, nil
}

// SetSnapshotter enables the page-context pre-fetch.
func (a *Analyzer) SetSnapshotter(s Snapshotter) {
	a.snap = s
}

// SetCache enables result caching.
func (a *Analyzer) SetCache(c *cache.Cache) {
	a.cache = c
}

// Mode reports the configured extraction cardinality.
func (a *Analyzer) Mode() string {
	return a.mode
}

// Analyze runs one extraction for the target URL. cached reports whether
// the result was served from the cache without a model call.
func (a *Analyzer) Analyze(ctx context.Context, url, imageURL string) (res *models.AnalysisResult, cached bool, err error) {
	if strings.TrimSpace(url) == "" {
		return nil, false, models.NewAnalysisError(models.ErrCodeInvalidInput, "url is required", nil)
	}

	reqID := uuid.New().String()
	start := time.Now()

	var key string
	if a.cache != nil {
		key = cache.Key(url, imageURL, a.mode)
		if hit, ok := a.cache.Get(key); ok {
			slog.Info("analysis served from cache", "req_id", reqID, "url", url)
			return hit, true, nil
		}
	}

	pageContext := ""
	if a.snap != nil {
		snapStart := time.Now()
		pageContext, err = a.snap.Capture(ctx, url)
		if err != nil {
			// Grounding search covers whatever the snapshot could not fetch.
			slog.Warn("page snapshot failed, continuing without page context",
				"req_id", reqID, "url", url, "error", err)
			pageContext = ""
		} else {
			slog.Debug("page snapshot captured",
				"req_id", reqID, "url", url,
				"chars", len(pageContext),
				"snapshot_ms", time.Since(snapStart).Milliseconds(),
			)
		}
	}

	req, err := BuildRequest(url, imageURL, pageContext, a.mode)
	if err != nil {
		return nil, false, err
	}

	raw, err := a.gen.Generate(ctx, req, a.out)
	if err != nil {
		slog.Error("model call failed",
			"req_id", reqID, "url", url, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false, err
	}

	result, err := a.norm.Normalize(raw)
	if err != nil {
		slog.Error("normalization failed",
			"req_id", reqID, "url", url, "error", err,
			"raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false, err
	}

	if a.cache != nil {
		a.cache.Set(key, result)
	}

	slog.Info("analysis complete",
		"req_id", reqID, "url", url,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, false, nil
}
