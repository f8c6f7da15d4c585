package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"

	"github.com/use-agent/pagelens/config"
	"github.com/use-agent/pagelens/models"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to raw HTML.
const minContentLength = 50

// Snapshotter fetches the target page and distills it into markdown context
// for the model prompt. Everything here is best-effort: analyses proceed
// without context when any stage fails, because grounding search covers the
// gap.
//
// The converter is created once and reused across all requests
// (goroutine-safe).
type Snapshotter struct {
	fetcher     *fetcher
	mdConverter *converter.Converter
	cfg         config.SnapshotConfig
}

// New initialises a Snapshotter with a pre-configured Markdown converter.
func New(cfg config.SnapshotConfig) *Snapshotter {
	return &Snapshotter{
		fetcher:     newFetcher(cfg.Proxy),
		mdConverter: newMarkdownConverter(),
		cfg:         cfg,
	}
}

// newMarkdownConverter builds a reusable Converter configured for
// LLM-oriented output:
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea, HTML comments.
//   - commonmark plugin: standard Markdown rendering.
//   - table plugin: preserves table structure (critical for supplement facts
//     tables) with minimal cell padding to save tokens.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// Capture fetches the page and returns markdown context for the prompt:
// a short metadata header (title, meta description, canonical URL,
// language) followed by the readability-extracted main content, truncated
// to the configured character budget.
func (s *Snapshotter) Capture(ctx context.Context, targetURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	body, err := s.fetcher.fetch(ctx, targetURL)
	if err != nil {
		return "", models.NewAnalysisError(models.ErrCodeSnapshotFailed, "failed to fetch page", err)
	}
	rawHTML := string(body)

	meta := extractMeta(rawHTML)

	if s.cfg.Selector != "" {
		scoped, err := scopeToSelector(rawHTML, s.cfg.Selector)
		if err != nil {
			slog.Warn("snapshot: invalid selector, using full page",
				"selector", s.cfg.Selector, "error", err)
		} else {
			rawHTML = scoped
		}
	}

	content := extractMainContent(rawHTML, targetURL)

	domain := ""
	if parsed, err := nurl.Parse(targetURL); err == nil {
		domain = parsed.Scheme + "://" + parsed.Host
	}
	markdown, err := s.mdConverter.ConvertString(content, converter.WithDomain(domain))
	if err != nil {
		return "", models.NewAnalysisError(models.ErrCodeSnapshotFailed, "failed to convert page to markdown", err)
	}

	var b strings.Builder
	writeHint := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeHint("Title", meta.Title)
	writeHint("Meta description", meta.Description)
	writeHint("Canonical URL", meta.CanonicalURL)
	writeHint("Language", meta.Language)
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(markdown))

	return truncate(b.String(), s.cfg.MaxChars), nil
}

// extractMainContent runs the Mozilla Readability algorithm on rawHTML.
//
// Fallback behaviour (a snapshot must never fail just because readability
// choked):
//   - if URL parsing fails           → raw HTML
//   - if readability.FromReader errs → raw HTML
//   - if extracted text is too short → raw HTML
func extractMainContent(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return rawHTML
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("snapshot: readability extraction failed, using raw HTML",
			"url", sourceURL, "error", err)
		return rawHTML
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("snapshot: extracted content too short, using raw HTML",
			"url", sourceURL, "length", len(article.TextContent))
		return rawHTML
	}

	return article.Content
}

// truncate caps s at maxChars runes, appending a marker when cut.
func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "\n…(truncated)"
}
