package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/pagelens/config"
	"github.com/use-agent/pagelens/models"
)

const productHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Vitamin C 500mg - Acme Health</title>
	<meta name="description" content="High potency vitamin C supplement.">
	<link rel="canonical" href="https://example.com/vitamin-c-500">
	<script>window.tracking = true;</script>
</head>
<body>
	<nav>Home | Shop | About</nav>
	<main id="product">
		<h1>Vitamin C 500mg</h1>
		<p>Supports immune health with 500 mg of vitamin C per tablet. Each bottle
		contains 100 tablets of pharmaceutical grade ascorbic acid, tested for purity
		and potency by independent laboratories.</p>
		<table>
			<tr><th>Element</th><th>Amount</th><th>% DV</th></tr>
			<tr><td>Vitamin C</td><td>500 mg</td><td>556%</td></tr>
		</table>
	</main>
	<footer>Copyright Acme</footer>
</body>
</html>`

func testConfig() config.SnapshotConfig {
	return config.SnapshotConfig{
		Enabled:  true,
		Timeout:  5 * time.Second,
		MaxChars: 8000,
	}
}

func TestExtractMeta(t *testing.T) {
	m := extractMeta(productHTML)
	if m.Title != "Vitamin C 500mg - Acme Health" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Description != "High potency vitamin C supplement." {
		t.Errorf("description = %q", m.Description)
	}
	if m.CanonicalURL != "https://example.com/vitamin-c-500" {
		t.Errorf("canonical = %q", m.CanonicalURL)
	}
	if m.Language != "en" {
		t.Errorf("language = %q", m.Language)
	}
}

func TestExtractMeta_MissingFields(t *testing.T) {
	m := extractMeta("<html><body><p>bare page</p></body></html>")
	if m.Title != "" || m.Description != "" || m.CanonicalURL != "" || m.Language != "" {
		t.Errorf("expected empty metadata, got %+v", m)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("under-limit input changed: %q", got)
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Errorf("maxChars<=0 should disable truncation: %q", got)
	}

	long := strings.Repeat("é", 50)
	got := truncate(long, 10)
	if !strings.HasSuffix(got, "…(truncated)") {
		t.Errorf("missing truncation marker: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("é", 10)) {
		t.Errorf("truncation must count runes, not bytes: %q", got)
	}
}

func TestScopeToSelector_Match(t *testing.T) {
	scoped, err := scopeToSelector(productHTML, "#product")
	if err != nil {
		t.Fatalf("scopeToSelector: %v", err)
	}
	if !strings.Contains(scoped, "Vitamin C 500mg") {
		t.Error("scoped HTML lost the product content")
	}
	if strings.Contains(scoped, "Copyright Acme") {
		t.Error("scoped HTML should exclude the footer")
	}
}

func TestScopeToSelector_NoMatchFallsBack(t *testing.T) {
	scoped, err := scopeToSelector(productHTML, "#does-not-exist")
	if err != nil {
		t.Fatalf("scopeToSelector: %v", err)
	}
	if scoped != productHTML {
		t.Error("no match should return the original HTML unchanged")
	}
}

func TestScopeToSelector_InvalidSelector(t *testing.T) {
	if _, err := scopeToSelector(productHTML, "[[["); err == nil {
		t.Error("invalid selector should error")
	}
}

func TestExtractMainContent_ShortContentFallsBack(t *testing.T) {
	raw := "<html><body><p>hi</p></body></html>"
	if got := extractMainContent(raw, "https://example.com"); got != raw {
		t.Error("too-short extraction should fall back to raw HTML")
	}
}

func TestCapture_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(productHTML))
	}))
	defer srv.Close()

	s := New(testConfig())
	out, err := s.Capture(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if !strings.Contains(out, "Title: Vitamin C 500mg - Acme Health") {
		t.Error("metadata hint header missing")
	}
	if !strings.Contains(out, "500 mg") {
		t.Error("table content missing from markdown")
	}
	if strings.Contains(out, "window.tracking") {
		t.Error("script content leaked into the snapshot")
	}
}

func TestCapture_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(testConfig())
	_, err := s.Capture(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for HTTP 403")
	}
	if ae := models.AsAnalysisError(err); ae.Code != models.ErrCodeSnapshotFailed {
		t.Errorf("code = %s, want SNAPSHOT_FAILED", ae.Code)
	}
}

func TestCapture_TruncatesToBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><article><h1>Long page</h1><p>" +
			strings.Repeat("Lots of product copy here. ", 500) +
			"</p></article></body></html>"))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxChars = 300
	s := New(cfg)
	out, err := s.Capture(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !strings.HasSuffix(out, "…(truncated)") {
		t.Error("over-budget snapshot should carry the truncation marker")
	}
	if len([]rune(out)) > 320 {
		t.Errorf("snapshot exceeds budget: %d runes", len([]rune(out)))
	}
}
