package snapshot

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageMeta holds the head-level metadata scraped from the raw HTML. These
// are offered to the model as hints; the model's own values win when they
// disagree (the page may lie, redirect, or localize).
type pageMeta struct {
	Title        string
	Description  string
	CanonicalURL string
	Language     string
}

// extractMeta scrapes <title>, meta description, canonical link, and the
// html lang attribute. Parse failures return empty metadata; hints only.
func extractMeta(rawHTML string) pageMeta {
	var m pageMeta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return m
	}

	m.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		m.Description = strings.TrimSpace(desc)
	}
	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		m.CanonicalURL = strings.TrimSpace(canonical)
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		m.Language = strings.TrimSpace(lang)
	}

	return m
}
