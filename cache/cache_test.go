package cache

import (
	"testing"
	"time"

	"github.com/use-agent/pagelens/models"
)

func dummyResult() *models.AnalysisResult {
	return &models.AnalysisResult{Entity: &models.ScrapedData{PageType: models.PageTypeProduct}}
}

func TestKey_DeterministicAndDistinct(t *testing.T) {
	a := Key("https://example.com", "", "single")
	b := Key("https://example.com", "", "single")
	if a != b {
		t.Error("same inputs should produce the same key")
	}
	if Key("https://example.com", "", "multi") == a {
		t.Error("mode must be part of the key")
	}
	if Key("https://example.com", "https://img", "single") == a {
		t.Error("image URL must be part of the key")
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Hour)
	key := Key("https://example.com", "", "single")

	if _, ok := c.Get(key); ok {
		t.Error("unexpected hit on empty cache")
	}

	c.Set(key, dummyResult())
	res, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if res.Entity == nil || res.Entity.PageType != models.PageTypeProduct {
		t.Errorf("cached result corrupted: %+v", res)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	key := Key("https://example.com", "", "single")
	c.Set(key, dummyResult())

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := New(1, time.Hour)
	k1 := Key("https://example.com/1", "", "single")
	k2 := Key("https://example.com/2", "", "single")

	c.Set(k1, dummyResult())
	c.Set(k2, dummyResult())

	if _, ok := c.Get(k1); ok {
		t.Error("oldest entry should have been evicted at capacity")
	}
	if _, ok := c.Get(k2); !ok {
		t.Error("newest entry should be present")
	}
}
