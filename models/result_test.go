package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestScrapedData_NullableFieldsMarshalAsNull(t *testing.T) {
	data := ScrapedData{
		PageType: PageTypeProduct,
		Core:     CoreEntity{Name: strPtr("Vitamin C")},
	}

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)

	// Unset nullable leaves must appear as explicit null, not vanish.
	for _, want := range []string{`"title":null`, `"brand":null`, `"image":null`, `"canonicalUrl":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s: %s", want, s)
		}
	}
	if !strings.Contains(s, `"name":"Vitamin C"`) {
		t.Errorf("set field lost: %s", s)
	}
}

func TestScrapedData_DetailSectionsOmittedWhenAbsent(t *testing.T) {
	out, err := json.Marshal(ScrapedData{PageType: PageTypeContent})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "productDetails") {
		t.Error("absent productDetails should be omitted entirely")
	}
	if strings.Contains(string(out), "contentDetails") {
		t.Error("absent contentDetails should be omitted entirely")
	}
}

func TestAnalysisResult_Payload(t *testing.T) {
	single := &AnalysisResult{Entity: &ScrapedData{PageType: PageTypeProduct}}
	if _, ok := single.Payload().(*ScrapedData); !ok {
		t.Errorf("single payload = %T, want *ScrapedData", single.Payload())
	}

	multi := &AnalysisResult{Products: []ScrapedData{{PageType: PageTypeProduct}}}
	list, ok := multi.Payload().(ProductList)
	if !ok {
		t.Fatalf("multi payload = %T, want ProductList", multi.Payload())
	}
	if len(list.Products) != 1 {
		t.Errorf("products = %d, want 1", len(list.Products))
	}

	// Empty multi result still serializes as an envelope with an array.
	empty := &AnalysisResult{}
	out, err := json.Marshal(empty.Payload())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"products"`) {
		t.Errorf("empty payload = %s", out)
	}
}
