package analyzer

import (
	"strings"
	"testing"

	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/schema"
)

func TestBuildRequest_EmptyURL(t *testing.T) {
	for _, url := range []string{"", "   "} {
		_, err := BuildRequest(url, "", "", schema.ModeSingle)
		if code := errCode(t, err); code != models.ErrCodeInvalidInput {
			t.Errorf("url %q: expected INVALID_INPUT, got %s", url, code)
		}
	}
}

func TestBuildRequest_URLOnly(t *testing.T) {
	req, err := BuildRequest("https://example.com/p/1", "", "", schema.ModeSingle)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.SystemInstruction == "" {
		t.Error("system instruction missing")
	}
	if len(req.Parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(req.Parts))
	}
	text, ok := req.Parts[0].(TextPart)
	if !ok {
		t.Fatalf("first part is %T, want TextPart", req.Parts[0])
	}
	if !strings.Contains(text.Text, "https://example.com/p/1") {
		t.Error("task prompt does not mention the target URL")
	}
}

func TestBuildRequest_WithPageContext(t *testing.T) {
	req, err := BuildRequest("https://example.com", "", "# Product\n\nVitamin C", schema.ModeSingle)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if len(req.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(req.Parts))
	}
	ctxPart, ok := req.Parts[1].(TextPart)
	if !ok {
		t.Fatalf("second part is %T, want TextPart", req.Parts[1])
	}
	if !strings.Contains(ctxPart.Text, "Vitamin C") {
		t.Error("page context not included")
	}
}

func TestBuildRequest_WithImage(t *testing.T) {
	req, err := BuildRequest("https://example.com", "https://cdn.example.com/label.png", "", schema.ModeSingle)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if len(req.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(req.Parts))
	}
	file, ok := req.Parts[1].(FilePart)
	if !ok {
		t.Fatalf("last part is %T, want FilePart", req.Parts[1])
	}
	if file.URI != "https://cdn.example.com/label.png" {
		t.Errorf("file URI = %q", file.URI)
	}
	if file.MIMEType != "image/png" {
		t.Errorf("MIME = %q, want image/png", file.MIMEType)
	}
}

func TestBuildRequest_MultiModePrompt(t *testing.T) {
	req, err := BuildRequest("https://example.com/catalog", "", "", schema.ModeMulti)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	text := req.Parts[0].(TextPart).Text
	if !strings.Contains(text, "EVERY distinct product") {
		t.Error("multi mode prompt should ask for every distinct product")
	}
}

func TestInferMIMEType(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x.com/a.png", "image/png"},
		{"https://x.com/a.PNG", "image/png"},
		{"https://x.com/a.webp", "image/webp"},
		{"https://x.com/a.jpg", "image/jpeg"},
		{"https://x.com/a.jpeg", "image/jpeg"},
		{"https://x.com/a", "image/jpeg"},
	}
	for _, tt := range tests {
		if got := inferMIMEType(tt.url); got != tt.want {
			t.Errorf("inferMIMEType(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
