package analyzer

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/use-agent/pagelens/models"
)

// Generator is the external model boundary the analyzer depends on.
// Implementations issue exactly one generation call per invocation.
type Generator interface {
	Generate(ctx context.Context, req *Request, out *genai.Schema) (string, error)
}

// Client is the Gemini-backed Generator. Each call runs with the Google
// Search grounding tool enabled and strict JSON output bound to the
// provided response schema. There is no internal retry and no timeout
// beyond what the caller's context imposes.
type Client struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// NewClient creates a Gemini extraction client. An empty apiKey is allowed
// here: the credential is a per-call precondition, checked in Generate, so
// the process can start (with a warning) before the key is provisioned.
func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model}
}

// Model reports the configured model name.
func (c *Client) Model() string {
	return c.model
}

// CredentialConfigured reports whether an API key is present, without
// exposing it.
func (c *Client) CredentialConfigured() bool {
	return c.apiKey != ""
}

// ensureClient lazily constructs the underlying SDK client on first use.
func (c *Client) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c.client = cl
	return cl, nil
}

// Generate issues one synchronous generation call and returns the raw text
// reply. A missing credential fails fast before any network I/O; a failed
// call or an empty reply surfaces as EXTRACTION_FAILED.
func (c *Client) Generate(ctx context.Context, req *Request, out *genai.Schema) (string, error) {
	if c.apiKey == "" {
		return "", models.NewAnalysisError(models.ErrCodeMissingCredential,
			"GEMINI_API_KEY is not configured", nil)
	}

	cl, err := c.ensureClient(ctx)
	if err != nil {
		return "", models.NewAnalysisError(models.ErrCodeExtractionFailed,
			"failed to initialise model client", err)
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		switch v := p.(type) {
		case TextPart:
			parts = append(parts, &genai.Part{Text: v.Text})
		case FilePart:
			parts = append(parts, &genai.Part{
				FileData: &genai.FileData{
					FileURI:  v.URI,
					MIMEType: v.MIMEType,
				},
			})
		}
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		},
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   out,
	}

	resp, err := cl.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", models.NewAnalysisError(models.ErrCodeExtractionFailed,
			"model call failed", err)
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}

	if text.Len() == 0 {
		return "", models.NewAnalysisError(models.ErrCodeExtractionFailed,
			"model returned no text", nil)
	}
	return text.String(), nil
}
