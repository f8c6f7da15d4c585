package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/schema"
)

var fenceOpenRe = regexp.MustCompile("```json\\s*")

// ExtractJSON recovers the JSON object payload from a raw model reply.
//
// The model is instructed to emit pure JSON and the response format is
// schema-bound, but replies still occasionally arrive wrapped in Markdown
// fences or framed by commentary. Recovery is deliberately lenient:
//
//  1. empty/whitespace-only input → EMPTY_RESPONSE
//  2. strip ```json and bare ``` fence markers anywhere in the text
//  3. slice from the first '{' to the last '}' (tolerates leading/trailing
//     prose); either brace missing → MALFORMED_PAYLOAD
//  4. reject payloads that do not parse as JSON → MALFORMED_PAYLOAD with
//     the parser's diagnostic
//
// The function is pure and idempotent: already-clean JSON passes through
// unchanged.
func ExtractJSON(raw string) ([]byte, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, models.NewAnalysisError(models.ErrCodeEmptyResponse,
			"model reply was empty", nil)
	}

	cleaned := fenceOpenRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first == -1 || last == -1 || last < first {
		return nil, models.NewAnalysisError(models.ErrCodeMalformedPayload,
			"no JSON object found in model reply", nil)
	}

	payload := []byte(cleaned[first : last+1])

	var probe any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeMalformedPayload,
			"model reply is not valid JSON", err)
	}

	return payload, nil
}

// Normalizer turns raw model replies into validated result records. The
// validator is compiled once from the local JSON-Schema projection and
// never depends on the remote service having enforced the wire schema.
type Normalizer struct {
	mode      string
	validator *jsonschema.Schema
}

// NewNormalizer builds a Normalizer for the given extraction cardinality.
func NewNormalizer(mode string) (*Normalizer, error) {
	validator, err := schema.Build(mode).Compile()
	if err != nil {
		return nil, err
	}
	return &Normalizer{mode: mode, validator: validator}, nil
}

// Normalize recovers, validates, and decodes a raw model reply.
// A structurally invalid record (missing required top-level fields, wrong
// types, unknown enum values) fails with SCHEMA_VIOLATION rather than
// reaching consumers.
func (n *Normalizer) Normalize(raw string) (*models.AnalysisResult, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var doc any
	// ExtractJSON already guaranteed the payload parses.
	_ = json.Unmarshal(payload, &doc)

	if err := n.validator.Validate(doc); err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeSchemaViolation,
			"model reply does not match the extraction schema", err)
	}

	if n.mode == schema.ModeMulti {
		var list models.ProductList
		if err := json.Unmarshal(payload, &list); err != nil {
			return nil, models.NewAnalysisError(models.ErrCodeMalformedPayload,
				"failed to decode products payload", err)
		}
		return &models.AnalysisResult{Products: list.Products}, nil
	}

	var entity models.ScrapedData
	if err := json.Unmarshal(payload, &entity); err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeMalformedPayload,
			"failed to decode analysis payload", err)
	}
	return &models.AnalysisResult{Entity: &entity}, nil
}
