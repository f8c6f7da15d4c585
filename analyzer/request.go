package analyzer

import (
	"fmt"
	"strings"

	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/schema"
)

// Part is one element of the multimodal request content.
type Part interface{ isPart() }

// TextPart is a plain prompt segment.
type TextPart struct {
	Text string
}

// FilePart references an externally hosted file by URI; the model fetches
// it itself.
type FilePart struct {
	URI      string
	MIMEType string
}

func (TextPart) isPart() {}
func (FilePart) isPart() {}

// Request is a fully-constructed model request: the fixed system
// instruction plus ordered content parts. Construction is pure, no I/O.
type Request struct {
	SystemInstruction string
	Parts             []Part
}

// systemInstruction enumerates the extraction rules the schema cannot
// express structurally. The numeric-amount rule (2, 3, 11) is the load-
// bearing one: it is what keeps nutritionalInformation and ingredients
// disjoint, and the normalizer cannot re-verify it downstream.
const systemInstruction = `You are an expert Data Extraction AI.
Your goal is to extract structured information from web pages, with a high focus on "Supplement Facts" and "Nutritional Information" labels.

CRITICAL RULES:
1. PRICE: Extract the EXACT numeric price into 'amount' and the currency symbol or code (e.g., "$", "INR", "USD") into 'currency'. Look for discounted prices.
2. NUTRIENTS: Extract ALL items from ANY tables or lists that have numeric weights, amounts, or calories (e.g., "73.6 Kcal", "500 mg", "10 g", "0.40 g"). If an item has a numeric value associated with it, it MUST go into 'nutritionalInformation', NOT 'ingredients'.
3. MANDATORY FIELDS: Every entry in 'nutritionalInformation' MUST have both 'element' and 'amount'. If an amount is missing, move the item to 'ingredients'.
4. CONCISENESS: The 'element' name must be just the substance name (e.g., "DHA"). DO NOT include descriptions, parenthetical details, source notes, or headers like "Amount Per Serving".
5. TABLE SOURCES: Treat 'Approx Value', 'Supplement Facts', 'Nutritional Information', and 'Composition' as sources for nutritionalInformation.
6. SEARCH FOR IMAGES: Use your search tool to specifically look for the direct URL of the "Supplement Facts" or "Nutritional Information" label image for this specific product.
7. DATA FROM SEARCH: Use search to find any nutritional data or ingredient lists that are missing or hard to read on the provided page (especially if they are in images).
8. ZERO SUMMARIZATION: Every single row in a table or list must be its own object in the array. Do not group multiple nutrients into one string.
9. NO MARKETING: Ignore marketing counts (e.g., "16 science-driven ingredients") in the nutritionalInformation section.
10. SUB-ITEMS & BLENDS: Include ALL items, including indented sub-items and members of a "Proprietary Formulation" or blend, especially if they have weights/amounts.
11. INGREDIENTS: Use the 'ingredients' field ONLY for items that DO NOT have an associated weight, amount, or numeric value. Format as a comma-separated list.
12. VALIDATION: Output ONLY pure JSON matching the provided schema.`

// BuildRequest assembles the model request for the given target.
//
// pageContext, when non-empty, is pre-fetched page content (markdown)
// included as grounding material; the model is still instructed to use its
// search tool for anything the context is missing. imageURL, when present,
// is attached as a file reference with the MIME type inferred from the URL
// extension (a default fallback, never content-sniffed).
func BuildRequest(url, imageURL, pageContext, mode string) (*Request, error) {
	if strings.TrimSpace(url) == "" {
		return nil, models.NewAnalysisError(models.ErrCodeInvalidInput, "url is required", nil)
	}

	var b strings.Builder
	if mode == schema.ModeMulti {
		fmt.Fprintf(&b, "Analyze the page at this URL and extract EVERY distinct product it presents: %s.\n\n", url)
	} else {
		fmt.Fprintf(&b, "Analyze the product at this URL: %s.\n\n", url)
	}
	b.WriteString(`1. GROUNDING: Use search to find the product's official nutritional information and ingredients if the provided URL is missing information or presents it only in images.
2. IMAGE ADDRESS: Specifically look for the direct image address (URL) of the Supplement Facts or Nutritional Information chart. If found, include it in the 'labelImage' field.
3. PRICE: Identify the current price and currency.
4. AUDIT: Perform a row-by-row extraction of EVERY substance with a numeric value found in text, images (via OCR/Search), or grounding results.
5. CLEANING: Ensure 'element' names are short substance names only.
6. RULES: Do NOT summarize. Every item with a value MUST be in 'nutritionalInformation'.

Return the results strictly following the JSON schema.`)

	parts := []Part{TextPart{Text: b.String()}}

	if pageContext != "" {
		parts = append(parts, TextPart{
			Text: "Page content fetched from the URL (may be partial or outdated, verify with search):\n\n" + pageContext,
		})
	}

	if imageURL != "" {
		parts = append(parts, FilePart{
			URI:      imageURL,
			MIMEType: inferMIMEType(imageURL),
		})
	}

	return &Request{
		SystemInstruction: systemInstruction,
		Parts:             parts,
	}, nil
}

// inferMIMEType maps an image URL extension to a MIME type, defaulting to
// image/jpeg for unknown or missing extensions.
func inferMIMEType(imageURL string) string {
	lower := strings.ToLower(imageURL)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
