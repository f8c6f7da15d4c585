package models

// PageType classifies the kind of page the model identified.
type PageType string

const (
	PageTypeProduct PageType = "product"
	PageTypeService PageType = "service"
	PageTypeContent PageType = "content"
	PageTypeUnknown PageType = "unknown"
)

// ScrapedData is the canonical extraction result for a single page entity.
//
// Nullable fields are pointers without omitempty so that absent values
// marshal as explicit JSON null rather than disappearing from the payload;
// downstream consumers rely on a stable field set.
type ScrapedData struct {
	PageType PageType     `json:"pageType"`
	Metadata PageMetadata `json:"metadata"`
	Core     CoreEntity   `json:"coreEntity"`

	// At most one of the two is expected based on PageType, but the schema
	// does not hard-enforce this; consumers must tolerate either being
	// absent or (rarely) both present.
	ProductDetails *ProductDetails `json:"productDetails,omitempty"`
	ContentDetails *ContentDetails `json:"contentDetails,omitempty"`
}

// PageMetadata holds page-level metadata reported by the model.
type PageMetadata struct {
	Title           *string `json:"title"`
	MetaDescription *string `json:"metaDescription"`
	CanonicalURL    *string `json:"canonicalUrl"`
	Language        *string `json:"language"`
}

// CoreEntity identifies the primary subject of the page.
type CoreEntity struct {
	Name     *string `json:"name"`
	Brand    *string `json:"brand"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
}

// Price keeps amount as a string to preserve the page's formatting.
type Price struct {
	Amount   *string `json:"amount"`
	Currency *string `json:"currency"`
}

// Specification is a generic name/value row (e.g. Serving Size,
// Servings Per Container). Consumers split these into label vs general
// specs with substring heuristics on Name.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NutritionalComponent is one row of a supplement facts / nutrition table.
// Element and Amount are mandatory; Amount always contains a digit per the
// extraction rules.
type NutritionalComponent struct {
	Element    string  `json:"element"`
	Amount     string  `json:"amount"`
	DailyValue *string `json:"dailyValue"`
}

// ProductDetails holds product-page extraction results.
type ProductDetails struct {
	Price                  *Price                 `json:"price"`
	Specifications         []Specification        `json:"specifications"`
	NutritionalInformation []NutritionalComponent `json:"nutritionalInformation"`
	Description            *string                `json:"description"`
	SuggestedUse           *string                `json:"suggestedUse"`

	// Ingredients is a comma-joined list of items WITHOUT numeric amounts.
	// Anything with a numeric magnitude belongs in NutritionalInformation.
	Ingredients *string `json:"ingredients"`

	Warnings   *string `json:"warnings"`
	Disclaimer *string `json:"disclaimer"`
	LabelImage *string `json:"labelImage"`
}

// ContentDetails holds article/content-page extraction results.
type ContentDetails struct {
	Author      *string  `json:"author"`
	PublishDate *string  `json:"publishDate"`
	MainContent *string  `json:"mainContent"`
	Headings    []string `json:"headings"`
}

// ProductList is the multi-entity envelope returned when the extraction
// cardinality is "multi".
type ProductList struct {
	Products []ScrapedData `json:"products"`
}

// AnalysisResult carries the outcome of one analysis run. Exactly one of
// Entity (single cardinality) or Products (multi cardinality) is set.
type AnalysisResult struct {
	Entity   *ScrapedData
	Products []ScrapedData
}

// Payload returns the wire shape for API responses: the bare entity record
// in single mode, the products envelope in multi mode.
func (r *AnalysisResult) Payload() any {
	if r.Entity != nil {
		return r.Entity
	}
	return ProductList{Products: r.Products}
}
