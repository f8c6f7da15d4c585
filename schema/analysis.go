package schema

// Extraction cardinality. Single is canonical: one entity record per page.
// Multi wraps the same entity record in a products array for listing pages;
// both cardinalities share one schema and one validation path.
const (
	ModeSingle = "single"
	ModeMulti  = "multi"
)

// nullableString is shorthand for the many optional leaf fields.
func nullableString() *Node {
	return String().AsNullable()
}

// Entity returns the schema for one ScrapedData record. Field descriptions
// encode the extraction policy the type system cannot: the numeric-amount
// rule separating nutritionalInformation from ingredients, the bare-name
// rule for elements, and the mandatory element+amount pairing.
func Entity() *Node {
	return Object(
		Prop("pageType", Enum("product", "service", "content", "unknown")),
		Prop("metadata", Object(
			Prop("title", nullableString()),
			Prop("metaDescription", nullableString()),
			Prop("canonicalUrl", nullableString()),
			Prop("language", nullableString()),
		)),
		Prop("coreEntity", Object(
			Prop("name", nullableString()),
			Prop("brand", nullableString()),
			Prop("category", nullableString()),
			Prop("image", nullableString().WithDescription("Direct URL of the main entity image.")),
		)),
		Prop("productDetails", Object(
			Prop("price", Object(
				Prop("amount", nullableString()),
				Prop("currency", nullableString()),
			).AsNullable()),
			Prop("description", nullableString()),
			Prop("specifications", Array(Object(
				Prop("name", String()),
				Prop("value", String()),
			))),
			Prop("nutritionalInformation", Array(Object(
				Prop("element", String().WithDescription(
					"The name of the nutrient or ingredient ONLY (e.g. 'Vitamin C', 'DHA'). "+
						"DO NOT include descriptions, parenthetical notes, or source information.")),
				Prop("amount", String().WithDescription(
					"The numeric amount and unit (e.g. '500 mg', '10 g', '73.6 Kcal'). Must contain a digit.")),
				Prop("dailyValue", nullableString().WithDescription(
					"The % Daily Value (e.g. '50%', '100%').")),
			).WithRequired("element", "amount")).WithDescription(
				"An exhaustive list of EVERY nutrient, herb, oil, or ingredient that has an associated "+
					"numeric amount (e.g., weight, volume, calories, or percentage). Extract from ALL tables "+
					"including 'Supplement Facts', 'Nutritional Information', and 'Approx Value'.")),
			Prop("suggestedUse", nullableString()),
			Prop("ingredients", nullableString().WithDescription(
				"A comma-separated list of ingredients that DO NOT have associated numeric amounts. "+
					"If an item has a weight/value next to it, it MUST be in nutritionalInformation instead.")),
			Prop("warnings", nullableString()),
			Prop("disclaimer", nullableString()),
			Prop("labelImage", nullableString().WithDescription(
				"Direct URL of the supplement facts / nutritional information label image.")),
		).AsNullable()),
		Prop("contentDetails", Object(
			Prop("author", nullableString()),
			Prop("publishDate", nullableString()),
			Prop("mainContent", nullableString()),
			Prop("headings", Array(String())),
		).AsNullable()),
	).WithRequired("pageType", "metadata", "coreEntity")
}

// Build returns the root schema for the configured cardinality.
func Build(mode string) *Node {
	if mode == ModeMulti {
		return Object(
			Prop("products", Array(Entity()).WithDescription(
				"One record per distinct product found on the page, in page order.")),
		).WithRequired("products")
	}
	return Entity()
}
