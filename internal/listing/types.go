package listing

import "strings"

// Request is the user's free-text description of the item being sold.
type Request struct {
	Keywords string
}

// Normalized returns the trimmed keywords and whether any are left.
func (r Request) Normalized() (string, bool) {
	kw := strings.TrimSpace(r.Keywords)
	return kw, kw != ""
}

// GeneratedListing is the structured draft parsed from a model reply.
// Fields that could not be located are empty, never missing.
type GeneratedListing struct {
	Title            string   `json:"title"`
	Price            string   `json:"price"` // Human-readable amount or range, e.g. "$150 - $200"
	Description      string   `json:"description"`
	ImageSuggestions []string `json:"imageSuggestions"`
}

// GroundingSource is one web citation returned alongside a grounded answer.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"` // May be empty; see SourceLabel
}

// GenerationResult pairs a listing with the citations the provider used, in
// provider order.
type GenerationResult struct {
	Listing GeneratedListing  `json:"listing"`
	Sources []GroundingSource `json:"sources"`
}
