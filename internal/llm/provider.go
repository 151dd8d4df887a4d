package llm

import (
	"context"

	"github.com/raine/listing-genius/internal/listing"
)

const defaultModel = "gemini-2.5-flash"

// Config is the explicit configuration for reaching the model provider.
type Config struct {
	APIKey  string
	Model   string // Defaults to gemini-2.5-flash
	BaseURL string // Overrides the provider endpoint, for tests
}

func (c Config) model() string {
	if c.Model == "" {
		return defaultModel
	}
	return c.Model
}

// Usage contains token usage and cost information.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// GroundedRequest is a single prompt submission.
type GroundedRequest struct {
	Model     string
	Prompt    string
	WebSearch bool // Enable live web search grounding
}

// GroundedResponse is the provider's free-text answer plus the web citations
// it was grounded on.
type GroundedResponse struct {
	Text    string
	Sources []listing.GroundingSource
	Usage   Usage
}

// Provider submits a prompt to a generative model.
type Provider interface {
	GenerateGrounded(ctx context.Context, req GroundedRequest) (*GroundedResponse, error)
}

// ListingGenerator turns item keywords into a listing draft.
type ListingGenerator interface {
	Generate(ctx context.Context, keywords string) (*listing.GenerationResult, error)
}
