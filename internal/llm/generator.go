package llm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/raine/listing-genius/internal/listing"
	"github.com/rs/zerolog/log"
)

// Generator builds the listing prompt, submits it with web search enabled and
// parses the reply.
type Generator struct {
	cfg      Config
	provider Provider
}

// NewGenerator creates a generator that submits prompts through provider.
func NewGenerator(cfg Config, provider Provider) *Generator {
	return &Generator{cfg: cfg, provider: provider}
}

// NewGeminiGenerator creates a generator backed by Gemini.
func NewGeminiGenerator(cfg Config) *Generator {
	return NewGenerator(cfg, NewGeminiProvider(cfg))
}

// Generate produces a listing draft for keywords. It returns ErrConfiguration
// without contacting the provider when no API key is set, and
// ErrCommunication for any provider failure. Keywords are expected to be
// non-empty; enforcing that is up to the caller.
func (g *Generator) Generate(ctx context.Context, keywords string) (*listing.GenerationResult, error) {
	requestID := uuid.New().String()
	logger := log.With().Str("requestID", requestID).Logger()

	if strings.TrimSpace(g.cfg.APIKey) == "" {
		logger.Error().Msg("api key not configured")
		return nil, ErrConfiguration
	}

	req := GroundedRequest{
		Model:     g.cfg.model(),
		Prompt:    BuildListingPrompt(keywords),
		WebSearch: true,
	}
	logger.Debug().Str("keywords", keywords).Str("prompt", req.Prompt).Msg("listing generation llm input")

	resp, err := g.provider.GenerateGrounded(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("keywords", keywords).Msg("listing generation failed")
		return nil, ErrCommunication
	}
	if resp == nil {
		logger.Error().Str("keywords", keywords).Msg("listing generation returned no response")
		return nil, ErrCommunication
	}

	logger.Debug().Str("response", resp.Text).Msg("listing generation llm output")

	sources := resp.Sources
	if sources == nil {
		sources = []listing.GroundingSource{}
	}
	result := &listing.GenerationResult{
		Listing: listing.ParseResponse(resp.Text),
		Sources: sources,
	}

	logger.Info().
		Str("keywords", keywords).
		Str("title", result.Listing.Title).
		Str("price", result.Listing.Price).
		Int("imageSuggestions", len(result.Listing.ImageSuggestions)).
		Int("sources", len(result.Sources)).
		Float64("costUSD", resp.Usage.CostUSD).
		Msg("listing generated")

	return result, nil
}
