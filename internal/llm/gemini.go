package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/raine/listing-genius/internal/listing"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Gemini 2.5 Flash pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.30
	geminiOutputPricePerMillion = 2.50
)

// GeminiProvider uses Google's Gemini API with Google Search grounding.
type GeminiProvider struct {
	cfg Config

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiProvider creates a Gemini-backed provider. The underlying client is
// created on first use so that a missing key surfaces from Generator instead
// of at startup.
func NewGeminiProvider(cfg Config) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

func (g *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// GenerateGrounded implements Provider.
func (g *GeminiProvider) GenerateGrounded(ctx context.Context, req GroundedRequest) (*GroundedResponse, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.cfg.model()
	}

	config := &genai.GenerateContentConfig{}
	if req.WebSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	result, err := client.Models.GenerateContent(ctx, model, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(req.Prompt)}, genai.RoleUser),
	}, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	resp := &GroundedResponse{
		Text:    result.Text(),
		Sources: groundingSources(result),
	}

	if result.UsageMetadata != nil {
		resp.Usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		resp.Usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		resp.Usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		resp.Usage.CostUSD = calculateGeminiCost(resp.Usage.InputTokens, resp.Usage.OutputTokens, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	}

	log.Info().
		Str("model", model).
		Bool("webSearch", req.WebSearch).
		Int("sources", len(resp.Sources)).
		Int64("inputTokens", resp.Usage.InputTokens).
		Int64("outputTokens", resp.Usage.OutputTokens).
		Float64("costUSD", resp.Usage.CostUSD).
		Msg("grounded llm call")

	return resp, nil
}

// groundingSources extracts web citations from the first candidate, in
// provider order. Chunks without a web URI are skipped.
func groundingSources(result *genai.GenerateContentResponse) []listing.GroundingSource {
	sources := []listing.GroundingSource{}
	if len(result.Candidates) == 0 || result.Candidates[0] == nil {
		return sources
	}

	meta := result.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}

	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, listing.GroundingSource{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return sources
}

func calculateGeminiCost(inputTokens, outputTokens int64, inputPrice, outputPrice float64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * inputPrice
	outputCost := float64(outputTokens) / 1_000_000 * outputPrice
	return inputCost + outputCost
}
