package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/raine/listing-genius/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGroundingSources(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://www.ebay.com/itm/1", Title: "ebay.com"}},
					{Web: &genai.GroundingChunkWeb{URI: "", Title: "no uri"}},
					nil,
					{},
					{Web: &genai.GroundingChunkWeb{URI: "https://www.mercari.com/item/2"}},
					{Web: &genai.GroundingChunkWeb{URI: "https://www.ebay.com/itm/1", Title: "ebay.com"}},
				},
			},
		}},
	}

	assert.Equal(t, []listing.GroundingSource{
		{URI: "https://www.ebay.com/itm/1", Title: "ebay.com"},
		{URI: "https://www.mercari.com/item/2", Title: ""},
		{URI: "https://www.ebay.com/itm/1", Title: "ebay.com"},
	}, groundingSources(result))
}

func TestGroundingSources_None(t *testing.T) {
	tests := map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"no metadata":   {Candidates: []*genai.Candidate{{}}},
		"no chunks":     {Candidates: []*genai.Candidate{{GroundingMetadata: &genai.GroundingMetadata{}}}},
	}

	for name, result := range tests {
		t.Run(name, func(t *testing.T) {
			sources := groundingSources(result)
			assert.NotNil(t, sources)
			assert.Empty(t, sources)
		})
	}
}

func TestCalculateGeminiCost(t *testing.T) {
	cost := calculateGeminiCost(1_000_000, 2_000_000, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	assert.InDelta(t, 5.30, cost, 1e-9)
}

const geminiGroundedResponse = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "## Title\nSony WH-1000XM4\n## Price\n$120 - $150\n## Description\nGreat headphones.\n## Image Suggestions\nhttps://sony.com/xm4.png"}]},
		"finishReason": "STOP",
		"groundingMetadata": {
			"webSearchQueries": ["Sony WH-1000XM4 used price"],
			"groundingChunks": [
				{"web": {"uri": "https://www.ebay.com/itm/123", "title": "ebay.com"}},
				{"web": {"uri": "https://www.mercari.com/us/item/m1/", "title": ""}}
			]
		}
	}],
	"usageMetadata": {"promptTokenCount": 400, "candidatesTokenCount": 200, "totalTokenCount": 600}
}`

func TestGeminiProvider_GenerateGrounded(t *testing.T) {
	var requestBody string
	var apiKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requestBody = string(body)
		apiKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiGroundedResponse)
	}))
	defer ts.Close()

	provider := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: ts.URL})
	resp, err := provider.GenerateGrounded(context.Background(), GroundedRequest{
		Model:     "gemini-2.5-flash",
		Prompt:    BuildListingPrompt("Sony WH-1000XM4"),
		WebSearch: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "test-key", apiKey)
	assert.Contains(t, requestBody, "googleSearch")
	assert.Contains(t, requestBody, "Sony WH-1000XM4")

	assert.Equal(t, "Sony WH-1000XM4", listing.ParseResponse(resp.Text).Title)
	assert.Equal(t, []listing.GroundingSource{
		{URI: "https://www.ebay.com/itm/123", Title: "ebay.com"},
		{URI: "https://www.mercari.com/us/item/m1/", Title: ""},
	}, resp.Sources)
	assert.Equal(t, int64(400), resp.Usage.InputTokens)
	assert.Equal(t, int64(200), resp.Usage.OutputTokens)
	assert.Equal(t, int64(600), resp.Usage.TotalTokens)
}

func TestGeminiProvider_NoWebSearchOmitsTool(t *testing.T) {
	var requestBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requestBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates": []}`)
	}))
	defer ts.Close()

	provider := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: ts.URL})
	resp, err := provider.GenerateGrounded(context.Background(), GroundedRequest{Prompt: "hello"})

	require.NoError(t, err)
	assert.NotContains(t, requestBody, "googleSearch")
	assert.Empty(t, resp.Text)
	assert.Empty(t, resp.Sources)
}

func TestGeminiGenerator_ProviderErrorIsCommunicationError(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "API key not valid. Please pass a valid API key.", "status": "PERMISSION_DENIED"}}`)
	}))
	defer ts.Close()

	gen := NewGeminiGenerator(Config{APIKey: "bad-key", BaseURL: ts.URL})
	result, err := gen.Generate(context.Background(), "Sony WH-1000XM4")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCommunication)
	assert.NotContains(t, err.Error(), "API key not valid")
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestGeminiGenerator_MissingKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	gen := NewGeminiGenerator(Config{BaseURL: ts.URL})
	_, err := gen.Generate(context.Background(), "Sony WH-1000XM4")

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, int32(0), calls.Load())
}
