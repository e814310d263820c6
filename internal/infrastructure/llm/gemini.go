package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
)

// GeminiClient generates content with Google's Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client from the LLM configuration
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Provider implements Client
func (c *GeminiClient) Provider() string { return ProviderGemini }

// DefaultModel implements Client
func (c *GeminiClient) DefaultModel() string { return c.model }

// Complete implements Client. Requests naming an OpenAI model use the Gemini default.
func (c *GeminiClient) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	model := c.model
	if req.Model != "" && !isOpenAIModel(req.Model) {
		model = req.Model
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, gc)
	if err != nil {
		return nil, errors.NewExternalService(ProviderGemini, "Content generation failed").WithError(err)
	}

	out := &Completion{
		Text:     resp.Text(),
		Model:    model,
		Provider: ProviderGemini,
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func isOpenAIModel(model string) bool {
	return len(model) >= 4 && model[:4] == "gpt-"
}
