package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
)

// OpenAIClient talks to the OpenAI chat completions API or any compatible endpoint
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client from the LLM configuration
func NewOpenAIClient(cfg config.LLMConfig) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultPriceModel
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

// Provider implements Client
func (c *OpenAIClient) Provider() string { return ProviderOpenAI }

// DefaultModel implements Client
func (c *OpenAIClient) DefaultModel() string { return c.model }

// Complete implements Client
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, errors.NewExternalService(ProviderOpenAI, "Chat completion failed").WithError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewExternalService(ProviderOpenAI, "Chat completion returned no choices")
	}

	respModel := resp.Model
	if respModel == "" {
		respModel = model
	}
	return &Completion{
		Text:     resp.Choices[0].Message.Content,
		Model:    respModel,
		Provider: ProviderOpenAI,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *OpenAIClient) String() string {
	return fmt.Sprintf("openai:%s", c.model)
}
