package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIService calls an OpenAI-compatible chat completions endpoint.
type OpenAIService struct {
	client *openai.Client
}

func NewOpenAIService(apiKey, baseURL string) (*OpenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg)}, nil
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		err = classifyOpenAIError(err)
		result.Error = err.Error()
		return result, err
	}

	if len(resp.Choices) == 0 {
		result.Error = ErrEmptyResponse.Error()
		return result, ErrEmptyResponse
	}

	result.Text = resp.Choices[0].Message.Content
	result.Metadata = map[string]string{
		"model":             resp.Model,
		"prompt_tokens":     fmt.Sprintf("%d", resp.Usage.PromptTokens),
		"completion_tokens": fmt.Sprintf("%d", resp.Usage.CompletionTokens),
	}
	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("OpenAI client not configured")
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if cause := statusCause(apiErr.HTTPStatusCode); cause != nil {
			return fmt.Errorf("%w: %w", cause, err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if cause := statusCause(reqErr.HTTPStatusCode); cause != nil {
			return fmt.Errorf("%w: %w", cause, err)
		}
	}
	return err
}
