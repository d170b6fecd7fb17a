package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiService calls the Gemini Developer API.
type GeminiService struct {
	client *genai.Client
}

func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

func (s *GeminiService) Name() string {
	return "gemini"
}

func (s *GeminiService) Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	resp, err := s.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), nil)
	if err != nil {
		err = classifyGeminiError(err)
		result.Error = err.Error()
		return result, err
	}

	result.Text = resp.Text()
	result.Metadata = map[string]string{"model": req.Model}
	if resp.UsageMetadata != nil {
		result.Metadata["prompt_tokens"] = fmt.Sprintf("%d", resp.UsageMetadata.PromptTokenCount)
		result.Metadata["completion_tokens"] = fmt.Sprintf("%d", resp.UsageMetadata.CandidatesTokenCount)
	}
	return result, nil
}

func (s *GeminiService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("Gemini client not configured")
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if cause := statusCause(apiErr.Code); cause != nil {
			return fmt.Errorf("%w: %w", cause, err)
		}
	}
	return classifyMessage(err)
}
