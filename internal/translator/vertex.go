package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	vertexai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// VertexService calls Gemini models through Vertex AI using application
// default credentials.
type VertexService struct {
	client *vertexai.Client
}

func NewVertexService(ctx context.Context, projectID, region string) (*VertexService, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("Vertex AI project and region required")
	}
	client, err := vertexai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return &VertexService{client: client}, nil
}

func (s *VertexService) Name() string {
	return "vertex"
}

func (s *VertexService) Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	// Vertex AI takes bare model IDs.
	modelID := strings.TrimPrefix(req.Model, "models/")
	model := s.client.GenerativeModel(modelID)

	resp, err := model.GenerateContent(ctx, vertexai.Text(req.Prompt))
	if err != nil {
		err = classifyGRPCError(err)
		result.Error = err.Error()
		return result, err
	}

	result.Text = vertexText(resp)
	result.Metadata = map[string]string{"model": modelID}
	return result, nil
}

func (s *VertexService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("Vertex AI client not configured")
	}
	return nil
}

func (s *VertexService) Close() error {
	return s.client.Close()
}

// vertexText concatenates the text parts of the first candidate.
func vertexText(resp *vertexai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(vertexai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func classifyGRPCError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w", ErrAuth, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrRateLimit, err)
	}
	return classifyMessage(err)
}
