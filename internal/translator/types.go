package translator

import (
	"context"
	"time"
)

// GenerateRequest is what a backend receives for a single chunk. Prompt is
// the fully built instruction prompt; Text, TargetLanguage and Instructions
// are passed alongside for backends that do not take free-form prompts.
type GenerateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	Instructions   string `json:"instructions"`
}

type ServiceResult struct {
	ServiceName string            `json:"service_name"`
	Text        string            `json:"text"`
	Metadata    map[string]string `json:"metadata"`
	Latency     time.Duration     `json:"latency"`
	Error       string            `json:"error,omitempty"`
}

// Backend is an external text-generation endpoint.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
}
