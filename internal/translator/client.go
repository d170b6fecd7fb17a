// Package translator turns one chunk of English text into the target
// language by calling an external generative backend.
//
// Client memoizes successful results by (text, target language,
// instructions, model) and wraps every failure in ErrTranslationFailed.
package translator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/postprocess"
)

// Request is a single translation call.
type Request struct {
	Text           string
	TargetLanguage string
	Instructions   string
	Model          string
}

// Key returns the cache key for r. Instructions must already be resolved.
func (r Request) Key() cache.Key {
	return cache.Key{
		Text:           r.Text,
		TargetLanguage: r.TargetLanguage,
		Instructions:   r.Instructions,
		Model:          r.Model,
	}
}

type Client struct {
	backend Backend
	cache   cache.Cache
	logger  *slog.Logger
}

// NewClient wires a backend to a cache. A nil cache gets an unbounded
// in-memory one; a nil logger falls back to slog.Default.
func NewClient(backend Backend, c cache.Cache, logger *slog.Logger) *Client {
	if c == nil {
		c = cache.NewMemory(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		backend: backend,
		cache:   c,
		logger:  logger.With("component", "translator", "backend", backend.Name()),
	}
}

func (c *Client) Backend() Backend {
	return c.backend
}

// Translate returns the translation of req.Text. Empty or whitespace-only
// text, or an empty target language, yields "" without contacting the
// backend.
func (c *Client) Translate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" || req.TargetLanguage == "" {
		return "", nil
	}
	req.Instructions = ResolveInstructions(req.Instructions)
	key := req.Key()

	cached, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed", "error", err)
	}
	if found {
		c.logger.Debug("cache hit", "chars", len(req.Text))
		return cached, nil
	}

	result, err := c.backend.Generate(ctx, GenerateRequest{
		Model:          req.Model,
		Prompt:         BuildPrompt(req.Instructions, req.TargetLanguage, req.Text),
		Text:           req.Text,
		TargetLanguage: req.TargetLanguage,
		Instructions:   req.Instructions,
	})
	if err == nil && result != nil && result.Error != "" {
		err = classifyMessage(fmt.Errorf("%w: %s", ErrBackendReported, result.Error))
	}
	if err != nil {
		c.logger.Error("backend call failed", "model", req.Model, "error", err)
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}

	var text string
	if result != nil {
		text = strings.TrimSpace(postprocess.Clean(result.Text))
	}
	if text == "" {
		c.logger.Error("backend returned no text", "model", req.Model)
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, ErrEmptyResponse)
	}

	c.logger.Info("api call made", "model", req.Model, "latency", result.Latency)

	if err := c.cache.Put(ctx, key, text); err != nil {
		c.logger.Warn("cache store failed", "error", err)
	}
	return text, nil
}
