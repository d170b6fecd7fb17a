/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"github.com/valpere/doctran/internal/blob"
	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/catalog"
	"github.com/valpere/doctran/internal/config"
	"github.com/valpere/doctran/internal/orchestrator"
	"github.com/valpere/doctran/internal/store"
	"github.com/valpere/doctran/internal/translator"
	"github.com/valpere/doctran/internal/writer"
)

// pipeline holds everything a translation command needs. close releases
// backend clients and the database.
type pipeline struct {
	cfg          *config.Config
	logger       *slog.Logger
	orchestrator *orchestrator.Orchestrator
	writer       *writer.Writer
	blob         *blob.Store
	reporter     *cliReporter
	opts         orchestrator.Options
	closers      []io.Closer
}

func (p *pipeline) close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			p.logger.Warn("failed to close resource", "error", err)
		}
	}
}

// newPipeline loads and validates config, resolves the target language and
// model, and assembles backend, cache, job store, orchestrator and writer.
// An unknown model is rejected here, before any external call.
func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	reporter := &cliReporter{out: os.Stderr}

	lang, err := catalog.ResolveLanguage(cfg.TargetLanguage)
	if err != nil {
		return nil, err
	}
	if lang.Inserted {
		reporter.Warn(fmt.Sprintf("%q is not in the language list, using it as given", lang.Name))
	}
	model, err := catalog.ResolveModel(cfg.Backend, cfg.Model)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		cfg:      cfg,
		logger:   logger,
		reporter: reporter,
		opts: orchestrator.Options{
			TargetLanguage: lang.Name,
			Model:          model,
			Instructions:   cfg.Instructions,
		},
	}

	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := backend.(io.Closer); ok {
		p.closers = append(p.closers, c)
	}

	db, err := store.New(cfg.DB)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	p.closers = append(p.closers, db)

	c, err := openCache(cfg, db)
	if err != nil {
		p.close()
		return nil, err
	}
	if closer, ok := c.(io.Closer); ok && c != cache.Cache(db) {
		p.closers = append(p.closers, closer)
	}

	client := translator.NewClient(translator.WithBreaker(backend, cfg.Breaker.Threshold, cfg.Breaker.Timeout), c, logger)
	p.orchestrator = orchestrator.New(client, orchestrator.Config{
		Reporter: reporter,
		Recorder: db,
		Logger:   logger,
	})
	p.writer = writer.New(writer.Config{FontPath: cfg.Writer.Font, Logger: logger})
	p.blob = blob.New(storageOptions(cfg)...)
	p.closers = append(p.closers, p.blob)

	logger.Debug("pipeline ready", "backend", backend.Name(), "model", model,
		"target", lang.Name, "cache", cfg.Cache.Backend)
	return p, nil
}

// buildBackend constructs the translation backend named by cfg.Backend.
func buildBackend(ctx context.Context, cfg *config.Config) (translator.Backend, error) {
	switch cfg.Backend {
	case "gemini":
		return translator.NewGeminiService(ctx, cfg.APIKey)
	case "vertex":
		return translator.NewVertexService(ctx, cfg.Vertex.Project, cfg.Vertex.Region)
	case "openai":
		return translator.NewOpenAIService(cfg.APIKey, cfg.OpenAI.URL)
	case "openrouter":
		return translator.NewOpenRouterService(cfg.APIKey, cfg.OpenRouter.URL), nil
	case "ollama":
		return translator.NewOllamaService(cfg.Ollama.URL), nil
	case "google":
		return translator.NewGoogleService(ctx, cfg.Google.Credentials)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// openCache returns the translation cache selected by cache.backend. The
// sqlite cache shares db with the job history.
func openCache(cfg *config.Config, db *store.Store) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(cfg.Cache.Size), nil
	case "sqlite", "":
		if cfg.Cache.Path != "" && cfg.Cache.Path != cfg.DB {
			s, err := store.New(cfg.Cache.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open cache database: %w", err)
			}
			return s, nil
		}
		return db, nil
	case "bolt":
		return cache.OpenBolt(cfg.Cache.Path)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func storageOptions(cfg *config.Config) []option.ClientOption {
	if cfg.Google.Credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.Google.Credentials)}
}

// cliReporter prints orchestrator progress and messages to stderr.
type cliReporter struct {
	out   io.Writer
	quiet bool
}

func (r *cliReporter) Progress(p orchestrator.Progress) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "[%3.0f%%] %s\n", p.Fraction*100, p.Label)
}

func (r *cliReporter) Warn(msg string) {
	fmt.Fprintf(r.out, "Warning: %s\n", msg)
}

func (r *cliReporter) Error(msg string) {
	fmt.Fprintf(r.out, "Error: %s\n", msg)
}
