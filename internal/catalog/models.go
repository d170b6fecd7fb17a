// Package catalog lists the selectable target languages and, per backend,
// the model identifiers the user may choose from.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "models/gemini-2.5-flash"

// ErrUnknownModel is returned when a model is not on a backend's allow-list.
var ErrUnknownModel = errors.New("unknown model")

var models = map[string][]string{
	"gemini": {
		"models/gemini-2.5-flash",
		"models/gemini-2.5-pro",
		"models/gemini-2.5-flash-lite",
		"models/gemini-2.0-flash",
		"models/gemini-2.0-flash-lite",
		"models/gemini-1.5-pro",
		"models/gemini-1.5-flash",
		"models/gemini-1.5-flash-8b",
	},
	"vertex": {
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-2.5-flash-lite",
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
	},
	"openai": {
		"gpt-4o-mini",
		"gpt-4o",
		"gpt-4.1-mini",
		"gpt-4.1",
	},
	"openrouter": {
		"google/gemini-2.5-flash",
		"google/gemini-2.0-flash-exp:free",
		"qwen/qwen2.5-72b-instruct:free",
		"mistralai/mistral-nemo:free",
		"meta-llama/llama-3.1-8b-instruct:free",
	},
	"ollama": {
		"llama3.2",
		"gemma2:2b",
		"qwen2.5:3b",
		"mistral:7b",
		"phi4:14b",
	},
	"google": {
		"nmt",
		"base",
	},
}

// Backends returns the backend names in display order.
func Backends() []string {
	return []string{"gemini", "vertex", "openai", "openrouter", "ollama", "google"}
}

// Models returns the allow-list for backend, or nil for an unknown backend.
func Models(backend string) []string {
	list := models[backend]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// DefaultModelFor returns the model preselected for backend.
func DefaultModelFor(backend string) string {
	if backend == "gemini" || backend == "" {
		return DefaultModel
	}
	if list := models[backend]; len(list) > 0 {
		return list[0]
	}
	return ""
}

// ResolveModel validates model against the backend's allow-list. An empty
// model selects the backend default. For gemini, the "models/" prefix may be
// omitted.
func ResolveModel(backend, model string) (string, error) {
	list, ok := models[backend]
	if !ok {
		return "", fmt.Errorf("unknown backend %q", backend)
	}
	if model == "" {
		return DefaultModelFor(backend), nil
	}
	for _, m := range list {
		if m == model || (backend == "gemini" && m == "models/"+model) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q for backend %s", ErrUnknownModel, model, backend)
}

// DisplayName strips the "models/" prefix for presentation.
func DisplayName(model string) string {
	return strings.TrimPrefix(model, "models/")
}
