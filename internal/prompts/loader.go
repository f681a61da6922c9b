// Package prompts provides the externalized LLM prompt templates for the
// tag pipeline. Templates are stored as JSON and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt keys in tagging.json.
const (
	KeyGenerateTags    = "generate_tags"
	KeyExtractKeywords = "extract_keywords_light"
	KeyOptimizeTags    = "optimize_tags"
	KeySelectTags      = "select_tags"
)

const taggingFile = "tagging.json"

var (
	cache   map[string]string
	cacheMu sync.RWMutex
)

// Get retrieves a tagging prompt template by key.
func Get(key string) (string, error) {
	templates, err := load()
	if err != nil {
		return "", err
	}
	prompt, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, taggingFile)
	}
	return prompt, nil
}

// MustGet retrieves a prompt template, panicking if missing. The templates
// are embedded, so a miss is a programming error.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders in a template with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

func load() (map[string]string, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(taggingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", taggingFile, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", taggingFile, err)
	}

	cacheMu.Lock()
	cache = templates
	cacheMu.Unlock()
	return templates, nil
}
