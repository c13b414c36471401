// Package llm provides the text-completion implementations the query layer
// plugs in.
package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// Gemini completes prompts against the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string

	// Temperature and MaxTokens are applied to every completion.
	temperature float32
	maxTokens   int32
}

// GeminiConfig configures the Gemini completer.
type GeminiConfig struct {
	APIKey      string  // falls back to GOOGLE_API_KEY
	Model       string  // falls back to GOOGLE_MODEL, then a sensible default
	Temperature float32 // 0 means 0.7
	MaxTokens   int32   // 0 means 1000
}

// NewGemini creates a Gemini completer.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv("GOOGLE_MODEL")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	temp := cfg.Temperature
	if temp == 0 {
		temp = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	return &Gemini{
		client:      client,
		model:       model,
		temperature: temp,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends one prompt and returns the concatenated text parts.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty gemini response")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			out += part.Text
		}
	}
	return out, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}
