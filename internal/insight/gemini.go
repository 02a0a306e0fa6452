package insight

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// responseSchema constrains the model to the Result shape.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"alerts":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"predictions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"suggestion":  {Type: genai.TypeString},
	},
	Required: []string{"alerts", "predictions", "suggestion"},
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

// DisabledGenerator is used when no API key is configured.
type DisabledGenerator struct{}

func (DisabledGenerator) GenerateJSON(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// NewGenerator returns a Gemini generator, or DisabledGenerator when apiKey is empty.
func NewGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return DisabledGenerator{}, nil
	}
	return NewGeminiGenerator(ctx, apiKey, model)
}
