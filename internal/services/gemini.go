package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(apiKey, modelName string) (ProviderService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements ProviderService.
func (g *geminiService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", geminiError(err)
	}

	if resp == nil {
		return "", nil
	}

	return resp.Text(), nil
}

// geminiError turns an API response error into a ProviderError so retries can
// tell a rejected request from an overloaded backend.
func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Status
		}
		return &ProviderError{StatusCode: apiErr.Code, Message: message}
	}
	return fmt.Errorf("failed to generate text: %w", err)
}
