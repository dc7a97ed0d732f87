package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type openRouterService struct {
	client    *resty.Client
	modelName string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// NewOpenRouterService talks to any OpenAI-compatible chat-completions API
// rooted at baseURL.
func NewOpenRouterService(baseURL, apiKey, modelName string) ProviderService {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &openRouterService{
		client:    client,
		modelName: modelName,
	}
}

// Complete implements ProviderService.
func (o *openRouterService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(chatCompletionRequest{
			Model:    o.modelName,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to call provider: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		message := gjson.Get(body, "error.message").String()
		if message == "" {
			message = resp.Status()
		}
		return "", &ProviderError{StatusCode: resp.StatusCode(), Message: message}
	}

	if !gjson.Valid(body) {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Message: "malformed response body"}
	}

	// Some OpenAI-compatible gateways report failures with a 200 status.
	if errMsg := gjson.Get(body, "error.message"); errMsg.Exists() {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Message: errMsg.String()}
	}

	return gjson.Get(body, "choices.0.message.content").String(), nil
}
