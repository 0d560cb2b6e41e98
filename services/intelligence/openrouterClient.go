package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"sahara/models"

	"github.com/sashabaranov/go-openai"
)

// OpenRouterConfig configures the OpenAI-compatible chat completions client.
type OpenRouterConfig struct {
	APIKey string
	// URL is the full chat completions endpoint.
	URL      string
	Model    string
	SiteURL  string
	SiteName string
}

// OpenRouterClient talks to OpenRouter (or any OpenAI-compatible endpoint).
type OpenRouterClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// headerTransport adds the OpenRouter attribution headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.URL != "" {
		oc.BaseURL = strings.TrimSuffix(strings.TrimRight(cfg.URL, "/"), "/chat/completions")
	}
	oc.HTTPClient = &http.Client{
		Timeout: time.Minute,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.SiteURL,
				"X-Title":      cfg.SiteName,
			},
		},
	}

	return &OpenRouterClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		maxTokens:   400,
		temperature: 0.2,
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, system string, history []models.ChatHistoryItem, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, h := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(h.Role), Content: h.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
