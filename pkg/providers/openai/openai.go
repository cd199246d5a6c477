package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
)

// Config configures the chat-completion backend.
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

// DefaultConfig returns the default chat-completion configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
	}
}

// Provider translates text through a chat-completion model. Useful when a
// dedicated translation API is unavailable or a custom endpoint is required.
type Provider struct {
	config Config
	client *openai.Client
}

var _ providers.TranslationProvider = (*Provider)(nil)

// New creates a chat-completion provider.
func New(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.APIEndpoint, "/")
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Translate performs one translation call.
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	system := fmt.Sprintf(
		"You are a translation engine. Translate the user's text into %s. "+
			"Preserve line breaks. Output only the translation, nothing else.",
		req.Target)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion returned")
	}

	return &providers.Response{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "openai"
}
