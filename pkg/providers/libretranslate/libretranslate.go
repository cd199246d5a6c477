package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
)

const defaultEndpoint = "https://libretranslate.com"

// Config configures a LibreTranslate backend. Self-hosted instances usually
// run without an API key.
type Config struct {
	providers.BaseConfig
}

// DefaultConfig returns the default LibreTranslate configuration.
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = defaultEndpoint
	return config
}

// Provider talks to a LibreTranslate server.
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.TranslationProvider = (*Provider)(nil)

// New creates a LibreTranslate provider.
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = defaultEndpoint
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Translate performs one translation call.
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	source := req.Source
	if source == "" {
		source = "auto"
	}

	body := translateRequest{
		Q:      req.Text,
		Source: source,
		Target: req.Target,
		Format: "text",
	}
	if p.config.APIKey != "" {
		body.APIKey = p.config.APIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(p.config.APIEndpoint, "/") + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if err := json.Unmarshal(errBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("libretranslate error: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("api error: %s", resp.Status)
	}

	var translateResp translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := &providers.Response{Text: translateResp.TranslatedText}
	if translateResp.DetectedLanguage != nil {
		out.DetectedSource = translateResp.DetectedLanguage.Language
	}
	return out, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "libretranslate"
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage *struct {
		Confidence float64 `json:"confidence"`
		Language   string  `json:"language"`
	} `json:"detectedLanguage,omitempty"`
}

type apiError struct {
	Error string `json:"error"`
}
