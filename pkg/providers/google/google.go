package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
)

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Config configures the Google Translate v2 backend.
type Config struct {
	providers.BaseConfig
}

// DefaultConfig returns the default Google Translate configuration.
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = defaultEndpoint
	return config
}

// Provider talks to the Google Translate v2 REST API.
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.TranslationProvider = (*Provider)(nil)

// New creates a Google Translate provider.
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
	resp, err := p.translate(ctx, translateRequest{
		Q:      req.Text,
		Source: req.Source,
		Target: req.Target,
		Format: "text",
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data.Translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return &providers.Response{
		Text:           resp.Data.Translations[0].TranslatedText,
		DetectedSource: resp.Data.Translations[0].DetectedSourceLanguage,
	}, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "google"
}

func (p *Provider) translate(ctx context.Context, req translateRequest) (*translateResponse, error) {
	params := url.Values{}
	params.Set("key", p.config.APIKey)
	params.Set("q", req.Q)
	params.Set("target", req.Target)
	params.Set("format", req.Format)
	// An omitted source triggers server-side language detection.
	if req.Source != "" && req.Source != "auto" {
		params.Set("source", req.Source)
	}
	body := params.Encode()

	var resp *http.Response
	var lastErr error

	for i := 0; i <= p.config.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.config.RetryDelay * time.Duration(i)):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST",
			p.config.APIEndpoint, strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for k, v := range p.config.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err = p.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			lastErr = nil
			break
		}

		errBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var apiErr apiError
		if err := json.Unmarshal(errBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			lastErr = fmt.Errorf("google api error: %s", apiErr.Error.Message)
		} else {
			lastErr = fmt.Errorf("api error: %s", resp.Status)
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			continue
		}
		return nil, lastErr
	}

	if lastErr != nil {
		return nil, lastErr
	}

	defer resp.Body.Close()

	var translateResp translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &translateResp, nil
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
