package factory

import (
	"fmt"

	"github.com/paulocilasjr/translate-file-docx/internal/config"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers/google"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers/libretranslate"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers/openai"
)

// New builds the translation backend named by the configuration.
func New(cfg *config.Config) (providers.TranslationProvider, error) {
	switch cfg.Provider {
	case "google":
		pc := google.DefaultConfig()
		pc.APIKey = cfg.Google.APIKey
		if cfg.Google.Endpoint != "" {
			pc.APIEndpoint = cfg.Google.Endpoint
		}
		if cfg.RequestTimeout > 0 {
			pc.Timeout = cfg.RequestTimeout
		}
		return google.New(pc), nil

	case "libretranslate":
		pc := libretranslate.DefaultConfig()
		pc.APIKey = cfg.LibreTranslate.APIKey
		if cfg.LibreTranslate.URL != "" {
			pc.APIEndpoint = cfg.LibreTranslate.URL
		}
		if cfg.RequestTimeout > 0 {
			pc.Timeout = cfg.RequestTimeout
		}
		return libretranslate.New(pc), nil

	case "openai":
		pc := openai.DefaultConfig()
		pc.APIKey = cfg.OpenAI.APIKey
		if cfg.OpenAI.Model != "" {
			pc.Model = cfg.OpenAI.Model
		}
		if cfg.OpenAI.BaseURL != "" {
			pc.APIEndpoint = cfg.OpenAI.BaseURL
		}
		if cfg.RequestTimeout > 0 {
			pc.Timeout = cfg.RequestTimeout
		}
		return openai.New(pc), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
}
