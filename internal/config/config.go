package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Config holds every knob of the translation pipeline. The target language
// and the chunk limit are injected into the pipeline at construction time so
// tests can run with alternate values.
type Config struct {
	TargetLanguage string `mapstructure:"target_language"`
	ChunkLimit     int    `mapstructure:"chunk_limit"`
	InputDir       string `mapstructure:"input_dir"`
	OutputDir      string `mapstructure:"output_dir"`
	Provider       string `mapstructure:"provider"`
	Converter      string `mapstructure:"converter"`
	GlossaryPath   string `mapstructure:"glossary"`
	Debug          bool   `mapstructure:"debug"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	Google         GoogleConfig         `mapstructure:"google"`
	LibreTranslate LibreTranslateConfig `mapstructure:"libretranslate"`
	OpenAI         OpenAIConfig         `mapstructure:"openai"`
	OCR            OCRConfig            `mapstructure:"ocr"`
}

// GoogleConfig configures the Google Translate backend.
type GoogleConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// LibreTranslateConfig configures a LibreTranslate backend, which may be a
// self-hosted instance.
type LibreTranslateConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// OpenAIConfig configures the chat-completion backend.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OCRConfig locates the text-recognition binary and its source languages.
type OCRConfig struct {
	Binary    string `mapstructure:"binary"`
	Languages string `mapstructure:"languages"`
}

// NewDefaultConfig returns the configuration used when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{
		TargetLanguage: "pt",
		ChunkLimit:     4000,
		InputDir:       "translate",
		OutputDir:      "",
		Provider:       "google",
		Converter:      "pandoc",
		RequestTimeout: 5 * time.Minute,
		OCR: OCRConfig{
			Binary:    "tesseract",
			Languages: "eng",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

func setDefaults(v *viper.Viper) {
	def := NewDefaultConfig()
	v.SetDefault("target_language", def.TargetLanguage)
	v.SetDefault("chunk_limit", def.ChunkLimit)
	v.SetDefault("input_dir", def.InputDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("provider", def.Provider)
	v.SetDefault("converter", def.Converter)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("ocr.binary", def.OCR.Binary)
	v.SetDefault("ocr.languages", def.OCR.Languages)
	v.SetDefault("openai.model", def.OpenAI.Model)
}

// LoadConfig reads the YAML config file and environment overrides. A missing
// config file is not an error; defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".doctrans")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DOCTRANS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.TargetLanguage); err != nil {
		return fmt.Errorf("invalid target language %q: %w", c.TargetLanguage, err)
	}
	if c.ChunkLimit <= 0 {
		return fmt.Errorf("chunk limit must be positive, got %d", c.ChunkLimit)
	}
	if c.Provider == "" {
		return fmt.Errorf("translation provider must be set")
	}
	return nil
}

// TargetLanguageName returns the English display name of the target language,
// e.g. "Portuguese" for "pt". It names the default output directory and seeds
// the overlay layer name on page documents.
func (c *Config) TargetLanguageName() string {
	tag, err := language.Parse(c.TargetLanguage)
	if err != nil {
		return c.TargetLanguage
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return c.TargetLanguage
	}
	return name
}

// OutputRoot resolves the output directory: an explicit setting wins,
// otherwise the target language display name is used.
func (c *Config) OutputRoot() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return c.TargetLanguageName()
}
