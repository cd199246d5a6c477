package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Glossary maps source phrases to fixed translations that bypass the
// translation backend entirely. Useful for product names and terms of art
// that machine translation tends to mangle.
type Glossary struct {
	SourceLang   string            `toml:"source_lang"`
	TargetLang   string            `toml:"target_lang"`
	Translations map[string]string `toml:"translations"`
}

// LoadGlossary reads a TOML glossary file.
func LoadGlossary(path string) (*Glossary, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("glossary file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}

	g := &Glossary{}
	if err := toml.Unmarshal(content, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal glossary: %w", err)
	}
	if g.TargetLang == "" {
		return nil, fmt.Errorf("glossary file is missing target_lang")
	}
	return g, nil
}

// Lookup returns the fixed translation for text, if one exists. Matching is
// exact after trimming surrounding whitespace.
func (g *Glossary) Lookup(text string) (string, bool) {
	if g == nil || len(g.Translations) == 0 {
		return "", false
	}
	out, ok := g.Translations[strings.TrimSpace(text)]
	return out, ok
}
