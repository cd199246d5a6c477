package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlossary(t *testing.T) {
	path := writeFile(t, "glossary.toml", `
source_lang = "en"
target_lang = "pt"

[translations]
"Stop" = "Pare"
"Exit" = "Saída"
`)

	g, err := LoadGlossary(path)
	require.NoError(t, err)

	assert.Equal(t, "en", g.SourceLang)
	assert.Equal(t, "pt", g.TargetLang)
	assert.Len(t, g.Translations, 2)
	assert.Equal(t, "Pare", g.Translations["Stop"])
}

func TestLoadGlossaryMissingFile(t *testing.T) {
	_, err := LoadGlossary(filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadGlossaryRequiresTargetLang(t *testing.T) {
	path := writeFile(t, "glossary.toml", `
[translations]
"Stop" = "Pare"
`)

	_, err := LoadGlossary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_lang")
}

func TestLoadGlossaryMalformedFile(t *testing.T) {
	path := writeFile(t, "glossary.toml", "not toml at all [")

	_, err := LoadGlossary(path)
	assert.Error(t, err)
}

func TestGlossaryLookup(t *testing.T) {
	g := &Glossary{Translations: map[string]string{"Stop": "Pare"}}

	out, ok := g.Lookup("  Stop ")
	assert.True(t, ok, "surrounding whitespace is ignored")
	assert.Equal(t, "Pare", out)

	_, ok = g.Lookup("stop")
	assert.False(t, ok, "matching is case sensitive")
}

func TestGlossaryLookupNil(t *testing.T) {
	var g *Glossary

	_, ok := g.Lookup("anything")
	assert.False(t, ok)
}
