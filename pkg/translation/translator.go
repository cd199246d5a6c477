package translation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/paulocilasjr/translate-file-docx/internal/config"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
)

// Options are the immutable pipeline parameters. The chunk limit is the
// longest text, in runes, the backend accepts in one call.
type Options struct {
	TargetLanguage string
	ChunkLimit     int
	Glossary       *config.Glossary
	Logger         *zap.Logger
}

// Translator splits oversized text into word-aligned chunks below the backend
// length limit, translates them in order, and rejoins the results. It is the
// sole caller of the translation backend.
type Translator struct {
	provider providers.TranslationProvider
	target   string
	limit    int
	glossary *config.Glossary
	logger   *zap.Logger
}

// New creates a Translator around a backend.
func New(provider providers.TranslationProvider, opts Options) (*Translator, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	if opts.ChunkLimit <= 0 {
		return nil, fmt.Errorf("%w: chunk limit %d", ErrInvalidOptions, opts.ChunkLimit)
	}
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: empty target language", ErrInvalidOptions)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Translator{
		provider: provider,
		target:   opts.TargetLanguage,
		limit:    opts.ChunkLimit,
		glossary: opts.Glossary,
		logger:   logger,
	}, nil
}

// Translate converts text into the target language. Empty or whitespace-only
// input is returned unchanged without touching the backend. Text over the
// chunk limit is split on word boundaries, translated chunk by chunk in
// order, and rejoined with single spaces; the rejoin collapses the original
// whitespace across chunk boundaries.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if out, ok := t.glossary.Lookup(text); ok {
		t.logger.Debug("glossary hit", zap.Int("chars", utf8.RuneCountInString(text)))
		return out, nil
	}

	if utf8.RuneCountInString(text) <= t.limit {
		return t.translateChunk(ctx, text)
	}

	chunks := ChunkText(text, t.limit)
	t.logger.Debug("text over limit, chunking",
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.Int("chunks", len(chunks)))

	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := t.translateChunk(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, " "), nil
}

func (t *Translator) translateChunk(ctx context.Context, text string) (string, error) {
	resp, err := t.provider.Translate(ctx, &providers.Request{
		Text:   text,
		Source: "auto",
		Target: t.target,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}
	return resp.Text, nil
}

// ChunkText splits text into word-aligned chunks of at most limit runes.
// Words are whitespace-delimited tokens; a word is appended to the running
// buffer while the buffer plus a separating space stays within the limit,
// otherwise the buffer is flushed and the word starts the next chunk. A
// single word longer than the limit is hard-split at limit runes so no chunk
// ever exceeds it.
func ChunkText(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > limit {
			flush()
			for _, piece := range splitRunes(word, limit) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if currentLen+wordLen+1 > limit {
			flush()
		}
		current.WriteString(word)
		current.WriteString(" ")
		currentLen += wordLen + 1
	}
	flush()

	return chunks
}

// splitRunes cuts s into pieces of at most limit runes.
func splitRunes(s string, limit int) []string {
	runes := []rune(s)
	var pieces []string
	for len(runes) > limit {
		pieces = append(pieces, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
