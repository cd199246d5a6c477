package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FormatBridge translates formats the native rewriters cannot open. The file
// is converted to an intermediate word-processor archive inside a scoped
// temporary directory, the archive rewriter runs on it in place, and the
// result is converted back to the original format at the requested path. The
// intermediate never touches the output tree.
type FormatBridge struct {
	converter Converter
	archive   Rewriter
	logger    *zap.Logger
}

// NewFormatBridge wires a converter to the archive rewriter that handles the
// intermediate document.
func NewFormatBridge(converter Converter, archive Rewriter, logger *zap.Logger) *FormatBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormatBridge{
		converter: converter,
		archive:   archive,
		logger:    logger,
	}
}

var _ Rewriter = (*FormatBridge)(nil)

// Extensions implements Rewriter.
func (b *FormatBridge) Extensions() []string { return []string{".doc", ".rtf"} }

// Rewrite implements Rewriter. Any step failing aborts the whole bridge for
// this file; errors name the original extension so the log reads in terms of
// what the user submitted.
func (b *FormatBridge) Rewrite(ctx context.Context, inputPath, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	format := strings.TrimPrefix(ext, ".")

	workDir, err := os.MkdirTemp("", "bridge-")
	if err != nil {
		return fmt.Errorf("bridge %s: %w", ext, err)
	}
	defer os.RemoveAll(workDir)

	intermediate, err := b.converter.Convert(ctx, inputPath, workDir, "docx")
	if err != nil {
		return fmt.Errorf("bridge %s: %w", ext, err)
	}
	b.logger.Debug("bridging through intermediate",
		zap.String("input", filepath.Base(inputPath)),
		zap.String("intermediate", filepath.Base(intermediate)))

	if err := b.archive.Rewrite(ctx, intermediate, intermediate); err != nil {
		return fmt.Errorf("bridge %s: %w", ext, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("bridge %s: %w", ext, err)
	}
	converted, err := b.converter.Convert(ctx, intermediate, filepath.Dir(outputPath), format)
	if err != nil {
		return fmt.Errorf("bridge %s: %w", ext, err)
	}
	if converted != outputPath {
		if err := os.Rename(converted, outputPath); err != nil {
			return fmt.Errorf("bridge %s: %w", ext, err)
		}
	}
	return nil
}
