package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/paulocilasjr/translate-file-docx/internal/imaging"
	"github.com/paulocilasjr/translate-file-docx/internal/ocr"
)

// DocxRewriter translates word-processor archives in two phases: first the
// paragraph text of the main document part, body and table cells alike, then
// the embedded images, which get recognized text translated and burned back
// on as a caption. The archive is fully repacked, so every part of the input
// reappears in the output.
type DocxRewriter struct {
	translate TranslateFunc
	engine    ocr.Engine
	logger    *zap.Logger
}

// NewDocxRewriter builds a rewriter. engine may be nil, in which case
// embedded images are carried over untouched.
func NewDocxRewriter(translate TranslateFunc, engine ocr.Engine, logger *zap.Logger) *DocxRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocxRewriter{
		translate: translate,
		engine:    engine,
		logger:    logger,
	}
}

var _ Rewriter = (*DocxRewriter)(nil)

// Extensions implements Rewriter.
func (d *DocxRewriter) Extensions() []string { return []string{".docx"} }

// Rewrite implements Rewriter. The translated archive is assembled in a
// scoped temporary directory and moved over outputPath in one rename, so an
// interrupted run never leaves a half-written document and inputPath may
// equal outputPath.
func (d *DocxRewriter) Rewrite(ctx context.Context, inputPath, outputPath string) error {
	workDir, err := os.MkdirTemp("", "docx-")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	defer os.RemoveAll(workDir)

	unpacked := filepath.Join(workDir, "parts")
	if err := extractArchive(inputPath, unpacked); err != nil {
		return err
	}

	docPart := filepath.Join(unpacked, "word", "document.xml")
	if _, err := os.Stat(docPart); err != nil {
		return fmt.Errorf("%w: missing word/document.xml", ErrArchiveInvalid)
	}
	if err := rewriteDocumentXML(ctx, docPart, d.translate); err != nil {
		return err
	}

	if err := d.translateMedia(ctx, filepath.Join(unpacked, "word", "media")); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".doctrans-*.docx")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := packArchive(unpacked, tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	return nil
}

// translateMedia runs recognition over the archive's image parts and burns
// the translated text onto each image that has any. Images with no
// recognizable text stay byte-identical. A recognition or translation error
// aborts the whole document.
func (d *DocxRewriter) translateMedia(ctx context.Context, mediaDir string) error {
	if d.engine == nil {
		return nil
	}
	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !imaging.SupportedFormat(entry.Name()) {
			continue
		}
		path := filepath.Join(mediaDir, entry.Name())

		text, err := d.engine.Recognize(ctx, path)
		if err != nil {
			return fmt.Errorf("image %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(text) == "" {
			d.logger.Debug("no text recognized, image kept as is",
				zap.String("image", entry.Name()))
			continue
		}

		translated, err := d.translate(ctx, text)
		if err != nil {
			return fmt.Errorf("image %s: %w", entry.Name(), err)
		}
		if err := imaging.BurnCaption(path, translated); err != nil {
			return fmt.Errorf("image %s: %w", entry.Name(), err)
		}
		d.logger.Debug("image translated", zap.String("image", entry.Name()))
	}
	return nil
}
