package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// PDFRewriter translates page-description documents while keeping their
// layout. Every page's text blocks are extracted with their bounding boxes,
// translated, and stamped back as an erase-and-retype overlay: a white fill
// over the original box with the translation typeset inside it. All stamps
// live on one optional-content layer named for the target language, visible
// by default and toggleable in any capable reader.
type PDFRewriter struct {
	translate TranslateFunc
	language  string
	logger    *zap.Logger
}

// NewPDFRewriter builds a rewriter. language is the display name of the
// target language and labels the overlay layer.
func NewPDFRewriter(translate TranslateFunc, language string, logger *zap.Logger) *PDFRewriter {
	if language == "" {
		language = "Translation"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRewriter{
		translate: translate,
		language:  language,
		logger:    logger,
	}
}

var _ Rewriter = (*PDFRewriter)(nil)

// Extensions implements Rewriter.
func (p *PDFRewriter) Extensions() []string { return []string{".pdf"} }

// Rewrite implements Rewriter. All intermediate artifacts live in a scoped
// temporary directory; the finished document is moved over outputPath in one
// rename. Any failure aborts the whole document, nothing partial is saved.
func (p *PDFRewriter) Rewrite(ctx context.Context, inputPath, outputPath string) error {
	pages, err := extractBlocks(inputPath)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "pdf-")
	if err != nil {
		return fmt.Errorf("pdf rewrite: %w", err)
	}
	defer os.RemoveAll(workDir)

	var overlays []overlayPage
	blocks := 0
	for _, pb := range pages {
		if len(pb.blocks) == 0 {
			continue
		}
		translations := make([]string, len(pb.blocks))
		for i, b := range pb.blocks {
			out, err := p.translate(ctx, b.text)
			if err != nil {
				return fmt.Errorf("page %d: %w", pb.number, err)
			}
			translations[i] = out
			blocks++
		}
		overlays = append(overlays, buildOverlayPage(pb, translations))
	}
	p.logger.Debug("pdf text translated",
		zap.Int("pages", len(pages)),
		zap.Int("blocks", blocks))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("pdf rewrite: %w", err)
	}

	if len(overlays) == 0 {
		// No text anywhere, the translation is a faithful copy.
		return replaceFile(inputPath, outputPath)
	}

	overlayPath := filepath.Join(workDir, "overlay.pdf")
	pageMap, err := renderOverlay(overlays, overlayPath)
	if err != nil {
		return err
	}

	stamped := filepath.Join(workDir, "stamped.pdf")
	if err := stampOverlays(inputPath, overlayPath, stamped, pageMap); err != nil {
		return err
	}

	layer := fmt.Sprintf("%s %s", p.language, uuid.New().String()[:8])
	if err := renameOverlayLayer(stamped, layer); err != nil {
		return err
	}

	optimized := filepath.Join(workDir, "optimized.pdf")
	if err := api.OptimizeFile(stamped, optimized, nil); err != nil {
		return fmt.Errorf("optimize output: %w", err)
	}

	return replaceFile(optimized, outputPath)
}
