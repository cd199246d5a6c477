// Package translator drives document translation jobs: it discovers them,
// routes each one to the rewriter for its file type, and keeps one job's
// failure from touching the rest of the batch.
package translator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/paulocilasjr/translate-file-docx/internal/config"
	"github.com/paulocilasjr/translate-file-docx/internal/document"
	"github.com/paulocilasjr/translate-file-docx/internal/ocr"
	"github.com/paulocilasjr/translate-file-docx/pkg/providers/factory"
	"github.com/paulocilasjr/translate-file-docx/pkg/translation"
)

var (
	// ErrMissingFile marks a job whose input path is gone at dispatch time.
	ErrMissingFile = errors.New("input file does not exist")

	// ErrUnsupportedFormat marks an extension no rewriter claims. Job
	// discovery filters these out, so hitting it means a hand-built job.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Dispatcher routes one job to the rewriter registered for its extension.
// It is the single place where anything going wrong inside a rewriter is
// turned into an error the batch driver can log and move past.
type Dispatcher struct {
	rewriters map[string]document.Rewriter
	logger    *zap.Logger
}

// NewDispatcher wires the pipeline from configuration: translation backend,
// chunked translator, recognition engine, and one rewriter per supported
// extension.
func NewDispatcher(cfg *config.Config, logger *zap.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := factory.New(cfg)
	if err != nil {
		return nil, err
	}

	var glossary *config.Glossary
	if cfg.GlossaryPath != "" {
		if glossary, err = config.LoadGlossary(cfg.GlossaryPath); err != nil {
			return nil, err
		}
	}

	svc, err := translation.New(provider, translation.Options{
		TargetLanguage: cfg.TargetLanguage,
		ChunkLimit:     cfg.ChunkLimit,
		Glossary:       glossary,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	engine := ocr.NewTesseract(cfg.OCR.Binary, cfg.OCR.Languages, logger)
	docx := document.NewDocxRewriter(svc.Translate, engine, logger)
	pdf := document.NewPDFRewriter(svc.Translate, cfg.TargetLanguageName(), logger)
	bridge := document.NewFormatBridge(document.NewPandocConverter(cfg.Converter, logger), docx, logger)

	return newDispatcher(logger, pdf, docx, bridge), nil
}

func newDispatcher(logger *zap.Logger, rewriters ...document.Rewriter) *Dispatcher {
	byExt := make(map[string]document.Rewriter)
	for _, rw := range rewriters {
		for _, ext := range rw.Extensions() {
			byExt[ext] = rw
		}
	}
	return &Dispatcher{rewriters: byExt, logger: logger}
}

// Process translates one document. A panic out of a rewriter or the
// libraries underneath it is converted to an error here, so one malformed
// document can never take the whole batch down.
func (d *Dispatcher) Process(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rewriter panicked: %v", r)
		}
	}()

	if _, statErr := os.Stat(job.InputPath); statErr != nil {
		if os.IsNotExist(statErr) {
			return fmt.Errorf("%w: %s", ErrMissingFile, job.InputPath)
		}
		return statErr
	}

	ext := strings.ToLower(job.Ext)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(job.InputPath))
	}
	rw, ok := d.rewriters[ext]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	d.logger.Debug("dispatching job",
		zap.String("input", job.InputPath),
		zap.String("output", job.OutputPath),
		zap.String("ext", ext))
	return rw.Rewrite(ctx, job.InputPath, job.OutputPath)
}
