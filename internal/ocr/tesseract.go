package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const defaultBinary = "tesseract"

// Tesseract runs the tesseract CLI and reads back its hOCR output. The hOCR
// format keeps the line structure of the recognized text, which plain txt
// output flattens.
type Tesseract struct {
	binary    string
	languages string
	logger    *zap.Logger
}

// NewTesseract builds an engine around the given binary. languages is a
// tesseract language list such as "eng" or "eng+por"; empty means the engine
// default.
func NewTesseract(binary, languages string, logger *zap.Logger) *Tesseract {
	if binary == "" {
		binary = defaultBinary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{
		binary:    binary,
		languages: languages,
		logger:    logger,
	}
}

// Name implements Engine.
func (t *Tesseract) Name() string { return t.binary }

// Recognize implements Engine. The binary is looked up on every call so a
// missing installation surfaces as ErrEngineNotFound at the point of use.
func (t *Tesseract) Recognize(ctx context.Context, path string) (string, error) {
	bin, err := exec.LookPath(t.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not installed or not on PATH", ErrEngineNotFound, t.binary)
	}

	workDir, err := os.MkdirTemp("", "ocr-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	defer os.RemoveAll(workDir)

	outBase := filepath.Join(workDir, "result")
	args := []string{path, outBase}
	if t.languages != "" {
		args = append(args, "-l", t.languages)
	}
	args = append(args, "hocr")

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t.logger.Debug("running ocr", zap.String("binary", t.binary), zap.String("image", filepath.Base(path)))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s %s: %v: %s",
			ErrRecognitionFailed, t.binary, filepath.Base(path), err, strings.TrimSpace(stderr.String()))
	}

	f, err := os.Open(outBase + ".hocr")
	if err != nil {
		return "", fmt.Errorf("%w: missing hocr output: %v", ErrRecognitionFailed, err)
	}
	defer f.Close()

	text, err := ParseHOCR(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	return text, nil
}
