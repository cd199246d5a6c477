package document

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// PandocConverter implements Converter by shelling out to pandoc.
type PandocConverter struct {
	binary string
	logger *zap.Logger
}

// NewPandocConverter builds a converter around the given binary name or
// path; empty means "pandoc".
func NewPandocConverter(binary string, logger *zap.Logger) *PandocConverter {
	if binary == "" {
		binary = "pandoc"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PandocConverter{binary: binary, logger: logger}
}

var _ Converter = (*PandocConverter)(nil)

// Convert implements Converter. The output lands in outputDir under the
// input's base name with the target extension. Rich-text output needs the
// explicit format flag; pandoc does not infer it from the .rtf extension.
func (p *PandocConverter) Convert(ctx context.Context, inputPath, outputDir, targetFormat string) (string, error) {
	bin, err := exec.LookPath(p.binary)
	if err != nil {
		return "", fmt.Errorf("%w (looked for %q)", ErrConverterNotFound, p.binary)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, base+"."+targetFormat)

	args := []string{inputPath}
	if targetFormat == "rtf" {
		args = append(args, "--to=rtf")
	}
	args = append(args, "-o", outputPath)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.logger.Debug("converting document",
		zap.String("input", filepath.Base(inputPath)),
		zap.String("to", targetFormat))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s to %s: %v: %s",
			ErrConversionFailed, filepath.Base(inputPath), targetFormat, err,
			strings.TrimSpace(stderr.String()))
	}
	return outputPath, nil
}
