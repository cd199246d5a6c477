package translator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Job is one document to translate: where the input lives, where the
// translated copy goes, and the extension that routes it to a rewriter.
type Job struct {
	InputPath  string
	OutputPath string
	Ext        string
}

// translatableExtensions are the file types the dispatcher can route.
var translatableExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".rtf":  true,
}

// RecognizedExtension reports whether files with this extension can be
// translated. The check is case-insensitive.
func RecognizedExtension(ext string) bool {
	return translatableExtensions[strings.ToLower(ext)]
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// DiscoverJobs walks the input root and returns one job per translatable
// file, in traversal order. Each output path mirrors the input's path
// relative to the input root, rooted under the output root instead. Hidden
// files are always skipped.
func DiscoverJobs(inputRoot, outputRoot string, logger *zap.Logger) ([]Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var jobs []Job
	err := filepath.WalkDir(inputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if isHidden(name) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !translatableExtensions[ext] {
			logger.Debug("skipping untranslatable file", zap.String("path", path))
			return nil
		}

		rel, relErr := filepath.Rel(inputRoot, path)
		if relErr != nil {
			rel = name
		}
		jobs = append(jobs, Job{
			InputPath:  path,
			OutputPath: filepath.Join(outputRoot, rel),
			Ext:        ext,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", inputRoot, err)
	}
	return jobs, nil
}

// LoadManifest reads a CSV job list: a header row, then one input path per
// row in the first column. Rows that cannot become a job are skipped with a
// logged reason so one bad line never kills the whole batch.
func LoadManifest(path, inputRoot, outputRoot string, logger *zap.Logger) ([]Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest header: %w", err)
	}

	var jobs []Job
	for row := 2; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest row %d: %w", row, err)
		}

		var input string
		if len(record) > 0 {
			input = strings.TrimSpace(record[0])
		}
		if reason := vetManifestPath(input); reason != "" {
			logger.Warn("skipping manifest row",
				zap.Int("row", row),
				zap.String("path", input),
				zap.String("reason", reason))
			continue
		}

		jobs = append(jobs, Job{
			InputPath:  input,
			OutputPath: filepath.Join(outputRoot, mirrorPath(input, inputRoot)),
			Ext:        strings.ToLower(filepath.Ext(input)),
		})
	}
	return jobs, nil
}

// vetManifestPath returns the reason a manifest path must be skipped, or ""
// to accept it.
func vetManifestPath(input string) string {
	if input == "" {
		return "row has no path"
	}
	if isHidden(filepath.Base(input)) {
		return "hidden file"
	}
	if !translatableExtensions[strings.ToLower(filepath.Ext(input))] {
		return "unrecognized extension"
	}
	info, err := os.Stat(input)
	if err != nil {
		return "file does not exist"
	}
	if info.IsDir() {
		return "path is a directory"
	}
	return ""
}

// mirrorPath maps input to its path relative to the input root, which places
// the output next to its siblings. Inputs outside the root collapse to their
// base name.
func mirrorPath(input, inputRoot string) string {
	rel, err := filepath.Rel(inputRoot, input)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(input)
	}
	return rel
}
