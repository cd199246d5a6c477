// Package ocr extracts text from raster images through an external
// recognition engine. Archive rewriting uses it to find translatable text in
// pictures embedded in documents.
package ocr

import (
	"context"
	"errors"
)

var (
	// ErrEngineNotFound is returned when the recognition binary is not
	// installed on PATH.
	ErrEngineNotFound = errors.New("ocr engine not found")

	// ErrRecognitionFailed wraps engine invocation or output parsing errors.
	ErrRecognitionFailed = errors.New("ocr recognition failed")
)

// Engine recognizes the text content of a single image file.
type Engine interface {
	// Recognize returns the text found in the image at path. An image with
	// no recognizable text yields an empty string, not an error.
	Recognize(ctx context.Context, path string) (string, error)
	// Name identifies the engine in logs.
	Name() string
}
