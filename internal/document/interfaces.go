// Package document rewrites files in place-preserving ways: the text is
// translated while the surrounding layout, formatting, and binary parts are
// carried over untouched.
package document

import "context"

// TranslateFunc converts text into the pipeline's target language. The
// document rewriters depend only on this function, not on how translation is
// performed.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// Rewriter produces a translated counterpart of a document file. inputPath
// and outputPath may be equal; implementations must replace the file
// atomically in that case.
type Rewriter interface {
	Rewrite(ctx context.Context, inputPath, outputPath string) error

	// Extensions lists the lower-case file extensions the rewriter accepts,
	// dot included.
	Extensions() []string
}

// Converter renders a document into another format. Implementations may
// shell out to an external tool, bind a library, or call a service; callers
// depend only on this capability.
type Converter interface {
	// Convert writes input rendered as targetFormat (an extension without
	// the dot, such as "docx" or "rtf") into outputDir and returns the path
	// of the written file.
	Convert(ctx context.Context, inputPath, outputDir, targetFormat string) (string, error)
}
