package document

import "errors"

var (
	// ErrConverterNotFound is returned when the external document converter
	// is not installed. The message carries a remediation hint because this
	// is the one failure the user can fix directly.
	ErrConverterNotFound = errors.New("document converter not found, install pandoc and make sure it is on PATH")

	// ErrConversionFailed is returned when the converter runs but exits
	// non-zero.
	ErrConversionFailed = errors.New("document conversion failed")

	// ErrArchiveInvalid is returned when a word-processor archive cannot be
	// unpacked or is structurally broken.
	ErrArchiveInvalid = errors.New("invalid document archive")

	// ErrDocumentInvalid is returned when a page-description document cannot
	// be parsed.
	ErrDocumentInvalid = errors.New("invalid document")
)
