package translation

import "errors"

var (
	// ErrNoProvider is returned when a Translator is built without a backend.
	ErrNoProvider = errors.New("translation provider not configured")

	// ErrInvalidOptions is returned for unusable pipeline parameters.
	ErrInvalidOptions = errors.New("invalid translator options")

	// ErrTranslationFailed wraps any backend failure. A document rewrite that
	// hits it is abandoned as a whole; the batch moves on.
	ErrTranslationFailed = errors.New("translation failed")
)
