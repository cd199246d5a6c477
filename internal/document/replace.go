package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// replaceFile installs src at dst without ever exposing a half-written file:
// the content is copied into a temporary sibling of dst and renamed over it.
// Rename within one directory keeps the final step atomic even when src
// lives on another filesystem, and lets dst equal the file a rewrite started
// from.
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".doctrans-*")
	if err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	return nil
}
