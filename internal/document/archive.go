package document

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// extractArchive unpacks the zip archive at src into destDir. Entry names
// are validated so a crafted archive cannot write outside destDir.
func extractArchive(src, destDir string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		target, err := archivePath(destDir, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
		}
		if err := extractEntry(entry, target); err != nil {
			return fmt.Errorf("%w: entry %s: %v", ErrArchiveInvalid, entry.Name, err)
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// archivePath resolves an archive entry name below destDir and rejects names
// that escape it.
func archivePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if target != filepath.Clean(destDir) && !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes the archive root", ErrArchiveInvalid, name)
	}
	return target, nil
}

// packArchive zips every file under srcDir into dest using deflate
// compression. Entry names are slash-separated paths relative to srcDir, so
// the archive lists the same parts the unpacked tree holds.
func packArchive(srcDir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if walkErr != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, walkErr)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	return nil
}
