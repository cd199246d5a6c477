package translator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/paulocilasjr/translate-file-docx/internal/config"
)

// fakeRewriter records calls and acts out the scripted outcome.
type fakeRewriter struct {
	exts     []string
	err      error
	panicMsg string
	calls    []string
}

func (f *fakeRewriter) Rewrite(ctx context.Context, inputPath, outputPath string) error {
	f.calls = append(f.calls, inputPath)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("translated"), 0o644)
}

func (f *fakeRewriter) Extensions() []string {
	return f.exts
}

func TestDispatcherRoutesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "doc.pdf"))
	touch(t, filepath.Join(dir, "doc.docx"))

	pdfRW := &fakeRewriter{exts: []string{".pdf"}}
	docxRW := &fakeRewriter{exts: []string{".docx", ".doc"}}
	d := newDispatcher(zaptest.NewLogger(t), pdfRW, docxRW)

	err := d.Process(context.Background(), Job{
		InputPath:  filepath.Join(dir, "doc.pdf"),
		OutputPath: filepath.Join(dir, "out", "doc.pdf"),
		Ext:        ".pdf",
	})
	require.NoError(t, err)

	err = d.Process(context.Background(), Job{
		InputPath:  filepath.Join(dir, "doc.docx"),
		OutputPath: filepath.Join(dir, "out", "doc.docx"),
		Ext:        ".docx",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "doc.pdf")}, pdfRW.calls)
	assert.Equal(t, []string{filepath.Join(dir, "doc.docx")}, docxRW.calls)
	assert.FileExists(t, filepath.Join(dir, "out", "doc.pdf"))
}

func TestDispatcherDerivesExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "doc.PDF"))

	pdfRW := &fakeRewriter{exts: []string{".pdf"}}
	d := newDispatcher(zaptest.NewLogger(t), pdfRW)

	err := d.Process(context.Background(), Job{
		InputPath:  filepath.Join(dir, "doc.PDF"),
		OutputPath: filepath.Join(dir, "out.pdf"),
	})
	require.NoError(t, err)
	assert.Len(t, pdfRW.calls, 1)
}

func TestDispatcherMissingFile(t *testing.T) {
	pdfRW := &fakeRewriter{exts: []string{".pdf"}}
	d := newDispatcher(zaptest.NewLogger(t), pdfRW)

	missing := filepath.Join(t.TempDir(), "gone.pdf")
	err := d.Process(context.Background(), Job{InputPath: missing, Ext: ".pdf"})
	require.ErrorIs(t, err, ErrMissingFile)
	assert.Contains(t, err.Error(), "gone.pdf")
	assert.Empty(t, pdfRW.calls)
}

func TestDispatcherUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))

	d := newDispatcher(zaptest.NewLogger(t), &fakeRewriter{exts: []string{".pdf"}})
	err := d.Process(context.Background(), Job{
		InputPath: filepath.Join(dir, "notes.txt"),
		Ext:       ".txt",
	})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bomb.pdf"))

	d := newDispatcher(zaptest.NewLogger(t), &fakeRewriter{
		exts:     []string{".pdf"},
		panicMsg: "slice bounds out of range",
	})

	err := d.Process(context.Background(), Job{
		InputPath: filepath.Join(dir, "bomb.pdf"),
		Ext:       ".pdf",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewriter panicked")
	assert.Contains(t, err.Error(), "slice bounds out of range")
}

func TestDispatcherPropagatesRewriterError(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bad.docx"))

	boom := errors.New("translation backend down")
	d := newDispatcher(zaptest.NewLogger(t), &fakeRewriter{exts: []string{".docx"}, err: boom})

	err := d.Process(context.Background(), Job{
		InputPath: filepath.Join(dir, "bad.docx"),
		Ext:       ".docx",
	})
	assert.ErrorIs(t, err, boom)
}

func TestNewDispatcherWiresEveryExtension(t *testing.T) {
	cfg := config.NewDefaultConfig()
	d, err := NewDispatcher(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, ext := range []string{".pdf", ".docx", ".doc", ".rtf"} {
		assert.Contains(t, d.rewriters, ext)
	}
	assert.Len(t, d.rewriters, 4)
}

func TestNewDispatcherUnknownProvider(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Provider = "carrier-pigeon"

	_, err := NewDispatcher(cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestNewDispatcherMissingGlossary(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.GlossaryPath = filepath.Join(t.TempDir(), "nope.toml")

	_, err := NewDispatcher(cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glossary")
}
