package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, name string, width, height int, encode func(*os.File, image.Image) error) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 200, A: 255}), image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

// channelsAbove reports whether every color channel at (x, y) exceeds min,
// with a threshold loose enough for JPEG artifacts.
func channelsAbove(img image.Image, x, y int, min uint32) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r > min && g > min && b > min
}

func TestSupportedFormat(t *testing.T) {
	assert.True(t, SupportedFormat("chart.png"))
	assert.True(t, SupportedFormat("photo.JPG"))
	assert.True(t, SupportedFormat("scan.jpeg"))
	assert.False(t, SupportedFormat("diagram.gif"))
	assert.False(t, SupportedFormat("vector.emf"))
	assert.False(t, SupportedFormat("notes.txt"))
}

func TestBurnCaptionPNG(t *testing.T) {
	path := writeTestImage(t, "in.png", 120, 60, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})

	require.NoError(t, BurnCaption(path, "Hello world"))

	out := decodeFile(t, path)
	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 60, out.Bounds().Dy())

	// The top of the image is untouched.
	r, g, b, _ := out.At(60, 10).RGBA()
	assert.Greater(t, r, uint32(0xb000))
	assert.Less(t, g, uint32(0x2000))
	assert.Less(t, b, uint32(0x2000))

	// The strip corner, clear of the caption, is white.
	assert.True(t, channelsAbove(out, 115, 55, 0xf000), "strip should be white")

	// Somewhere in the strip the caption left dark pixels.
	found := false
	for y := 30; y < 60 && !found; y++ {
		for x := 10; x < 100 && !found; x++ {
			r, g, b, _ := out.At(x, y).RGBA()
			if r < 0x3000 && g < 0x3000 && b < 0x3000 {
				found = true
			}
		}
	}
	assert.True(t, found, "caption text should be drawn in the strip")
}

func TestBurnCaptionJPEG(t *testing.T) {
	path := writeTestImage(t, "in.jpg", 100, 80, func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, nil)
	})

	require.NoError(t, BurnCaption(path, "Legenda"))

	out := decodeFile(t, path)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.True(t, channelsAbove(out, 95, 75, 0xc000), "strip should be near white")
}

func TestBurnCaptionCollapsesNewlines(t *testing.T) {
	path := writeTestImage(t, "in.png", 200, 50, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})
	require.NoError(t, BurnCaption(path, "first\nsecond\n\nthird"))
}

func TestBurnCaptionShorterThanStrip(t *testing.T) {
	path := writeTestImage(t, "tiny.png", 50, 20, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})

	require.NoError(t, BurnCaption(path, "x"))

	out := decodeFile(t, path)
	assert.Equal(t, 20, out.Bounds().Dy())
	assert.True(t, channelsAbove(out, 45, 2, 0xf000), "whole image becomes the strip")
}

func TestBurnCaptionRejectsUnknownData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
	assert.Error(t, BurnCaption(path, "caption"))
}
