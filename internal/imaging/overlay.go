// Package imaging annotates raster images with translated text. The overlay
// is a plain white strip across the bottom of the picture with the
// translation drawn on top, so the original pixels above it stay intact.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// stripHeight is the height in pixels of the caption band at the bottom of
// the image.
const stripHeight = 30

// SupportedFormat reports whether the file name carries an image extension
// the overlay can decode and re-encode.
func SupportedFormat(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// BurnCaption rewrites the image at path with text drawn on a white strip
// across the bottom. The file keeps its format; JPEG output uses the codec
// default quality. Newlines in text are collapsed since the strip holds a
// single caption line.
func BurnCaption(path, text string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	src, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Src)

	stripTop := height - stripHeight
	if stripTop < 0 {
		stripTop = 0
	}
	strip := image.Rect(0, stripTop, width, height)
	draw.Draw(canvas, strip, image.NewUniform(color.White), image.Point{}, draw.Src)

	caption := strings.Join(strings.Fields(text), " ")
	face := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(10, stripTop+face.Ascent),
	}
	drawer.DrawString(caption)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite image: %w", err)
	}

	switch format {
	case "png":
		err = png.Encode(out, canvas)
	case "jpeg":
		err = jpeg.Encode(out, canvas, nil)
	default:
		err = fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("encode image %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
