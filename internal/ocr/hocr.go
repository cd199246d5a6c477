package ocr

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHOCR flattens a tesseract hOCR document to plain text. Words inside a
// line are joined with single spaces and lines are joined with newlines, so
// the result reads the way the page does.
func ParseHOCR(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse hocr: %w", err)
	}

	var lines []string
	doc.Find(".ocr_line, .ocr_caption, .ocr_textfloat, .ocr_header").Each(func(_ int, line *goquery.Selection) {
		var words []string
		line.Find(".ocrx_word").Each(func(_ int, word *goquery.Selection) {
			if text := strings.TrimSpace(word.Text()); text != "" {
				words = append(words, text)
			}
		})
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	})

	return strings.Join(lines, "\n"), nil
}
