package document

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageGeometry is a page's media box, in PDF user space.
type pageGeometry struct {
	originX, originY float64
	width, height    float64
}

// pageBlocks holds the translatable regions of one page.
type pageBlocks struct {
	number int // 1-based
	geom   pageGeometry
	blocks []textBlock
}

// textBlock is a paragraph-shaped group of lines with its bounding box in
// PDF user-space coordinates, origin at the lower left.
type textBlock struct {
	text           string
	x0, y0, x1, y1 float64
	fontSize       float64
}

// textLine groups glyph runs sharing a baseline.
type textLine struct {
	baseline float64
	x0, x1   float64
	fontSize float64
	text     string
}

// extractBlocks reads every page's text runs and folds them into
// paragraph-like blocks. Lines ending in a hyphen are rejoined with the next
// line so words split by the original layout reach the translator whole.
func extractBlocks(path string) ([]pageBlocks, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	defer f.Close()

	var pages []pageBlocks
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, pageBlocks{
			number: n,
			geom:   pageSize(page),
			blocks: groupBlocks(collectLines(page)),
		})
	}
	return pages, nil
}

// pageSize resolves the page's media box, walking up the page tree because
// the entry may be inherited. Falls back to A4.
func pageSize(page pdf.Page) pageGeometry {
	v := page.V
	for i := 0; i < 32 && !v.IsNull(); i++ {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			x0, y0 := mb.Index(0).Float64(), mb.Index(1).Float64()
			x1, y1 := mb.Index(2).Float64(), mb.Index(3).Float64()
			if x1 > x0 && y1 > y0 {
				return pageGeometry{originX: x0, originY: y0, width: x1 - x0, height: y1 - y0}
			}
		}
		v = v.Key("Parent")
	}
	return pageGeometry{width: 595.28, height: 841.89}
}

// collectLines extracts the page's glyph runs and merges them into lines.
func collectLines(page pdf.Page) []textLine {
	return linesFromRuns(page.Content().Text)
}

// linesFromRuns orders glyph runs top to bottom, left to right, and merges
// runs sharing a baseline into lines. Runs separated by a horizontal gap get
// a space, since many documents do not encode spaces as glyphs.
func linesFromRuns(src []pdf.Text) []textLine {
	runs := make([]pdf.Text, len(src))
	copy(runs, src)
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var lines []textLine
	for _, run := range runs {
		if run.S == "" {
			continue
		}
		size := run.FontSize
		if size <= 0 {
			size = 10
		}

		if len(lines) > 0 {
			line := &lines[len(lines)-1]
			tol := math.Max(2, 0.25*math.Max(size, line.fontSize))
			if math.Abs(run.Y-line.baseline) <= tol {
				if gap := run.X - line.x1; gap > 0.3*size && !strings.HasSuffix(line.text, " ") {
					line.text += " "
				}
				line.text += run.S
				line.x0 = math.Min(line.x0, run.X)
				line.x1 = math.Max(line.x1, run.X+run.W)
				line.fontSize = math.Max(line.fontSize, size)
				continue
			}
		}
		lines = append(lines, textLine{
			baseline: run.Y,
			x0:       run.X,
			x1:       run.X + run.W,
			fontSize: size,
			text:     run.S,
		})
	}
	return lines
}

// blockGapFactor is the largest vertical gap, in multiples of the font
// size, at which two consecutive lines still belong to one block.
const blockGapFactor = 1.6

// groupBlocks folds consecutive lines into blocks. A line ending in a
// hyphen is joined to the next without a separator, dropping the hyphen.
func groupBlocks(lines []textLine) []textBlock {
	var blocks []textBlock
	var cur *textBlock
	var prevBaseline float64

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.text) != "" {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}

	for _, line := range lines {
		top := line.baseline + 0.85*line.fontSize
		bottom := line.baseline - 0.25*line.fontSize

		if cur == nil || prevBaseline-line.baseline > blockGapFactor*math.Max(line.fontSize, cur.fontSize) {
			flush()
			cur = &textBlock{
				text:     line.text,
				x0:       line.x0,
				y0:       bottom,
				x1:       line.x1,
				y1:       top,
				fontSize: line.fontSize,
			}
			prevBaseline = line.baseline
			continue
		}

		if strings.HasSuffix(cur.text, "-") {
			cur.text = strings.TrimSuffix(cur.text, "-") + line.text
		} else {
			cur.text += " " + line.text
		}
		cur.x0 = math.Min(cur.x0, line.x0)
		cur.x1 = math.Max(cur.x1, line.x1)
		cur.y0 = math.Min(cur.y0, bottom)
		cur.y1 = math.Max(cur.y1, top)
		prevBaseline = line.baseline
	}
	flush()
	return blocks
}
