package document

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// overlayRegion is one erase-and-retype rectangle in top-down page
// coordinates, the system the overlay renderer draws in.
type overlayRegion struct {
	x, y, w, h float64
	text       string
	fontSize   float64
}

// overlayPage collects the regions stamped onto one source page.
type overlayPage struct {
	sourcePage    int
	width, height float64
	regions       []overlayRegion
}

// buildOverlayPage converts a page's translated blocks from PDF user space
// (origin bottom left, possibly offset) into the top-down coordinates the
// renderer uses. translations is indexed like pb.blocks.
func buildOverlayPage(pb pageBlocks, translations []string) overlayPage {
	page := overlayPage{
		sourcePage: pb.number,
		width:      pb.geom.width,
		height:     pb.geom.height,
	}
	for i, b := range pb.blocks {
		page.regions = append(page.regions, overlayRegion{
			x:        b.x0 - pb.geom.originX,
			y:        pb.geom.height - (b.y1 - pb.geom.originY),
			w:        b.x1 - b.x0,
			h:        b.y1 - b.y0,
			text:     translations[i],
			fontSize: b.fontSize,
		})
	}
	return page
}

// renderOverlay writes the overlay document: one page per entry in pages,
// sized like its source page, holding solid white fills with the translated
// text typeset inside them. Text longer than its rectangle overflows
// downward; the box is never grown or the font shrunk to force a fit.
// Returns the 1-based source page number to overlay page number mapping.
func renderOverlay(pages []overlayPage, path string) (map[int]int, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pages[0].width, Ht: pages[0].height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	doc.SetAutoPageBreak(false, 0)
	translate := doc.UnicodeTranslatorFromDescriptor("")

	pageMap := make(map[int]int, len(pages))
	for i, page := range pages {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: page.width, Ht: page.height})
		pageMap[page.sourcePage] = i + 1

		doc.SetFillColor(255, 255, 255)
		for _, r := range page.regions {
			doc.Rect(r.x, r.y, r.w, r.h, "F")
			if r.text == "" {
				continue
			}
			size := r.fontSize
			if size <= 0 {
				size = 10
			}
			doc.SetFont("Helvetica", "", size)
			doc.SetTextColor(0, 0, 0)
			// MultiCell wraps onto the left margin, so the margin has to
			// follow the region for continuation lines to stay in the box.
			doc.SetLeftMargin(r.x)
			doc.SetXY(r.x, r.y)
			doc.MultiCell(r.w, size*1.15, translate(r.text), "", "L", false)
			doc.SetLeftMargin(0)
		}
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("render overlay: %w", err)
	}
	return pageMap, nil
}
