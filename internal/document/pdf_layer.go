package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// overlayStampDesc pins an overlay page onto its source page one to one:
// centered, unscaled, upright, opaque. Overlay pages are rendered at the
// source page's exact size, so this alignment is exact.
const overlayStampDesc = "position:c, scalefactor:1 abs, rotation:0, opacity:1"

// stampOverlays merges the overlay document's pages onto the matching pages
// of sourcePath and writes the combined document to outPath. The stamps land
// in an optional-content group, which readers expose as a toggleable layer.
func stampOverlays(sourcePath, overlayPath, outPath string, pageMap map[int]int) error {
	stamps := make(map[int]*model.Watermark, len(pageMap))
	for src, ov := range pageMap {
		wm, err := api.PDFWatermark(fmt.Sprintf("%s:%d", overlayPath, ov), overlayStampDesc, true, false, types.POINTS)
		if err != nil {
			return fmt.Errorf("stamp for page %d: %w", src, err)
		}
		stamps[src] = wm
	}
	if err := api.AddWatermarksMapFile(sourcePath, outPath, stamps, nil); err != nil {
		return fmt.Errorf("stamp overlays: %w", err)
	}
	return nil
}

// renameOverlayLayer renames the stamp's optional-content group so the
// reader's layer panel shows the target language instead of the generic
// stamping label, and forces the default visibility state on.
func renameOverlayLayer(path, name string) error {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("rename layer: %w", err)
	}
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("rename layer: %w", err)
	}

	props, err := ctx.DereferenceDict(root["OCProperties"])
	if err != nil || props == nil {
		return nil // no layer present, nothing to rename
	}
	ocgs, err := ctx.DereferenceArray(props["OCGs"])
	if err != nil {
		return nil
	}
	for _, obj := range ocgs {
		d, err := ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			continue
		}
		d["Name"] = types.StringLiteral(name)
	}
	if cfg, err := ctx.DereferenceDict(props["D"]); err == nil && cfg != nil {
		cfg["BaseState"] = types.Name("ON")
		delete(cfg, "OFF")
	}

	if err := api.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("rename layer: %w", err)
	}
	return nil
}
