package hostsim

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/geodata"
)

const maxPreviewSide = 1024

// previewLocked renders a deterministic placeholder map. Each repeated call
// for the same selection halves the number of tiles still loading.
func (h *Host) previewLocked(selection string) (*action.Response, error) {
	params, err := action.ParseMapPreviewSelection(selection)
	if err != nil {
		return nil, err
	}
	remaining, seen := h.pending[selection]
	if !seen {
		remaining = h.cfg.MissingTiles
	} else {
		remaining /= 2
	}
	h.pending[selection] = remaining

	img, err := renderPreview(params)
	if err != nil {
		return nil, err
	}
	return respond(action.KeyMapPreview)(geodata.EncodeBitmapLoadResult(geodata.BitmapLoadResult{
		Image:             img,
		NotYetLoadedTiles: remaining,
	}))
}

func renderPreview(p action.MapPreviewParams) ([]byte, error) {
	w, hgt := int(p.Width), int(p.Height)
	if p.TinyMode {
		w, hgt = (w+1)/2, (hgt+1)/2
	}
	w = min(w, maxPreviewSide)
	hgt = min(hgt, maxPreviewSide)

	base := uint8(math.Mod(math.Abs(p.Latitude*7+p.Longitude*3), 200))
	img := image.NewNRGBA(image.Rect(0, 0, w, hgt))
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			grid := uint8(0)
			if x%16 == 0 || y%16 == 0 {
				grid = 40
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: base + grid,
				G: uint8(int(p.Zoom)*10) + grid,
				B: 180 - grid,
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
