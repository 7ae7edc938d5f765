package geodata

import (
	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// BitmapLoadResult is a rendered map preview. A missing image is a valid
// state; NotYetLoadedTiles is meaningful either way.
type BitmapLoadResult struct {
	Image             []byte
	NotYetLoadedTiles int32
}

// Valid reports whether an image is present.
func (b BitmapLoadResult) Valid() bool {
	return len(b.Image) > 0
}

// Complete reports whether every tile was rendered into the image.
func (b BitmapLoadResult) Complete() bool {
	return b.Valid() && b.NotYetLoadedTiles == 0
}

func (b *BitmapLoadResult) RecordName() string   { return "bitmap_load_result" }
func (b *BitmapLoadResult) RecordVersion() int32 { return 0 }

func (b *BitmapLoadResult) WriteFields(w *wire.Writer) {
	w.Blob(b.Image)
	w.Int32(b.NotYetLoadedTiles)
}

func (b *BitmapLoadResult) ReadFields(_ int32, r *wire.Reader) error {
	b.Image = r.Blob()
	b.NotYetLoadedTiles = r.Int32()
	return r.Err()
}

func EncodeBitmapLoadResult(b BitmapLoadResult) ([]byte, error) {
	return record.Encode(&b)
}

func DecodeBitmapLoadResult(data []byte) (*BitmapLoadResult, error) {
	return record.Decode[BitmapLoadResult](data)
}
