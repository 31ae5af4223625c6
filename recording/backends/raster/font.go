package raster

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelSize is the ruler label size in points at 72 DPI.
const LabelSize = 10

// labelFont parses the embedded Go Regular font once. The parsed font is
// shared; faces are not, since a face keeps per-glyph scratch buffers.
var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// labelFace returns a label face for the given pixel scale.
func labelFace(scale float64) (font.Face, error) {
	f, err := labelFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    LabelSize,
		DPI:     72 * scale,
		Hinting: font.HintingFull,
	})
}
