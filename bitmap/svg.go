package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image/draw"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

var errEmptyViewBox = errors.New("bitmap: svg: empty view box")

// SVG rasterises a vector image scaled to the whole pixel buffer.
type SVG struct {
	icon    *oksvg.SvgIcon
	Opacity float64
}

// NewSVG parses an SVG document. Unsupported elements are skipped.
func NewSVG(r io.Reader) (*SVG, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("bitmap: svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, errEmptyViewBox
	}
	return &SVG{icon: icon, Opacity: 1}, nil
}

// ParseSVG is NewSVG for an in-memory document.
func ParseSVG(doc []byte) (*SVG, error) {
	return NewSVG(bytes.NewReader(doc))
}

// Draw rasterises the image over the bounds of dst.
func (s *SVG) Draw(dst draw.Image) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	s.icon.SetTarget(float64(b.Min.X), float64(b.Min.Y), float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	s.icon.Draw(rasterx.NewDasher(w, h, scanner), s.Opacity)
}

// Generate implements Generator. The image is static, t is ignored.
func (s *SVG) Generate(_ int64, dst *pixbuf.RGB, _ *ledmap.Map) {
	dst.Clear()
	s.Draw(dst)
}
