// Package assets turns rasters and documents into files: artifact naming,
// PNG encoding, thumbnails, port titles, atomic writes and the run manifest.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"
)

// Port thumbnail layout, as fractions of the thumbnail size.
const (
	titleBand     = 0.14
	titleFontSize = 0.07
)

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail resamples img to width x height.
func Thumbnail(img image.Image, width, height int) *image.RGBA {
	return transform.Resize(img, width, height, transform.Linear)
}

var (
	monoOnce   sync.Once
	monoSource *text.FontSource
	monoErr    error
)

func monoFont() (*text.FontSource, error) {
	monoOnce.Do(func() {
		monoSource, monoErr = text.NewFontSource(gomono.TTF)
	})
	return monoSource, monoErr
}

// PortThumbnail renders a size x size thumbnail on a white background: the
// title in a monospace font above img scaled to fit the remaining space.
func PortThumbnail(img image.Image, title string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size %d", size)
	}
	src, err := monoFont()
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}

	band := int(float64(size) * titleBand)
	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.ClearWithColor(gg.White)
	dc.SetFont(src.Face(float64(size) * titleFontSize))
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, float64(size)/2, float64(band)/2, 0.5, 0.5)

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas type %T", dc.Image())
	}

	side := size - band
	b := img.Bounds()
	w, h := side, side
	if b.Dx() > b.Dy() {
		h = max(1, side*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, side*b.Dx()/b.Dy())
	}
	scaled := Thumbnail(img, w, h)
	at := image.Pt((size-w)/2, band+(side-h)/2)
	draw.Draw(out, image.Rectangle{Min: at, Max: at.Add(scaled.Rect.Size())}, scaled, image.Point{}, draw.Over)
	return out, nil
}
