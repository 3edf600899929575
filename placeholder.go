package infmirror

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Placeholder defaults, used when there is no source image to render.
const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 400
	PlaceholderText   = "No image loaded. Open an image to begin."
)

var (
	placeholderBg   = color.NRGBA{R: 0x2e, G: 0x34, B: 0x40, A: 0xff}
	placeholderFg   = color.NRGBA{R: 0xec, G: 0xef, B: 0xf4, A: 0xff}
	placeholderFont *opentype.Font
	fontOnce        sync.Once
)

// Placeholder returns a flat canvas of the given size with the text centered on it.
func Placeholder(width, height int, text string) *image.NRGBA {
	img := imaging.New(width, height, placeholderBg)

	fontOnce.Do(func() {
		// The embedded Go font is known to be valid.
		placeholderFont, _ = opentype.Parse(goregular.TTF)
	})
	if placeholderFont == nil || text == "" {
		return img
	}

	size := 14.0
	face, err := opentype.NewFace(placeholderFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return img
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderFg),
		Face: face,
	}
	adv := d.MeasureString(text)
	m := face.Metrics()

	x := (fixed.I(width) - adv) / 2
	if x < 0 {
		x = 0
	}
	y := (fixed.I(height) + m.Ascent - m.Descent) / 2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)

	return img
}
