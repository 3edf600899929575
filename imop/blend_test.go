package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_Basic(t *testing.T) {
	assert := assert.New(t)

	op := NewBlend()
	assert.Empty(op.Get())
	err := op.Set("blend_mode_not_supported")
	assert.Error(err)
	assert.Empty(op.Get())

	assert.NoError(op.Set(Darken))
	assert.Equal(Darken, op.Get())
	assert.NoError(op.Set(Lighten))
	assert.Equal(Lighten, op.Get())
}

func TestBlend_Modes(t *testing.T) {
	// Note: all the expected values are taken by using as reference the results
	// obtained in Photoshop by overlapping two layers and applying the blend mode.
	assert := assert.New(t)

	pinkFront := color.NRGBA{R: 214, G: 20, B: 65, A: 255}
	orangeBack := color.NRGBA{R: 250, G: 121, B: 17, A: 255}
	rect := image.Rect(0, 0, 1, 1)

	for mode, expected := range map[string][]uint8{
		Darken:    {214, 20, 17, 255},
		Lighten:   {250, 121, 65, 255},
		Multiply:  {209, 9, 4, 255},
		Screen:    {254, 131, 77, 255},
		Overlay:   {253, 18, 8, 255},
		Exclusion: {44, 122, 73, 255},
	} {
		source := image.NewNRGBA(rect)
		backdrop := image.NewNRGBA(rect)
		draw.Draw(source, rect, &image.Uniform{pinkFront}, image.Point{}, draw.Src)
		draw.Draw(backdrop, rect, &image.Uniform{orangeBack}, image.Point{}, draw.Src)

		blend := NewBlend()
		assert.NoError(blend.Set(mode))
		blend.Draw(backdrop, source)
		assert.EqualValues(expected, backdrop.Pix, mode)
	}
}

func TestBlend_TransparentSource(t *testing.T) {
	rect := image.Rect(0, 0, 2, 1)
	backdrop := image.NewNRGBA(rect)
	source := image.NewNRGBA(rect)
	backdrop.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	source.SetNRGBA(1, 0, color.NRGBA{R: 90, G: 80, B: 70, A: 255})

	blend := NewBlend()
	assert.NoError(t, blend.Set(Multiply))
	blend.Draw(backdrop, source)

	// No source keeps the backdrop, no backdrop keeps the source.
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, backdrop.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 90, G: 80, B: 70, A: 255}, backdrop.NRGBAAt(1, 0))
}

func TestBlend_MergeLikeOr(t *testing.T) {
	// Inside a black hole lighten and screen reveal the source, as the bitwise OR does.
	rect := image.Rect(0, 0, 4, 1)
	setup := func() (*image.NRGBA, *image.NRGBA) {
		backdrop := image.NewNRGBA(rect)
		source := image.NewNRGBA(rect)
		for x := 0; x < 4; x++ {
			backdrop.SetNRGBA(x, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
		backdrop.SetNRGBA(1, 0, color.NRGBA{A: 255})
		backdrop.SetNRGBA(2, 0, color.NRGBA{A: 255})
		source.SetNRGBA(1, 0, color.NRGBA{R: 33, G: 150, B: 243, A: 255})
		source.SetNRGBA(2, 0, color.NRGBA{R: 7, G: 0, B: 255, A: 255})
		return backdrop, source
	}

	want, source := setup()
	BitwiseOr(want, source)

	op := InitOp()
	for _, mode := range []string{Lighten, Screen} {
		assert.NoError(t, op.Set(mode))
		got, source := setup()
		op.Draw(got, source)
		assert.Equal(t, want.Pix, got.Pix, mode)
	}
}
