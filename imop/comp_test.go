package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(Or, op.Get())

	assert.NoError(op.Set(SrcOver))
	assert.Equal(SrcOver, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(SrcOver, op.Get())

	ops := op.Ops()
	ops[0] = "changed"
	assert.Equal(Or, op.Ops()[0])
}

func TestComp_Ops(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	black := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	transparent := color.NRGBA{}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)

	// The backdrop has a black hole on its lower left side, the source only
	// carries content inside that hole, as a warped reflection does.
	setup := func() (*image.NRGBA, *image.NRGBA) {
		backdrop := image.NewNRGBA(rect)
		source := image.NewNRGBA(rect)
		draw.Draw(backdrop, rect, &image.Uniform{magenta}, image.Point{}, draw.Src)
		draw.Draw(backdrop, image.Rect(0, 4, 6, 10), &image.Uniform{black}, image.Point{}, draw.Src)
		draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
		return backdrop, source
	}

	for _, cop := range []string{Or, SrcOver, SrcAtop} {
		assert.NoError(op.Set(cop))
		backdrop, source := setup()
		op.Draw(backdrop, source)

		assert.EqualValues(magenta, backdrop.At(9, 0), cop)
		assert.EqualValues(cyan, backdrop.At(0, 9), cop)
		assert.EqualValues(magenta, backdrop.At(8, 8), cop)
	}

	// DstOver keeps the opaque backdrop everywhere.
	assert.NoError(op.Set(DstOver))
	backdrop, source := setup()
	op.Draw(backdrop, source)
	assert.EqualValues(black, backdrop.At(0, 9))
	assert.EqualValues(magenta, backdrop.At(9, 0))

	// Xor of two opaque layers clears the overlap.
	assert.NoError(op.Set(Xor))
	backdrop, source = setup()
	op.Draw(backdrop, source)
	assert.EqualValues(transparent, backdrop.At(0, 9))
	assert.EqualValues(magenta, backdrop.At(9, 0))
}

func TestBitwise_Or(t *testing.T) {
	rect := image.Rect(0, 0, 2, 1)
	dst := image.NewNRGBA(rect)
	src := image.NewNRGBA(rect)
	copy(dst.Pix, []uint8{0x0f, 0x00, 0xf0, 0xff, 0x01, 0x02, 0x04, 0x08})
	copy(src.Pix, []uint8{0xf0, 0x00, 0x0f, 0x00, 0x10, 0x20, 0x40, 0x80})

	BitwiseOr(dst, src)
	assert.Equal(t, []uint8{0xff, 0x00, 0xff, 0xff, 0x11, 0x22, 0x44, 0x88}, dst.Pix)
}

func TestBitwise_And(t *testing.T) {
	rect := image.Rect(0, 0, 3, 1)
	dst := image.NewNRGBA(rect)
	for i := range dst.Pix {
		dst.Pix[i] = 200
	}
	mask := image.NewAlpha(rect)
	copy(mask.Pix, []uint8{0xff, 0x00, 0x80})

	BitwiseAnd(dst, mask)
	assert.Equal(t, []uint8{
		200, 200, 200, 200,
		0, 0, 0, 0,
		100, 100, 100, 100,
	}, dst.Pix)
}
