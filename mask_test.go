package infmirror

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/stretchr/testify/assert"
)

func TestMask_NewMask(t *testing.T) {
	mask := NewMask(image.Rect(0, 0, 7, 3))
	assert.Equal(t, 21, len(mask.Pix))
	for _, v := range mask.Pix {
		assert.Equal(t, uint8(0xff), v)
	}
}

func TestMask_FromImage(t *testing.T) {
	img := imaging.New(20, 10, color.White)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.Black)
		}
	}

	mask := MaskFromImage(img, 20, 10)
	assert.Equal(t, image.Rect(0, 0, 20, 10), mask.Bounds())
	assert.Equal(t, uint8(0), mask.AlphaAt(2, 5).A)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(17, 5).A)

	// The mask is stretched over the target size.
	scaled := MaskFromImage(img, 40, 20)
	assert.Equal(t, image.Rect(0, 0, 40, 20), scaled.Bounds())
	assert.Equal(t, uint8(0), scaled.AlphaAt(4, 10).A)
	assert.Equal(t, uint8(0xff), scaled.AlphaAt(36, 10).A)
}

func TestMask_FromOutline(t *testing.T) {
	square := geom.Outline{geom.Pt(10, 10), geom.Pt(30, 10), geom.Pt(30, 30), geom.Pt(10, 30)}

	mask, err := MaskFromOutline(square, image.Rect(0, 0, 40, 40))
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(20, 20).A)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(10, 10).A)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(29, 29).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(5, 5).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(30, 20).A)

	// Diagonal edges are anti-aliased.
	triangle := geom.Outline{geom.Pt(0, 0), geom.Pt(40, 0), geom.Pt(0, 40)}
	mask, err = MaskFromOutline(triangle, image.Rect(0, 0, 40, 40))
	assert.NoError(t, err)
	edge := mask.AlphaAt(20, 19).A
	assert.True(t, edge > 0 && edge < 0xff, "edge coverage %d", edge)

	_, err = MaskFromOutline(square[:2], image.Rect(0, 0, 40, 40))
	assert.True(t, errors.Is(err, geom.ErrTooFewPoints))
}

func TestMask_FromRenderedBoundary(t *testing.T) {
	b := geom.NewBoundary(geom.Pt(10, 10), geom.Pt(50, 10), geom.Pt(50, 50), geom.Pt(10, 50))
	outline, err := b.Render(geom.Bezier)
	assert.NoError(t, err)

	mask, err := MaskFromOutline(outline, image.Rect(0, 0, 60, 60))
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), mask.AlphaAt(55, 55).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(2, 2).A)
}

func TestMask_Check(t *testing.T) {
	rect := image.Rect(0, 0, 10, 10)
	assert.NoError(t, checkMask(nil, rect))
	assert.NoError(t, checkMask(NewMask(rect), rect))
	assert.NoError(t, checkMask(NewMask(image.Rect(5, 5, 15, 15)), rect))

	err := checkMask(NewMask(image.Rect(0, 0, 10, 11)), rect)
	assert.True(t, errors.Is(err, ErrInvalidMask))
}
