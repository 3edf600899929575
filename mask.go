package infmirror

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"golang.org/x/image/vector"
)

// NewMask returns a fully opaque mask covering rect, letting every pixel through.
func NewMask(rect image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(rect)
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return mask
}

// MaskFromImage converts an arbitrary image into a mask using its luminance.
// White keeps the pixel, black discards it. The mask is resized to the given size when needed.
func MaskFromImage(img image.Image, width, height int) *image.Alpha {
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dx() != width || gray.Bounds().Dy() != height {
		gray = imaging.Resize(gray, width, height, imaging.Linear)
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Grayscale output carries the luminance in every colour channel.
			c := gray.NRGBAAt(x, y)
			mask.Pix[y*mask.Stride+x] = uint8(uint16(c.R) * uint16(c.A) / 0xff)
		}
	}
	return mask
}

// MaskFromOutline returns a mask which is opaque inside the closed outline and transparent outside.
// The outline edges are anti-aliased.
func MaskFromOutline(outline geom.Outline, rect image.Rectangle) (*image.Alpha, error) {
	if len(outline) < 3 {
		return nil, fmt.Errorf("cannot build mask: %w", geom.ErrTooFewPoints)
	}
	mask := image.NewAlpha(rect)
	fillPolygon(mask, outline, image.Opaque)

	return mask, nil
}

// checkMask validates the mask against the source bounds.
func checkMask(mask *image.Alpha, bounds image.Rectangle) error {
	if mask == nil {
		return nil
	}
	if mb := mask.Bounds(); mb.Dx() != bounds.Dx() || mb.Dy() != bounds.Dy() {
		return fmt.Errorf("%w: mask is %dx%d, image is %dx%d",
			ErrInvalidMask, mb.Dx(), mb.Dy(), bounds.Dx(), bounds.Dy())
	}
	return nil
}

// fillPolygon rasterizes the closed polygon over dst using the src colour.
// The polygon coordinates are relative to the dst bounds origin.
func fillPolygon(dst draw.Image, poly []geom.Point, src image.Image) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over

	r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(dst, b, src, image.Point{})
}

// cutHole paints the window opaque black, clearing whatever the previous pass left inside it.
func cutHole(dst *image.NRGBA, corners []geom.Point) {
	fillPolygon(dst, corners, image.NewUniform(color.NRGBA{A: 0xff}))
}
