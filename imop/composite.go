// Package imop implements the raster composition operations used to layer
// the warped reflection back into the working buffer.
//
// The image/draw core package only implements the source-over-destination
// and source operations and has no notion of bitwise pixel arithmetic.
// This package provides the bitwise AND used for masking, the bitwise OR
// merge used by the recursive compositor, the Porter-Duff operators
// and the blend modes offered as alternative merge modes.
package imop

import (
	"fmt"
	"image"

	"github.com/esimov/infmirror/utils"
)

const (
	Or      = "or"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcAtop = "src_atop"
	Xor     = "xor"
)

// Composite holds the currently active merge operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp initializes a new Composite with the bitwise OR operation active.
func InitOp() *Composite {
	return &Composite{
		current: Or,
		ops: []string{
			Or,
			SrcOver,
			DstOver,
			SrcAtop,
			Xor,
			Darken,
			Lighten,
			Multiply,
			Screen,
			Overlay,
			Exclusion,
		},
	}
}

// Set activates one of the supported merge operations.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the currently active merge operation.
func (op *Composite) Get() string {
	return op.current
}

// Ops returns the supported merge operations.
func (op *Composite) Ops() []string {
	ops := make([]string, len(op.ops))
	copy(ops, op.ops)
	return ops
}

// Draw merges src into dst in place. Both images must share the same bounds.
func (op *Composite) Draw(dst, src *image.NRGBA) {
	if op.current == Or {
		BitwiseOr(dst, src)
		return
	}
	if utils.Contains(blendModes, op.current) {
		blend := Blend{OpType: op.current}
		blend.Draw(dst, src)
		return
	}

	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < dy; y++ {
		di := y * dst.Stride
		si := y * src.Stride
		for x := 0; x < dx; x++ {
			s := src.Pix[si : si+4 : si+4]
			b := dst.Pix[di : di+4 : di+4]

			asn := float64(s[3]) / 255
			abn := float64(b[3]) / 255

			// Porter-Duff coefficients applied to non-premultiplied colors.
			var fs, fb float64
			switch op.current {
			case SrcOver:
				fs, fb = 1, 1-asn
			case DstOver:
				fs, fb = 1-abn, 1
			case SrcAtop:
				fs, fb = abn, 1-asn
			case Xor:
				fs, fb = 1-abn, 1-asn
			}

			an := asn*fs + abn*fb
			if an == 0 {
				b[0], b[1], b[2], b[3] = 0, 0, 0, 0
			} else {
				for c := 0; c < 3; c++ {
					v := (asn*fs*float64(s[c]) + abn*fb*float64(b[c])) / an
					b[c] = uint8(utils.Clamp(v+0.5, 0, 255))
				}
				b[3] = uint8(utils.Clamp(an*255+0.5, 0, 255))
			}

			di += 4
			si += 4
		}
	}
}
