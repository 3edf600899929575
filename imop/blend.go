package imop

import (
	"fmt"
	"image"

	"github.com/esimov/infmirror/utils"
)

const (
	Darken    = "darken"
	Lighten   = "lighten"
	Multiply  = "multiply"
	Screen    = "screen"
	Overlay   = "overlay"
	Exclusion = "exclusion"
)

var blendModes = []string{Darken, Lighten, Multiply, Screen, Overlay, Exclusion}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// Draw blends src over dst in place. The blended colour replaces the source
// colour where the backdrop is opaque, then src is composited over dst.
// Both images must share the same bounds.
func (o *Blend) Draw(dst, src *image.NRGBA) {
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < dy; y++ {
		di := y * dst.Stride
		si := y * src.Stride
		for x := 0; x < dx; x++ {
			s := src.Pix[si : si+4 : si+4]
			b := dst.Pix[di : di+4 : di+4]

			as := float64(s[3]) / 255
			ab := float64(b[3]) / 255
			ao := as + ab*(1-as)

			if ao == 0 {
				b[0], b[1], b[2], b[3] = 0, 0, 0, 0
			} else if as != 0 {
				for c := 0; c < 3; c++ {
					cs, cb := float64(s[c]), float64(b[c])
					mixed := (1-ab)*cs + ab*o.channel(cb, cs)
					v := (as*mixed + ab*(1-as)*cb) / ao
					b[c] = uint8(utils.Clamp(v, 0, 255))
				}
				b[3] = uint8(utils.Clamp(ao*255+0.5, 0, 255))
			}

			di += 4
			si += 4
		}
	}
}

// channel applies the blend function to a backdrop and a source channel in the 0-255 range.
func (o *Blend) channel(cb, cs float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cs * cb / 255
	case Screen:
		return 255 - (255-cs)*(255-cb)/255
	case Overlay:
		if cb <= 127.5 {
			return 2 * cs * cb / 255
		}
		return 255 - 2*(255-cs)*(255-cb)/255
	case Exclusion:
		return cs + cb - 2*cs*cb/255
	}
	return cs
}
