package infmirror

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/utils"
	pigo "github.com/esimov/pigo/core"
)

// Processor options
type Processor struct {
	// Corners is the mirror window. When empty the window is placed over the
	// detected face, if face detection is enabled, or centered on the image otherwise.
	Corners    []geom.Point
	Iterations int
	Filter     string
	Merge      string
	Backend    string

	// MaskPath is an image whose luminance restricts the pixels taking part in the reflection.
	MaskPath string
	// Shape is the control polygon of a mask outline, rendered with ShapeMode.
	Shape     []geom.Point
	ShapeMode geom.Mode

	FaceDetect   bool
	FaceAngle    float64
	CascadePath  string
	FaceDetector *pigo.Pigo
}

// NewProcessor returns a processor with the default options.
func NewProcessor() *Processor {
	return &Processor{
		Iterations: DefaultIterations,
		Filter:     "lanczos",
		Merge:      "or",
		Backend:    "native",
		ShapeMode:  geom.Sharp,
	}
}

// Process decodes the source image from r, renders the mirror and
// encodes the result into w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return err
	}

	res, err := p.Render(imaging.Clone(src))
	if err != nil {
		return err
	}
	return encodeImg(w, res)
}

// Render composites img with the processor options. A nil img yields the placeholder image.
func (p *Processor) Render(img *image.NRGBA) (*image.NRGBA, error) {
	backend, err := NewBackend(p.backendName(), p.Filter, p.Merge)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return backend.Composite(nil, nil, nil, p.Iterations)
	}

	corners, err := p.window(img)
	if err != nil {
		return nil, err
	}
	mask, err := p.mask(img.Bounds())
	if err != nil {
		return nil, err
	}

	return backend.Composite(img, corners, mask, p.Iterations)
}

func (p *Processor) backendName() string {
	if p.Backend == "" {
		return "native"
	}
	return p.Backend
}

// window resolves the mirror window corners.
func (p *Processor) window(img *image.NRGBA) ([]geom.Point, error) {
	if len(p.Corners) > 0 {
		return p.Corners, nil
	}
	if p.FaceDetect {
		if p.FaceDetector == nil {
			det, err := LoadCascade(p.CascadePath)
			if err != nil {
				return nil, err
			}
			p.FaceDetector = det
		}
		if corners, ok := FaceWindow(p.FaceDetector, img, p.FaceAngle); ok {
			return corners, nil
		}
	}
	return DefaultCorners(img.Bounds().Dx(), img.Bounds().Dy()), nil
}

// mask builds the reflection mask out of the mask file and the mask shape.
// When both are given the mask is their intersection. It returns nil if neither is set.
func (p *Processor) mask(rect image.Rectangle) (*image.Alpha, error) {
	var masks []*image.Alpha

	if p.MaskPath != "" {
		img, err := decodeImg(p.MaskPath)
		if err != nil {
			return nil, fmt.Errorf("unable to load the mask: %w", err)
		}
		masks = append(masks, MaskFromImage(img, rect.Dx(), rect.Dy()))
	}

	if len(p.Shape) > 0 {
		mode := p.ShapeMode
		if mode == "" {
			mode = geom.Sharp
		}
		outline, err := geom.NewBoundary(p.Shape...).Render(mode)
		if err != nil {
			return nil, fmt.Errorf("unable to render the mask shape: %w", err)
		}
		mask, err := MaskFromOutline(outline, image.Rect(0, 0, rect.Dx(), rect.Dy()))
		if err != nil {
			return nil, err
		}
		masks = append(masks, mask)
	}

	switch len(masks) {
	case 0:
		return nil, nil
	case 1:
		return masks[0], nil
	}

	dst := masks[0]
	for i, v := range masks[1].Pix {
		dst.Pix[i] = utils.Min(dst.Pix[i], v)
	}
	return dst, nil
}
