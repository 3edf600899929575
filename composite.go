package infmirror

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/imop"
)

// DefaultIterations is the recursion depth used when none is configured.
const DefaultIterations = 4

// Backend renders the recursive reflection of src into the window defined by corners.
type Backend interface {
	Composite(src *image.NRGBA, corners []geom.Point, mask *image.Alpha, iterations int) (*image.NRGBA, error)
}

// Backends holds the available rendering backends keyed by name.
// The native backend is always present, others register themselves depending on the build tags.
var Backends = map[string]func(filter string, merge string) (Backend, error){
	"native": func(filter, merge string) (Backend, error) {
		f, err := ParseFilter(filter)
		if err != nil {
			return nil, err
		}
		if err := imop.InitOp().Set(merge); err != nil {
			return nil, err
		}
		return Native{Filter: f, Merge: merge}, nil
	},
}

// NewBackend instantiates the backend registered under name.
func NewBackend(name, filter, merge string) (Backend, error) {
	fn, ok := Backends[name]
	if !ok {
		names := make([]string, 0, len(Backends))
		for k := range Backends {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown backend %q, available backends: %v", name, names)
	}
	return fn(filter, merge)
}

// Native is the pure Go backend.
type Native struct {
	Filter imaging.ResampleFilter
	Merge  string
}

// Composite implements the Backend interface.
func (n Native) Composite(src *image.NRGBA, corners []geom.Point, mask *image.Alpha, iterations int) (*image.NRGBA, error) {
	opts := []Option{WithFilter(n.Filter)}
	if n.Merge != "" {
		opts = append(opts, WithMerge(n.Merge))
	}
	return Composite(src, corners, mask, iterations, opts...)
}

type options struct {
	filter imaging.ResampleFilter
	merge  string
}

// Option customizes a Composite call.
type Option func(*options)

// WithFilter sets the resampling filter used by the warp.
// imaging.Lanczos gives the sharpest nested reflections, imaging.Linear is cheaper for live previews.
func WithFilter(f imaging.ResampleFilter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithMerge sets the operation merging the warped reflection into the holed buffer.
func WithMerge(op string) Option {
	return func(o *options) {
		o.merge = op
	}
}

// DefaultCorners returns a centered window covering the middle half of a w×h image,
// listed clockwise from the top-left corner.
func DefaultCorners(w, h int) []geom.Point {
	x0, y0 := float64(w)*0.25, float64(h)*0.25
	x1, y1 := float64(w)*0.75, float64(h)*0.75

	return []geom.Point{
		geom.Pt(x0, y0),
		geom.Pt(x1, y0),
		geom.Pt(x1, y1),
		geom.Pt(x0, y1),
	}
}

// Composite recursively warps src into the quadrilateral window given by corners.
// The corners are expressed relative to the top-left pixel of src. On every pass
// the current buffer is masked, warped into the window, the window is cleared and
// the warped copy is merged back, nesting the reflection one level deeper.
//
// A nil source yields the placeholder image. The source is never modified and
// no work is done unless all the arguments are valid.
func Composite(src *image.NRGBA, corners []geom.Point, mask *image.Alpha, iterations int, opts ...Option) (*image.NRGBA, error) {
	if src == nil {
		return Placeholder(PlaceholderWidth, PlaceholderHeight, PlaceholderText), nil
	}
	if len(corners) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCornerCount, len(corners))
	}
	if err := checkMask(mask, src.Bounds()); err != nil {
		return nil, err
	}

	o := options{
		filter: imaging.Lanczos,
		merge:  imop.Or,
	}
	for _, opt := range opts {
		opt(&o)
	}
	merge := imop.InitOp()
	if err := merge.Set(o.merge); err != nil {
		return nil, err
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	rect := []geom.Point{
		geom.Pt(0, 0),
		geom.Pt(float64(w), 0),
		geom.Pt(float64(w), float64(h)),
		geom.Pt(0, float64(h)),
	}
	hm, err := NewHomography(rect, corners)
	if err != nil {
		return nil, err
	}
	inv, err := hm.Inverse()
	if err != nil {
		return nil, err
	}

	work := imaging.Clone(src)
	for i := 0; i < iterations; i++ {
		masked := work
		if mask != nil {
			masked = imaging.Clone(work)
			imop.BitwiseAnd(masked, mask)
		}
		warped := warpPerspective(masked, inv, o.filter)
		cutHole(work, corners)
		merge.Draw(work, warped)
	}
	return work, nil
}
