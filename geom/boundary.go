package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrIndexOutOfRange is returned when a control point index falls outside [-len, len).
	ErrIndexOutOfRange = errors.New("control point index out of range")
	// ErrInvalidMode is returned for an unknown interpolation mode.
	ErrInvalidMode = errors.New("invalid interpolation mode")
	// ErrTooFewPoints is returned when a boundary has fewer than three control points.
	ErrTooFewPoints = errors.New("boundary needs at least 3 control points")
)

// Boundary is an ordered, mutable sequence of control points.
// The boundary owns its points; every accessor hands out copies.
type Boundary struct {
	pts    []Point
	interp *Interpolator
}

// NewBoundary creates a boundary seeded with the given points.
func NewBoundary(pts ...Point) *Boundary {
	b := &Boundary{
		pts:    make([]Point, len(pts)),
		interp: defaultInterpolator,
	}
	copy(b.pts, pts)
	return b
}

// WithInterpolator makes the boundary render through in.
func (b *Boundary) WithInterpolator(in *Interpolator) *Boundary {
	if in != nil {
		b.interp = in
	}
	return b
}

// index resolves i, which may be negative, into a position of the slice.
func (b *Boundary) index(i int) (int, error) {
	n := len(b.pts)
	if i < -n || i >= n {
		return 0, fmt.Errorf("%w: %d not in [%d, %d)", ErrIndexOutOfRange, i, -n, n)
	}
	if i < 0 {
		i += n
	}
	return i, nil
}

// Add appends a control point at the end of the boundary.
func (b *Boundary) Add(p Point) {
	b.pts = append(b.pts, p)
}

// Set replaces the i-th control point.
func (b *Boundary) Set(i int, p Point) error {
	idx, err := b.index(i)
	if err != nil {
		return err
	}
	b.pts[idx] = p
	return nil
}

// Get returns the i-th control point.
func (b *Boundary) Get(i int) (Point, error) {
	idx, err := b.index(i)
	if err != nil {
		return Point{}, err
	}
	return b.pts[idx], nil
}

// Move translates the i-th control point by (dx, dy).
func (b *Boundary) Move(i int, dx, dy float64) error {
	idx, err := b.index(i)
	if err != nil {
		return err
	}
	b.pts[idx] = b.pts[idx].Add(dx, dy)
	return nil
}

// Scale multiplies every control point by mx horizontally and my vertically.
func (b *Boundary) Scale(mx, my float64) {
	for i := range b.pts {
		b.pts[i] = b.pts[i].Scale(mx, my)
	}
}

// Len returns the number of control points.
func (b *Boundary) Len() int {
	return len(b.pts)
}

// Points returns a copy of the control points.
func (b *Boundary) Points() []Point {
	pts := make([]Point, len(b.pts))
	copy(pts, b.pts)
	return pts
}

// Clone returns an independent copy of the boundary.
func (b *Boundary) Clone() *Boundary {
	return NewBoundary(b.pts...).WithInterpolator(b.interp)
}

// Nearest returns the index of the control point closest to (x, y) lying within radius r.
// Among equally close points the lowest index wins. The boolean is false when no point qualifies.
func (b *Boundary) Nearest(x, y, r float64) (int, bool) {
	if r < 0 {
		return 0, false
	}
	var (
		idx   = -1
		minD2 = math.Inf(1)
	)
	for i, p := range b.pts {
		dx, dy := p.X-x, p.Y-y
		if math.Abs(dx) > r || math.Abs(dy) > r {
			continue
		}
		d2 := dx*dx + dy*dy
		if d2 <= r*r && d2 < minD2 {
			idx, minD2 = i, d2
		}
	}
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// Render returns a freshly computed outline of the boundary in the requested mode.
func (b *Boundary) Render(mode Mode) (Outline, error) {
	if len(b.pts) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(b.pts))
	}
	return b.interp.Render(b.pts, mode)
}
