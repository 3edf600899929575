package infmirror

import (
	"fmt"
	"math"

	"github.com/esimov/infmirror/geom"
)

// collinearEps is the smallest cross product magnitude accepted between two adjacent window edges.
const collinearEps = 1e-9

// Homography is a planar projective transform stored as a row-major 3x3 matrix.
// A point (x, y) maps to ((h0x + h1y + h2) / w, (h3x + h4y + h5) / w) with w = h6x + h7y + h8.
type Homography [9]float64

// NewHomography computes the transform mapping the quadrilateral src onto dst.
// Corners are matched in order, so both quads must share the same winding.
func NewHomography(src, dst []geom.Point) (Homography, error) {
	if len(src) != 4 || len(dst) != 4 {
		return Homography{}, fmt.Errorf("%w: got %d and %d", ErrInvalidCornerCount, len(src), len(dst))
	}
	for _, q := range [][]geom.Point{src, dst} {
		if err := checkQuad(q); err != nil {
			return Homography{}, err
		}
	}

	// src -> unit square -> dst
	toSquare := squareToQuad(src).adjoint()
	toDst := squareToQuad(dst)
	h := toDst.mul(toSquare)

	if !h.valid() {
		return Homography{}, fmt.Errorf("%w: singular transform", ErrInvalidHomography)
	}
	return h.normalize(), nil
}

// checkQuad rejects quads with three consecutive corners on a line,
// which also covers coincident corners and zero area windows.
func checkQuad(q []geom.Point) error {
	for i := range q {
		a := q[(i+3)%4]
		b := q[i]
		c := q[(i+1)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < collinearEps || math.IsNaN(cross) {
			return fmt.Errorf("%w: corners %v, %v, %v are collinear", ErrInvalidHomography, a, b, c)
		}
	}
	return nil
}

// squareToQuad returns the transform mapping the unit square (0,0),(1,0),(1,1),(0,1) onto q.
func squareToQuad(q []geom.Point) Homography {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y

	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// Parallelogram, the mapping is affine.
		return Homography{
			x1 - x0, x3 - x0, x0,
			y1 - y0, y3 - y0, y0,
			0, 0, 1,
		}
	}

	dx1, dx2 := x1-x2, x3-x2
	dy1, dy2 := y1-y2, y3-y2
	den := dx1*dy2 - dx2*dy1
	g := (dx3*dy2 - dx2*dy3) / den
	h := (dx1*dy3 - dx3*dy1) / den

	return Homography{
		x1 - x0 + g*x1, x3 - x0 + h*x3, x0,
		y1 - y0 + g*y1, y3 - y0 + h*y3, y0,
		g, h, 1,
	}
}

// adjoint returns the transpose of the cofactor matrix, which inverts a projective transform up to scale.
func (m Homography) adjoint() Homography {
	return Homography{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
}

func (m Homography) mul(o Homography) Homography {
	var r Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

func (m Homography) det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

func (m Homography) valid() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	d := m.det()
	return d != 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

// normalize scales the matrix so that its last coefficient is 1 whenever possible.
func (m Homography) normalize() Homography {
	if m[8] == 0 {
		return m
	}
	s := 1 / m[8]
	for i := range m {
		m[i] *= s
	}
	return m
}

// Inverse returns the transform mapping dst back onto src.
func (m Homography) Inverse() (Homography, error) {
	inv := m.adjoint()
	if !inv.valid() {
		return Homography{}, fmt.Errorf("%w: transform is not invertible", ErrInvalidHomography)
	}
	return inv.normalize(), nil
}

// Apply maps the point p through the transform.
// The boolean is false when p maps onto the line at infinity.
func (m Homography) Apply(p geom.Point) (geom.Point, bool) {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if w == 0 {
		return geom.Point{}, false
	}
	return geom.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}, true
}
