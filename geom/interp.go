package geom

import (
	"fmt"
	"math"
	"strings"
)

// SegmentsPerSpan is the default number of samples taken per span of an interpolated outline.
const SegmentsPerSpan = 20

// Mode selects how a boundary is turned into an outline.
type Mode string

const (
	// Sharp returns the control points themselves.
	Sharp Mode = "sharp"
	// Bezier evaluates a single Bézier curve of degree len-1 over all control points.
	Bezier Mode = "bezier"
	// Hermite evaluates a cubic Hermite spline through consecutive control points.
	Hermite Mode = "hermite"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Sharp, Bezier, Hermite:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Cubic Hermite basis functions.
func h00(t float64) float64 { return (1 + 2*t) * (1 - t) * (1 - t) }
func h10(t float64) float64 { return t * (1 - t) * (1 - t) }
func h01(t float64) float64 { return (3 - 2*t) * t * t }
func h11(t float64) float64 { return (t - 1) * t * t }

// Interpolator renders control points into outlines.
// It is safe for concurrent use.
type Interpolator struct {
	segments int
	binom    *Binomial
}

// NewInterpolator returns an interpolator sampling segments points per span.
// A nil binomial table gets a freshly allocated one.
func NewInterpolator(segments int, binom *Binomial) *Interpolator {
	if segments < 1 {
		segments = SegmentsPerSpan
	}
	if binom == nil {
		binom = NewBinomial(maxPrecomputedDegree)
	}
	return &Interpolator{
		segments: segments,
		binom:    binom,
	}
}

var defaultInterpolator = NewInterpolator(SegmentsPerSpan, NewBinomial(maxPrecomputedDegree))

// Segments returns the number of samples per span.
func (in *Interpolator) Segments() int {
	return in.segments
}

// Binomial returns the coefficient table used for Bézier evaluation.
func (in *Interpolator) Binomial() *Binomial {
	return in.binom
}

// Render turns the control points into an outline using the given mode.
// The returned outline never aliases pts.
func (in *Interpolator) Render(pts []Point, mode Mode) (Outline, error) {
	switch mode {
	case Sharp:
		out := make(Outline, len(pts))
		copy(out, pts)
		return out, nil
	case Bezier:
		return in.bezier(pts), nil
	case Hermite:
		return in.hermite(pts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
}

// bezier samples (len(pts)+1)*segments+1 evenly spaced values of t in [0, 1].
func (in *Interpolator) bezier(pts []Point) Outline {
	n := len(pts) - 1
	binom := in.binom.Row(n)
	steps := (len(pts) + 1) * in.segments

	out := make(Outline, 0, steps+1)
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		out = append(out, BezierAt(pts, binom, t))
	}
	return out
}

// BezierAt evaluates the Bernstein polynomial sum at t.
// binom must hold the coefficients C(len(pts)-1, i). Coefficients too large
// for a float64 (degrees above 1029) are weighted in log space instead.
func BezierAt(pts []Point, binom []float64, t float64) Point {
	n := len(pts) - 1
	logT, logU := math.Log(t), math.Log1p(-t)

	var x, y float64
	for i, p := range pts {
		var bern float64
		if c := binom[i]; math.IsInf(c, 1) {
			bern = math.Exp(logChoose(n, i) + float64(i)*logT + float64(n-i)*logU)
		} else {
			bern = c * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
		}
		x += bern * p.X
		y += bern * p.Y
	}
	return Point{X: x, Y: y}
}

// logChoose returns ln C(n, k).
func logChoose(n, k int) float64 {
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}

// hermite samples every span with t in [0, 1) and closes the last span at t = 1.
func (in *Interpolator) hermite(pts []Point) Outline {
	spans := len(pts) - 1
	out := make(Outline, 0, spans*in.segments+1)
	for k := 0; k < spans; k++ {
		samples := in.segments
		if k == spans-1 {
			samples++
		}
		for s := 0; s < samples; s++ {
			t := float64(s) / float64(in.segments)
			out = append(out, HermiteAt(pts, k, t))
		}
	}
	return out
}

// HermiteAt evaluates the span starting at control point k at t.
// Tangents come from central differences clamped at both ends of pts.
func HermiteAt(pts []Point, k int, t float64) Point {
	last := len(pts) - 1
	prev := pts[max(0, k-1)]
	next := pts[min(last, k+2)]

	p0, p1 := pts[k], pts[k+1]
	m0 := Point{X: (p1.X - prev.X) / 2, Y: (p1.Y - prev.Y) / 2}
	m1 := Point{X: (next.X - p0.X) / 2, Y: (next.Y - p0.Y) / 2}

	a, b, c, d := h00(t), h10(t), h01(t), h11(t)
	return Point{
		X: a*p0.X + b*m0.X + c*p1.X + d*m1.X,
		Y: a*p0.Y + b*m0.Y + c*p1.Y + d*m1.Y,
	}
}
