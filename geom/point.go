package geom

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Point is a position in image pixel space.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// Add translates the point by (dx, dy).
func (pt Point) Add(dx, dy float64) Point {
	return Point{X: pt.X + dx, Y: pt.Y + dy}
}

// Scale multiplies the coordinates by mx and my.
func (pt Point) Scale(mx, my float64) Point {
	return Point{X: pt.X * mx, Y: pt.Y * my}
}

// Dist returns the Euclidean distance between two points.
func (pt Point) Dist(o Point) float64 {
	return math.Hypot(pt.X-o.X, pt.Y-o.Y)
}

// Outline is a rendered, ordered sequence of points.
type Outline []Point

// Bounds returns the smallest integer rectangle containing every point of the outline.
func (o Outline) Bounds() image.Rectangle {
	if len(o) == 0 {
		return image.Rectangle{}
	}
	minX, minY := o[0].X, o[0].Y
	maxX, maxY := minX, minY
	for _, p := range o[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// ParsePoints parses a whitespace separated list of "x,y" pairs, e.g. "10,10 90,10 90,90 10,90".
func ParsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.New("no points provided")
	}
	pts := make([]Point, 0, len(fields))
	for _, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed point %q, expected x,y", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed x coordinate in %q: %v", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed y coordinate in %q: %v", f, err)
		}
		pts = append(pts, Pt(x, y))
	}
	return pts, nil
}
