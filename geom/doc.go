/*
Package geom implements the boundary model used to shape the mirror window.

A Boundary is an ordered list of control points. It can be rendered as is
(Sharp), as a single global Bézier curve (Bezier) or as a piecewise cubic
Hermite spline passing through every control point (Hermite):

	b := geom.NewBoundary(
		geom.Pt(25, 25), geom.Pt(75, 25),
		geom.Pt(75, 75), geom.Pt(25, 75),
	)
	if err := b.Move(0, -5, -5); err != nil {
		// handle error
	}
	outline, err := b.Render(geom.Hermite)

Accessors accept negative indices counting back from the end of the boundary.
Rendering never hands out references to the control points, so an outline
can be used while the boundary keeps changing.
*/
package geom
