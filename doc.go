/*
Package infmirror renders the "infinite mirror" effect: a perspective warped copy of the
image is recursively composited into a quadrilateral window inside the image itself,
nesting the reflection one level deeper on every iteration.

The package provides a command line interface, supporting various flags for the window
placement, the recursion depth, the resampling filter and the masks.
To check the supported commands type:

	$ infmirror --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/infmirror"
		"github.com/esimov/infmirror/geom"
	)

	func main() {
		corners := []geom.Point{
			geom.Pt(100, 80), geom.Pt(300, 90),
			geom.Pt(290, 260), geom.Pt(110, 250),
		}
		res, err := infmirror.Composite(img, corners, nil, infmirror.DefaultIterations)
		if err != nil {
			fmt.Printf("Error rendering the image: %s", err.Error())
		}
	}

Interactive callers keep their state in a Session and render a new Frame every
time the window or the source image changes.
*/
package infmirror
