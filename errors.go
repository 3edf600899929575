package infmirror

import "errors"

var (
	// ErrInvalidCornerCount is returned when the window is not a quadrilateral.
	ErrInvalidCornerCount = errors.New("the mirror window needs exactly 4 corners")
	// ErrInvalidHomography is returned when the window corners do not define a projective mapping.
	ErrInvalidHomography = errors.New("degenerate mirror window, cannot compute homography")
	// ErrInvalidMask is returned when the mask and the source image sizes differ.
	ErrInvalidMask = errors.New("mask size does not match the source image")
)
