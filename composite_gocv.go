//go:build gocv

package infmirror

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/imop"
	"gocv.io/x/gocv"
)

func init() {
	Backends["opencv"] = func(filter, merge string) (Backend, error) {
		flag, ok := cvInterpolation[strings.ToLower(strings.TrimSpace(filter))]
		if !ok {
			return nil, fmt.Errorf("resampling filter %q is not available with the opencv backend", filter)
		}
		if merge != "" && merge != imop.Or {
			return nil, fmt.Errorf("the opencv backend supports only the %q merge operation", imop.Or)
		}
		return OpenCV{Interpolation: flag}, nil
	}
}

var cvInterpolation = map[string]gocv.InterpolationFlags{
	"nearest":    gocv.InterpolationNearestNeighbor,
	"linear":     gocv.InterpolationLinear,
	"bilinear":   gocv.InterpolationLinear,
	"catmullrom": gocv.InterpolationCubic,
	"lanczos":    gocv.InterpolationLanczos4,
}

// OpenCV renders the reflections through OpenCV. Masks scale every channel
// by their coverage, rounded to nearest, as the native backend does.
type OpenCV struct {
	Interpolation gocv.InterpolationFlags
}

// Composite implements the Backend interface.
func (cv OpenCV) Composite(src *image.NRGBA, corners []geom.Point, mask *image.Alpha, iterations int) (*image.NRGBA, error) {
	if src == nil {
		return Placeholder(PlaceholderWidth, PlaceholderHeight, PlaceholderText), nil
	}
	if len(corners) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCornerCount, len(corners))
	}
	if err := checkMask(mask, src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkQuad(corners); err != nil {
		return nil, err
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	work, err := gocv.ImageToMatRGBA(src)
	if err != nil {
		return nil, err
	}
	defer work.Close()

	if iterations <= 0 {
		return cvToNRGBA(work)
	}

	from := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: float32(w), Y: 0},
		{X: float32(w), Y: float32(h)},
		{X: 0, Y: float32(h)},
	})
	defer from.Close()

	to := make([]gocv.Point2f, len(corners))
	poly := make([]image.Point, len(corners))
	for i, c := range corners {
		to[i] = gocv.Point2f{X: float32(c.X), Y: float32(c.Y)}
		poly[i] = image.Pt(int(c.X+0.5), int(c.Y+0.5))
	}
	toVec := gocv.NewPoint2fVectorFromPoints(to)
	defer toVec.Close()

	hm := gocv.GetPerspectiveTransform2f(from, toVec)
	defer hm.Close()
	if hm.Empty() {
		return nil, fmt.Errorf("%w: opencv could not solve the transform", ErrInvalidHomography)
	}

	hole := gocv.NewPointsVectorFromPoints([][]image.Point{poly})
	defer hole.Close()

	var maskMat gocv.Mat
	if mask != nil {
		gray, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, alphaBytes(mask))
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		// Every channel, alpha included, is scaled by the coverage.
		maskMat = gocv.NewMat()
		defer maskMat.Close()
		gocv.Merge([]gocv.Mat{gray, gray, gray, gray}, &maskMat)
	}

	masked := gocv.NewMat()
	defer masked.Close()
	warped := gocv.NewMat()
	defer warped.Close()

	for i := 0; i < iterations; i++ {
		in := work
		if mask != nil {
			gocv.MultiplyWithParams(work, maskMat, &masked, 1.0/255, -1)
			in = masked
		}
		gocv.WarpPerspectiveWithParams(in, &warped, hm, image.Pt(w, h),
			cv.Interpolation, gocv.BorderConstant, color.RGBA{})
		gocv.FillPoly(&work, hole, color.RGBA{A: 0xff})
		gocv.BitwiseOr(work, warped, &work)
	}

	return cvToNRGBA(work)
}

// alphaBytes returns the mask pixels as a contiguous buffer.
func alphaBytes(mask *image.Alpha) []byte {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	if mask.Stride == w {
		return mask.Pix[:w*h]
	}
	buf := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		buf = append(buf, mask.Pix[y*mask.Stride:y*mask.Stride+w]...)
	}
	return buf
}

func cvToNRGBA(m gocv.Mat) (*image.NRGBA, error) {
	img, err := m.ToImage()
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}
