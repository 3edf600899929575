package infmirror

import (
	"fmt"
	"image"
	"os"

	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/utils"
	pigo "github.com/esimov/pigo/core"
)

// faceQualityThreshold is the detection score below which a detection is discarded.
const faceQualityThreshold = 5.0

// LoadCascade reads and unpacks a pigo face detection cascade file.
func LoadCascade(path string) (*pigo.Pigo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the cascade file: %v", err)
	}

	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	det, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %v", err)
	}
	return det, nil
}

// FaceWindow runs the face detector over img and returns the square window enclosing
// the most confident face, clockwise from the top-left corner. The boolean is false
// when no face has been found.
func FaceWindow(det *pigo.Pigo, img *image.NRGBA, angle float64) ([]geom.Point, bool) {
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()

	// Transform the image to a pixel array.
	pixels := rgbToGrayscale(img)

	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := det.RunCascade(cParams, angle)
	faces = det.ClusterDetections(faces, 0.2)

	best := -1
	for i, face := range faces {
		if face.Q < faceQualityThreshold {
			continue
		}
		if best < 0 || face.Q > faces[best].Q {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}

	face := faces[best]
	half := float64(face.Scale) / 2
	x0 := utils.Clamp(float64(face.Col)-half, 0, float64(dx))
	y0 := utils.Clamp(float64(face.Row)-half, 0, float64(dy))
	x1 := utils.Clamp(float64(face.Col)+half, 0, float64(dx))
	y1 := utils.Clamp(float64(face.Row)+half, 0, float64(dy))

	return []geom.Point{
		geom.Pt(x0, y0),
		geom.Pt(x1, y0),
		geom.Pt(x1, y1),
		geom.Pt(x0, y1),
	}, true
}
