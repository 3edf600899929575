package infmirror

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/stretchr/testify/assert"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	assert.NoError(t, err)
	defer f.Close()
	assert.NoError(t, png.Encode(f, img))
}

func TestProcessor_Process(t *testing.T) {
	var in bytes.Buffer
	assert.NoError(t, png.Encode(&in, gradient(100, 100)))

	p := NewProcessor()
	var out bytes.Buffer
	assert.NoError(t, p.Process(&in, &out))

	res, _, err := image.Decode(&out)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), res.Bounds())

	_, _, err = image.Decode(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
	assert.Error(t, p.Process(bytes.NewReader([]byte("garbage")), &out))
}

func TestProcessor_ProcessJPEGSource(t *testing.T) {
	// JPEG sources decode to YCbCr images and are converted before rendering.
	var in bytes.Buffer
	assert.NoError(t, jpeg.Encode(&in, gradient(64, 48), &jpeg.Options{Quality: 100}))

	p := NewProcessor()
	p.Iterations = 0
	var out bytes.Buffer
	assert.NoError(t, p.Process(&in, &out))

	res, err := jpeg.Decode(&out)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), res.Bounds())

	r, g, _, _ := res.At(20, 10).RGBA()
	assert.InDelta(t, 40, int(r>>8), 8)
	assert.InDelta(t, 20, int(g>>8), 8)
}

func TestProcessor_RenderDefaultWindow(t *testing.T) {
	p := NewProcessor()
	p.Filter = "linear"
	p.Iterations = 1

	src := gradient(100, 100)
	res, err := p.Render(src)
	assert.NoError(t, err)

	want, err := Composite(src, centered, nil, 1, WithFilter(imaging.Linear))
	assert.NoError(t, err)
	assert.Equal(t, want.Pix, res.Pix)
}

func TestProcessor_RenderPlaceholder(t *testing.T) {
	res, err := NewProcessor().Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight), res.Bounds())
}

func TestProcessor_Masks(t *testing.T) {
	src := gradient(100, 100)
	black := color.NRGBA{A: 0xff}

	// A black mask file hides every pixel from the reflection.
	maskPath := filepath.Join(t.TempDir(), "mask.png")
	writePNG(t, maskPath, imaging.New(50, 50, color.Black))

	p := NewProcessor()
	p.Corners = centered
	p.MaskPath = maskPath
	res, err := p.Render(src)
	assert.NoError(t, err)
	assert.Equal(t, black, res.NRGBAAt(50, 50))
	assert.Equal(t, src.NRGBAAt(5, 5), res.NRGBAAt(5, 5))

	// A shape lying outside the image leaves nothing to reflect either.
	p = NewProcessor()
	p.Corners = centered
	p.Shape = []geom.Point{geom.Pt(-30, -30), geom.Pt(-10, -30), geom.Pt(-10, -10)}
	res, err = p.Render(src)
	assert.NoError(t, err)
	assert.Equal(t, black, res.NRGBAAt(50, 50))

	// White file intersected with the whole-image shape keeps everything.
	whitePath := filepath.Join(t.TempDir(), "white.png")
	writePNG(t, whitePath, imaging.New(100, 100, color.White))

	p = NewProcessor()
	p.Corners = centered
	p.Filter = "linear"
	p.MaskPath = whitePath
	p.Shape = []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)}
	res, err = p.Render(src)
	assert.NoError(t, err)

	want, err := Composite(src, centered, nil, DefaultIterations, WithFilter(imaging.Linear))
	assert.NoError(t, err)
	assert.Equal(t, want.Pix, res.Pix)
}

func TestProcessor_Errors(t *testing.T) {
	src := gradient(40, 40)

	p := NewProcessor()
	p.MaskPath = filepath.Join(t.TempDir(), "missing.png")
	_, err := p.Render(src)
	assert.Error(t, err)

	p = NewProcessor()
	p.Shape = []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10)}
	_, err = p.Render(src)
	assert.Error(t, err)

	p = NewProcessor()
	p.Backend = "metal"
	_, err = p.Render(src)
	assert.Error(t, err)

	p = NewProcessor()
	p.FaceDetect = true
	p.CascadePath = filepath.Join(t.TempDir(), "facefinder")
	_, err = p.Render(src)
	assert.Error(t, err)

	_, err = LoadCascade(p.CascadePath)
	assert.Error(t, err)
}
