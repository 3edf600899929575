package infmirror

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/infmirror/utils"
	"golang.org/x/image/bmp"
)

// decodeImg decodes an image file to type image.Image
func decodeImg(src string) (image.Image, error) {
	ctype, err := utils.DetectContentType(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %v", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%s should be an image file", src)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image file: %v", err)
	}

	return img, nil
}

// encodeImg encodes an image to a destination of type io.Writer.
// Files are encoded by their extension, any other writer receives a JPEG.
func encodeImg(w io.Writer, img *image.NRGBA) error {
	switch w := w.(type) {
	case *os.File:
		switch strings.ToLower(filepath.Ext(w.Name())) {
		case "", ".jpg", ".jpeg":
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
		case ".png":
			return png.Encode(w, img)
		case ".bmp":
			return bmp.Encode(w, img)
		default:
			return errors.New("unsupported image format")
		}
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
}

// rgbToGrayscale converts an image to grayscale mode and
// returns the pixel values as an one dimensional array.
func rgbToGrayscale(src *image.NRGBA) []uint8 {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		si := y * src.Stride
		for x := 0; x < width; x++ {
			r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			gray[y*width+x] = uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
			si += 4
		}
	}

	return gray
}
