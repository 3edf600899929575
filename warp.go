package infmirror

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/utils"
)

// Filters lists the resampling filters usable by the warp, keyed by name.
var Filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"bilinear":   imaging.Linear,
	"hermite":    imaging.Hermite,
	"mitchell":   imaging.MitchellNetravali,
	"catmullrom": imaging.CatmullRom,
	"bspline":    imaging.BSpline,
	"gaussian":   imaging.Gaussian,
	"lanczos":    imaging.Lanczos,
}

// ParseFilter returns the resampling filter registered under name.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := Filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(Filters))
		for k := range Filters {
			names = append(names, k)
		}
		sort.Strings(names)
		return imaging.ResampleFilter{}, fmt.Errorf("unsupported resampling filter %q, use one of: %s",
			name, strings.Join(names, ", "))
	}
	return f, nil
}

// warpPerspective renders src through the transform h onto a canvas of the same size.
// inv must be the inverse of h: every destination pixel centre is mapped back into src
// and reconstructed with the filter kernel. Pixels falling outside src stay transparent black.
func warpPerspective(src *image.NRGBA, inv Homography, filter imaging.ResampleFilter) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	support := filter.Support
	if filter.Kernel == nil {
		support = 0
	}
	taps := int(math.Ceil(2*support)) + 1
	wx := make([]float64, taps)
	wy := make([]float64, taps)

	for y := 0; y < h; y++ {
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			p, ok := inv.Apply(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			if !ok || p.X < 0 || p.Y < 0 || p.X >= float64(w) || p.Y >= float64(h) {
				di += 4
				continue
			}

			if support == 0 {
				si := int(p.Y)*src.Stride + int(p.X)*4
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
				di += 4
				continue
			}

			// Sample positions relative to pixel centres.
			cx, cy := p.X-0.5, p.Y-0.5
			x0 := int(math.Ceil(cx - support))
			y0 := int(math.Ceil(cy - support))
			nx := kernelWeights(wx, filter, cx, x0)
			ny := kernelWeights(wy, filter, cy, y0)

			var r, g, bl, a, sum float64
			for j := 0; j < ny; j++ {
				if wy[j] == 0 {
					continue
				}
				row := utils.Clamp(y0+j, 0, h-1) * src.Stride
				for i := 0; i < nx; i++ {
					k := wx[i] * wy[j]
					if k == 0 {
						continue
					}
					si := row + utils.Clamp(x0+i, 0, w-1)*4
					r += k * float64(src.Pix[si+0])
					g += k * float64(src.Pix[si+1])
					bl += k * float64(src.Pix[si+2])
					a += k * float64(src.Pix[si+3])
					sum += k
				}
			}

			if sum == 0 {
				si := int(p.Y)*src.Stride + int(p.X)*4
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
			} else {
				dst.Pix[di+0] = clampByte(r / sum)
				dst.Pix[di+1] = clampByte(g / sum)
				dst.Pix[di+2] = clampByte(bl / sum)
				dst.Pix[di+3] = clampByte(a / sum)
			}
			di += 4
		}
	}
	return dst
}

// kernelWeights fills weights with the filter values for the taps starting at first
// and returns the number of taps within the filter support.
func kernelWeights(weights []float64, filter imaging.ResampleFilter, center float64, first int) int {
	n := 0
	for i := range weights {
		d := float64(first+i) - center
		if d > filter.Support {
			break
		}
		weights[i] = filter.Kernel(d)
		n++
	}
	return n
}

func clampByte(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v), 0, 255))
}
