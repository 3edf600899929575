package imop

import "image"

// BitwiseOr ORs every byte of src into dst. Both images must share the same bounds.
func BitwiseOr(dst, src *image.NRGBA) {
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()
	rowSize := dx * 4
	for y := 0; y < dy; y++ {
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+rowSize]
		srow := src.Pix[y*src.Stride : y*src.Stride+rowSize]
		for i := range drow {
			drow[i] |= srow[i]
		}
	}
}

// BitwiseAnd scales every channel of dst by the mask coverage.
// For a binary mask this is the bitwise AND of the pixel with the broadcast mask value.
func BitwiseAnd(dst *image.NRGBA, mask *image.Alpha) {
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < dy; y++ {
		di := y * dst.Stride
		mi := y * mask.Stride
		for x := 0; x < dx; x++ {
			switch m := uint32(mask.Pix[mi]); m {
			case 0xff:
			case 0:
				dst.Pix[di+0] = 0
				dst.Pix[di+1] = 0
				dst.Pix[di+2] = 0
				dst.Pix[di+3] = 0
			default:
				for c := 0; c < 4; c++ {
					dst.Pix[di+c] = uint8((uint32(dst.Pix[di+c])*m + 127) / 255)
				}
			}
			di += 4
			mi++
		}
	}
}
