package main

import "image"

// DefaultThreshold is the luminance cut between black and white.
const DefaultThreshold = 128

// BT.709 luma coefficients in 1/32768 fixed point. They sum to 32768 so the
// weighted sum of 8-bit channels stays within [0, 255].
const (
	lumaR = 6966  // 0.2126
	lumaG = 23436 // 0.7152
	lumaB = 2366  // 0.0722
)

func luminance(r, g, b uint8) uint8 {
	return uint8((lumaR*int(r) + lumaG*int(g) + lumaB*int(b) + 16384) >> 15)
}

// Binarize maps src to a binary raster: pixels whose BT.709 luminance is at
// least threshold become pure opaque white, the rest pure opaque black.
// Alpha is forced to 255. The result has zero-origin bounds.
//
// For *image.RGBA sources the pixels are read straight from the backing Pix
// slice; other image types go through the generic At/RGBA path.
func Binarize(src image.Image, threshold uint8) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if rgba, ok := src.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			srcBase := rgba.PixOffset(b.Min.X, b.Min.Y+y)
			dstBase := y * dst.Stride
			for x := 0; x < w; x++ {
				s := srcBase + x*4
				v := byte(0)
				if luminance(rgba.Pix[s], rgba.Pix[s+1], rgba.Pix[s+2]) >= threshold {
					v = 255
				}
				o := dstBase + x*4
				dst.Pix[o+0] = v
				dst.Pix[o+1] = v
				dst.Pix[o+2] = v
				dst.Pix[o+3] = 255
			}
		}
		return dst
	}

	for y := 0; y < h; y++ {
		dstBase := y * dst.Stride
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			v := byte(0)
			if luminance(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8)) >= threshold {
				v = 255
			}
			o := dstBase + x*4
			dst.Pix[o+0] = v
			dst.Pix[o+1] = v
			dst.Pix[o+2] = v
			dst.Pix[o+3] = 255
		}
	}
	return dst
}

// DownscaleToFit repeatedly halves src until both dimensions are at most
// maxDim, so the doubled shares stay display-sized. maxDim <= 0 disables
// scaling. Halving is a 2x2 box average; odd trailing rows/columns reuse the
// last sample.
func DownscaleToFit(src *image.RGBA, maxDim int) *image.RGBA {
	if maxDim <= 0 {
		return src
	}
	for src.Bounds().Dx() > maxDim || src.Bounds().Dy() > maxDim {
		src = halve(src)
	}
	return src
}

func halve(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	w2, h2 := max(w/2, 1), max(h/2, 1)
	dst := image.NewRGBA(image.Rect(0, 0, w2, h2))

	for y := 0; y < h2; y++ {
		sy0 := min(2*y, h-1)
		sy1 := min(2*y+1, h-1)
		for x := 0; x < w2; x++ {
			sx0 := min(2*x, w-1)
			sx1 := min(2*x+1, w-1)

			o := y*dst.Stride + x*4
			for c := 0; c < 4; c++ {
				sum := int(src.Pix[src.PixOffset(b.Min.X+sx0, b.Min.Y+sy0)+c]) +
					int(src.Pix[src.PixOffset(b.Min.X+sx1, b.Min.Y+sy0)+c]) +
					int(src.Pix[src.PixOffset(b.Min.X+sx0, b.Min.Y+sy1)+c]) +
					int(src.Pix[src.PixOffset(b.Min.X+sx1, b.Min.Y+sy1)+c])
				dst.Pix[o+c] = uint8((sum + 2) / 4)
			}
		}
	}
	return dst
}
