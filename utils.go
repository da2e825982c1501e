package main

import (
	"image"
	"image/draw"
)

// ImageToRGBA copies any image.Image into an *image.RGBA with bounds starting at (0,0).
func ImageToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ValidateThreshold clamps t to the 8-bit luminance range.
func ValidateThreshold(t int) uint8 {
	if t < 0 {
		return 0
	}
	if t > 255 {
		return 255
	}
	return uint8(t)
}
