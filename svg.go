package main

import (
	"image"
	"io"

	svg "github.com/ajstarks/svgo"
)

// WriteShareSVG renders a share as SVG for printing on a transparency: every
// black sub-pixel becomes a cell×cell black rectangle, white sub-pixels are
// left unpainted so the film stays clear there. Horizontal runs of black are
// merged into single rectangles. cell <= 0 defaults to 1.
func WriteShareSVG(w io.Writer, share *image.RGBA, cell int) {
	if cell <= 0 {
		cell = 1
	}
	bounds := share.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()

	canvas := svg.New(w)
	canvas.Start(sw*cell, sh*cell)
	for y := 0; y < sh; y++ {
		rowBase := share.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < sw; {
			if !isBlackPixel(share.Pix[rowBase+x*4 : rowBase+x*4+4]) {
				x++
				continue
			}
			run := 1
			for x+run < sw && isBlackPixel(share.Pix[rowBase+(x+run)*4:rowBase+(x+run)*4+4]) {
				run++
			}
			canvas.Rect(x*cell, y*cell, run*cell, cell, "fill:black")
			x += run
		}
	}
	canvas.End()
}
