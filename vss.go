// VSS implements the classical (2,2)-threshold visual secret sharing scheme.
// A pure black/white source raster is expanded into two noise-like shares,
// each twice the source width and height. A share on its own is uniform
// pattern noise; stacking both shares (black-dominant overlay) reconstructs
// the source at 2x resolution, with white areas rendered as 50% gray.

package main

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// maxShareDim keeps share dimensions inside the uint16 fields of the
// container header (see container.go).
const maxShareDim = 65535

var (
	ErrNotBinary         = errors.New("vss: pixel is neither pure black nor pure white")
	ErrDimensionOverflow = errors.New("vss: share dimensions exceed 65535")
	ErrRandomSource      = errors.New("vss: random source returned an out-of-range draw")
	ErrShareSizeMismatch = errors.New("vss: share dimensions differ")
)

// RandomSource yields uniformly distributed integers in [0, n).
// *math/rand.Rand satisfies it; tests inject scripted sequences.
type RandomSource interface {
	Intn(n int) int
}

// blockPatterns are the six 2x2 sub-pixel layouts written into share blocks,
// indexed row-major (top-left, top-right, bottom-left, bottom-right),
// true = black. Every pattern blacks exactly two of the four positions, so a
// single block carries no information about its source pixel.
var blockPatterns = [6][4]bool{
	{true, true, false, false}, // top row
	{false, false, true, true}, // bottom row
	{true, false, true, false}, // left column
	{false, true, false, true}, // right column
	{false, true, true, false}, // anti-diagonal
	{true, false, false, true}, // main diagonal
}

// blackPairs lists the ordered pattern index pairs whose black-dominant
// overlay covers all four sub-pixel positions. Every pattern appears as both
// first and second element, so each share draws from all six patterns for
// black source pixels too.
var blackPairs = [6][2]uint8{{0, 1}, {1, 0}, {2, 3}, {3, 2}, {4, 5}, {5, 4}}

// Encoder turns a binary raster into a pair of shares.
type Encoder struct {
	// Strict makes Encode fail with ErrNotBinary on a pixel that is neither
	// pure opaque black nor pure opaque white. When false (the default) any
	// non-black pixel counts as white, matching the lenient reference
	// behavior.
	Strict bool

	// Workers caps the goroutines writing share blocks. Zero means
	// runtime.NumCPU(). The output does not depend on the worker count.
	Workers int
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeShares encodes src with a default Encoder.
func EncodeShares(src *image.RGBA, rng RandomSource) (*image.RGBA, *image.RGBA, error) {
	return NewEncoder().Encode(src, rng)
}

// drawBlack marks a draw made for a black source pixel. Pattern indices only
// need the low three bits.
const drawBlack = 0x08

// Encode maps every source pixel to one 2x2 block in each share. A black
// pixel draws one of the six black pairs and writes its two complementary
// patterns to share A and share B; a white pixel draws a single pattern and
// writes it to both shares. The block for source pixel (x, y) has its
// top-left sub-pixel at output coordinate (2x, 2y).
//
// Draws are consumed serially, one Intn(6) per pixel in row-major order, so
// the result is fully determined by src and the draw sequence. The block
// writes are then striped across workers; each pixel owns a disjoint output
// region, so the writers never contend.
func (e *Encoder) Encode(src *image.RGBA, rng RandomSource) (*image.RGBA, *image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if 2*w > maxShareDim || 2*h > maxShareDim {
		return nil, nil, ErrDimensionOverflow
	}

	draws := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		rowBase := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			r := rng.Intn(6)
			if r < 0 || r > 5 {
				return nil, nil, ErrRandomSource
			}
			px := src.Pix[rowBase+x*4 : rowBase+x*4+4 : rowBase+x*4+4]
			d := uint8(r)
			if isBlackPixel(px) {
				d |= drawBlack
			} else if e.Strict && !isWhitePixel(px) {
				return nil, nil, fmt.Errorf("%w: (%d, %d) = %v", ErrNotBinary, x, y, [4]byte(px))
			}
			draws[y*w+x] = d
		}
	}

	shareA := image.NewRGBA(image.Rect(0, 0, 2*w, 2*h))
	shareB := image.NewRGBA(image.Rect(0, 0, 2*w, 2*h))

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, h)
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * rowsPerWorker
		if y0 >= h {
			break
		}
		y1 := min(y0+rowsPerWorker, h)

		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					d := draws[y*w+x]
					r := d & 0x07
					if d&drawBlack != 0 {
						pair := blackPairs[r]
						writeBlock(shareA, x, y, pair[0])
						writeBlock(shareB, x, y, pair[1])
					} else {
						writeBlock(shareA, x, y, r)
						writeBlock(shareB, x, y, r)
					}
				}
			}
		}(y0, y1)
	}
	wg.Wait()

	return shareA, shareB, nil
}

// writeBlock paints pattern idx into the 2x2 block of dst whose top-left
// sub-pixel is (2x, 2y). dst must have zero-origin bounds.
func writeBlock(dst *image.RGBA, x, y int, idx uint8) {
	pat := &blockPatterns[idx]
	for i := 0; i < 4; i++ {
		o := (2*y+i/2)*dst.Stride + (2*x+i%2)*4
		v := byte(255)
		if pat[i] {
			v = 0
		}
		dst.Pix[o+0] = v
		dst.Pix[o+1] = v
		dst.Pix[o+2] = v
		dst.Pix[o+3] = 255
	}
}

// Overlay merges two shares black-dominant: a position is black in the
// result when either share is black there. This is the digital equivalent of
// stacking two printed transparencies and is what reveals the hidden image.
func Overlay(a, b *image.RGBA) (*image.RGBA, error) {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if w != bb.Dx() || h != bb.Dy() {
		return nil, ErrShareSizeMismatch
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		aBase := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bBase := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		dBase := y * dst.Stride
		for x := 0; x < w; x++ {
			v := byte(255)
			if isBlackPixel(a.Pix[aBase+x*4:aBase+x*4+4]) || isBlackPixel(b.Pix[bBase+x*4:bBase+x*4+4]) {
				v = 0
			}
			o := dBase + x*4
			dst.Pix[o+0] = v
			dst.Pix[o+1] = v
			dst.Pix[o+2] = v
			dst.Pix[o+3] = 255
		}
	}
	return dst, nil
}

func isBlackPixel(px []byte) bool {
	return px[0] == 0 && px[1] == 0 && px[2] == 0 && px[3] == 255
}

func isWhitePixel(px []byte) bool {
	return px[0] == 255 && px[1] == 255 && px[2] == 255 && px[3] == 255
}
