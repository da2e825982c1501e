package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xfmoulet/qoi"
)

func usage() {
	fmt.Fprint(os.Stderr, `Split:   vss [flags] <input-image>        -> <base>_share1, <base>_share2
Unpack:  vss <share.vss>                    -> <base>.png
Overlay: vss <shareA-image> <shareB-image>  -> <baseA>_overlay.png

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	threshold := flag.Int("threshold", DefaultThreshold, "binarization luminance threshold (0-255)")
	maxDim := flag.Int("maxdim", 0, "downscale the input until both dimensions fit (0 = keep size)")
	format := flag.String("format", "png", "share output format: png, qoi, svg or vss")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	binary := flag.Bool("binary", false, "treat the input as already binary, skip thresholding")
	strict := flag.Bool("strict", false, "with -binary, fail on pixels that are neither pure black nor pure white")
	cell := flag.Int("cell", 4, "sub-pixel cell size for svg output")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	var err error
	switch {
	case len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".vss"):
		err = unpackShareFile(args[0])
	case len(args) == 1:
		err = splitImage(args[0], splitOptions{
			threshold: ValidateThreshold(*threshold),
			maxDim:    *maxDim,
			format:    strings.ToLower(*format),
			seed:      *seed,
			binary:    *binary,
			strict:    *strict,
			cell:      *cell,
		})
	case len(args) == 2:
		err = overlayShareFiles(args[0], args[1])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type splitOptions struct {
	threshold uint8
	maxDim    int
	format    string
	seed      int64
	binary    bool
	strict    bool
	cell      int
}

// splitImage loads an image, prepares a binary raster and writes the two
// shares next to the input.
func splitImage(path string, opts splitOptions) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	rgba := ImageToRGBA(img)
	rgba = DownscaleToFit(rgba, opts.maxDim)
	if !opts.binary {
		rgba = Binarize(rgba, opts.threshold)
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	enc := NewEncoder()
	enc.Strict = opts.strict
	shareA, shareB, err := enc.Encode(rgba, rng)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	pathA := base + "_share1." + opts.format
	pathB := base + "_share2." + opts.format
	if err := writeShare(pathA, shareA, opts.format, opts.cell); err != nil {
		return err
	}
	if err := writeShare(pathB, shareB, opts.format, opts.cell); err != nil {
		return err
	}

	sb := shareA.Bounds()
	fmt.Printf("Split %s into %s and %s (%dx%d shares)\n", path, pathA, pathB, sb.Dx(), sb.Dy())
	return nil
}

func writeShare(path string, share *image.RGBA, format string, cell int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		if err := png.Encode(f, share); err != nil {
			return err
		}
	case "qoi":
		if err := qoi.Encode(f, share); err != nil {
			return err
		}
	case "svg":
		WriteShareSVG(f, share, cell)
	case "vss":
		data, err := PackShare(share)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown share format %q", format)
	}
	return nil
}

// unpackShareFile converts a .vss container back into a viewable PNG.
func unpackShareFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	share, err := UnpackShare(data)
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := writeShare(out, share, "png", 0); err != nil {
		return err
	}
	fmt.Printf("Unpacked %s to %s\n", path, out)
	return nil
}

// overlayShareFiles stacks two share images black-dominant and writes the
// reconstruction.
func overlayShareFiles(pathA, pathB string) error {
	shareA, err := loadShare(pathA)
	if err != nil {
		return err
	}
	shareB, err := loadShare(pathB)
	if err != nil {
		return err
	}

	merged, err := Overlay(shareA, shareB)
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(pathA, filepath.Ext(pathA)) + "_overlay.png"
	if err := writeShare(out, merged, "png", 0); err != nil {
		return err
	}
	fmt.Printf("Overlaid %s and %s into %s\n", pathA, pathB, out)
	return nil
}

// loadShare reads a share from either a .vss container or a regular image.
func loadShare(path string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(path), ".vss") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return UnpackShare(data)
	}
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	return ImageToRGBA(img), nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".qoi") {
		return qoi.Decode(f)
	}
	img, _, err := image.Decode(f)
	return img, err
}
