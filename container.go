package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Share container layout: magic(4) + width(uint16 BE) + height(uint16 BE) +
// zstd frame over the share's 1-bit plane. The plane is row-major, msb-first
// within each byte, black = 1. Shares are strictly black/white, so one bit
// per sub-pixel is lossless.
const shareMagic = "VSS1"

var ErrInvalidMagic = errors.New("vss: invalid share container magic")

// bitWriter writes bits to a bytes.Buffer, msb-first in each byte.
type bitWriter struct {
	buf *bytes.Buffer
	cur byte
	n   uint8 // bits pending in cur (0..8)
}

func newBitWriter(buf *bytes.Buffer) bitWriter {
	return bitWriter{buf: buf}
}

func (bw *bitWriter) writeBit(bit bool) {
	bw.cur <<= 1
	if bit {
		bw.cur |= 1
	}
	bw.n++
	if bw.n == 8 {
		_ = bw.buf.WriteByte(bw.cur)
		bw.cur = 0
		bw.n = 0
	}
}

// flush writes any remaining bits, left-padded into the high end of the
// final byte.
func (bw *bitWriter) flush() {
	if bw.n > 0 {
		bw.cur <<= 8 - bw.n
		_ = bw.buf.WriteByte(bw.cur)
		bw.cur = 0
		bw.n = 0
	}
}

// bitReader reads bits from a byte slice, msb-first in each byte.
type bitReader struct {
	data []byte
	idx  int
	bit  uint8 // bit position in current byte (0..7)
}

func newBitReader(data []byte) bitReader {
	return bitReader{data: data}
}

func (br *bitReader) readBit() (bool, error) {
	if br.idx >= len(br.data) {
		return false, io.ErrUnexpectedEOF
	}
	isSet := br.data[br.idx]&(1<<(7-br.bit)) != 0
	br.bit++
	if br.bit == 8 {
		br.bit = 0
		br.idx++
	}
	return isSet, nil
}

// PackShare serializes one share into the .vss container format.
func PackShare(share *image.RGBA) ([]byte, error) {
	bounds := share.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxShareDim || h > maxShareDim {
		return nil, ErrDimensionOverflow
	}

	var raw bytes.Buffer
	raw.Grow((w*h + 7) / 8)
	bw := newBitWriter(&raw)
	for y := 0; y < h; y++ {
		rowBase := share.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			bw.writeBit(isBlackPixel(share.Pix[rowBase+x*4 : rowBase+x*4+4]))
		}
	}
	bw.flush()

	b := &bytes.Buffer{}
	if _, err := b.WriteString(shareMagic); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.BigEndian, uint16(w)); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.BigEndian, uint16(h)); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(b)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnpackShare decodes data produced by PackShare back into an RGBA share.
func UnpackShare(data []byte) (*image.RGBA, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(shareMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != shareMagic {
		return nil, ErrInvalidMagic
	}

	var w16, h16 uint16
	if err := binary.Read(r, binary.BigEndian, &w16); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &h16); err != nil {
		return nil, err
	}
	w, h := int(w16), int(h16)

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	plain, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	if need := (w*h + 7) / 8; len(plain) < need {
		return nil, fmt.Errorf("vss: truncated share payload: have %d bytes, need %d", len(plain), need)
	}

	share := image.NewRGBA(image.Rect(0, 0, w, h))
	br := newBitReader(plain)
	for y := 0; y < h; y++ {
		rowBase := y * share.Stride
		for x := 0; x < w; x++ {
			black, err := br.readBit()
			if err != nil {
				return nil, err
			}
			v := byte(255)
			if black {
				v = 0
			}
			o := rowBase + x*4
			share.Pix[o+0] = v
			share.Pix[o+1] = v
			share.Pix[o+2] = v
			share.Pix[o+3] = 255
		}
	}
	return share, nil
}
