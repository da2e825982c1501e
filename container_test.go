package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		w, h int
	}{
		{1, 1},
		{5, 3}, // share plane is 60 bits, exercises byte padding
		{16, 16},
		{31, 9},
	} {
		t.Run(fmt.Sprintf("%dx%d", tc.w, tc.h), func(t *testing.T) {
			src := makeBinaryImage(tc.w, tc.h, checkered)
			shareA, _, err := EncodeShares(src, rand.New(rand.NewSource(9)))
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			data, err := PackShare(shareA)
			if err != nil {
				t.Fatalf("PackShare: %v", err)
			}
			if len(data) == 0 {
				t.Fatalf("PackShare returned empty payload")
			}

			got, err := UnpackShare(data)
			if err != nil {
				t.Fatalf("UnpackShare: %v", err)
			}
			if got.Bounds() != shareA.Bounds() {
				t.Fatalf("bounds mismatch: got %v want %v", got.Bounds(), shareA.Bounds())
			}
			if !bytes.Equal(got.Pix, shareA.Pix) {
				t.Fatalf("share pixels changed across pack/unpack")
			}
		})
	}
}

func TestUnpackInvalidMagic(t *testing.T) {
	src := makeBinaryImage(4, 4, checkered)
	shareA, _, err := EncodeShares(src, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, err := PackShare(shareA)
	if err != nil {
		t.Fatalf("PackShare: %v", err)
	}

	data[0] ^= 0xff
	if _, err := UnpackShare(data); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("UnpackShare error = %v, want ErrInvalidMagic", err)
	}
}

func TestUnpackTruncated(t *testing.T) {
	src := makeBinaryImage(8, 8, checkered)
	shareA, _, err := EncodeShares(src, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, err := PackShare(shareA)
	if err != nil {
		t.Fatalf("PackShare: %v", err)
	}

	for _, n := range []int{0, 3, len(shareMagic) + 2, len(data) - 4} {
		if _, err := UnpackShare(data[:n]); err == nil {
			t.Errorf("UnpackShare of %d-byte prefix succeeded, want error", n)
		}
	}
}

func TestBitWriterReader(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true, false, true, true}

	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	for _, b := range bits {
		bw.writeBit(b)
	}
	bw.flush()

	// 10 bits round up to 2 bytes, msb-first with zero padding.
	if got, want := buf.Bytes(), []byte{0b10110010, 0b11000000}; !bytes.Equal(got, want) {
		t.Fatalf("packed bytes = %08b, want %08b", got, want)
	}

	br := newBitReader(buf.Bytes())
	for i, want := range bits {
		got, err := br.readBit()
		if err != nil {
			t.Fatalf("readBit %d: %v", i, err)
		}
		if got != want {
			t.Errorf("bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestBitReaderExhausted(t *testing.T) {
	br := newBitReader([]byte{0xff})
	for i := 0; i < 8; i++ {
		if _, err := br.readBit(); err != nil {
			t.Fatalf("readBit %d: %v", i, err)
		}
	}
	if _, err := br.readBit(); err == nil {
		t.Fatalf("readBit past end succeeded, want error")
	}
}
