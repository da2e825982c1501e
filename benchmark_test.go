package main

import (
	"math/rand"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	src := makeBinaryImage(256, 256, checkered)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := EncodeShares(src, rand.New(rand.NewSource(1))); err != nil {
			b.Fatalf("encode failed: %v", err)
		}
	}
}

func BenchmarkEncodeSerial(b *testing.B) {
	src := makeBinaryImage(256, 256, checkered)
	enc := &Encoder{Workers: 1}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := enc.Encode(src, rand.New(rand.NewSource(1))); err != nil {
			b.Fatalf("encode failed: %v", err)
		}
	}
}

func BenchmarkPackShare(b *testing.B) {
	src := makeBinaryImage(256, 256, checkered)
	shareA, _, err := EncodeShares(src, rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := PackShare(shareA); err != nil {
			b.Fatalf("pack failed: %v", err)
		}
	}
}

func BenchmarkOverlay(b *testing.B) {
	src := makeBinaryImage(256, 256, checkered)
	shareA, shareB, err := EncodeShares(src, rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Overlay(shareA, shareB); err != nil {
			b.Fatalf("overlay failed: %v", err)
		}
	}
}
