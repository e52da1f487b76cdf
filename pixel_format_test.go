package rlgl

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestPixelDataSize(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		w, h int
		want int
	}{
		{PixelGrayscale, 4, 4, 16},
		{PixelGrayAlpha, 4, 4, 32},
		{PixelR5G6B5, 4, 4, 32},
		{PixelR8G8B8, 4, 4, 48},
		{PixelR8G8B8A8, 4, 4, 64},
		{PixelR32, 4, 4, 64},
		{PixelR32G32B32, 4, 4, 192},
		{PixelR32G32B32A32, 4, 4, 256},
		{PixelDXT1RGB, 4, 4, 8},
		{PixelDXT5RGBA, 4, 4, 16},
		{PixelETC2EACRGBA, 4, 4, 16},
		{PixelASTC4x4RGBA, 4, 4, 16},
		{PixelASTC8x8RGBA, 8, 8, 16},
		{PixelFormat(0), 4, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := PixelDataSize(tt.w, tt.h, tt.f); got != tt.want {
				t.Errorf("PixelDataSize(%d, %d, %s) = %d, want %d", tt.w, tt.h, tt.f, got, tt.want)
			}
		})
	}
}

func TestMipChainSize(t *testing.T) {
	// 8x4, 4x2, 2x1, 1x1
	if got, want := mipChainSize(8, 4, 4, PixelR8G8B8A8), (32+8+2+1)*4; got != want {
		t.Errorf("mipChainSize = %d, want %d", got, want)
	}
	if got := mipChainSize(8, 4, 1, PixelGrayscale); got != 32 {
		t.Errorf("single level = %d, want 32", got)
	}
}

func TestPixelFormatClassification(t *testing.T) {
	for f := PixelGrayscale; f <= PixelASTC8x8RGBA; f++ {
		if !f.Valid() {
			t.Errorf("%s not valid", f)
		}
		if f.BitsPerPixel() == 0 {
			t.Errorf("%s has no size", f)
		}
		compressed := f >= PixelDXT1RGB
		if f.IsCompressed() != compressed {
			t.Errorf("%s IsCompressed = %v", f, f.IsCompressed())
		}
	}
	if PixelFormat(0).Valid() || PixelFormat(22).Valid() {
		t.Error("out-of-range format reported valid")
	}
	if got := PixelFormat(40).String(); got != "PixelFormat(40)" {
		t.Errorf("String() = %q", got)
	}
	if !PixelR32G32B32.IsFloat() || PixelR8G8B8A8.IsFloat() {
		t.Error("IsFloat misclassified")
	}
}

func floatBytes(v ...float32) []byte {
	out := make([]byte, 0, len(v)*4)
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

func TestToRGBA8(t *testing.T) {
	tests := []struct {
		name string
		f    PixelFormat
		data []byte
		want []byte
	}{
		{"grayscale", PixelGrayscale, []byte{77}, []byte{77, 77, 77, 255}},
		{"gray alpha", PixelGrayAlpha, []byte{10, 20}, []byte{10, 10, 10, 20}},
		{"rgb565 white", PixelR5G6B5, []byte{0xFF, 0xFF}, []byte{255, 255, 255, 255}},
		{"rgb565 red", PixelR5G6B5, []byte{0x00, 0xF8}, []byte{255, 0, 0, 255}},
		{"rgb", PixelR8G8B8, []byte{1, 2, 3}, []byte{1, 2, 3, 255}},
		{"rgba5551 blue opaque", PixelR5G5B5A1, []byte{0x3F, 0x00}, []byte{0, 0, 255, 255}},
		{"rgba4444", PixelR4G4B4A4, []byte{0x21, 0x43}, []byte{68, 51, 34, 17}},
		{"rgba", PixelR8G8B8A8, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}},
		{"r32 clamps", PixelR32, floatBytes(2), []byte{255, 255, 255, 255}},
		{"rgb32", PixelR32G32B32, floatBytes(0, 0.5, 1), []byte{0, 128, 255, 255}},
		{"rgba32 negative", PixelR32G32B32A32, floatBytes(-1, 1, 0, 1), []byte{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToRGBA8(tt.data, 1, 1, tt.f)
			if err != nil {
				t.Fatalf("ToRGBA8: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ToRGBA8 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToRGBA8Errors(t *testing.T) {
	if _, err := ToRGBA8(make([]byte, 8), 4, 4, PixelDXT1RGB); !errors.Is(err, ErrUnsupported) {
		t.Errorf("compressed = %v, want ErrUnsupported", err)
	}
	if _, err := ToRGBA8(nil, 1, 1, PixelFormat(0)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("invalid format = %v, want ErrUnsupported", err)
	}
	if _, err := ToRGBA8(make([]byte, 3), 1, 1, PixelR8G8B8A8); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("short data = %v, want ErrInvalidSize", err)
	}
}
