package rlgl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PixelFormat describes the memory layout of texture data.
type PixelFormat uint8

// Pixel formats. Uncompressed formats come first; IsCompressed reports the rest.
const (
	PixelGrayscale    PixelFormat = iota + 1 // 8 bit, 1 channel
	PixelGrayAlpha                           // 8*2 bit, 2 channels
	PixelR5G6B5                              // 16 bit
	PixelR8G8B8                              // 24 bit
	PixelR5G5B5A1                            // 16 bit, 1 bit alpha
	PixelR4G4B4A4                            // 16 bit, 4 bit alpha
	PixelR8G8B8A8                            // 32 bit
	PixelR32                                 // 32 bit float, 1 channel
	PixelR32G32B32                           // 32*3 bit float
	PixelR32G32B32A32                        // 32*4 bit float
	PixelDXT1RGB                             // 4 bpp
	PixelDXT1RGBA                            // 4 bpp, 1 bit alpha
	PixelDXT3RGBA                            // 8 bpp
	PixelDXT5RGBA                            // 8 bpp
	PixelETC1RGB                             // 4 bpp
	PixelETC2RGB                             // 4 bpp
	PixelETC2EACRGBA                         // 8 bpp
	PixelPVRTRGB                             // 4 bpp
	PixelPVRTRGBA                            // 4 bpp
	PixelASTC4x4RGBA                         // 8 bpp
	PixelASTC8x8RGBA                         // 2 bpp
)

var pixelFormatNames = [...]string{
	PixelGrayscale:    "Grayscale",
	PixelGrayAlpha:    "GrayAlpha",
	PixelR5G6B5:       "R5G6B5",
	PixelR8G8B8:       "R8G8B8",
	PixelR5G5B5A1:     "R5G5B5A1",
	PixelR4G4B4A4:     "R4G4B4A4",
	PixelR8G8B8A8:     "R8G8B8A8",
	PixelR32:          "R32",
	PixelR32G32B32:    "R32G32B32",
	PixelR32G32B32A32: "R32G32B32A32",
	PixelDXT1RGB:      "DXT1_RGB",
	PixelDXT1RGBA:     "DXT1_RGBA",
	PixelDXT3RGBA:     "DXT3_RGBA",
	PixelDXT5RGBA:     "DXT5_RGBA",
	PixelETC1RGB:      "ETC1_RGB",
	PixelETC2RGB:      "ETC2_RGB",
	PixelETC2EACRGBA:  "ETC2_EAC_RGBA",
	PixelPVRTRGB:      "PVRT_RGB",
	PixelPVRTRGBA:     "PVRT_RGBA",
	PixelASTC4x4RGBA:  "ASTC_4x4_RGBA",
	PixelASTC8x8RGBA:  "ASTC_8x8_RGBA",
}

// String returns the format name.
func (f PixelFormat) String() string {
	if f.Valid() {
		return pixelFormatNames[f]
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// Valid reports whether f is a defined format.
func (f PixelFormat) Valid() bool {
	return f >= PixelGrayscale && f <= PixelASTC8x8RGBA
}

// IsCompressed reports whether f is a block-compressed format.
func (f PixelFormat) IsCompressed() bool {
	return f >= PixelDXT1RGB && f <= PixelASTC8x8RGBA
}

// IsFloat reports whether f stores 32-bit float channels.
func (f PixelFormat) IsFloat() bool {
	return f >= PixelR32 && f <= PixelR32G32B32A32
}

// BitsPerPixel returns the storage size of one pixel in bits, or 0 for an
// unknown format.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case PixelGrayscale:
		return 8
	case PixelGrayAlpha, PixelR5G6B5, PixelR5G5B5A1, PixelR4G4B4A4:
		return 16
	case PixelR8G8B8:
		return 24
	case PixelR8G8B8A8, PixelR32:
		return 32
	case PixelR32G32B32:
		return 96
	case PixelR32G32B32A32:
		return 128
	case PixelDXT1RGB, PixelDXT1RGBA, PixelETC1RGB, PixelETC2RGB, PixelPVRTRGB, PixelPVRTRGBA:
		return 4
	case PixelDXT3RGBA, PixelDXT5RGBA, PixelETC2EACRGBA, PixelASTC4x4RGBA:
		return 8
	case PixelASTC8x8RGBA:
		return 2
	default:
		return 0
	}
}

// PixelDataSize returns the byte size of a width x height image in format f.
func PixelDataSize(width, height int, f PixelFormat) int {
	return width * height * f.BitsPerPixel() / 8
}

// mipChainSize returns the total byte size of levels mip levels starting at
// width x height, halving each dimension per level and clamping at 1.
func mipChainSize(width, height, levels int, f PixelFormat) int {
	size := 0
	for range levels {
		size += PixelDataSize(width, height, f)
		width = max(width/2, 1)
		height = max(height/2, 1)
	}
	return size
}

// ToRGBA8 converts uncompressed pixel data to tightly packed 8-bit RGBA.
// Float channels are clamped to [0, 1].
func ToRGBA8(data []byte, width, height int, f PixelFormat) ([]byte, error) {
	if f.IsCompressed() || !f.Valid() {
		return nil, fmt.Errorf("rlgl: convert %s to RGBA8: %w", f, ErrUnsupported)
	}
	n := width * height
	if need := PixelDataSize(width, height, f); len(data) < need {
		return nil, fmt.Errorf("rlgl: convert %s: have %d bytes, need %d: %w", f, len(data), need, ErrInvalidSize)
	}

	out := make([]byte, n*4)
	le := binary.LittleEndian
	for i := range n {
		var r, g, b, a byte
		switch f {
		case PixelGrayscale:
			r, g, b, a = data[i], data[i], data[i], 255
		case PixelGrayAlpha:
			v := data[i*2]
			r, g, b, a = v, v, v, data[i*2+1]
		case PixelR5G6B5:
			p := le.Uint16(data[i*2:])
			r = expand5(byte(p >> 11))
			g = expand6(byte(p >> 5 & 0x3F))
			b = expand5(byte(p & 0x1F))
			a = 255
		case PixelR8G8B8:
			r, g, b, a = data[i*3], data[i*3+1], data[i*3+2], 255
		case PixelR5G5B5A1:
			p := le.Uint16(data[i*2:])
			r = expand5(byte(p >> 11))
			g = expand5(byte(p >> 6 & 0x1F))
			b = expand5(byte(p >> 1 & 0x1F))
			a = byte(p&1) * 255
		case PixelR4G4B4A4:
			p := le.Uint16(data[i*2:])
			r = byte(p>>12) * 17
			g = byte(p>>8&0xF) * 17
			b = byte(p>>4&0xF) * 17
			a = byte(p&0xF) * 17
		case PixelR8G8B8A8:
			copy(out[i*4:i*4+4], data[i*4:i*4+4])
			continue
		case PixelR32:
			v := unitFloat(le.Uint32(data[i*4:]))
			r, g, b, a = v, v, v, 255
		case PixelR32G32B32:
			r = unitFloat(le.Uint32(data[i*12:]))
			g = unitFloat(le.Uint32(data[i*12+4:]))
			b = unitFloat(le.Uint32(data[i*12+8:]))
			a = 255
		case PixelR32G32B32A32:
			r = unitFloat(le.Uint32(data[i*16:]))
			g = unitFloat(le.Uint32(data[i*16+4:]))
			b = unitFloat(le.Uint32(data[i*16+8:]))
			a = unitFloat(le.Uint32(data[i*16+12:]))
		}
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r, g, b, a
	}
	return out, nil
}

func expand5(v byte) byte { return v<<3 | v>>2 }
func expand6(v byte) byte { return v<<2 | v>>4 }

// unitFloat converts float32 bits in [0, 1] to a byte.
func unitFloat(bits uint32) byte {
	v := math.Float32frombits(bits)
	switch {
	case v != v || v <= 0: // NaN or negative
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}
