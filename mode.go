package rlgl

import "fmt"

// Mode is the primitive type of an immediate-mode draw.
type Mode uint8

// Primitive modes.
const (
	Lines Mode = iota + 1
	Triangles
	Quads
)

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= Lines && m <= Quads
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Lines:
		return "Lines"
	case Triangles:
		return "Triangles"
	case Quads:
		return "Quads"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// vertices returns the number of vertices in one primitive of mode m.
func (m Mode) vertices() int {
	switch m {
	case Lines:
		return 2
	case Triangles:
		return 3
	default:
		return 4
	}
}

// MatrixMode selects the matrix that matrix operations modify.
type MatrixMode uint8

// Matrix modes.
const (
	Projection MatrixMode = iota
	Modelview
)

// String returns the matrix mode name.
func (m MatrixMode) String() string {
	switch m {
	case Projection:
		return "Projection"
	case Modelview:
		return "Modelview"
	default:
		return fmt.Sprintf("MatrixMode(%d)", uint8(m))
	}
}

// BlendMode is a color blending equation.
type BlendMode uint8

// Blend modes.
const (
	// BlendAlpha blends with (SrcAlpha, OneMinusSrcAlpha).
	BlendAlpha BlendMode = iota
	// BlendAdditive blends with (SrcAlpha, One).
	BlendAdditive
	// BlendMultiplied blends with (DstColor, OneMinusSrcAlpha).
	BlendMultiplied
)

// String returns the blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendAlpha:
		return "Alpha"
	case BlendAdditive:
		return "Additive"
	case BlendMultiplied:
		return "Multiplied"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(b))
	}
}
