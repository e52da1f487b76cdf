//go:build !nogpu

package native

import (
	"errors"
	"slices"
	"testing"
)

func TestParseUniformLayoutDefault(t *testing.T) {
	layout, ok, err := parseUniformLayout(defaultShaderSource)
	if err != nil || !ok {
		t.Fatalf("parseUniformLayout(default) = ok %v, err %v", ok, err)
	}
	want := []uniformMember{
		{name: "mvp", offset: 0, size: 64},
		{name: "colDiffuse", offset: 64, size: 16},
	}
	if !slices.Equal(layout.members, want) {
		t.Errorf("members = %+v, want %+v", layout.members, want)
	}
	if layout.size != 80 {
		t.Errorf("size = %d, want 80", layout.size)
	}
}

func TestParseUniformLayoutAlignment(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     []uniformMember
		wantSize int
	}{
		{
			name:     "scalar after vec3 packs into padding",
			body:     "a: vec3<f32>, b: f32",
			want:     []uniformMember{{"a", 0, 12}, {"b", 12, 4}},
			wantSize: 16,
		},
		{
			name:     "vec2 aligns to 8",
			body:     "a: f32, b: vec2<f32>",
			want:     []uniformMember{{"a", 0, 4}, {"b", 8, 8}},
			wantSize: 16,
		},
		{
			name:     "short vector spelling",
			body:     "a: f32,\n\tb: vec4f,",
			want:     []uniformMember{{"a", 0, 4}, {"b", 16, 16}},
			wantSize: 32,
		},
		{
			name:     "mat3x3 pads columns",
			body:     "m: mat3x3<f32>",
			want:     []uniformMember{{"m", 0, 48}},
			wantSize: 48,
		},
		{
			name:     "mat2x2 columns align to 8",
			body:     "a: f32, m: mat2x2<f32>",
			want:     []uniformMember{{"a", 0, 4}, {"m", 8, 16}},
			wantSize: 32,
		},
		{
			name:     "array elements stride 16",
			body:     "v: array<f32, 4>, t: u32",
			want:     []uniformMember{{"v", 0, 64}, {"t", 64, 4}},
			wantSize: 80,
		},
		{
			name:     "array of vec4",
			body:     "lights: array<vec4<f32>, 2>",
			want:     []uniformMember{{"lights", 0, 32}},
			wantSize: 32,
		},
		{
			name:     "member attributes are ignored",
			body:     "@align(16) a: f32",
			want:     []uniformMember{{"a", 0, 4}},
			wantSize: 16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "struct Uniforms {\n" + tt.body + "\n}\n"
			layout, ok, err := parseUniformLayout(src)
			if err != nil || !ok {
				t.Fatalf("parseUniformLayout = ok %v, err %v", ok, err)
			}
			if !slices.Equal(layout.members, tt.want) {
				t.Errorf("members = %+v, want %+v", layout.members, tt.want)
			}
			if layout.size != tt.wantSize {
				t.Errorf("size = %d, want %d", layout.size, tt.wantSize)
			}
		})
	}
}

func TestParseUniformLayoutErrors(t *testing.T) {
	for _, body := range []string{
		"a: bool",
		"a: vec5<f32>",
		"a: mat4x5<f32>",
		"a: array<f32>",
		"a: array<f32, 0>",
		"missingcolon",
	} {
		_, ok, err := parseUniformLayout("struct Uniforms { " + body + " }")
		if !ok {
			t.Errorf("%q: struct not found", body)
		}
		if !errors.Is(err, ErrShaderSource) {
			t.Errorf("%q: err = %v, want ErrShaderSource", body, err)
		}
	}
}

func TestParseUniformLayoutAbsent(t *testing.T) {
	src := "// struct Uniforms { a: f32 }\n@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }"
	_, ok, err := parseUniformLayout(src)
	if ok || err != nil {
		t.Errorf("parseUniformLayout = ok %v, err %v, want absent", ok, err)
	}
}

func TestParseVertexInputs(t *testing.T) {
	got := parseVertexInputs(defaultShaderSource)
	want := map[string]int{"vertexPosition": 0, "vertexTexCoord": 1, "vertexColor": 3}
	if len(got) != len(want) {
		t.Fatalf("inputs = %v, want %v", got, want)
	}
	for name, loc := range want {
		if got[name] != loc {
			t.Errorf("%s = %d, want %d", name, got[name], loc)
		}
	}
	if parseVertexInputs("fn main() {}") != nil {
		t.Error("inputs of a source without VertexInput should be nil")
	}
}

func TestParseTextureBindings(t *testing.T) {
	if got := parseTextureBindings(defaultShaderSource); !slices.Equal(got, []string{"texture0"}) {
		t.Errorf("default textures = %v", got)
	}
	src := `
@group(0) @binding(1) var texture0: texture_2d<f32>;
// var commented: texture_2d<f32>;
@group(1) @binding(0) var texture1: texture_2d<f32>;
`
	if got := parseTextureBindings(src); !slices.Equal(got, []string{"texture0", "texture1"}) {
		t.Errorf("textures = %v", got)
	}
}

func TestProgramLayout(t *testing.T) {
	custom := "struct Uniforms { mvp: mat4x4<f32>, colDiffuse: vec4<f32>, time: f32 }"
	other := "struct Uniforms { mvp: mat4x4<f32> }"

	layout, err := programLayout(custom, "")
	if err != nil {
		t.Fatalf("programLayout(custom, none): %v", err)
	}
	if layout.size != 96 || len(layout.members) != 3 {
		t.Errorf("layout = %+v", layout)
	}

	layout, err = programLayout("", "")
	if err != nil || layout.size != 80 {
		t.Errorf("programLayout(none, none) = %+v, %v, want default layout", layout, err)
	}

	if _, err := programLayout(custom, other); !errors.Is(err, ErrShaderSource) {
		t.Errorf("mismatched stages err = %v, want ErrShaderSource", err)
	}
}
