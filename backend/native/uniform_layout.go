//go:build !nogpu

package native

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// uniformMember is one member of the Uniforms struct in the uniform address
// space.
type uniformMember struct {
	name   string
	offset int
	size   int
}

// uniformLayout is the byte layout of a program's Uniforms struct.
type uniformLayout struct {
	members []uniformMember
	size    int
}

// member returns the member called name.
func (l uniformLayout) member(name string) (uniformMember, bool) {
	for _, m := range l.members {
		if m.name == name {
			return m, true
		}
	}
	return uniformMember{}, false
}

// equal reports whether two layouts place the same members at the same
// offsets.
func (l uniformLayout) equal(o uniformLayout) bool {
	if l.size != o.size || len(l.members) != len(o.members) {
		return false
	}
	for i := range l.members {
		if l.members[i] != o.members[i] {
			return false
		}
	}
	return true
}

var (
	uniformsStruct  = regexp.MustCompile(`struct\s+Uniforms\s*\{([^}]*)\}`)
	vertexInput     = regexp.MustCompile(`struct\s+VertexInput\s*\{([^}]*)\}`)
	locationMember  = regexp.MustCompile(`@location\(\s*(\d+)\s*\)\s*(\w+)\s*:`)
	textureBinding  = regexp.MustCompile(`var\s+(\w+)\s*:\s*texture_\w+`)
	lineComment     = regexp.MustCompile(`//[^\n]*`)
	memberAttribute = regexp.MustCompile(`@\w+(\([^)]*\))?`)
)

// stripComments removes line comments so declarations inside them are not
// picked up.
func stripComments(src string) string {
	return lineComment.ReplaceAllString(src, "")
}

// parseUniformLayout lays out the Uniforms struct of src. ok is false when
// src declares no such struct.
func parseUniformLayout(src string) (layout uniformLayout, ok bool, err error) {
	m := uniformsStruct.FindStringSubmatch(stripComments(src))
	if m == nil {
		return uniformLayout{}, false, nil
	}
	offset, maxAlign := 0, 16
	for _, field := range splitTopLevel(m[1]) {
		field = strings.TrimSpace(memberAttribute.ReplaceAllString(field, ""))
		if field == "" {
			continue
		}
		name, typ, found := strings.Cut(field, ":")
		if !found {
			return uniformLayout{}, true, fmt.Errorf("%w: uniform member %q", ErrShaderSource, field)
		}
		align, size, err := wgslTypeLayout(strings.Join(strings.Fields(typ), ""))
		if err != nil {
			return uniformLayout{}, true, err
		}
		offset = roundUp(offset, align)
		maxAlign = max(maxAlign, align)
		layout.members = append(layout.members, uniformMember{
			name:   strings.TrimSpace(name),
			offset: offset,
			size:   size,
		})
		offset += size
	}
	layout.size = max(roundUp(offset, maxAlign), 16)
	return layout, true, nil
}

// splitTopLevel splits a struct body at commas outside angle brackets.
func splitTopLevel(body string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, body[start:])
}

// wgslTypeLayout returns the alignment and size of a host-shareable WGSL
// type in the uniform address space.
func wgslTypeLayout(typ string) (align, size int, err error) {
	switch typ {
	case "f32", "i32", "u32":
		return 4, 4, nil
	}
	if inner, ok := strings.CutPrefix(typ, "array<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		comma := strings.LastIndexByte(inner, ',')
		if !ok || comma < 0 {
			return 0, 0, fmt.Errorf("%w: uniform type %q", ErrShaderSource, typ)
		}
		n, err := strconv.Atoi(inner[comma+1:])
		if err != nil || n <= 0 {
			return 0, 0, fmt.Errorf("%w: uniform array length in %q", ErrShaderSource, typ)
		}
		elemAlign, elemSize, err := wgslTypeLayout(inner[:comma])
		if err != nil {
			return 0, 0, err
		}
		align = roundUp(elemAlign, 16)
		return align, n * roundUp(elemSize, align), nil
	}
	if rest, ok := strings.CutPrefix(typ, "vec"); ok && len(rest) >= 2 {
		n := int(rest[0] - '0')
		if n < 2 || n > 4 || !scalarSuffix(rest[1:]) {
			return 0, 0, fmt.Errorf("%w: uniform type %q", ErrShaderSource, typ)
		}
		return vectorAlign(n), 4 * n, nil
	}
	if rest, ok := strings.CutPrefix(typ, "mat"); ok && len(rest) >= 4 && rest[1] == 'x' {
		cols, rows := int(rest[0]-'0'), int(rest[2]-'0')
		if cols < 2 || cols > 4 || rows < 2 || rows > 4 || !scalarSuffix(rest[3:]) {
			return 0, 0, fmt.Errorf("%w: uniform type %q", ErrShaderSource, typ)
		}
		align = vectorAlign(rows)
		return align, cols * roundUp(4*rows, align), nil
	}
	return 0, 0, fmt.Errorf("%w: uniform type %q", ErrShaderSource, typ)
}

// scalarSuffix accepts the element type spellings of vectors and matrices:
// "<f32>", "<i32>", "<u32>" or the short forms "f", "i", "u".
func scalarSuffix(s string) bool {
	switch s {
	case "<f32>", "<i32>", "<u32>", "f", "i", "u":
		return true
	}
	return false
}

func vectorAlign(n int) int {
	if n == 2 {
		return 8
	}
	return 16
}

func roundUp(v, align int) int {
	return (v + align - 1) / align * align
}

// parseVertexInputs returns the @location of every VertexInput member.
func parseVertexInputs(src string) map[string]int {
	m := vertexInput.FindStringSubmatch(stripComments(src))
	if m == nil {
		return nil
	}
	locs := make(map[string]int)
	for _, loc := range locationMember.FindAllStringSubmatch(m[1], -1) {
		n, err := strconv.Atoi(loc[1])
		if err != nil {
			continue
		}
		locs[loc[2]] = n
	}
	return locs
}

// parseTextureBindings returns the texture variables of src in order.
func parseTextureBindings(src string) []string {
	var names []string
	for _, m := range textureBinding.FindAllStringSubmatch(stripComments(src), -1) {
		names = append(names, m[1])
	}
	return names
}
