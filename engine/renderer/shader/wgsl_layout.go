package shader

import (
	"strconv"
	"strings"
)

// typeLayout is the host-shareable size and alignment of a WGSL type.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type typeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive array elements of the type.
func (l typeLayout) stride() uint64 {
	return roundUp(l.align, l.size)
}

// parsedField is one member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// scalarLayouts are the 32-bit scalars usable in uniform buffers.
var scalarLayouts = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},
}

// vectorShorthand maps the suffix of vec2f, vec3i and friends to the component type.
var vectorShorthand = map[byte]string{'f': "f32", 'i': "i32", 'u': "u32"}

func roundUp(align, value uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// layoutTable resolves type layouts for the structs of one shader source. Struct layouts
// are computed on first use and memoised, so structs may reference each other in any
// declaration order.
type layoutTable struct {
	structs  map[string]parsedStruct
	resolved map[string]typeLayout
	visiting map[string]bool
}

func newLayoutTable(structs []parsedStruct) *layoutTable {
	t := &layoutTable{
		structs:  make(map[string]parsedStruct, len(structs)),
		resolved: make(map[string]typeLayout, len(structs)),
		visiting: make(map[string]bool),
	}
	for _, s := range structs {
		t.structs[s.name] = s
	}
	return t
}

// resolve returns the layout of a type name. Runtime-sized arrays, unknown names and
// recursive structs do not resolve.
func (t *layoutTable) resolve(typeName string) (typeLayout, bool) {
	typeName = strings.Join(strings.Fields(typeName), "")

	if l, ok := scalarLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := vectorLayout(typeName); ok {
		return l, true
	}
	if l, ok := matrixLayout(typeName); ok {
		return l, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		return t.arrayLayout(typeName[len("array<") : len(typeName)-1])
	}
	return t.structLayout(typeName)
}

// arrayLayout sizes array<T,N>. The count must already be a literal.
func (t *layoutTable) arrayLayout(inner string) (typeLayout, bool) {
	i := strings.LastIndexByte(inner, ',')
	if i < 0 {
		return typeLayout{}, false
	}
	count, err := strconv.ParseUint(strings.TrimSuffix(inner[i+1:], "u"), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	elem, ok := t.resolve(inner[:i])
	if !ok {
		return typeLayout{}, false
	}
	return typeLayout{size: count * elem.stride(), align: elem.align}, true
}

// structLayout places each member at its next aligned offset and rounds the total up to
// the largest member alignment. Builtin members are not part of buffer memory.
func (t *layoutTable) structLayout(name string) (typeLayout, bool) {
	if l, ok := t.resolved[name]; ok {
		return l, true
	}
	s, ok := t.structs[name]
	if !ok || t.visiting[name] {
		return typeLayout{}, false
	}
	t.visiting[name] = true
	defer delete(t.visiting, name)

	var offset uint64
	align := uint64(1)
	for _, f := range s.fields {
		if f.isBuiltin {
			continue
		}
		fl, ok := t.resolve(f.typeName)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUp(fl.align, offset) + fl.size
		align = max(align, fl.align)
	}
	l := typeLayout{size: roundUp(align, offset), align: align}
	t.resolved[name] = l
	return l, true
}

// vectorLayout handles vecN<T> and the vecNf, vecNi, vecNu shorthands. Three-component
// vectors align like four-component ones.
func vectorLayout(typeName string) (typeLayout, bool) {
	if len(typeName) < 5 || !strings.HasPrefix(typeName, "vec") {
		return typeLayout{}, false
	}
	n := uint64(typeName[3] - '0')
	if n < 2 || n > 4 {
		return typeLayout{}, false
	}

	var component string
	switch rest := typeName[4:]; {
	case len(rest) == 1:
		component = vectorShorthand[rest[0]]
	case strings.HasPrefix(rest, "<") && strings.HasSuffix(rest, ">"):
		component = rest[1 : len(rest)-1]
	}
	scalar, ok := scalarLayouts[component]
	if !ok || component == "bool" {
		return typeLayout{}, false
	}

	align := scalar.size * n
	if n == 3 {
		align = scalar.size * 4
	}
	return typeLayout{size: scalar.size * n, align: align}, true
}

// matrixLayout handles matCxR<f32>: C columns, each a vecR<f32>.
func matrixLayout(typeName string) (typeLayout, bool) {
	if len(typeName) != len("mat4x4<f32>") || !strings.HasPrefix(typeName, "mat") || !strings.HasSuffix(typeName, "<f32>") || typeName[4] != 'x' {
		return typeLayout{}, false
	}
	cols := uint64(typeName[3] - '0')
	column, ok := vectorLayout("vec" + typeName[5:6] + "<f32>")
	if !ok || cols < 2 || cols > 4 {
		return typeLayout{}, false
	}
	return typeLayout{size: cols * column.stride(), align: column.align}, true
}
