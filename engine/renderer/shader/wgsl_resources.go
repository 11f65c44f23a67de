package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatInfo is the vertex format of a WGSL attribute type and its byte size.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo is the view dimension of a WGSL texture type.
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// classifyResource builds the layout entry of one @group/@binding declaration. Buffers are
// recognised by their address space, samplers and textures by their type.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stage the declaration was parsed for
//   - addressSpace: the var<...> qualifier, empty for handle types
//   - typeName: the declared type
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	space, access, _ := strings.Cut(addressSpace, ",")
	switch strings.TrimSpace(space) {
	case "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		return entry
	case "storage":
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.TrimSpace(access) == "read_write" {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
		return entry
	}

	base, param, _ := strings.Cut(typeName, "<")
	param = strings.TrimSpace(strings.TrimSuffix(param, ">"))
	switch {
	case base == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case base == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(base, "texture_"):
		info := wgslSampledTextureMap[base]
		entry.Texture.ViewDimension = info.viewDimension
		entry.Texture.Multisampled = info.multisampled
		if strings.HasPrefix(base, "texture_depth_") {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else if st, ok := wgslSampleTypeMap[param]; ok {
			entry.Texture.SampleType = st
		}
	}
	return entry
}

// stripComments removes line comments and nested block comments. Line breaks are kept so
// positions in the result still map to source lines.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		var next byte
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case c == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth == 0 && c == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		case depth == 0 || c == '\n':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether a struct carries only @location members, which
// separates vertex inputs from stage outputs that also hold @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	if len(ps.fields) == 0 {
		return false
	}
	for _, f := range ps.fields {
		if f.isBuiltin || f.location < 0 {
			return false
		}
	}
	return true
}

// buildVertexBufferLayout packs the members of a vertex input struct tightly in declaration
// order. It fails on a member type that has no vertex format.
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	layout := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(ps.fields)),
	}
	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += info.size
	}
	return layout, true
}

// splitAtTopLevelCommas splits at commas outside angle brackets, so a member typed
// array<PointLight, 128> stays in one piece.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch {
		case c == '<':
			depth++
		case c == '>' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
