package shader

import (
	"embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/*.wgsl
var assets embed.FS

// Keys of the built-in shader sources under assets/. Each file holds both the vertex and the
// fragment entry point of one pass.
const (
	KeyGBuffer  = "gbuffer"
	KeyShadow   = "shadow"
	KeyLighting = "lighting"
	KeyForward  = "forward"
)

// Keys lists every built-in shader key in pass order.
var Keys = []string{KeyShadow, KeyGBuffer, KeyLighting, KeyForward}

// ShaderType identifies the pipeline stage a Shader describes.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader defines the interface for a preprocessed and parsed WGSL shader stage. It exposes the
// shader's key, processed source, entry point, bind group layout descriptors, vertex buffer
// layouts and annotation declarations needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the preprocessed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves every bind group layout descriptor keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the descriptors
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is declared there
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts derived from the vertex entry point inputs.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by buffer slot
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// EntryPoint returns the entry point function name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// Module returns the shader module descriptor ready for device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of this shader.
	//
	// Returns:
	//   - ShaderType: vertex or fragment
	ShaderType() ShaderType

	// Declarations returns the group and provider annotations of the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader preprocesses WGSL source and parses it into a Shader for one stage.
//
// Parameters:
//   - key: the unique key for this shader
//   - shaderType: the stage whose entry point and layouts to extract
//   - source: the raw WGSL source including @umbra: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if preprocessing fails or the stage has no entry point
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: preprocess: %w", key, err)
	}

	s := &shader{
		key:           key,
		source:        processed,
		shaderType:    shaderType,
		vertexLayouts: make(map[int][]wgpu.VertexBufferLayout),
		declarations:  append([]Annotation(nil), pp.Declarations()...),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}

	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage %d", key, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)
	s.applyProviderSampleTypes()
	return s, nil
}

// Load reads a built-in shader source by key and parses it for the given stage.
//
// Parameters:
//   - key: one of the Key constants
//   - shaderType: the stage to parse
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the key is unknown or parsing fails
func Load(key string, shaderType ShaderType) (Shader, error) {
	src, err := RawSource(key)
	if err != nil {
		return nil, err
	}
	return NewShader(key, shaderType, src)
}

// RawSource returns the unprocessed WGSL source of a built-in shader.
//
// Parameters:
//   - key: one of the Key constants
//
// Returns:
//   - string: the annotated WGSL source
//   - error: an error if no asset exists for the key
func RawSource(key string) (string, error) {
	data, err := assets.ReadFile("assets/" + key + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("shader %s: %w", key, err)
	}
	return string(data), nil
}

// applyProviderSampleTypes marks G-buffer textures as unfilterable. The float32 channels
// cannot be bound as filterable floats without an optional device feature, and the
// lighting pass only reads them with textureLoad.
func (s *shader) applyProviderSampleTypes() {
	for _, d := range s.declarations {
		if d.Type != AnnotationTypeProvider || d.Provider() != AnnotationArgGBuffer {
			continue
		}
		desc, ok := s.bindGroupLayoutDescriptors[*d.Group]
		if !ok {
			continue
		}
		for i := range desc.Entries {
			e := &desc.Entries[i]
			if int(e.Binding) == *d.Binding && e.Texture.SampleType == wgpu.TextureSampleTypeFloat {
				e.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
			}
		}
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
