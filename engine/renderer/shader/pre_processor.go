// pre_processor.go implements the Umbra WGSL shader pre-processor. It scans shader
// source code for @umbra: annotations, replaces them with generated WGSL declarations
// or injected source, and collects a declarations list that the Renderer uses to wire
// GPU resources to bind groups.
//
// The pre-processor maintains three registries:
//   - structRegistry: maps AnnotationArg keys to embedded WGSL struct sources and their
//     resolved type names. Used by @umbra:include and @umbra:group.
//   - constRegistry: maps AnnotationArg keys to WGSL const declarations. Used by @umbra:define.
//   - addressSpaceRegistry: maps address space argument keys to WGSL var<> syntax strings.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
)

// registryEntry pairs a WGSL struct source string with the WGSL type name used in
// generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @umbra:include.
	Source string

	// Type is the WGSL type name emitted in @umbra:group declarations (e.g. "CameraUniform").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	constRegistry        map[AnnotationArg]string
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates group and provider annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @umbra: annotations,
// replacing them with generated declarations or injected sources while collecting
// a declarations list for downstream resource wiring.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and replaces every @umbra: annotation with
	// its WGSL output. The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected during the most
	// recent call to Process, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered struct types, constants
// and address space mappings pre-populated from the engine's GPU type packages.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:         {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			annotationArgVertex:         {Source: mesh.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgDraw:           {Source: mesh.GPUDrawUniformSource, Type: "DrawUniform"},
			AnnotationArgMaterialParams: {Source: material.GPUMaterialParamsSource, Type: "MaterialParams"},
			AnnotationArgLights:         {Source: light.GPULightsSource, Type: "Lights"},
			AnnotationArgShadowData:     {Source: light.GPUShadowDataSource, Type: "ShadowData"},
		},
		constRegistry: map[AnnotationArg]string{
			annotationArgMaxPointLights: fmt.Sprintf("const MAX_POINT_LIGHTS: u32 = %du;", light.MaxPointLights),
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @umbra:include argument %q", i+1, a.Args[0])
			}
			out = append(out, entry.Source)
		case annotationTypeDefine:
			decl, ok := p.constRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @umbra:define argument %q", i+1, a.Args[0])
			}
			out = append(out, decl)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
