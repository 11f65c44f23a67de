// annotations.go defines the annotation types, argument constants, and parser for the
// Umbra WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @umbra: that drive struct injection, constant injection, bind group declaration
// and resource provider registration. The parsed results are stored as Annotation values
// and consumed by the PreProcessor and the Renderer to wire GPU resources.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Umbra annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@umbra:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// into the shader at the annotation site. The struct source is embedded from the
	// corresponding Go GPU type's .wgsl asset file.
	//
	// Syntax: //@umbra:include <struct_type>
	//
	// Example: //@umbra:include camera
	annotationTypeInclude AnnotationType = "include"

	// annotationTypeDefine injects a registered WGSL constant declaration whose value is
	// owned by Go code, so the shader and the CPU side can never disagree on it.
	//
	// Syntax: //@umbra:define <constant>
	//
	// Example: //@umbra:define max_point_lights
	annotationTypeDefine AnnotationType = "define"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list.
	//
	// Syntax: //@umbra:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@umbra:group 0 0 storage_uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a resource provider identity for a group and binding
	// without generating any WGSL output. The WGSL binding declaration remains hand-written
	// directly below the annotation. Used for textures and samplers.
	//
	// Syntax:
	//   //@umbra:provider <group> <binding> <provider_identity>
	//   //@umbra:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Examples:
	//   //@umbra:provider 2 0 material diffuse_texture
	//   //@umbra:provider 1 0 gbuffer position_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @umbra: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include: [struct_type]
	//   - define: [constant]
	//   - group: [address_space, var_name, type]
	//   - provider: [provider_identity] or [provider_identity, binding_role]
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group is the @group index for group and provider annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil otherwise.
	Binding *int
}

// Provider returns the provider identity of a provider annotation, or the struct type of a
// group annotation, so callers can match a declaration to the resource that fills it.
//
// Returns:
//   - AnnotationArg: the identity, or "" for include and define annotations
func (a Annotation) Provider() AnnotationArg {
	switch a.Type {
	case AnnotationTypeProvider:
		return a.Args[0]
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	default:
		return ""
	}
}

// Role returns the optional binding role of a provider annotation.
//
// Returns:
//   - AnnotationArg: the binding role, or "" when none was declared
func (a Annotation) Role() AnnotationArg {
	if a.Type == AnnotationTypeProvider && len(a.Args) == 2 {
		return a.Args[1]
	}
	return ""
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────
// Each maps to a Go GPU type with an embedded .wgsl asset file.

const (
	// AnnotationArgCamera identifies the CameraUniform struct.
	// Source: engine/camera/assets/camera_uniform.wgsl
	AnnotationArgCamera AnnotationArg = "camera"

	// annotationArgVertex identifies the VertexInput struct.
	// Source: engine/mesh/assets/vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgDraw identifies the per-draw DrawUniform struct (model, normal matrix, selection).
	// Source: engine/mesh/assets/draw_uniform.wgsl
	AnnotationArgDraw AnnotationArg = "draw"

	// AnnotationArgMaterialParams identifies the MaterialParams struct.
	// Source: engine/material/assets/material_params.wgsl
	AnnotationArgMaterialParams AnnotationArg = "material_params"

	// AnnotationArgLights identifies the Lights uniform (directional light, count, point light array).
	// Source: engine/light/assets/lights.wgsl
	AnnotationArgLights AnnotationArg = "lights"

	// AnnotationArgShadowData identifies the ShadowData struct.
	// Source: engine/light/assets/shadow_data.wgsl
	AnnotationArgShadowData AnnotationArg = "shadow_data"
)

// ── Constant arguments ─────────────────────────────────────────────────────────

const (
	// annotationArgMaxPointLights injects MAX_POINT_LIGHTS, the length of the Lights point array.
	annotationArgMaxPointLights AnnotationArg = "max_point_lights"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// ── Provider identity arguments ────────────────────────────────────────────────

const (
	// AnnotationArgMaterial identifies the material provider (textures, sampler, material params).
	AnnotationArgMaterial AnnotationArg = "material"

	// AnnotationArgGBuffer identifies the geometry buffer provider read by the lighting pass.
	// Its textures are bound as unfilterable float and read with textureLoad.
	AnnotationArgGBuffer AnnotationArg = "gbuffer"

	// AnnotationArgShadow identifies the shadow provider (depth texture, comparison sampler).
	AnnotationArgShadow AnnotationArg = "shadow"
)

// ── Binding role arguments ─────────────────────────────────────────────────────

const (
	// AnnotationArgDiffuseTexture identifies the diffuse (albedo) texture binding.
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"

	// AnnotationArgSpecularTexture identifies the specular mask texture binding.
	AnnotationArgSpecularTexture AnnotationArg = "specular_texture"

	// AnnotationArgMaterialSampler identifies the sampler shared by the material textures.
	AnnotationArgMaterialSampler AnnotationArg = "material_sampler"

	// AnnotationArgPositionTexture identifies G-buffer channel 1 (position, selected).
	AnnotationArgPositionTexture AnnotationArg = "position_texture"

	// AnnotationArgNormalTexture identifies G-buffer channel 2 (normal).
	AnnotationArgNormalTexture AnnotationArg = "normal_texture"

	// AnnotationArgAlbedoTexture identifies G-buffer channel 3 (albedo, specular).
	AnnotationArgAlbedoTexture AnnotationArg = "albedo_texture"

	// AnnotationArgShadowTexture identifies the shadow depth texture.
	AnnotationArgShadowTexture AnnotationArg = "shadow_texture"

	// AnnotationArgShadowSampler identifies the shadow comparison sampler.
	AnnotationArgShadowSampler AnnotationArg = "shadow_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	annotationArgVertex,
	AnnotationArgDraw,
	AnnotationArgMaterialParams,
	AnnotationArgLights,
	AnnotationArgShadowData,
}

var validConstants = []AnnotationArg{
	annotationArgMaxPointLights,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgMaterial,
	AnnotationArgGBuffer,
	AnnotationArgShadow,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgDiffuseTexture,
	AnnotationArgSpecularTexture,
	AnnotationArgMaterialSampler,
	AnnotationArgPositionTexture,
	AnnotationArgNormalTexture,
	AnnotationArgAlbedoTexture,
	AnnotationArgShadowTexture,
	AnnotationArgShadowSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @umbra: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @umbra annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude), string(annotationTypeDefine):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @umbra %s annotation requires exactly one argument", lineNum, args[0])
		}
		valid := validStructTypes
		if args[0] == string(annotationTypeDefine) {
			valid = validConstants
		}
		if !slices.Contains(valid, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown argument %q in @umbra %s annotation", lineNum, args[1], args[0])
		}
		return &Annotation{
			Type: AnnotationType(args[0]),
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @umbra group annotation requires exactly five arguments (group, binding, address space, name, struct type)", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @umbra group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @umbra group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @umbra provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @umbra provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @umbra provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @umbra annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, groupArg, err)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, bindingArg, err)
	}
	return group, binding, nil
}
