package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("lighting")

	assert.Equal(t, "lighting", p.PipelineKey())
	require.Len(t, p.ColorTargets(), 1)
	assert.Nil(t, p.ColorTargets()[0], "a single surface-format target")
	assert.Equal(t, wgpu.TextureFormatUndefined, p.DepthFormat())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
}

func TestNewPipeline_Options(t *testing.T) {
	vs, err := shader.Load(shader.KeyShadow, shader.ShaderTypeVertex)
	require.NoError(t, err)

	p := NewPipeline(shader.KeyShadow,
		WithVertexShader(vs),
		WithColorTargets(),
		WithDepth(wgpu.TextureFormatDepth32Float, wgpu.CompareFunctionLessEqual, false),
		WithDepthBias(2, 1.5),
		WithCullMode(wgpu.CullModeBack),
	)

	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Nil(t, p.Shader(shader.ShaderTypeFragment), "depth-only pipeline")
	assert.Empty(t, p.ColorTargets())
	assert.Equal(t, wgpu.TextureFormatDepth32Float, p.DepthFormat())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, int32(2), p.DepthBias())
	assert.Equal(t, float32(1.5), p.DepthBiasSlopeScale())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
}
