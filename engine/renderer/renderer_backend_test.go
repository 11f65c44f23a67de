package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/umbra/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresentMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PresentMode
		wantErr bool
	}{
		{"", PresentModeVSync, false},
		{"fifo", PresentModeVSync, false},
		{"VSync", PresentModeVSync, false},
		{"mailbox", PresentModeMailbox, false},
		{" immediate ", PresentModeUncapped, false},
		{"uncapped", PresentModeUncapped, false},
		{"adaptive", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePresentMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWGPUPresentMode_FallsBackToFifo(t *testing.T) {
	supported := []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate}

	assert.Equal(t, wgpu.PresentModeImmediate, wgpuPresentMode(PresentModeUncapped, supported))
	assert.Equal(t, wgpu.PresentModeFifo, wgpuPresentMode(PresentModeMailbox, supported))
	assert.Equal(t, wgpu.PresentModeFifo, wgpuPresentMode(PresentModeVSync, supported))
	assert.Equal(t, wgpu.PresentModeMailbox, wgpuPresentMode(PresentModeMailbox, nil))
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)

	g0 := merged[0].Entries
	require.Len(t, g0, 2)
	assert.Equal(t, uint32(0), g0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0[0].Visibility)
	assert.Equal(t, uint32(1), g0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, g0[1].Visibility)

	assert.Equal(t, wgpu.ShaderStageFragment, merged[2].Entries[0].Visibility)
}

func loadPipeline(t *testing.T, key string, stages ...shader.ShaderType) pipeline.Pipeline {
	t.Helper()
	var opts []pipeline.PipelineBuilderOption
	for _, st := range stages {
		s, err := shader.Load(key, st)
		require.NoError(t, err)
		if st == shader.ShaderTypeVertex {
			opts = append(opts, pipeline.WithVertexShader(s))
		} else {
			opts = append(opts, pipeline.WithFragmentShader(s))
		}
	}
	return pipeline.NewPipeline(key, opts...)
}

// Providers are bound across pipelines, so a group shared by two pipelines must produce
// identical entries in both.
func TestPipelineBindGroupLayouts_SharedGroupsMatch(t *testing.T) {
	both := []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment}
	shadow := pipelineBindGroupLayouts(loadPipeline(t, shader.KeyShadow, shader.ShaderTypeVertex))
	gbuffer := pipelineBindGroupLayouts(loadPipeline(t, shader.KeyGBuffer, both...))
	lighting := pipelineBindGroupLayouts(loadPipeline(t, shader.KeyLighting, both...))
	forward := pipelineBindGroupLayouts(loadPipeline(t, shader.KeyForward, both...))

	for _, layouts := range []map[int]wgpu.BindGroupLayoutDescriptor{shadow, gbuffer, lighting, forward} {
		for _, desc := range layouts {
			for _, e := range desc.Entries {
				assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
			}
		}
	}
	assert.Equal(t, "gbuffer group 2", gbuffer[groupMaterial].Label)

	assert.Equal(t, gbuffer[groupCamera].Entries, lighting[groupCamera].Entries)
	assert.Equal(t, gbuffer[groupCamera].Entries, forward[groupCamera].Entries)

	assert.Equal(t, gbuffer[groupDraw].Entries, shadow[groupDraw].Entries)
	assert.Equal(t, gbuffer[groupDraw].Entries, forward[groupDraw].Entries)

	assert.Equal(t, gbuffer[groupMaterial].Entries, forward[groupMaterial].Entries)
	assert.Equal(t, lighting[groupLightingLights].Entries, forward[groupForwardLights].Entries)

	require.Len(t, lighting[groupLightingShadow].Entries, 3)
	assert.Equal(t,
		shadow[groupShadowData].Entries[0].Buffer,
		lighting[groupLightingShadow].Entries[bindingShadowData].Buffer,
		"the shadow pass buffer is shared with the lighting pass")
}
