package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rawUniform []byte

func (r rawUniform) Marshal() []byte { return r }

func TestNewBindGroupProvider_KeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("camera")
	assert.Equal(t, "camera", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
}

func TestSharedBindings(t *testing.T) {
	p := NewBindGroupProvider("gbuffer", WithSharedTextureView(0, nil), WithSharedBuffer(2, nil))
	assert.True(t, p.Shared(0))
	assert.True(t, p.Shared(2))
	assert.False(t, p.Shared(1))

	p.SetTextureView(0, nil)
	assert.False(t, p.Shared(0), "an owned view replaces the shared one")

	p.Release()
	assert.False(t, p.Shared(2))
}

func TestNewBufferWrite(t *testing.T) {
	p := NewBindGroupProvider("draw")
	w := NewBufferWrite(p, 3, rawUniform{1, 2, 3, 4})
	assert.Equal(t, p, w.Provider)
	assert.Equal(t, 3, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	assert.Equal(t, []byte{1, 2, 3, 4}, w.Data)
}
