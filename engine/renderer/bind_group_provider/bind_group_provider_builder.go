package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedBuffer stages a buffer owned by another provider for a binding, so two bind
// groups can read the same uniform data.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the borrowed buffer
//
// Returns:
//   - BindGroupProviderOption: a function that shares the buffer for the specified binding
func WithSharedBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
		p.shared[binding] = true
	}
}

// WithSharedTextureView stages a texture view owned elsewhere, such as a render target, for a binding.
//
// Parameters:
//   - binding: the binding index for this view
//   - tv: the borrowed texture view
//
// Returns:
//   - BindGroupProviderOption: a function that shares the view for the specified binding
func WithSharedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
		p.shared[binding] = true
	}
}
