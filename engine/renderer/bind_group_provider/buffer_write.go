package bind_group_provider

// Marshaler is implemented by the GPU-aligned uniform types (camera, draw, material,
// shadow data) so they can be written straight into a provider's buffer.
type Marshaler interface {
	Marshal() []byte
}

// BufferWrite is one queued upload into the buffer at a provider's binding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// NewBufferWrite marshals a uniform for an upload at offset 0 of a binding.
//
// Parameters:
//   - provider: the provider owning the target buffer
//   - binding: the binding index of the buffer
//   - m: the uniform to marshal
//
// Returns:
//   - BufferWrite: the queued write
func NewBufferWrite(provider BindGroupProvider, binding int, m Marshaler) BufferWrite {
	return BufferWrite{Provider: provider, Binding: binding, Data: m.Marshal()}
}
