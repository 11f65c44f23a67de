package renderer

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeMailbox replaces the queued image with the newest one at each vertical blank.
	// No tearing, lower latency than VSync. Falls back to VSync where unsupported.
	PresentModeMailbox

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode converts a configuration name ("fifo", "mailbox" or "immediate") into a PresentMode.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: an error if the name is unknown
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fifo", "vsync":
		return PresentModeVSync, nil
	case "mailbox":
		return PresentModeMailbox, nil
	case "immediate", "uncapped":
		return PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("unknown present mode %q", s)
	}
}

// wgpuPresentMode maps a PresentMode onto the surface present mode, using Fifo when the
// surface does not list the requested mode.
func wgpuPresentMode(mode PresentMode, supported []wgpu.PresentMode) wgpu.PresentMode {
	want := wgpu.PresentModeFifo
	switch mode {
	case PresentModeMailbox:
		want = wgpu.PresentModeMailbox
	case PresentModeUncapped:
		want = wgpu.PresentModeImmediate
	}
	if len(supported) == 0 {
		return want
	}
	for _, m := range supported {
		if m == want {
			return want
		}
	}
	return wgpu.PresentModeFifo
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
