package common

// Key codes delivered by window key callbacks. Printable keys use their ASCII value,
// everything else the GLFW key constant.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyB     = 66 // B key (ASCII)
	KeyM     = 77 // M key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)

	KeyEsc    = 256 // Escape key (GLFW)
	KeyDelete = 261 // Delete key (GLFW)
)

// Modifier keys.
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
)
