package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a bit set of the fly directions held down during a tick.
type Movement uint8

const (
	MoveForward Movement = 1 << iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	MoveBoost
)

// Default fly controller tuning.
const (
	DefaultMoveSpeed   float32 = 25.0 // world units per second
	DefaultSensitivity float32 = 0.1  // degrees per pixel of mouse motion
	DefaultBoostFactor float32 = 3.0
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	camera      Camera
	moveSpeed   float32
	sensitivity float32
	boostFactor float32
}

// CameraController drives a Camera from mouse and keyboard input the way the editor's
// free-fly camera behaves: mouse motion turns the camera, held keys translate it along its
// front, right and up axes.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera

	// Look turns the camera by a mouse delta in pixels. Positive dy looks down.
	//
	// Parameters:
	//   - dx, dy: mouse motion since the last call
	Look(dx, dy float32)

	// Move translates the camera for one tick.
	//
	// Parameters:
	//   - m: the held directions
	//   - dt: tick duration in seconds
	Move(m Movement, dt float32)
}

var _ CameraController = &cameraControllerImpl{}

// CameraControllerOption is a function that configures a controller during construction.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the translation speed in world units per second.
//
// Parameters:
//   - speed: the speed
//
// Returns:
//   - CameraControllerOption: a function that sets the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithSensitivity sets the mouse look sensitivity in degrees per pixel.
//
// Parameters:
//   - sensitivity: the sensitivity
//
// Returns:
//   - CameraControllerOption: a function that sets the sensitivity
func WithSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = sensitivity
	}
}

// NewCameraController creates a fly controller for the camera.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		camera:      cam,
		moveSpeed:   DefaultMoveSpeed,
		sensitivity: DefaultSensitivity,
		boostFactor: DefaultBoostFactor,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.camera.SetYawPitch(
		cc.camera.Yaw()+dx*cc.sensitivity,
		cc.camera.Pitch()-dy*cc.sensitivity,
	)
}

func (cc *cameraControllerImpl) Move(m Movement, dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	speed := cc.moveSpeed * dt
	if m&MoveBoost != 0 {
		speed *= cc.boostFactor
	}

	front := cc.camera.Front()
	up := cc.camera.Up()
	right := front.Cross(up)
	if right.LenSqr() > 0 {
		right = right.Normalize()
	}

	var delta mgl32.Vec3
	if m&MoveForward != 0 {
		delta = delta.Add(front)
	}
	if m&MoveBackward != 0 {
		delta = delta.Sub(front)
	}
	if m&MoveRight != 0 {
		delta = delta.Add(right)
	}
	if m&MoveLeft != 0 {
		delta = delta.Sub(right)
	}
	if m&MoveUp != 0 {
		delta = delta.Add(up)
	}
	if m&MoveDown != 0 {
		delta = delta.Sub(up)
	}
	if delta.LenSqr() == 0 {
		return
	}
	cc.camera.SetPosition(cc.camera.Position().Add(delta.Mul(speed)))
}
