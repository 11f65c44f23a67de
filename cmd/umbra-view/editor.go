package main

import (
	"sync"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"github.com/Carmen-Shannon/umbra/engine/window"
)

// modeSwitcher is the part of a renderer the editor toggles at runtime.
type modeSwitcher interface {
	Mode() deferred.Mode
	SetMode(m deferred.Mode)
	BiasMode() light.BiasMode
	SetBiasMode(m light.BiasMode)
}

// keyMovement maps held keys onto fly directions.
var keyMovement = map[uint32]camera.Movement{
	common.KeyW:            camera.MoveForward,
	common.KeyS:            camera.MoveBackward,
	common.KeyA:            camera.MoveLeft,
	common.KeyD:            camera.MoveRight,
	common.KeySpace:        camera.MoveUp,
	common.KeyLeftControl:  camera.MoveDown,
	common.KeyRightControl: camera.MoveDown,
	common.KeyLeftShift:    camera.MoveBoost,
	common.KeyRightShift:   camera.MoveBoost,
}

// editor turns window input into scene edits and camera motion.
//
// Left click selects the item under the cursor, or spawns a cube in front of the camera
// when nothing is hit. Holding the right button captures the cursor for mouse look.
// WASD, Space and Control fly the camera, Shift boosts. M toggles the shading mode,
// B the shadow bias mode, Delete removes the selection.
type editor struct {
	mu *sync.Mutex

	win        window.Window
	scene      scene.Scene
	controller camera.CameraController
	renderer   modeSwitcher
	logger     common.Logger

	held    map[uint32]bool
	looking bool
}

func newEditor(win window.Window, sc scene.Scene, controller camera.CameraController, r modeSwitcher, logger common.Logger) *editor {
	return &editor{
		mu:         &sync.Mutex{},
		win:        win,
		scene:      sc,
		controller: controller,
		renderer:   r,
		logger:     logger,
		held:       make(map[uint32]bool),
	}
}

// bind installs the editor's window callbacks.
func (e *editor) bind() {
	e.win.SetKeyDownCallback(e.keyDown)
	e.win.SetKeyUpCallback(e.keyUp)
	e.win.SetMouseDownCallback(e.mouseDown)
	e.win.SetMouseUpCallback(e.mouseUp)
	e.win.SetMouseMoveCallback(e.mouseMove)
}

func (e *editor) keyDown(keyCode uint32) {
	e.mu.Lock()
	repeat := e.held[keyCode]
	e.held[keyCode] = true
	e.mu.Unlock()
	if repeat {
		return
	}

	switch keyCode {
	case common.KeyM:
		next := deferred.ModeForward
		if e.renderer.Mode() == deferred.ModeForward {
			next = deferred.ModeDeferred
		}
		e.renderer.SetMode(next)
		e.logger.Infof("shading mode: %s", next)
	case common.KeyB:
		next := light.BiasFixed
		if e.renderer.BiasMode() == light.BiasFixed {
			next = light.BiasSlopeScaled
		}
		e.renderer.SetBiasMode(next)
		e.logger.Infof("shadow bias: %s", next)
	case common.KeyDelete:
		for _, id := range e.scene.Selected() {
			e.scene.Remove(id)
		}
	}
}

func (e *editor) keyUp(keyCode uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.held, keyCode)
}

func (e *editor) mouseDown(button window.MouseButton, x, y int32) {
	switch button {
	case window.MouseButtonLeft:
		if hit, ok := e.scene.Pick(int(x), int(y), e.win.Width(), e.win.Height()); ok {
			if err := e.scene.Select(hit.ID()); err != nil {
				e.logger.Warnf("select %s: %v", hit.Name(), err)
				return
			}
			e.logger.Debugf("selected %s", hit.Name())
			return
		}
		item := e.scene.SpawnCube()
		e.logger.Debugf("spawned %s at %v", item.Name(), item.Transform().Position)
	case window.MouseButtonRight:
		e.setLooking(true)
	}
}

func (e *editor) mouseUp(button window.MouseButton, _, _ int32) {
	if button == window.MouseButtonRight {
		e.setLooking(false)
	}
}

// mouseMove receives cursor deltas while the cursor is captured.
func (e *editor) mouseMove(dx, dy int32) {
	e.mu.Lock()
	looking := e.looking
	e.mu.Unlock()
	if looking {
		e.controller.Look(float32(dx), float32(dy))
	}
}

func (e *editor) setLooking(looking bool) {
	e.mu.Lock()
	changed := e.looking != looking
	e.looking = looking
	e.mu.Unlock()
	if changed {
		e.win.SetCursorCaptured(looking)
	}
}

// movement returns the fly directions of the currently held keys.
func (e *editor) movement() camera.Movement {
	e.mu.Lock()
	defer e.mu.Unlock()
	var m camera.Movement
	for key := range e.held {
		m |= keyMovement[key]
	}
	return m
}

// tick moves the camera for one engine tick.
func (e *editor) tick(dt float32) {
	if m := e.movement(); m != 0 {
		e.controller.Move(m, dt)
	}
}
