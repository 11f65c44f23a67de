package main

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"github.com/Carmen-Shannon/umbra/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWindow records cursor capture and reports a fixed size.
type stubWindow struct {
	window.Window
	width, height int
	captured      bool
}

func (w *stubWindow) Width() int                { return w.width }
func (w *stubWindow) Height() int               { return w.height }
func (w *stubWindow) SetCursorCaptured(c bool) { w.captured = c }

func newTestEditor(t *testing.T) (*editor, *stubWindow, scene.Scene, deferred.Renderer) {
	t.Helper()
	win := &stubWindow{width: 320, height: 240}
	cam := scene.NewDemoCamera(win.width, win.height)
	sc, err := scene.NewDemoScene(cam)
	require.NoError(t, err)
	r := deferred.NewRenderer(deferred.WithWorkers(1))
	t.Cleanup(r.Close)
	return newEditor(win, sc, camera.NewCameraController(cam), r, common.NewNopLogger()), win, sc, r
}

func TestEditor_ClickSelectsOrSpawns(t *testing.T) {
	ed, _, sc, _ := newTestEditor(t)
	before := sc.Count()

	ed.mouseDown(window.MouseButtonLeft, 160, 120)
	require.Len(t, sc.Selected(), 1)
	hit, ok := sc.Get(sc.Selected()[0])
	require.True(t, ok)
	assert.Equal(t, "Selected Cube", hit.Name())
	assert.Equal(t, before, sc.Count(), "a hit does not spawn")

	// The top left corner looks over the scene into empty sky.
	ed.mouseDown(window.MouseButtonLeft, 0, 0)
	assert.Equal(t, before+1, sc.Count())
}

func TestEditor_RightDragLooks(t *testing.T) {
	ed, win, sc, _ := newTestEditor(t)
	cam := sc.Camera()
	yaw := cam.Yaw()

	ed.mouseMove(50, 0)
	assert.Equal(t, yaw, cam.Yaw(), "motion without the right button is ignored")

	ed.mouseDown(window.MouseButtonRight, 0, 0)
	assert.True(t, win.captured)
	ed.mouseMove(50, 0)
	assert.InDelta(t, yaw+50*camera.DefaultSensitivity, cam.Yaw(), 1e-4)

	ed.mouseUp(window.MouseButtonRight, 0, 0)
	assert.False(t, win.captured)
}

func TestEditor_HeldKeysMoveCamera(t *testing.T) {
	ed, _, sc, _ := newTestEditor(t)
	cam := sc.Camera()
	start := cam.Position()

	ed.keyDown(common.KeyW)
	ed.keyDown(common.KeyLeftShift)
	assert.Equal(t, camera.MoveForward|camera.MoveBoost, ed.movement())

	ed.tick(0.1)
	moved := cam.Position().Sub(start).Len()
	assert.InDelta(t, camera.DefaultMoveSpeed*camera.DefaultBoostFactor*0.1, moved, 1e-3)

	ed.keyUp(common.KeyW)
	ed.keyUp(common.KeyLeftShift)
	assert.Zero(t, ed.movement())
}

func TestEditor_Toggles(t *testing.T) {
	ed, _, sc, r := newTestEditor(t)

	ed.keyDown(common.KeyM)
	assert.Equal(t, deferred.ModeForward, r.Mode())
	ed.keyDown(common.KeyM)
	assert.Equal(t, deferred.ModeForward, r.Mode(), "key repeat does not toggle again")
	ed.keyUp(common.KeyM)
	ed.keyDown(common.KeyM)
	assert.Equal(t, deferred.ModeDeferred, r.Mode())

	ed.keyDown(common.KeyB)
	assert.Equal(t, light.BiasFixed, r.BiasMode())

	before := sc.Count()
	ed.keyDown(common.KeyDelete)
	assert.Equal(t, before-1, sc.Count(), "the demo scene starts with one selected item")
}
