package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"github.com/Carmen-Shannon/umbra/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWindow reports a fixed size; every other method panics if called.
type stubWindow struct {
	window.Window
	width, height int
}

func (w *stubWindow) Width() int  { return w.width }
func (w *stubWindow) Height() int { return w.height }

type recordingRenderer struct {
	mu     sync.Mutex
	frames []frame.Frame
	err    error
}

func (r *recordingRenderer) Render(f frame.Frame) (deferred.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	if r.err != nil {
		return deferred.Stats{}, r.err
	}
	return deferred.Stats{Passes: []string{deferred.PassShadow}, Duration: time.Millisecond}, nil
}

func newDemo(t *testing.T) scene.Scene {
	t.Helper()
	s, err := scene.NewDemoScene(camera.NewCamera(camera.WithPosition(0, 2, 12)))
	require.NoError(t, err)
	return s
}

func TestEngine_RenderFrameUsesWindowSize(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(
		WithWindow(&stubWindow{width: 320, height: 180}),
		WithScene(newDemo(t)),
		WithRenderer(r),
	).(*engine)

	stats, err := e.renderFrame()
	require.NoError(t, err)
	assert.Equal(t, []string{deferred.PassShadow}, stats.Passes)

	require.Len(t, r.frames, 1)
	assert.Equal(t, 320, r.frames[0].Width)
	assert.Equal(t, 180, r.frames[0].Height)
	assert.Len(t, r.frames[0].Items, 3)
}

func TestEngine_RenderFrameIdlesWithoutRenderer(t *testing.T) {
	e := NewEngine(WithWindow(&stubWindow{width: 320, height: 180}), WithScene(newDemo(t))).(*engine)
	stats, err := e.renderFrame()
	require.NoError(t, err)
	assert.Empty(t, stats.Passes)

	r := &recordingRenderer{}
	e.SetRenderer(r)
	e.window = &stubWindow{}
	_, err = e.renderFrame()
	require.NoError(t, err)
	assert.Empty(t, r.frames, "a minimized window renders nothing")
}

func TestEngine_RenderLoopStopsOnClosedRenderer(t *testing.T) {
	r := &recordingRenderer{err: fmt.Errorf("gpu: %w", deferred.ErrClosed)}
	var calls int
	e := NewEngine(
		WithWindow(&stubWindow{width: 64, height: 64}),
		WithScene(newDemo(t)),
		WithRenderer(r),
		WithTickRate(1000),
	).(*engine)
	e.SetRenderCallback(func(float32, deferred.Stats) { calls++ })

	e.handle()
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("render loop did not stop")
	}
	assert.Zero(t, calls)
	r.mu.Lock()
	assert.Len(t, r.frames, 1)
	r.mu.Unlock()
}

func TestEngine_SetTickRate(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetTickRate(120)
	assert.Equal(t, time.Second/120, e.engineTickRate)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e.SetRenderFrameLimit(50)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(-1)
	assert.Zero(t, e.renderFrameLimit)
}

func waitFor(t *testing.T, c <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-c:
	case <-time.After(5 * time.Second):
		t.Fatalf("no %s within 5s", what)
	}
}

func TestEngine_SettingsChangeWhileRunning(t *testing.T) {
	e := NewEngine(
		WithWindow(&stubWindow{width: 64, height: 64}),
		WithScene(newDemo(t)),
		WithRenderer(&recordingRenderer{}),
		WithTickRate(1000),
		WithRenderFrameLimit(1000),
	).(*engine)
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	defer func() {
		e.Quit()
		e.wg.Wait()
	}()

	ticks := make(chan struct{}, 1)
	renders := make(chan struct{}, 1)
	for i := 0; i < 50; i++ {
		e.EnableProfiler()
		e.DisableProfiler()
		e.SetRenderFrameLimit(float64(500 + i))
		e.SetTickRate(float64(500 + i))
	}
	e.SetTickCallback(func(float32) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	e.SetRenderCallback(func(float32, deferred.Stats) {
		select {
		case renders <- struct{}{}:
		default:
		}
	})

	waitFor(t, ticks, "tick")
	waitFor(t, renders, "rendered frame")
}
