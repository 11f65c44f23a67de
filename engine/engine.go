package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/profiler"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"github.com/Carmen-Shannon/umbra/engine/window"
)

// FrameRenderer renders one frame. The GPU renderer satisfies it. The render loop quits
// when Render returns an error wrapping deferred.ErrClosed.
type FrameRenderer interface {
	Render(f frame.Frame) (deferred.Stats, error)
}

// engine implements the Engine interface.
// Coordinates the tick, render and window threads. mu guards the scene, renderer,
// callbacks and loop settings, which may change while the loops run.
type engine struct {
	mu *sync.Mutex

	logger common.Logger

	tickRateChannel chan time.Duration // dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	scene    scene.Scene
	renderer FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32, stats deferred.Stats)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the editor's main loop. A fixed-rate tick goroutine runs input and camera
// updates, a render goroutine assembles a frame from the scene and hands it to the
// renderer, and the calling goroutine pumps window messages.
type Engine interface {
	// Window returns the underlying window.
	Window() window.Window

	// Scene returns the scene being rendered.
	Scene() scene.Scene

	// SetScene replaces the scene from the next frame on.
	//
	// Parameters:
	//   - s: the scene
	SetScene(s scene.Scene)

	// SetRenderer replaces the renderer from the next frame on.
	//
	// Parameters:
	//   - r: the renderer
	SetRenderer(r FrameRenderer)

	// Profiler returns the profiler fed with frame and render timings.
	Profiler() *profiler.Profiler

	// EnableProfiler enables periodic profiler reports.
	EnableProfiler()

	// DisableProfiler disables periodic profiler reports.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for input processing and camera movement.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds and the frame's stats
	SetRenderCallback(callback func(deltaTime float32, stats deferred.Stats))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick and render loops and pumps window messages until the window
	// closes or Quit is called. The loops are stopped before Run returns.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		logger:          common.NewNopLogger(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
}

func (e *engine) SetRenderer(r FrameRenderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderer = r
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.Lock()
			tick := e.tickCallback
			e.mu.Unlock()
			if tick != nil {
				tick(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop. Panics are recovered
// and stop the engine instead of crashing the process.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		stats, err := e.renderFrame()
		settings := e.renderSettings()
		switch {
		case errors.Is(err, deferred.ErrClosed):
			e.logger.Warnf("render loop stopping: %v", err)
			e.signalQuit()
			return
		case err != nil:
			e.logger.Errorf("render frame: %v", err)
		default:
			e.profiler.Record("render", stats.Duration)
			if settings.callback != nil {
				settings.callback(dt, stats)
			}
		}
		e.profiler.Record("frame", time.Since(now))

		if settings.profiling {
			e.profiler.Tick()
		}

		if settings.frameLimit > 0 {
			if remaining := settings.frameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderLoopSettings is the per-frame copy of the settings the render loop reads.
type renderLoopSettings struct {
	callback   func(deltaTime float32, stats deferred.Stats)
	profiling  bool
	frameLimit time.Duration
}

func (e *engine) renderSettings() renderLoopSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return renderLoopSettings{
		callback:   e.renderCallback,
		profiling:  e.profilingEnabled,
		frameLimit: e.renderFrameLimit,
	}
}

// renderFrame assembles the scene's frame at the window size and renders it. Without a
// scene or renderer it idles briefly.
func (e *engine) renderFrame() (deferred.Stats, error) {
	e.mu.Lock()
	s, r := e.scene, e.renderer
	e.mu.Unlock()
	if s == nil || r == nil || e.window == nil {
		time.Sleep(time.Millisecond)
		return deferred.Stats{}, nil
	}

	width, height := e.window.Width(), e.window.Height()
	if width <= 0 || height <= 0 {
		// Minimized.
		time.Sleep(10 * time.Millisecond)
		return deferred.Stats{}, nil
	}
	f, err := s.Frame(width, height)
	if err != nil {
		return deferred.Stats{}, err
	}
	return r.Render(f)
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	if !e.running {
		e.engineTickRate = newRate
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	// Replace any pending update so the latest rate wins.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32, stats deferred.Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	var limit time.Duration
	if fps > 0 {
		limit = time.Duration(float64(time.Second) / fps)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = limit
}
