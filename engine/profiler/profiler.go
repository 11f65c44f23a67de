package profiler

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/Carmen-Shannon/umbra/common"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS         float64
	Frames      int
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64

	// Timings holds the average duration per frame of every recorded section.
	Timings map[string]time.Duration
}

// String formats the stats as a single log line.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	names := make([]string, 0, len(s.Timings))
	for name := range s.Timings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, " | %s: %s", name, s.Timings[name].Round(time.Microsecond))
	}
	return b.String()
}

// Profiler tracks frame rate, memory statistics and named section timings.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger         common.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	sections       map[string]time.Duration
	last           Stats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are reported to.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ProfilerOption: a function that applies the logger option to a Profiler
func WithLogger(logger common.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets the reporting interval.
//
// Parameters:
//   - d: the interval, values <= 0 keep the 1 second default
//
// Returns:
//   - ProfilerOption: a function that applies the interval option to a Profiler
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// withClock replaces time.Now, for tests.
func withClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second and
// output is discarded unless a logger is given.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         common.NewNopLogger(),
		now:            time.Now,
		updateInterval: time.Second,
		sections:       make(map[string]time.Duration),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds time spent in a named section during the current frame, such as a
// render pass.
//
// Parameters:
//   - name: the section name
//   - d: the duration to add
func (p *Profiler) Record(name string, d time.Duration) {
	p.sections[name] += d
}

// Last returns the most recently reported stats.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory
// and the per-frame average of every recorded section.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:    float64(p.frameCount) / elapsed.Seconds(),
		Frames: p.frameCount,
		// Alloc is live heap, Sys is the process footprint obtained from the OS.
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		Timings:     make(map[string]time.Duration, len(p.sections)),
	}

	if gcCount := s.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	for name, total := range p.sections {
		s.Timings[name] = total / time.Duration(p.frameCount)
	}
	clear(p.sections)

	p.logger.Infof("[Profiler] %s", s)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
