package profiler

import (
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	common.Logger
	lines []string
}

func (c *captureLogger) Infof(format string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func TestProfiler_TickReportsAtInterval(t *testing.T) {
	clock := time.Unix(0, 0)
	log := &captureLogger{Logger: common.NewNopLogger()}
	p := NewProfiler(WithLogger(log), WithInterval(time.Second), withClock(func() time.Time { return clock }))

	for i := 0; i < 49; i++ {
		clock = clock.Add(20 * time.Millisecond)
		p.Record("lighting", 2*time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock = clock.Add(20 * time.Millisecond)
	p.Record("lighting", 2*time.Millisecond)
	require.True(t, p.Tick())

	s := p.Last()
	assert.Equal(t, 50, s.Frames)
	assert.InDelta(t, 50, s.FPS, 1e-9)
	assert.Equal(t, 2*time.Millisecond, s.Timings["lighting"])
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "[Profiler] FPS: 50.00")
	assert.Contains(t, log.lines[0], "lighting: 2ms")

	// Sections reset with the window.
	clock = clock.Add(2 * time.Second)
	require.True(t, p.Tick())
	assert.Empty(t, p.Last().Timings)
}
