package deferred

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// tiler splits a pass into bands of rows and runs them on the worker pool.
type tiler struct {
	pool worker.DynamicWorkerPool
	rows int
}

// run calls fn for every band [y0, y1) of [0, height) and waits for all of them. The pool
// drops task errors, so they are collected here; the first one is returned.
//
// A WaitGroup is the barrier between passes since pool.Wait() only returns once the
// workers idle out.
func (t *tiler) run(height int, fn func(y0, y1 int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for id, y0 := 0, 0; y0 < height; id, y0 = id+1, y0+t.rows {
		y1 := min(y0+t.rows, height)
		band := [2]int{y0, y1}
		wg.Add(1)
		t.pool.SubmitTask(worker.Task{
			ID:      id,
			Payload: band,
			Do: func() (any, error) {
				defer wg.Done()
				if err := fn(band[0], band[1]); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("rows %d-%d: %w", band[0], band[1], err)
					}
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return firstErr
}
