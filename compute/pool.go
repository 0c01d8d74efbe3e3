package compute

import (
	"context"
	"sync"

	"github.com/overmesh/gridexec/pkg/containers"
)

// pool executes job slots on a fixed set of worker goroutines. Each
// cluster node owns one pool. Suspension frees the worker; a resumed
// slot re-enters the queue and may be picked up by any worker.
type pool struct {
	q       *containers.SliceQueue[*jobSlot]
	workers int
}

func newPool(workers int) *pool {
	return &pool{
		q:       containers.NewSliceQueue[*jobSlot](),
		workers: workers,
	}
}

func (p *pool) enqueue(s *jobSlot) {
	p.q.Add(s)
}

// run blocks until the context is cancelled.
func (p *pool) run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer wg.Done()
			p.runImpl(ctx)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (p *pool) runImpl(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.q.C:
		}

		for {
			slot, ok := p.q.Pop()
			if !ok {
				break
			}
			slot.run()

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}
}
