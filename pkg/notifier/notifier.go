package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/pingcap/errors"
	"go.uber.org/atomic"

	"github.com/overmesh/gridexec/pkg/containers"
)

// Notifier is the sending endpoint of a single-producer-multiple-consumer
// notification mechanism. The event bus uses it to fan lifecycle events
// out to registered listeners.
type Notifier[T any] struct {
	mu        sync.RWMutex
	receivers map[int64]*Receiver[T]
	nextID    atomic.Int64

	queue *containers.SliceQueue[T]

	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// Receiver is the receiving endpoint. Events are delivered on C in the
// order they were published.
type Receiver[T any] struct {
	C chan T

	id       int64
	closed   atomic.Bool
	notifier *Notifier[T]
}

// Close detaches the receiver from its notifier. Events published after
// Close returns are not delivered.
func (r *Receiver[T]) Close() {
	if r.closed.Swap(true) {
		return
	}
	n := r.notifier
	n.mu.Lock()
	delete(n.receivers, r.id)
	n.mu.Unlock()
}

// NewNotifier creates a Notifier and starts its dispatch loop.
func NewNotifier[T any]() *Notifier[T] {
	n := &Notifier[T]{
		receivers: make(map[int64]*Receiver[T]),
		queue:     containers.NewSliceQueue[T](),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go n.run()
	return n
}

// NewReceiver registers a new Receiver with the Notifier.
func (n *Notifier[T]) NewReceiver() *Receiver[T] {
	receiver := &Receiver[T]{
		C:        make(chan T, 16),
		id:       n.nextID.Add(1),
		notifier: n,
	}

	n.mu.Lock()
	n.receivers[receiver.id] = receiver
	n.mu.Unlock()
	return receiver
}

// Notify publishes a new event to all receivers.
func (n *Notifier[T]) Notify(event T) {
	n.queue.Add(event)
}

// Close stops the dispatch loop and closes all receiver channels.
func (n *Notifier[T]) Close() {
	n.closeOnce.Do(func() {
		close(n.closeCh)
		<-n.doneCh

		n.mu.Lock()
		defer n.mu.Unlock()
		for id, receiver := range n.receivers {
			receiver.closed.Store(true)
			close(receiver.C)
			delete(n.receivers, id)
		}
	})
}

// Flush blocks until all events published so far have been dispatched.
func (n *Notifier[T]) Flush(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		if n.queue.Size() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-n.doneCh:
			return nil
		case <-ticker.C:
		}
	}
}

func (n *Notifier[T]) run() {
	defer close(n.doneCh)

	for {
		select {
		case <-n.closeCh:
			return
		case <-n.queue.C:
			for {
				event, ok := n.queue.Pop()
				if !ok {
					break
				}
				n.dispatch(event)

				select {
				case <-n.closeCh:
					return
				default:
				}
			}
		}
	}
}

func (n *Notifier[T]) dispatch(event T) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, receiver := range n.receivers {
		if receiver.closed.Load() {
			continue
		}
		select {
		case <-n.closeCh:
			return
		case receiver.C <- event:
		}
	}
}
