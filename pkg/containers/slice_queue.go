package containers

import "sync"

// SliceQueue is a thread-safe generic FIFO queue backed by a slice.
// C is signaled (with at most one outstanding token) whenever an element
// is added, so consumers can select on it instead of busy-polling.
type SliceQueue[T any] struct {
	C chan struct{}

	mu    sync.Mutex
	elems []T
}

// NewSliceQueue creates a new SliceQueue.
func NewSliceQueue[T any]() *SliceQueue[T] {
	return &SliceQueue[T]{
		C: make(chan struct{}, 1),
	}
}

// Add pushes an element to the back of the queue.
func (q *SliceQueue[T]) Add(elem T) {
	q.mu.Lock()
	q.elems = append(q.elems, elem)
	q.mu.Unlock()

	select {
	case q.C <- struct{}{}:
	default:
	}
}

// Pop removes the element at the front of the queue.
// It returns false if the queue is empty.
func (q *SliceQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.elems) == 0 {
		var zero T
		return zero, false
	}

	elem := q.elems[0]
	q.elems = q.elems[1:]

	if len(q.elems) > 0 {
		select {
		case q.C <- struct{}{}:
		default:
		}
	}
	return elem, true
}

// Peek returns the element at the front without removing it.
func (q *SliceQueue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.elems) == 0 {
		var zero T
		return zero, false
	}
	return q.elems[0], true
}

// Size returns the number of queued elements.
func (q *SliceQueue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.elems)
}
