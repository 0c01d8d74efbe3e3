package compute

import (
	"context"
	"sync"

	"github.com/pingcap/errors"

	"github.com/overmesh/gridexec/model"
)

// TaskHandle resolves exactly once with the task's terminal outcome.
// Synchronous submission blocks on Get; asynchronous submission hands the
// handle to the caller for later retrieval.
type TaskHandle struct {
	taskID model.TaskID
	name   string

	resolveOnce sync.Once
	doneCh      chan struct{}
	result      any
	err         error
}

func newTaskHandle(taskID model.TaskID, name string) *TaskHandle {
	return &TaskHandle{
		taskID: taskID,
		name:   name,
		doneCh: make(chan struct{}),
	}
}

// TaskID returns the ID of the submitted task.
func (h *TaskHandle) TaskID() model.TaskID {
	return h.taskID
}

// TaskName returns the registered name the task was submitted under.
func (h *TaskHandle) TaskName() string {
	return h.name
}

// resolve delivers the terminal outcome. Only the first call has effect;
// a task never transitions out of a terminal state.
func (h *TaskHandle) resolve(result any, err error) {
	h.resolveOnce.Do(func() {
		h.result = result
		h.err = err
		close(h.doneCh)
	})
}

// Get blocks until the task reaches a terminal state, then returns the
// reduced result or the terminal error. If the handle is already
// resolved it returns immediately.
func (h *TaskHandle) Get(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Trace(ctx.Err())
	case <-h.doneCh:
		return h.result, h.err
	}
}

// Done is closed once the task is terminal.
func (h *TaskHandle) Done() <-chan struct{} {
	return h.doneCh
}

// Resolved reports whether the terminal outcome is already available.
func (h *TaskHandle) Resolved() bool {
	select {
	case <-h.doneCh:
		return true
	default:
		return false
	}
}
