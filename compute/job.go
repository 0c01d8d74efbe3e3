package compute

import (
	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/model"
	"github.com/overmesh/gridexec/pkg/security"
)

// Job is one node-local unit of execution belonging to a task.
//
// Execute runs the job's business logic. A job may voluntarily yield its
// worker goroutine by calling JobContext.Hold before returning; it is
// then re-entered through another Execute call on the same Job value
// once resumed, with its own local state intact.
//
// Cancel is a best-effort cooperative interrupt. A job that ignores it
// may run to completion, but its result is discarded once the task is
// terminal.
type Job interface {
	Execute(jctx *JobContext) (any, error)
	Cancel()
}

// JobResult is the outcome of one job slot, as seen by the coordinator
// and by the task's continuation policy.
type JobResult struct {
	Node  model.NodeID
	Value any
	Err   error
}

// JobContext is the execution environment handed to a running job. It
// exposes the executing node, the security context of the task's
// submitter, and the suspend/resume controls.
type JobContext struct {
	slot *jobSlot
}

// TaskID returns the ID of the task the job belongs to.
func (c *JobContext) TaskID() model.TaskID {
	return c.slot.taskID
}

// Node returns the cluster node executing the job.
func (c *JobContext) Node() *cluster.Node {
	return c.slot.node
}

// Security returns the security context of the task's submitter. It is
// the identity attached at submission, not the identity of any relaying
// node; job logic asserts it against the expected subject.
func (c *JobContext) Security() security.Context {
	return c.slot.secCtx
}

// Hold marks the job as yielding its worker goroutine. It must be called
// from inside Execute; the suspension takes effect when Execute returns,
// and the return value of that invocation is discarded.
func (c *JobContext) Hold() error {
	return c.slot.hold()
}

// Resume reactivates a suspended job on an arbitrary worker goroutine.
// A job is resumable exactly once per suspension; resuming a slot that
// is not suspended is an error.
func (c *JobContext) Resume() error {
	return c.slot.resume()
}
