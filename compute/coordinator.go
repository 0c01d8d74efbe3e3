package compute

import (
	"fmt"
	"sync"
	"time"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/events"
	"github.com/overmesh/gridexec/model"
	"github.com/overmesh/gridexec/pkg/clock"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/security"
)

// coordinator owns one task's lifecycle: mapping jobs onto nodes,
// dispatching, collecting results, applying the continuation policy,
// reducing, and enforcing the timeout. All per-task state mutation
// funnels through onJobResult and onTimeout, which serialize on mu even
// though they are invoked from different goroutines (job completions vs.
// the timer).
type coordinator struct {
	taskID   model.TaskID
	name     string
	argument any
	task     Task
	secCtx   security.Context
	timeout  time.Duration

	clock   clock.Clock
	engine  *Engine
	reducer *cluster.Node
	targets []*cluster.Node
	handle  *TaskHandle

	mu        sync.Mutex
	state     model.TaskState
	slots     []*jobSlot
	received  []JobResult
	timer     *clock.Timer
	startMono clock.MonotonicElapsed
}

// start emits TASK_STARTED, arms the timeout timer and kicks off mapping.
// Mapping runs on the calling goroutine unless the task opts into
// asynchronous mapping.
func (c *coordinator) start() {
	c.mu.Lock()
	c.state = model.TaskStateStarted
	c.startMono = clock.Mono()
	c.emitTaskLocked(events.TaskStarted)
	if c.timeout > 0 {
		c.timer = c.clock.AfterFunc(c.timeout, c.onTimeout)
	}
	c.mu.Unlock()

	log.L().Info("task started",
		zap.String("task-id", string(c.taskID)),
		zap.String("task-name", c.name),
		zap.String("subject-id", string(c.secCtx.SubjectID())),
		zap.Duration("timeout", c.timeout))

	if mapper, ok := c.task.(AsyncMapper); ok && mapper.MapAsync() {
		go c.mapAndDispatch()
		return
	}
	c.mapAndDispatch()
}

// mapAndDispatch invokes the task's mapping function and hands every
// resulting slot to its assigned node's pool. JOB_QUEUED is recorded per
// slot, then JOB_MAPPED once the whole assignment is decided, then the
// slots are dispatched.
func (c *coordinator) mapAndDispatch() {
	assignments, err := c.task.Map(c.targets, c.argument)
	if err != nil {
		c.fail(events.TaskFailed, derror.ErrTaskMapping.Wrap(err).GenWithStackByArgs(c.taskID))
		return
	}
	if len(assignments) == 0 {
		c.fail(events.TaskFailed, derror.ErrTaskMapping.GenWithStackByArgs(c.taskID))
		return
	}

	c.mu.Lock()
	if c.state.IsTerminal() {
		// The task timed out while mapping was in flight; nothing to
		// dispatch.
		c.mu.Unlock()
		return
	}
	for job, node := range assignments {
		c.slots = append(c.slots, newJobSlot(c, job, node))
	}
	c.state = model.TaskStateMapped
	slots := make([]*jobSlot, len(c.slots))
	copy(slots, c.slots)

	for _, slot := range slots {
		slot.markQueued()
	}
	c.emitTaskLocked(events.JobMapped)
	c.mu.Unlock()

	for _, slot := range slots {
		p, err := c.engine.poolOf(slot.node.ID())
		if err != nil {
			c.fail(events.TaskFailed, derror.ErrTaskMapping.Wrap(err).GenWithStackByArgs(c.taskID))
			return
		}
		slot.dispatch(p)
	}
}

// onJobResult collects one slot outcome and applies the task's
// continuation policy.
func (c *coordinator) onJobResult(slot *jobSlot, value any, jobErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsTerminal() {
		// Late result of a job that ignored cancellation; discarded.
		return
	}

	res := JobResult{Node: slot.node.ID(), Value: value, Err: jobErr}
	c.received = append(c.received, res)
	c.emitTaskLocked(events.JobResulted)

	policy, perr := c.task.Result(res, c.received)
	if perr != nil {
		c.failLocked(events.TaskFailed,
			derror.ErrJobExecution.Wrap(perr).GenWithStackByArgs(slot.node.ID()))
		return
	}

	switch policy {
	case PolicyReduce:
		c.cancelOutstandingLocked()
		c.reduceLocked(false)
	case PolicyFailover:
		// The engine does not re-map jobs; the failover hook resolves
		// to task failure.
		c.failLocked(events.TaskFailed,
			derror.ErrJobExecution.Wrap(jobErr).GenWithStackByArgs(slot.node.ID()))
	default: // PolicyWait
		if len(c.received) == len(c.slots) {
			c.reduceLocked(true)
		}
	}
}

// reduceLocked combines the collected results and concludes the task.
// When requireAll is set, seeing fewer results than originally mapped
// slots is a coordinator bug, not a recoverable condition.
func (c *coordinator) reduceLocked(requireAll bool) {
	if requireAll && len(c.received) != len(c.slots) {
		c.failLocked(events.TaskFailed, derror.ErrCoordinatorInvariant.GenWithStackByArgs(
			fmt.Sprintf("reduce saw %d results for %d mapped slots",
				len(c.received), len(c.slots))))
		return
	}

	value, err := c.task.Reduce(c.received)
	if err != nil {
		c.failLocked(events.TaskFailed,
			derror.ErrJobExecution.Wrap(err).GenWithStackByArgs(c.reducer.ID()))
		return
	}

	c.state = model.TaskStateFinished
	c.emitTaskLocked(events.TaskReduced)
	c.emitTaskLocked(events.TaskFinished)
	c.stopTimerLocked()
	c.handle.resolve(value, nil)

	log.L().Info("task finished",
		zap.String("task-id", string(c.taskID)),
		zap.String("task-name", c.name),
		zap.Int("job-results", len(c.received)))
}

// onTimeout is invoked by the per-task timer. It transitions every
// still-outstanding slot to Cancelled then Failed, marks the task failed
// and unblocks any waiter with ErrTaskTimedOut. Timeout is wall-clock
// from task start, is terminal, and supersedes in-flight job outcomes.
func (c *coordinator) onTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsTerminal() {
		return
	}

	elapsed := c.startMono.Elapsed()
	c.cancelOutstandingLocked()
	c.state = model.TaskStateFailed
	c.emitTaskLocked(events.TaskTimedOut)
	c.emitTaskLocked(events.TaskFailed)
	c.handle.resolve(nil, derror.ErrTaskTimedOut.GenWithStackByArgs(c.taskID, elapsed))

	log.L().Warn("task timed out",
		zap.String("task-id", string(c.taskID)),
		zap.String("task-name", c.name),
		zap.Duration("timeout", c.timeout),
		zap.Duration("elapsed", elapsed))
}

// fail concludes the task with the given terminal event and error.
func (c *coordinator) fail(terminalEvent events.Type, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsTerminal() {
		return
	}
	c.failLocked(terminalEvent, err)
}

func (c *coordinator) failLocked(terminalEvent events.Type, err error) {
	c.cancelOutstandingLocked()
	c.state = model.TaskStateFailed
	c.emitTaskLocked(terminalEvent)
	c.stopTimerLocked()
	c.handle.resolve(nil, err)

	log.L().Warn("task failed",
		zap.String("task-id", string(c.taskID)),
		zap.String("task-name", c.name),
		zap.Error(err))
}

func (c *coordinator) cancelOutstandingLocked() {
	for _, slot := range c.slots {
		slot.cancel()
	}
}

func (c *coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
}

// emitTaskLocked records a task-level event on the reducer node's bus.
func (c *coordinator) emitTaskLocked(tp events.Type) {
	c.reducer.Bus().Record(events.Event{
		Type:      tp,
		NodeID:    c.reducer.ID(),
		TaskID:    c.taskID,
		SubjectID: c.secCtx.SubjectID(),
		Timestamp: time.Now(),
	})
}
