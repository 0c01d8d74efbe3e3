package compute

import (
	"sync"
	"time"

	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/events"
	"github.com/overmesh/gridexec/model"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/security"
)

// jobSlot wraps one job instance, its assigned node, its suspend/resume
// state and its outcome. Lifecycle:
//
//	Queued -> Started -> {Finished | Cancelled -> Failed}
//
// with a Suspended sub-state reachable only from Started. At most one
// goroutine executes the slot's business logic at any instant, including
// across suspend/resume.
type jobSlot struct {
	taskID model.TaskID
	job    Job
	node   *cluster.Node
	secCtx security.Context
	co     *coordinator
	pool   *pool

	mu    sync.Mutex
	state model.SlotState
	// running is true while a worker goroutine is inside Execute.
	running bool
	// held is set by JobContext.Hold during the current Execute call.
	held bool
	// resumePending records a Resume that raced with a still-running
	// Execute whose Hold has already been observed.
	resumePending bool
}

func newJobSlot(co *coordinator, job Job, node *cluster.Node) *jobSlot {
	return &jobSlot{
		taskID: co.taskID,
		job:    job,
		node:   node,
		secCtx: co.secCtx,
		co:     co,
		state:  model.SlotQueued,
	}
}

// markQueued records the JOB_QUEUED event on the executing node.
func (s *jobSlot) markQueued() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(events.JobQueued)
}

// dispatch hands the slot to the executing node's worker pool.
func (s *jobSlot) dispatch(p *pool) {
	s.mu.Lock()
	s.pool = p
	s.mu.Unlock()
	p.enqueue(s)
}

// run executes the slot once on the calling worker goroutine. It returns
// after the job finishes, fails, suspends, or turns out to be already
// terminal.
func (s *jobSlot) run() {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	if s.state == model.SlotQueued {
		s.state = model.SlotStarted
		s.emitLocked(events.JobStarted)
	}
	s.running = true
	s.mu.Unlock()

	value, err := s.job.Execute(&JobContext{slot: s})

	s.mu.Lock()
	s.running = false

	if s.state.IsTerminal() {
		// The task concluded (cancellation or timeout) while the job
		// was executing; the outcome is discarded.
		s.mu.Unlock()
		return
	}

	if s.held {
		s.held = false
		if s.resumePending {
			// Resume arrived before Execute returned; skip the
			// Suspended state and go straight back to the pool.
			s.resumePending = false
			s.mu.Unlock()
			s.pool.enqueue(s)
			return
		}
		s.state = model.SlotSuspended
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.state = model.SlotFailed
		s.emitLocked(events.JobFailed)
	} else {
		s.state = model.SlotFinished
		s.emitLocked(events.JobFinished)
	}
	s.mu.Unlock()

	s.co.onJobResult(s, value, err)
}

func (s *jobSlot) hold() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return derror.ErrCoordinatorInvariant.GenWithStackByArgs(
			"Hold called outside of job execution")
	}
	s.held = true
	return nil
}

func (s *jobSlot) resume() error {
	s.mu.Lock()

	if s.state == model.SlotSuspended {
		s.state = model.SlotStarted
		p := s.pool
		s.mu.Unlock()
		p.enqueue(s)
		return nil
	}

	if s.running && s.held && !s.resumePending {
		s.resumePending = true
		s.mu.Unlock()
		return nil
	}

	nodeID := s.node.ID()
	s.mu.Unlock()
	return derror.ErrSlotNotSuspended.GenWithStackByArgs(s.taskID, nodeID)
}

// cancel concludes a still-outstanding slot with Cancelled then Failed
// and signals the job's cooperative cancel hook. Cancelling a terminal
// slot is a no-op.
func (s *jobSlot) cancel() {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.state = model.SlotCancelled
	s.emitLocked(events.JobCancelled)
	s.state = model.SlotFailed
	s.emitLocked(events.JobFailed)
	job := s.job
	s.mu.Unlock()

	job.Cancel()
}

// State returns the slot's lifecycle state.
func (s *jobSlot) State() model.SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// emitLocked must be called with s.mu held, so that the events of one
// slot are recorded in transition order.
func (s *jobSlot) emitLocked(tp events.Type) {
	s.node.Bus().Record(events.Event{
		Type:      tp,
		NodeID:    s.node.ID(),
		TaskID:    s.taskID,
		SubjectID: s.secCtx.SubjectID(),
		Timestamp: time.Now(),
	})
}
