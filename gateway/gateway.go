// Package gateway normalizes every front-door protocol into one
// submission call against the compute engine. Front doors authenticate
// upstream and hand the gateway an already-verified login; the gateway
// attaches the security context exactly once and never authenticates
// itself.
package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/overmesh/gridexec/compute"
	"github.com/overmesh/gridexec/events"
	"github.com/overmesh/gridexec/model"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/metrics"
	"github.com/overmesh/gridexec/pkg/security"
)

// Request is the transport-independent submission shape: a task name, an
// opaque argument, an optional timeout, and an optional projection of
// the target node set.
type Request struct {
	TaskName    string
	Argument    any
	Timeout     time.Duration
	Reducer     string
	TargetNodes []string
}

// Gateway accepts task requests from any front door and returns either
// the terminal result (sync) or a handle ID (async).
type Gateway struct {
	engine *compute.Engine

	mu      sync.Mutex
	handles map[string]*compute.TaskHandle
}

// New creates a Gateway over the given engine.
func New(engine *compute.Engine) *Gateway {
	return &Gateway{
		engine:  engine,
		handles: make(map[string]*compute.TaskHandle),
	}
}

// Attach mints the immutable security context for an authenticated
// login. Attachment happens exactly once per task, here at the gateway.
func (g *Gateway) Attach(login string) security.Context {
	return g.engine.Security().Attach(login)
}

// SubmitSync submits a task and blocks until it reaches a terminal
// state, returning the reduced result or the terminal error.
func (g *Gateway) SubmitSync(ctx context.Context, subject security.Context, req Request) (any, error) {
	handle, err := g.submit(subject, req, "sync")
	if err != nil {
		return nil, err
	}

	result, err := handle.Get(ctx)
	g.observeOutcome(err)
	return result, err
}

// SubmitAsync submits a task and returns a handle ID immediately. The
// handle resolves exactly once, mirroring the terminal state, and the
// result stays retrievable by ID until it has been collected.
func (g *Gateway) SubmitAsync(subject security.Context, req Request) (string, error) {
	handle, err := g.submit(subject, req, "async")
	if err != nil {
		return "", err
	}

	handleID := ulid.Make().String()
	g.mu.Lock()
	g.handles[handleID] = handle
	g.mu.Unlock()

	go func() {
		<-handle.Done()
		_, err := handle.Get(context.Background())
		g.observeOutcome(err)
	}()

	return handleID, nil
}

// Result retrieves an asynchronous submission's outcome by handle ID,
// blocking until the task is terminal. Once collected, the handle is
// released.
func (g *Gateway) Result(ctx context.Context, handleID string) (any, error) {
	g.mu.Lock()
	handle, ok := g.handles[handleID]
	g.mu.Unlock()
	if !ok {
		return nil, derror.ErrHandleNotFound.GenWithStackByArgs(handleID)
	}

	result, err := handle.Get(ctx)
	if errors.Cause(err) == context.Canceled || errors.Cause(err) == context.DeadlineExceeded {
		// The caller gave up waiting; keep the handle retrievable.
		return nil, err
	}

	g.mu.Lock()
	delete(g.handles, handleID)
	g.mu.Unlock()
	return result, err
}

// Resolved reports whether an asynchronous submission has already
// reached its terminal state.
func (g *Gateway) Resolved(handleID string) (bool, error) {
	g.mu.Lock()
	handle, ok := g.handles[handleID]
	g.mu.Unlock()
	if !ok {
		return false, derror.ErrHandleNotFound.GenWithStackByArgs(handleID)
	}
	return handle.Resolved(), nil
}

// QueryEvents returns the ordered lifecycle events recorded on a node,
// for verification and ops tooling.
func (g *Gateway) QueryEvents(nodeID model.NodeID) ([]events.Event, error) {
	return g.engine.QueryEvents(nodeID)
}

// ResolveSubject resolves a subject ID to the login it was attached for.
func (g *Gateway) ResolveSubject(subjectID model.SubjectID) (string, error) {
	return g.engine.Security().ResolveSubject(subjectID)
}

// Engine exposes the underlying engine to embedded callers.
func (g *Gateway) Engine() *compute.Engine {
	return g.engine
}

func (g *Gateway) submit(subject security.Context, req Request, mode string) (*compute.TaskHandle, error) {
	handle, err := g.engine.Submit(compute.SubmitRequest{
		TaskName:    req.TaskName,
		Argument:    req.Argument,
		Subject:     subject,
		Timeout:     req.Timeout,
		Reducer:     req.Reducer,
		TargetNodes: req.TargetNodes,
	})
	if err != nil {
		log.L().Warn("task submission rejected",
			zap.String("task-name", req.TaskName),
			zap.String("mode", mode),
			zap.Error(err))
		return nil, err
	}

	metrics.TasksSubmitted.WithLabelValues(mode).Inc()
	return handle, nil
}

func (g *Gateway) observeOutcome(err error) {
	switch {
	case err == nil:
		metrics.TasksConcluded.WithLabelValues(metrics.OutcomeFinished).Inc()
	case derror.ErrTaskTimedOut.Equal(errors.Cause(err)):
		metrics.TasksConcluded.WithLabelValues(metrics.OutcomeTimedOut).Inc()
	default:
		metrics.TasksConcluded.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
}
