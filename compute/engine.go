// Package compute implements the control plane of secure, observable,
// cancellable distributed task execution: task coordination, job slots
// with suspend/resume, per-node worker pools, and timeout-driven
// cancellation.
package compute

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/events"
	"github.com/overmesh/gridexec/model"
	"github.com/overmesh/gridexec/pkg/clock"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/security"
)

const defaultWorkersPerNode = 4

// SubmitRequest is the engine-internal submission contract all front
// doors converge on. The subject must already be authenticated by the
// transport; the engine never authenticates.
type SubmitRequest struct {
	TaskName string
	Argument any
	Subject  security.Context

	// Timeout bounds the task's wall-clock run time from task start.
	// Zero disables the timer.
	Timeout time.Duration

	// Reducer is the instance name of the node that receives the
	// submission and runs map/reduce. Empty selects the first node.
	Reducer string

	// TargetNodes projects the task onto a subset of the cluster by
	// instance name. Empty selects the whole cluster.
	TargetNodes []string
}

// Engine executes tasks on a cluster. It owns one worker pool per node
// and one coordinator per in-flight task.
type Engine struct {
	cluster  *cluster.Cluster
	registry *Registry
	security *security.Registry

	clk            clock.Clock
	workersPerNode int
	pools          map[model.NodeID]*pool

	closed atomic.Bool
}

// Option customizes an Engine.
type Option func(e *Engine)

// WithClock substitutes the clock driving task timeout timers.
func WithClock(clk clock.Clock) Option {
	return func(e *Engine) {
		e.clk = clk
	}
}

// WithWorkersPerNode sets the per-node worker pool size.
func WithWorkersPerNode(workers int) Option {
	return func(e *Engine) {
		e.workersPerNode = workers
	}
}

// NewEngine creates an Engine over the given cluster view. The task
// registry decides which task names are loadable; the security registry
// resolves subjects for auditing.
func NewEngine(
	clu *cluster.Cluster,
	registry *Registry,
	secRegistry *security.Registry,
	opts ...Option,
) *Engine {
	e := &Engine{
		cluster:        clu,
		registry:       registry,
		security:       secRegistry,
		clk:            clock.New(),
		workersPerNode: defaultWorkersPerNode,
		pools:          make(map[model.NodeID]*pool),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, node := range clu.Nodes() {
		e.pools[node.ID()] = newPool(e.workersPerNode)
	}
	return e
}

// Run drives every node's worker pool until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.closed.Store(true)

	errg, ctx := errgroup.WithContext(ctx)
	for id := range e.pools {
		p := e.pools[id]
		errg.Go(func() error {
			return p.run(ctx)
		})
	}

	log.L().Info("compute engine running",
		zap.Int("nodes", len(e.pools)),
		zap.Int("workers-per-node", e.workersPerNode))
	return errg.Wait()
}

// Submit validates the request, creates the task's coordinator and
// starts it. The returned handle resolves exactly once with the task's
// terminal outcome; synchronous callers block on TaskHandle.Get.
func (e *Engine) Submit(req SubmitRequest) (*TaskHandle, error) {
	if e.closed.Load() {
		return nil, derror.ErrEngineClosed.GenWithStackByArgs()
	}

	task, err := e.registry.create(req.TaskName)
	if err != nil {
		return nil, err
	}

	reducer, err := e.resolveReducer(req.Reducer)
	if err != nil {
		return nil, err
	}
	targets, err := e.cluster.Projection(req.TargetNodes)
	if err != nil {
		return nil, err
	}

	taskID := model.TaskID(uuid.New().String())
	handle := newTaskHandle(taskID, req.TaskName)

	co := &coordinator{
		taskID:   taskID,
		name:     req.TaskName,
		argument: req.Argument,
		task:     task,
		secCtx:   req.Subject,
		timeout:  req.Timeout,
		clock:    e.clk,
		engine:   e,
		reducer:  reducer,
		targets:  targets,
		handle:   handle,
	}
	co.start()

	return handle, nil
}

// Cluster returns the engine's cluster view.
func (e *Engine) Cluster() *cluster.Cluster {
	return e.cluster
}

// Security returns the engine's subject registry.
func (e *Engine) Security() *security.Registry {
	return e.security
}

// QueryEvents returns the ordered lifecycle events recorded on a node.
func (e *Engine) QueryEvents(nodeID model.NodeID) ([]events.Event, error) {
	node, err := e.cluster.Node(nodeID)
	if err != nil {
		return nil, err
	}
	return node.Bus().Query(), nil
}

func (e *Engine) resolveReducer(instanceName string) (*cluster.Node, error) {
	if instanceName == "" {
		nodes := e.cluster.Nodes()
		if len(nodes) == 0 {
			return nil, derror.ErrNodeNotFound.GenWithStackByArgs("<any>")
		}
		return nodes[0], nil
	}
	return e.cluster.NodeByName(instanceName)
}

func (e *Engine) poolOf(nodeID model.NodeID) (*pool, error) {
	p, ok := e.pools[nodeID]
	if !ok {
		return nil, derror.ErrNodeNotFound.GenWithStackByArgs(nodeID)
	}
	return p, nil
}
