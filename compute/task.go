package compute

import (
	"sync"

	"github.com/overmesh/gridexec/cluster"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

// Policy is a task's per-job continuation decision.
type Policy int32

const (
	// PolicyWait keeps collecting results from the remaining jobs.
	PolicyWait Policy = iota + 1
	// PolicyReduce short-circuits to reduction with the results
	// received so far; outstanding jobs are cancelled.
	PolicyReduce
	// PolicyFailover is accepted as a policy hook but the engine does
	// not re-map jobs; it resolves to task failure.
	PolicyFailover
)

// Task is a unit of work submitted once, mapped to one or more jobs, and
// producing one reduced result.
type Task interface {
	// Map decides which jobs run on which of the given nodes.
	Map(nodes []*cluster.Node, argument any) (map[Job]*cluster.Node, error)

	// Result applies the continuation policy for one job outcome.
	// Returning an error fails the whole task.
	Result(res JobResult, received []JobResult) (Policy, error)

	// Reduce combines all collected job results into the task result.
	Reduce(results []JobResult) (any, error)
}

// AsyncMapper is an optional Task interface. A task reporting MapAsync
// true has its mapping computation dispatched off the submitting
// goroutine; this only affects when mapping and dispatch happen, not the
// lifecycle guarantees.
type AsyncMapper interface {
	MapAsync() bool
}

// TaskFactory creates a fresh Task value per submission.
type TaskFactory func() Task

// Registry holds the loadable tasks by name. Submitting a name that was
// never registered fails with ErrTaskNotRegistered.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]TaskFactory
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]TaskFactory),
	}
}

// Register makes a task loadable under the given name. Re-registering a
// name overwrites the previous factory.
func (r *Registry) Register(name string, factory TaskFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *Registry) create(name string) (Task, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, derror.ErrTaskNotRegistered.GenWithStackByArgs(name)
	}
	return factory(), nil
}
