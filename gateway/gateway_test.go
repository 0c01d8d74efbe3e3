package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/compute"
	"github.com/overmesh/gridexec/events"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/security"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	fanInTaskName    = "gridexec.test.FanInTask"
	blockingTaskName = "gridexec.test.BlockingTask"
)

// fanInTask echoes the submission argument from every node and reduces
// to the list of echoes.
type fanInTask struct{}

func (t *fanInTask) Map(nodes []*cluster.Node, argument any) (map[compute.Job]*cluster.Node, error) {
	assignments := make(map[compute.Job]*cluster.Node, len(nodes))
	for _, node := range nodes {
		assignments[&fanInJob{argument: argument}] = node
	}
	return assignments, nil
}

func (t *fanInTask) Result(res compute.JobResult, _ []compute.JobResult) (compute.Policy, error) {
	if res.Err != nil {
		return compute.PolicyFailover, nil
	}
	return compute.PolicyWait, nil
}

func (t *fanInTask) Reduce(results []compute.JobResult) (any, error) {
	values := make([]any, 0, len(results))
	for _, res := range results {
		values = append(values, res.Value)
	}
	return values, nil
}

type fanInJob struct {
	argument any
}

func (j *fanInJob) Execute(_ *compute.JobContext) (any, error) {
	return j.argument, nil
}

func (j *fanInJob) Cancel() {}

// blockingTask runs one job per node that blocks until cancelled; only
// a timeout concludes it.
type blockingTask struct{}

func (t *blockingTask) Map(nodes []*cluster.Node, _ any) (map[compute.Job]*cluster.Node, error) {
	assignments := make(map[compute.Job]*cluster.Node, len(nodes))
	for _, node := range nodes {
		assignments[&blockingJob{release: make(chan struct{})}] = node
	}
	return assignments, nil
}

func (t *blockingTask) Result(_ compute.JobResult, _ []compute.JobResult) (compute.Policy, error) {
	return compute.PolicyWait, nil
}

func (t *blockingTask) Reduce(_ []compute.JobResult) (any, error) {
	return nil, nil
}

type blockingJob struct {
	release chan struct{}
	once    sync.Once
}

func (j *blockingJob) Execute(_ *compute.JobContext) (any, error) {
	<-j.release
	return nil, errors.New("interrupted")
}

func (j *blockingJob) Cancel() {
	j.once.Do(func() {
		close(j.release)
	})
}

func newTestGateway(t *testing.T) *Gateway {
	clu := cluster.New()
	clu.AddNode(cluster.NewNode("crd", nil, true))
	clu.AddNode(cluster.NewNode("srv", nil, false))

	registry := compute.NewRegistry()
	registry.Register(fanInTaskName, func() compute.Task { return &fanInTask{} })
	registry.Register(blockingTaskName, func() compute.Task { return &blockingTask{} })

	engine := compute.NewEngine(clu, registry, security.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = engine.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		clu.Close()
	})

	return New(engine)
}

func TestSubmitSync(t *testing.T) {
	gw := newTestGateway(t)

	result, err := gw.SubmitSync(context.Background(), gw.Attach("alice"), Request{
		TaskName: fanInTaskName,
		Argument: "ping",
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []any{"ping", "ping"}, result)
}

func TestSubmitAsyncAndCollect(t *testing.T) {
	gw := newTestGateway(t)

	handleID, err := gw.SubmitAsync(gw.Attach("alice"), Request{
		TaskName: fanInTaskName,
		Argument: "ping",
	})
	require.NoError(t, err)
	require.NotEmpty(t, handleID)

	require.Eventually(t, func() bool {
		resolved, err := gw.Resolved(handleID)
		return err == nil && resolved
	}, 2*time.Second, 10*time.Millisecond)

	result, err := gw.Result(context.Background(), handleID)
	require.NoError(t, err)
	require.ElementsMatch(t, []any{"ping", "ping"}, result)

	// Collection releases the handle.
	_, err = gw.Result(context.Background(), handleID)
	require.Error(t, err)
	require.True(t, derror.ErrHandleNotFound.Equal(errors.Cause(err)))
}

func TestResultUnknownHandle(t *testing.T) {
	gw := newTestGateway(t)

	_, err := gw.Result(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.Error(t, err)
	require.True(t, derror.ErrHandleNotFound.Equal(errors.Cause(err)))

	_, err = gw.Resolved("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.Error(t, err)
	require.True(t, derror.ErrHandleNotFound.Equal(errors.Cause(err)))
}

func TestResultKeepsHandleOnContextCancel(t *testing.T) {
	gw := newTestGateway(t)

	handleID, err := gw.SubmitAsync(gw.Attach("alice"), Request{
		TaskName: blockingTaskName,
		Timeout:  500 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gw.Result(ctx, handleID)
	require.Error(t, err)
	require.ErrorIs(t, errors.Cause(err), context.DeadlineExceeded)

	// The caller gave up, but the handle survives for a retry.
	_, err = gw.Result(context.Background(), handleID)
	require.Error(t, err)
	require.True(t, derror.ErrTaskTimedOut.Equal(errors.Cause(err)))
}

func TestSubmitSyncTimeout(t *testing.T) {
	gw := newTestGateway(t)

	_, err := gw.SubmitSync(context.Background(), gw.Attach("alice"), Request{
		TaskName: blockingTaskName,
		Timeout:  50 * time.Millisecond,
	})
	require.Error(t, err)
	require.True(t, derror.ErrTaskTimedOut.Equal(errors.Cause(err)))
	require.Equal(t, derror.KindTaskTimedOut, derror.KindOf(err))
}

func TestSubmitUnregisteredTaskRejected(t *testing.T) {
	gw := newTestGateway(t)

	_, err := gw.SubmitSync(context.Background(), gw.Attach("alice"), Request{
		TaskName: "gridexec.test.NeverRegistered",
	})
	require.Error(t, err)
	require.True(t, derror.ErrTaskNotRegistered.Equal(errors.Cause(err)))
}

func TestQueryEventsAndSubjects(t *testing.T) {
	gw := newTestGateway(t)

	subject := gw.Attach("alice")
	_, err := gw.SubmitSync(context.Background(), subject, Request{
		TaskName: fanInTaskName,
		Argument: "ping",
		Reducer:  "crd",
	})
	require.NoError(t, err)

	login, err := gw.ResolveSubject(subject.SubjectID())
	require.NoError(t, err)
	require.Equal(t, "alice", login)

	node, err := gw.Engine().Cluster().NodeByName("crd")
	require.NoError(t, err)
	evs, err := gw.QueryEvents(node.ID())
	require.NoError(t, err)
	require.True(t, events.ContainsAll(evs, events.TaskStarted, events.TaskFinished))
}
