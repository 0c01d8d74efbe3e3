package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/stretchr/testify/require"

	"github.com/overmesh/gridexec/client"
	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/compute"
	"github.com/overmesh/gridexec/gateway"
	derror "github.com/overmesh/gridexec/pkg/errors"
	"github.com/overmesh/gridexec/pkg/security"
)

const (
	fanInTaskName    = "gridexec.test.FanInTask"
	blockingTaskName = "gridexec.test.BlockingTask"
)

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
	return nil, nil
}

func (j *blockingJob) Cancel() {
	j.once.Do(func() {
		close(j.release)
	})
}

func newTestClient(t *testing.T, login string) *client.Client {
	clu := cluster.New()
	clu.AddNode(cluster.NewNode("crd", nil, true))
	clu.AddNode(cluster.NewNode("srv", nil, false))

	registry := compute.NewRegistry()
	registry.Register(fanInTaskName, func() compute.Task { return &fanInTask{} })
	registry.Register(blockingTaskName, func() compute.Task { return &blockingTask{} })

	engine := compute.NewEngine(clu, registry, security.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = engine.Run(ctx)
	}()

	srv := New(gateway.New(engine))

	port, err := freeport.GetFreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	lis, err := net.Listen("tcp", addr)
	require.NoError(t, err)

	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		_ = srv.Serve(lis)
	}()

	cli, err := client.NewClient(context.Background(), client.Config{
		Addr:        addr,
		Login:       login,
		DialTimeout: 3 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, cli.Close())
		srv.Stop()
		<-serveDone
		cancel()
		<-engineDone
		clu.Close()
	})
	return cli
}

func TestClientExecute(t *testing.T) {
	cli := newTestClient(t, "alice")

	result, err := cli.Execute(context.Background(), fanInTaskName, "ping", 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []any{"ping", "ping"}, result)
}

func TestClientExecuteAsync(t *testing.T) {
	cli := newTestClient(t, "alice")

	handleID, err := cli.ExecuteAsync(context.Background(), fanInTaskName, "ping", 0)
	require.NoError(t, err)
	require.NotEmpty(t, handleID)

	result, err := cli.WaitResult(context.Background(), handleID)
	require.NoError(t, err)
	require.ElementsMatch(t, []any{"ping", "ping"}, result)
}

func TestClientExecuteTimeout(t *testing.T) {
	cli := newTestClient(t, "alice")

	_, err := cli.Execute(context.Background(), blockingTaskName, nil, 50*time.Millisecond)
	require.Error(t, err)

	taskErr, ok := err.(*client.TaskError)
	require.True(t, ok)
	require.True(t, taskErr.IsTimeout())
}

func TestClientExecuteUnregisteredTask(t *testing.T) {
	cli := newTestClient(t, "alice")

	_, err := cli.Execute(context.Background(), "gridexec.test.NeverRegistered", nil, 0)
	require.Error(t, err)

	taskErr, ok := err.(*client.TaskError)
	require.True(t, ok)
	require.Equal(t, derror.KindTaskNotRegistered, taskErr.Kind)
	require.False(t, taskErr.IsTimeout())
}

func TestClientResultUnknownHandle(t *testing.T) {
	cli := newTestClient(t, "alice")

	_, _, err := cli.Result(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.Error(t, err)

	taskErr, ok := err.(*client.TaskError)
	require.True(t, ok)
	require.Equal(t, derror.KindHandleNotFound, taskErr.Kind)
}
