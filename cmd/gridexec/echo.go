package main

import (
	"github.com/overmesh/gridexec/cluster"
	"github.com/overmesh/gridexec/compute"
)

// EchoTaskName is the registered name of the builtin smoke-test task.
const EchoTaskName = "gridexec.EchoTask"

// echoTask maps one job onto every target node; each job returns the
// task argument unchanged and the reduction returns it once.
type echoTask struct{}

func newEchoTask() compute.Task {
	return &echoTask{}
}

func (t *echoTask) Map(nodes []*cluster.Node, argument any) (map[compute.Job]*cluster.Node, error) {
	assignments := make(map[compute.Job]*cluster.Node, len(nodes))
	for _, node := range nodes {
		assignments[&echoJob{argument: argument}] = node
	}
	return assignments, nil
}

func (t *echoTask) Result(res compute.JobResult, received []compute.JobResult) (compute.Policy, error) {
	if res.Err != nil {
		return compute.PolicyWait, res.Err
	}
	return compute.PolicyWait, nil
}

func (t *echoTask) Reduce(results []compute.JobResult) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Value, nil
}

type echoJob struct {
	argument any
}

func (j *echoJob) Execute(jctx *compute.JobContext) (any, error) {
	return j.argument, nil
}

func (j *echoJob) Cancel() {}
