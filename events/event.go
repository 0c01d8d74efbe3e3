package events

import (
	"time"

	"github.com/overmesh/gridexec/model"
)

// Type enumerates the lifecycle events raised during task execution.
type Type int32

const (
	// job-level events, recorded on the node executing the job
	JobQueued Type = iota + 1
	JobStarted
	JobFinished
	JobCancelled
	JobFailed

	// task-level events, recorded on the node reducing the task
	JobMapped
	JobResulted
	TaskStarted
	TaskReduced
	TaskFinished
	TaskTimedOut
	TaskFailed
)

func (t Type) String() string {
	switch t {
	case JobQueued:
		return "JOB_QUEUED"
	case JobStarted:
		return "JOB_STARTED"
	case JobFinished:
		return "JOB_FINISHED"
	case JobCancelled:
		return "JOB_CANCELLED"
	case JobFailed:
		return "JOB_FAILED"
	case JobMapped:
		return "JOB_MAPPED"
	case JobResulted:
		return "JOB_RESULTED"
	case TaskStarted:
		return "TASK_STARTED"
	case TaskReduced:
		return "TASK_REDUCED"
	case TaskFinished:
		return "TASK_FINISHED"
	case TaskTimedOut:
		return "TASK_TIMEDOUT"
	case TaskFailed:
		return "TASK_FAILED"
	}
	return "UNKNOWN"
}

// Event is one lifecycle event. Events are append-only within a bus's
// observation window and are never edited or removed.
type Event struct {
	Type      Type            `json:"type"`
	NodeID    model.NodeID    `json:"nodeId"`
	TaskID    model.TaskID    `json:"taskId"`
	SubjectID model.SubjectID `json:"subjectId"`
	Timestamp time.Time       `json:"timestamp"`
}
