package model

// NodeID identifies a cluster node.
type NodeID string

// TaskID identifies one submitted task.
type TaskID string

// SubjectID identifies the authenticated subject a task was submitted by.
type SubjectID string

// AttrInstanceName is the node attribute carrying the human-readable
// instance name. Front doors use it to pick a task recipient.
const AttrInstanceName = "gridexec.instance.name"

// TaskState is the lifecycle state of a task owned by its coordinator.
type TaskState int32

const (
	TaskStateStarted TaskState = iota + 1
	TaskStateMapped
	TaskStateFinished
	TaskStateFailed
)

// IsTerminal tells whether no further task transition may occur.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateFinished || s == TaskStateFailed
}

func (s TaskState) String() string {
	switch s {
	case TaskStateStarted:
		return "started"
	case TaskStateMapped:
		return "mapped"
	case TaskStateFinished:
		return "finished"
	case TaskStateFailed:
		return "failed"
	}
	return "unknown"
}

// SlotState is the lifecycle state of a single job slot.
type SlotState int32

const (
	SlotQueued SlotState = iota + 1
	SlotStarted
	SlotSuspended
	SlotFinished
	SlotCancelled
	SlotFailed
)

// IsTerminal tells whether the slot has concluded.
func (s SlotState) IsTerminal() bool {
	return s == SlotFinished || s == SlotFailed
}

func (s SlotState) String() string {
	switch s {
	case SlotQueued:
		return "queued"
	case SlotStarted:
		return "started"
	case SlotSuspended:
		return "suspended"
	case SlotFinished:
		return "finished"
	case SlotCancelled:
		return "cancelled"
	case SlotFailed:
		return "failed"
	}
	return "unknown"
}
