package errors

import (
	"github.com/pingcap/errors"
)

// all gridexec errors
var (
	// task submission and mapping
	ErrTaskNotRegistered = errors.Normalize(
		"task not registered [name=%s]",
		errors.RFCCodeText("gridexec:ErrTaskNotRegistered"),
	)
	ErrTaskMapping = errors.Normalize(
		"task mapping failed [task-id=%s]",
		errors.RFCCodeText("gridexec:ErrTaskMapping"),
	)
	ErrNodeNotFound = errors.Normalize(
		"cluster node not found [node=%s]",
		errors.RFCCodeText("gridexec:ErrNodeNotFound"),
	)
	ErrEngineClosed = errors.Normalize(
		"compute engine is closed",
		errors.RFCCodeText("gridexec:ErrEngineClosed"),
	)

	// task execution
	ErrTaskTimedOut = errors.Normalize(
		"task timed out [task-id=%s] [elapsed=%s]",
		errors.RFCCodeText("gridexec:ErrTaskTimedOut"),
	)
	ErrJobExecution = errors.Normalize(
		"job execution failed [node=%s]",
		errors.RFCCodeText("gridexec:ErrJobExecution"),
	)
	ErrAuthorizationMismatch = errors.Normalize(
		"job observed an unexpected subject [observed=%s] [expected=%s]",
		errors.RFCCodeText("gridexec:ErrAuthorizationMismatch"),
	)
	ErrCoordinatorInvariant = errors.Normalize(
		"coordinator invariant violated: %s",
		errors.RFCCodeText("gridexec:ErrCoordinatorInvariant"),
	)

	// job slot control
	ErrSlotNotSuspended = errors.Normalize(
		"job slot is not suspended [task-id=%s] [node=%s]",
		errors.RFCCodeText("gridexec:ErrSlotNotSuspended"),
	)

	// gateway
	ErrHandleNotFound = errors.Normalize(
		"task handle not found [handle-id=%s]",
		errors.RFCCodeText("gridexec:ErrHandleNotFound"),
	)

	// security
	ErrSubjectNotFound = errors.Normalize(
		"subject not found [subject-id=%s]",
		errors.RFCCodeText("gridexec:ErrSubjectNotFound"),
	)
)

// Kind names follow the engine's error taxonomy. Front doors translate
// engine errors into these transport payload kinds and never invent
// their own.
const (
	KindAuthorizationMismatch = "AuthorizationMismatch"
	KindJobExecutionError     = "JobExecutionError"
	KindTaskTimedOut          = "TaskTimedOut"
	KindTaskMappingError      = "TaskMappingError"
	KindInvariantViolation    = "CoordinatorInvariantViolation"
	KindTaskNotRegistered     = "TaskNotRegistered"
	KindNodeNotFound          = "NodeNotFound"
	KindEngineClosed          = "EngineClosed"
	KindHandleNotFound        = "HandleNotFound"
	KindSubjectNotFound       = "SubjectNotFound"
	KindInternalError         = "InternalError"
)

// KindOf maps an engine error to its taxonomy kind.
func KindOf(err error) string {
	cause := errors.Cause(err)
	switch {
	case ErrAuthorizationMismatch.Equal(cause):
		return KindAuthorizationMismatch
	case ErrTaskTimedOut.Equal(cause):
		return KindTaskTimedOut
	case ErrTaskMapping.Equal(cause):
		return KindTaskMappingError
	case ErrCoordinatorInvariant.Equal(cause):
		return KindInvariantViolation
	case ErrTaskNotRegistered.Equal(cause):
		return KindTaskNotRegistered
	case ErrJobExecution.Equal(cause):
		return KindJobExecutionError
	case ErrNodeNotFound.Equal(cause):
		return KindNodeNotFound
	case ErrEngineClosed.Equal(cause):
		return KindEngineClosed
	case ErrHandleNotFound.Equal(cause):
		return KindHandleNotFound
	case ErrSubjectNotFound.Equal(cause):
		return KindSubjectNotFound
	}
	return KindInternalError
}
