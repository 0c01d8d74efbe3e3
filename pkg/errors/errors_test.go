package errors

import (
	"testing"

	perrors "github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{ErrTaskTimedOut.GenWithStackByArgs("task-1", "1s"), KindTaskTimedOut},
		{ErrTaskMapping.GenWithStackByArgs("task-1"), KindTaskMappingError},
		{ErrTaskNotRegistered.GenWithStackByArgs("some.Task"), KindTaskNotRegistered},
		{ErrJobExecution.GenWithStackByArgs("node-1"), KindJobExecutionError},
		{ErrAuthorizationMismatch.GenWithStackByArgs("mallory", "alice"), KindAuthorizationMismatch},
		{ErrCoordinatorInvariant.GenWithStackByArgs("broken"), KindInvariantViolation},
		{ErrNodeNotFound.GenWithStackByArgs("node-1"), KindNodeNotFound},
		{ErrEngineClosed.GenWithStackByArgs(), KindEngineClosed},
		{ErrHandleNotFound.GenWithStackByArgs("handle-1"), KindHandleNotFound},
		{ErrSubjectNotFound.GenWithStackByArgs("subject-1"), KindSubjectNotFound},
		{perrors.New("anything else"), KindInternalError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.kind, KindOf(tc.err))
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	err := ErrJobExecution.Wrap(perrors.New("disk on fire")).GenWithStackByArgs("node-1")
	require.Equal(t, KindJobExecutionError, KindOf(err))
}
