package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/overmesh/gridexec/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEvent(tp Type, taskID string) Event {
	return Event{
		Type:      tp,
		NodeID:    model.NodeID("node-1"),
		TaskID:    model.TaskID(taskID),
		SubjectID: model.SubjectID("subject-1"),
		Timestamp: time.Now(),
	}
}

func TestBusRecordsInOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	recorded := []Type{JobQueued, JobStarted, JobFinished}
	for _, tp := range recorded {
		bus.Record(newEvent(tp, "task-1"))
	}

	require.Equal(t, recorded, Types(bus.Query()))
}

func TestBusQueryReturnsSnapshot(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Record(newEvent(JobQueued, "task-1"))
	snapshot := bus.Query()
	bus.Record(newEvent(JobStarted, "task-1"))

	require.Len(t, snapshot, 1)
	require.Len(t, bus.Query(), 2)
}

func TestBusObserve(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		bus.Record(newEvent(TaskFinished, "task-1"))
	}()

	ok := bus.Observe(func(evs []Event) bool {
		return ContainsAll(evs, TaskFinished)
	}, 2*time.Second)
	require.True(t, ok)
}

func TestBusObserveTimesOut(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ok := bus.Observe(func(evs []Event) bool {
		return ContainsAll(evs, TaskFinished)
	}, 50*time.Millisecond)
	require.False(t, ok)
}

func TestBusListen(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	receiver := bus.Listen()
	defer receiver.Close()

	bus.Record(newEvent(TaskStarted, "task-1"))
	bus.Record(newEvent(TaskFinished, "task-1"))

	require.Equal(t, TaskStarted, (<-receiver.C).Type)
	require.Equal(t, TaskFinished, (<-receiver.C).Type)
}

func TestFirstOccurrences(t *testing.T) {
	evs := []Event{
		newEvent(JobQueued, "task-1"),
		newEvent(JobStarted, "task-1"),
		newEvent(JobQueued, "task-1"),
		newEvent(JobFinished, "task-1"),
	}
	require.Equal(t, []Type{JobQueued, JobStarted, JobFinished}, FirstOccurrences(evs))
}
