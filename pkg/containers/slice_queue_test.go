package containers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceQueueBasics(t *testing.T) {
	q := NewSliceQueue[int]()

	_, ok := q.Pop()
	require.False(t, ok)
	_, ok = q.Peek()
	require.False(t, ok)
	require.Equal(t, 0, q.Size())

	q.Add(1)
	q.Add(2)
	q.Add(3)
	require.Equal(t, 3, q.Size())

	elem, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, 1, elem)

	for i := 1; i <= 3; i++ {
		elem, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, elem)
	}
	require.Equal(t, 0, q.Size())
}

func TestSliceQueueSignal(t *testing.T) {
	q := NewSliceQueue[int]()

	const numElems = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		received := 0
		for received < numElems {
			<-q.C
			for {
				_, ok := q.Pop()
				if !ok {
					break
				}
				received++
			}
		}
	}()

	for i := 0; i < numElems; i++ {
		q.Add(i)
	}
	wg.Wait()
	require.Equal(t, 0, q.Size())
}
