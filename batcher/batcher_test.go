package batcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForBatchReturnsEmptyBeforeAnyItems(t *testing.T) {
	b, _ := New[int](3, 30*time.Millisecond, 5)
	batch := b.WaitForBatch()
	require.Empty(t, batch)
}

func TestWaitForBatchFlushesOnFullBuffer(t *testing.T) {
	require := require.New(t)
	b, in := New[int](3, time.Second, 5)

	in <- 1
	in <- 2
	in <- 3
	in <- 4
	in <- 5

	batch := b.WaitForBatch()
	require.Equal([]int{1, 2, 3}, batch)

	batch = b.WaitForBatch()
	require.Equal([]int{4, 5}, batch)
}

func TestWaitForBatchFlushesOnInterval(t *testing.T) {
	require := require.New(t)
	b, in := New[int](10, 20*time.Millisecond, 5)

	in <- 1
	in <- 2

	batch := b.WaitForBatch()
	require.Equal([]int{1, 2}, batch)
}

func TestWaitForBatchFlushesRemainingOnClose(t *testing.T) {
	require := require.New(t)
	b, in := New[int](10, time.Second, 5)

	in <- 1
	in <- 2
	close(in)

	batch := b.WaitForBatch()
	require.Equal([]int{1, 2}, batch)

	// Subsequent calls on a closed channel return empty batches.
	batch = b.WaitForBatch()
	require.Empty(batch)
}

func TestDoneIsFalseUntilChannelClosesAndDrains(t *testing.T) {
	require := require.New(t)
	b, in := New[int](10, time.Second, 5)

	require.False(b.Done())
	in <- 1
	require.False(b.Done())

	close(in)
	require.False(b.Done()) // buffered item not yet flushed

	batch := b.WaitForBatch()
	require.Equal([]int{1}, batch)
	require.True(b.Done())

	// Stays done on further calls.
	require.Empty(b.WaitForBatch())
	require.True(b.Done())
}

func TestWaitForBatchPreservesFIFOOrderAcrossCalls(t *testing.T) {
	require := require.New(t)
	b, in := New[int](2, time.Second, 10)

	for i := 1; i <= 6; i++ {
		in <- i
	}

	var got []int
	for len(got) < 6 {
		got = append(got, b.WaitForBatch()...)
	}
	require.Equal([]int{1, 2, 3, 4, 5, 6}, got)
}
