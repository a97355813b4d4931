package batch

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func mustProcessor(t *testing.T, size int) *Processor[int] {
	t.Helper()
	p, err := NewProcessor[int](size)
	require.NoError(t, err)
	return p
}

func TestProcessor_Process(t *testing.T) {
	items := seq(120)

	t.Run("Sequential", func(t *testing.T) {
		var order, sizes []int
		n, err := mustProcessor(t, DefaultBatchSize).Process(context.Background(), items,
			func(_ context.Context, chunk []int, index int) error {
				order = append(order, index)
				sizes = append(sizes, len(chunk))
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []int{0, 1, 2}, order)
		assert.Equal(t, []int{50, 50, 20}, sizes)
	})

	t.Run("Progress", func(t *testing.T) {
		var snapshots []Progress
		p := mustProcessor(t, 50).OnProgress(func(pr Progress) { snapshots = append(snapshots, pr) })

		_, err := p.Process(context.Background(), items, func(context.Context, []int, int) error { return nil })
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		assert.InDelta(t, 50.0/120, snapshots[0].Fraction(), 1e-9)
		assert.False(t, snapshots[1].Done())
		assert.True(t, snapshots[2].Done())
		assert.Equal(t, 120, snapshots[2].ItemsDone)
		assert.Equal(t, 3, snapshots[2].Batches)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		n, err := mustProcessor(t, 10).Process(context.Background(), items,
			func(_ context.Context, _ []int, index int) error {
				if index == 1 {
					return errors.New("fail")
				}
				return nil
			})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 1, n)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n, err := mustProcessor(t, DefaultBatchSize).Process(ctx, items,
			func(context.Context, []int, int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		called := false
		n, err := mustProcessor(t, DefaultBatchSize).Process(context.Background(), nil,
			func(context.Context, []int, int) error {
				called = true
				return nil
			})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.False(t, called)
	})

	t.Run("NilFunc", func(t *testing.T) {
		_, err := mustProcessor(t, DefaultBatchSize).Process(context.Background(), items, nil)
		assert.ErrorIs(t, err, ErrNilFunc)
	})
}

func TestNewProcessor_Bounds(t *testing.T) {
	for _, size := range []int{0, -1, MaxBatchSize + 1} {
		_, err := NewProcessor[int](size)
		assert.ErrorIs(t, err, ErrInvalidBatchSize, "size %d", size)
	}
	p, err := NewProcessor[int](MaxBatchSize)
	require.NoError(t, err)
	assert.Equal(t, MaxBatchSize, p.Size())
}

func TestCollect(t *testing.T) {
	items := seq(120)
	p := mustProcessor(t, DefaultBatchSize)

	out, batches, err := Collect(context.Background(), p, items, func(_ context.Context, v int) (string, error) {
		return strconv.Itoa(v), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, batches)
	require.Len(t, out, 120)
	assert.Equal(t, "0", out[0])
	assert.Equal(t, "119", out[119])

	_, batches, err = Collect(context.Background(), p, items, func(_ context.Context, v int) (string, error) {
		if v == 75 {
			return "", errors.New("bad item")
		}
		return "", nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 1 failed")
	assert.Equal(t, 1, batches)
}

func TestProcessor_Split(t *testing.T) {
	spans := mustProcessor(t, 10).Split(25)
	assert.Equal(t, []Span{{0, 10}, {10, 20}, {20, 25}}, spans)
	assert.Equal(t, 5, spans[2].Len())
	assert.Empty(t, mustProcessor(t, 10).Split(0))
}

func TestProgress_Empty(t *testing.T) {
	var p Progress
	assert.InDelta(t, 1.0, p.Fraction(), 1e-9)
	assert.True(t, p.Done())
}
