package filter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 40 * time.Millisecond

func TestDebounced_SetUpdatesLiveImmediately(t *testing.T) {
	d := NewComparable(0, testWindow)
	defer d.Stop()

	d.Set(5)

	assert.Equal(t, 5, d.Live())
	assert.Equal(t, 0, d.Settled())
	assert.True(t, d.Pending())
}

func TestDebounced_BurstCommitsLastValueOnce(t *testing.T) {
	var commits atomic.Int32
	var last atomic.Int32
	d := NewComparable(0, testWindow)
	d.OnCommit(func(v int) {
		commits.Add(1)
		last.Store(int32(v))
	})

	for i := 1; i <= 10; i++ {
		d.Set(i)
		time.Sleep(testWindow / 8)
	}

	require.Eventually(t, func() bool { return commits.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testWindow)

	assert.Equal(t, int32(1), commits.Load())
	assert.Equal(t, int32(10), last.Load())
	assert.Equal(t, 10, d.Settled())
	assert.Equal(t, uint64(1), d.Version())
}

func TestDebounced_EqualValueDoesNotCommit(t *testing.T) {
	var commits atomic.Int32
	d := NewComparable("a", testWindow)
	d.OnCommit(func(string) { commits.Add(1) })

	d.Set("b")
	d.Set("a")

	require.Eventually(t, func() bool { return !d.Pending() }, time.Second, 5*time.Millisecond)
	assert.Zero(t, commits.Load())
	assert.Zero(t, d.Version())
}

func TestDebounced_StopCancelsPendingCommit(t *testing.T) {
	d := NewComparable(1, testWindow)
	d.Set(2)
	d.Stop()

	time.Sleep(3 * testWindow)

	assert.Equal(t, 1, d.Settled())
	assert.Equal(t, 2, d.Live())
}

func TestDebounced_FlushCommitsNow(t *testing.T) {
	var commits atomic.Int32
	d := NewComparable(1, time.Hour)
	d.OnCommit(func(int) { commits.Add(1) })

	d.Set(7)
	d.Flush()

	assert.Equal(t, 7, d.Settled())
	assert.False(t, d.Pending())
	assert.Equal(t, int32(1), commits.Load())

	d.Flush()
	assert.Equal(t, int32(1), commits.Load())
}

func TestDebounced_ResetBypassesWindow(t *testing.T) {
	d := NewComparable(1, time.Hour)
	d.Set(9)

	d.Reset(3)

	assert.Equal(t, 3, d.Live())
	assert.Equal(t, 3, d.Settled())
	assert.False(t, d.Pending())
}

func TestDebounced_UpdateReadsLiveValue(t *testing.T) {
	d := NewComparable(1, time.Hour)
	defer d.Stop()

	d.Update(func(v int) int { return v + 1 })
	got := d.Update(func(v int) int { return v * 10 })

	assert.Equal(t, 20, got)
	assert.Equal(t, 1, d.Settled())
}
