package accident

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_Fires(t *testing.T) {
	c := NewCountdown()
	var fired atomic.Int32

	c.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, c.Pending("a"))

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 2*time.Millisecond)
	assert.False(t, c.Pending("a"))
	assert.Zero(t, c.Len())
}

func TestCountdown_Cancel(t *testing.T) {
	c := NewCountdown()
	var fired atomic.Int32

	c.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, c.Cancel("a"))
	assert.False(t, c.Cancel("a"))
	assert.False(t, c.Cancel("unknown"))

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestCountdown_RescheduleReplaces(t *testing.T) {
	c := NewCountdown()
	var first, second atomic.Int32

	c.Schedule("a", 10*time.Millisecond, func() { first.Add(1) })
	c.Schedule("a", 20*time.Millisecond, func() { second.Add(1) })
	assert.Equal(t, 1, c.Len())

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 2*time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestCountdown_Stop(t *testing.T) {
	c := NewCountdown()
	var fired atomic.Int32

	c.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	c.Stop()
	c.Schedule("b", time.Millisecond, func() { fired.Add(1) })

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Zero(t, c.Len())
}
