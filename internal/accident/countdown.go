package accident

import (
	"sync"
	"time"
)

// Countdown holds one pending delayed job per accident id.
type Countdown struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func NewCountdown() *Countdown {
	return &Countdown{timers: make(map[string]*time.Timer)}
}

// Schedule runs fn after d unless the job is cancelled first. Scheduling an id
// that already has a pending job replaces it.
func (c *Countdown) Schedule(id string, d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if old, ok := c.timers[id]; ok {
		old.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		c.mu.Lock()
		current, ok := c.timers[id]
		if !ok || current != t {
			c.mu.Unlock()
			return
		}
		delete(c.timers, id)
		c.mu.Unlock()

		fn()
	})
	c.timers[id] = t
}

// Cancel de-schedules the job for id. It returns false when nothing was pending,
// including when the job has already started running.
// A timer that fired but has not yet taken the lock finds its entry gone and exits.
func (c *Countdown) Cancel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.timers[id]
	if !ok {
		return false
	}
	delete(c.timers, id)
	t.Stop()
	return true
}

func (c *Countdown) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.timers[id]
	return ok
}

func (c *Countdown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

// Stop drops every pending job and refuses new ones.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
