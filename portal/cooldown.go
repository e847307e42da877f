package portal

import (
	"sync"
	"time"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
)

// Cooldown enforces a minimum interval between submissions of the same
// action.
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     map[string]time.Time
}

func NewCooldown(interval time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{
		interval: interval,
		now:      now,
		last:     make(map[string]time.Time),
	}
}

// Try records a submission of action, or returns ErrCooldown when the
// previous one was less than the interval ago.
func (c *Cooldown) Try(action string) error {
	if c.interval <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.last[action]; ok && now.Sub(last) < c.interval {
		return perrors.Wrapf(perrors.ErrCooldown, "%s", action)
	}
	c.last[action] = now
	return nil
}

// Remaining is how long until action may be submitted again.
func (c *Cooldown) Remaining(action string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[action]
	if !ok {
		return 0
	}
	if left := c.interval - c.now().Sub(last); left > 0 {
		return left
	}
	return 0
}
