// Package rate owns the generation interval and the time-bounded overload
// ("DDoS") window that temporarily skews traffic.
package rate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/loadhound/trafficgen/internal/geo"
	"github.com/loadhound/trafficgen/internal/rng"
)

// ErrInvalidConfig rejects control input that would corrupt the controller.
var ErrInvalidConfig = errors.New("rate: invalid config")

// overloadFactor shrinks sampled delays while an overload window is active,
// producing the visible traffic spike.
const overloadFactor = 10

// Config is the base inter-event delay range, in seconds.
type Config struct {
	MinInterval float64 `json:"min_interval"`
	MaxInterval float64 `json:"max_interval"`
}

func (c Config) validate() error {
	if c.MinInterval <= 0 {
		return fmt.Errorf("%w: min_interval must be positive, got %v", ErrInvalidConfig, c.MinInterval)
	}
	if c.MinInterval > c.MaxInterval {
		return fmt.Errorf("%w: min_interval %v exceeds max_interval %v", ErrInvalidConfig, c.MinInterval, c.MaxInterval)
	}
	return nil
}

// Overload describes the overload window. Remaining is clamped to zero.
type Overload struct {
	Active    bool
	Region    geo.Region
	StartedAt time.Time
	Duration  time.Duration
	Remaining time.Duration
}

// Controller serializes access to the rate config and overload state. The
// generation loop reads it every tick; the control surface mutates it
// concurrently. Each mutation is atomic with respect to its own fields, and
// last writer wins.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	ov      Overload
	enabled bool
	rng     rng.Rng
	now     func() time.Time
}

// NewController validates the initial config and returns a running
// (enabled) controller.
func NewController(cfg Config, seed string) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:     cfg,
		enabled: true,
		rng:     rng.New(seed + "/rate"),
		now:     time.Now,
	}, nil
}

// SetInterval atomically replaces the delay range. The previous config is
// kept untouched on validation failure.
func (c *Controller) SetInterval(min, max float64) error {
	next := Config{MinInterval: min, MaxInterval: max}
	if err := next.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = next
	return nil
}

// NextDelay samples the next inter-event delay uniformly from the configured
// range, scaled down by overloadFactor while an overload window is live.
func (c *Controller) NextDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	secs := c.rng.Float(c.cfg.MinInterval, c.cfg.MaxInterval)
	if c.overloadLive(c.now()) {
		secs /= overloadFactor
	}
	return time.Duration(secs * float64(time.Second))
}

// StartOverload opens (or restarts) the overload window. A nil region means
// one is picked uniformly from the closed region set. Starting while a window
// is active replaces it; windows never stack or extend.
func (c *Controller) StartOverload(duration time.Duration, region *geo.Region) (geo.Region, error) {
	if duration <= 0 {
		return "", fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, duration)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	target := geo.Region("")
	if region != nil {
		target = *region
	} else {
		regions := geo.Regions()
		target = regions[c.rng.Intn(len(regions))]
	}
	c.ov = Overload{
		Active:    true,
		Region:    target,
		StartedAt: c.now(),
		Duration:  duration,
		Remaining: duration,
	}
	return target, nil
}

// TickOverload is called once per generation cycle. It recomputes the
// remaining window time and deactivates an expired window exactly once; an
// expired window is never re-activated. The returned snapshot is what the
// cycle should act on.
func (c *Controller) TickOverload() Overload {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ov.Active {
		remaining := c.ov.Duration - c.now().Sub(c.ov.StartedAt)
		if remaining <= 0 {
			c.ov.Active = false
			c.ov.Remaining = 0
		} else {
			c.ov.Remaining = remaining
		}
	}
	return c.ov
}

// Snapshot returns the current config and overload state without mutating
// them. The overload's Active and Remaining fields are evaluated against the
// clock so readers never observe a stale live window.
func (c *Controller) Snapshot() (Config, Overload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ov := c.ov
	now := c.now()
	if ov.Active {
		remaining := ov.Duration - now.Sub(ov.StartedAt)
		if remaining <= 0 {
			ov.Active = false
			ov.Remaining = 0
		} else {
			ov.Remaining = remaining
		}
	}
	return c.cfg, ov
}

func (c *Controller) overloadLive(now time.Time) bool {
	return c.ov.Active && now.Sub(c.ov.StartedAt) < c.ov.Duration
}

// SetEnabled pauses or resumes traffic generation. It reports whether the
// value changed.
func (c *Controller) SetEnabled(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.enabled != enabled
	c.enabled = enabled
	return changed
}

// Enabled reports whether the generation loop should produce events.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}
