package rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadhound/trafficgen/internal/geo"
)

func newTestController(t *testing.T, min, max float64) *Controller {
	t.Helper()
	c, err := NewController(Config{MinInterval: min, MaxInterval: max}, "test")
	require.NoError(t, err)
	return c
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	for _, tc := range []struct {
		name     string
		min, max float64
	}{
		{"zero min", 0, 1},
		{"negative min", -0.5, 1},
		{"min above max", 2, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewController(Config{MinInterval: tc.min, MaxInterval: tc.max}, "test")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNextDelayStaysInRange(t *testing.T) {
	c := newTestController(t, 0.5, 2.0)
	lo := time.Duration(0.5 * float64(time.Second))
	hi := time.Duration(2.0 * float64(time.Second))
	for i := 0; i < 1000; i++ {
		d := c.NextDelay()
		assert.GreaterOrEqual(t, d, lo)
		assert.LessOrEqual(t, d, hi)
	}
}

func TestSetIntervalKeepsOldConfigOnFailure(t *testing.T) {
	c := newTestController(t, 0.5, 2.0)
	err := c.SetInterval(3, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	cfg, _ := c.Snapshot()
	assert.Equal(t, Config{MinInterval: 0.5, MaxInterval: 2.0}, cfg)

	require.NoError(t, c.SetInterval(1, 4))
	cfg, _ = c.Snapshot()
	assert.Equal(t, Config{MinInterval: 1, MaxInterval: 4}, cfg)
}

func TestOverloadShrinksDelay(t *testing.T) {
	c := newTestController(t, 1.0, 1.0)
	base := c.NextDelay()
	assert.Equal(t, time.Second, base)

	_, err := c.StartOverload(time.Minute, nil)
	require.NoError(t, err)
	burst := c.NextDelay()
	assert.Equal(t, time.Second/overloadFactor, burst)
}

func TestOverloadLifecycle(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	region := geo.Europe
	selected, err := c.StartOverload(10*time.Second, &region)
	require.NoError(t, err)
	assert.Equal(t, geo.Europe, selected)

	ov := c.TickOverload()
	assert.True(t, ov.Active)
	assert.Equal(t, geo.Europe, ov.Region)
	assert.Equal(t, 10*time.Second, ov.Remaining)

	// remaining decreases monotonically with the clock
	clock = clock.Add(4 * time.Second)
	ov = c.TickOverload()
	assert.True(t, ov.Active)
	assert.Equal(t, 6*time.Second, ov.Remaining)

	// past the deadline the window deactivates and remaining clamps to zero
	clock = clock.Add(7 * time.Second)
	ov = c.TickOverload()
	assert.False(t, ov.Active)
	assert.Equal(t, time.Duration(0), ov.Remaining)

	// an expired window never comes back by itself
	clock = clock.Add(time.Second)
	ov = c.TickOverload()
	assert.False(t, ov.Active)
}

func TestStartOverloadReplacesActiveWindow(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	asia := geo.Asia
	_, err := c.StartOverload(30*time.Second, &asia)
	require.NoError(t, err)

	clock = clock.Add(20 * time.Second)
	africa := geo.Africa
	_, err = c.StartOverload(5*time.Second, &africa)
	require.NoError(t, err)

	// the replacement window runs on its own clock, not the old one's
	ov := c.TickOverload()
	assert.True(t, ov.Active)
	assert.Equal(t, geo.Africa, ov.Region)
	assert.Equal(t, 5*time.Second, ov.Remaining)

	clock = clock.Add(6 * time.Second)
	ov = c.TickOverload()
	assert.False(t, ov.Active)
}

func TestStartOverloadRejectsNonPositiveDuration(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	_, err := c.StartOverload(0, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = c.StartOverload(-time.Second, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStartOverloadPicksRegionWhenUnspecified(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	selected, err := c.StartOverload(time.Second, nil)
	require.NoError(t, err)
	assert.Contains(t, geo.Regions(), selected)
}

func TestSnapshotDoesNotMutateExpiry(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	_, err := c.StartOverload(2*time.Second, nil)
	require.NoError(t, err)

	clock = clock.Add(3 * time.Second)
	_, ov := c.Snapshot()
	assert.False(t, ov.Active)
	assert.Equal(t, time.Duration(0), ov.Remaining)

	// TickOverload still performs the actual transition afterwards
	ov = c.TickOverload()
	assert.False(t, ov.Active)
}

func TestDelayReturnsToBaseAfterWindow(t *testing.T) {
	c := newTestController(t, 1.0, 1.0)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	_, err := c.StartOverload(2*time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second/overloadFactor, c.NextDelay())

	clock = clock.Add(3 * time.Second)
	assert.Equal(t, time.Second, c.NextDelay())
}

func TestSetEnabledReportsChanges(t *testing.T) {
	c := newTestController(t, 0.1, 0.2)
	assert.True(t, c.Enabled())
	assert.True(t, c.SetEnabled(false))
	assert.False(t, c.Enabled())
	assert.False(t, c.SetEnabled(false))
	assert.True(t, c.SetEnabled(true))
	assert.True(t, c.Enabled())
}
