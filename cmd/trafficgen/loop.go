package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/emit"
	"github.com/loadhound/trafficgen/internal/flow"
	"github.com/loadhound/trafficgen/internal/geo"
	"github.com/loadhound/trafficgen/internal/metrics"
	"github.com/loadhound/trafficgen/internal/rate"
)

// pauseInterval is how often a paused loop re-checks whether it has been
// resumed.
const pauseInterval = time.Second

// runLoop is the single goroutine that owns the flow engine. Each cycle it
// sleeps for the controller's sampled delay, settles the overload window,
// asks the engine for one event, and hands it to the emitter. It returns
// when ctx is cancelled.
func runLoop(ctx context.Context, ctrl *rate.Controller, engine *flow.Engine, emitter *emit.Emitter, reg *metrics.Registry, log zerolog.Logger) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		if !ctrl.Enabled() {
			if !sleep(ctx, timer, pauseInterval) {
				return
			}
			continue
		}
		if !sleep(ctx, timer, ctrl.NextDelay()) {
			return
		}
		ov := ctrl.TickOverload()
		var region *geo.Region
		if ov.Active {
			r := ov.Region
			region = &r
		}
		ev, err := engine.Tick(ctx, region)
		if err != nil {
			reg.TicksSkipped.Inc()
			log.Error().Err(err).Msg("skipping event generation cycle")
			continue
		}
		emitter.Emit(ctx, ev)
	}
}

func sleep(ctx context.Context, timer *time.Timer, d time.Duration) bool {
	timer.Reset(d)
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
