package emit

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/metrics"
	"github.com/loadhound/trafficgen/internal/rate"
)

const (
	defaultWriteTimeout = 2 * time.Second
	retryInterval       = 50 * time.Millisecond
	maxRetries          = 3
)

// Emitter records metrics for each event and forwards it to the sink.
// Metric updates and the sink write are independent: a sink failure never
// loses the metric increments, and the event is dropped after a bounded
// number of retries so the generation loop is never blocked indefinitely.
type Emitter struct {
	sink        Sink
	metrics     *metrics.Registry
	log         zerolog.Logger
	snapshot    func() (rate.Config, rate.Overload)
	activeFlows func() int
	timeout     time.Duration
}

// NewEmitter wires the sink and metrics registry together. snapshot and
// activeFlows feed the gauges refreshed on every emit; either may be nil.
func NewEmitter(sink Sink, reg *metrics.Registry, log zerolog.Logger,
	snapshot func() (rate.Config, rate.Overload), activeFlows func() int) *Emitter {
	return &Emitter{
		sink:        sink,
		metrics:     reg,
		log:         log,
		snapshot:    snapshot,
		activeFlows: activeFlows,
		timeout:     defaultWriteTimeout,
	}
}

// Emit processes one generated event.
func (e *Emitter) Emit(ctx context.Context, ev *Event) {
	e.record(ev)
	e.refreshGauges()

	body, err := ev.MarshalJSON()
	if err != nil {
		e.metrics.EmitErrors.Inc()
		e.log.Error().Err(err).Msg("event serialization failed, dropping event")
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	op := func() error {
		return e.sink.Write(writeCtx, body)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries), writeCtx)
	if err := backoff.Retry(op, policy); err != nil {
		e.metrics.EmitErrors.Inc()
		e.log.Error().Err(err).Str("session_id", ev.SessionID).Msg("log sink write failed, dropping event")
	}
}

func (e *Emitter) record(ev *Event) {
	e.metrics.LogsGenerated.Inc()
	e.metrics.HTTPRequests.WithLabelValues(ev.Method, strconv.Itoa(ev.StatusCode)).Inc()
	if ev.Geo != nil {
		e.metrics.RequestsByLocation.WithLabelValues(
			ev.Geo.CountryName,
			ev.Geo.CityName,
			strconv.FormatFloat(ev.Geo.Lat, 'f', -1, 64),
			strconv.FormatFloat(ev.Geo.Lon, 'f', -1, 64),
		).Inc()
	}
}

func (e *Emitter) refreshGauges() {
	if e.snapshot != nil {
		cfg, ov := e.snapshot()
		e.metrics.Interval.WithLabelValues("min").Set(cfg.MinInterval)
		e.metrics.Interval.WithLabelValues("max").Set(cfg.MaxInterval)
		if ov.Active {
			e.metrics.DDoSActive.Set(1)
		} else {
			e.metrics.DDoSActive.Set(0)
		}
		e.metrics.DDoSRemaining.Set(ov.Remaining.Seconds())
	}
	if e.activeFlows != nil {
		e.metrics.ActiveFlows.Set(float64(e.activeFlows()))
	}
}

// Close releases the sink.
func (e *Emitter) Close() error {
	return e.sink.Close()
}
