package emit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadhound/trafficgen/internal/geo"
	"github.com/loadhound/trafficgen/internal/metrics"
	"github.com/loadhound/trafficgen/internal/rate"
)

// failingSink rejects every write and counts attempts.
type failingSink struct {
	attempts int
}

func (s *failingSink) Write(_ context.Context, _ []byte) error {
	s.attempts++
	return errors.New("sink down")
}

func (s *failingSink) Close() error { return nil }

func testEvent() *Event {
	return &Event{
		Timestamp:  time.Date(2026, 8, 1, 12, 30, 45, 123456000, time.UTC),
		Level:      "INFO",
		ClientIP:   "82.10.20.30",
		UserID:     42,
		UserName:   "casual-otter",
		SessionID:  "sess-1",
		Method:     "GET",
		Referrer:   "https://example.com/home",
		StatusCode: 200,
		Bytes:      5120,
		URL:        "/products",
		Version:    "1.1",
		UserAgent:  "test-agent",
		Message:    "GET /products - 200",
		FlowName:   "browse",
		Geo: &geo.Entry{
			CountryISOCode: "GB", CountryName: "United Kingdom", CityName: "London",
			Lat: 51.5074, Lon: -0.1278, Region: geo.Europe, Weight: 3,
		},
	}
}

func TestEmitWritesRecordAndCounts(t *testing.T) {
	reg := metrics.New()
	sink := NewMemorySink()
	em := NewEmitter(sink, reg, zerolog.Nop(), nil, nil)

	em.Emit(context.Background(), testEvent())
	ev := testEvent()
	ev.StatusCode = 404
	ev.Level = "WARN"
	ev.ErrorMsg = "Not found: /products"
	em.Emit(context.Background(), ev)

	require.Len(t, sink.Records(), 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.LogsGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HTTPRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HTTPRequests.WithLabelValues("GET", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.RequestsByLocation.WithLabelValues(
		"United Kingdom", "London", "51.5074", "-0.1278")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.EmitErrors))
}

func TestEmitRecordSchema(t *testing.T) {
	reg := metrics.New()
	sink := NewMemorySink()
	em := NewEmitter(sink, reg, zerolog.Nop(), nil, nil)
	em.Emit(context.Background(), testEvent())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(sink.Records()[0], &rec))

	assert.Equal(t, "2026-08-01T12:30:45.123456Z", rec["timestamp"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "82.10.20.30", rec["client_ip"])
	assert.Equal(t, float64(42), rec["user_id"])
	assert.Equal(t, "casual-otter", rec["user_name"])
	assert.Equal(t, "browse", rec["flow_name"])
	assert.NotContains(t, rec, "error", "successful requests carry no error field")

	http, ok := rec["http"].(map[string]any)
	require.True(t, ok)
	request := http["request"].(map[string]any)
	assert.Equal(t, "GET", request["method"])
	response := http["response"].(map[string]any)
	assert.Equal(t, float64(200), response["status_code"])
	assert.Equal(t, float64(5120), response["bytes"])
	assert.Equal(t, "/products", http["url"])
	assert.Equal(t, "1.1", http["version"])

	ua := rec["user_agent"].(map[string]any)
	assert.Equal(t, "test-agent", ua["original"])

	gc := rec["geocode"].(map[string]any)
	assert.Equal(t, "GB", gc["country_iso_code"])
	loc := gc["location"].(map[string]any)
	assert.Equal(t, 51.5074, loc["lat"])
}

func TestAnonymousUserSerializesNullID(t *testing.T) {
	reg := metrics.New()
	sink := NewMemorySink()
	em := NewEmitter(sink, reg, zerolog.Nop(), nil, nil)

	ev := testEvent()
	ev.UserID = 0
	em.Emit(context.Background(), ev)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(sink.Records()[0], &rec))
	val, present := rec["user_id"]
	assert.True(t, present, "user_id key must be present")
	assert.Nil(t, val)
}

func TestErrorRecordCarriesErrorField(t *testing.T) {
	reg := metrics.New()
	sink := NewMemorySink()
	em := NewEmitter(sink, reg, zerolog.Nop(), nil, nil)

	ev := testEvent()
	ev.StatusCode = 503
	ev.Level = "ERROR"
	ev.ErrorMsg = "Service unavailable"
	em.Emit(context.Background(), ev)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(sink.Records()[0], &rec))
	assert.Equal(t, "Service unavailable", rec["error"])
}

func TestEmitRetriesThenDrops(t *testing.T) {
	reg := metrics.New()
	sink := &failingSink{}
	em := NewEmitter(sink, reg, zerolog.Nop(), nil, nil)

	em.Emit(context.Background(), testEvent())

	// the initial attempt plus the bounded retries
	assert.Equal(t, maxRetries+1, sink.attempts)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.EmitErrors))
	// metrics are recorded before the write, so the event still counts
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.LogsGenerated))
}

func TestEmitRefreshesGauges(t *testing.T) {
	reg := metrics.New()
	sink := NewMemorySink()
	snapshot := func() (rate.Config, rate.Overload) {
		return rate.Config{MinInterval: 0.25, MaxInterval: 1.5},
			rate.Overload{Active: true, Region: geo.Asia, Remaining: 7 * time.Second}
	}
	em := NewEmitter(sink, reg, zerolog.Nop(), snapshot, func() int { return 3 })

	em.Emit(context.Background(), testEvent())

	assert.Equal(t, 0.25, testutil.ToFloat64(reg.Interval.WithLabelValues("min")))
	assert.Equal(t, 1.5, testutil.ToFloat64(reg.Interval.WithLabelValues("max")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.DDoSActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(reg.DDoSRemaining))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.ActiveFlows))
}
