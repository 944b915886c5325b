package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadhound/trafficgen/internal/rng"
)

func TestRandomFetchesFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/random", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 17, "name": "ada"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)

	u := c.Random(context.Background())
	assert.Equal(t, 17, u.ID)
	assert.Equal(t, "ada", u.Name)
	assert.True(t, u.Authenticated())
}

func TestRandomFallsBackWhenProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)

	u := c.Random(context.Background())
	assert.Zero(t, u.ID)
	assert.NotEmpty(t, u.Name)
	assert.False(t, u.Authenticated())
}

func TestRandomFallsBackWhenProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := NewClient(srv.URL, 100*time.Millisecond, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)

	u := c.Random(context.Background())
	assert.False(t, u.Authenticated())
	assert.NotEmpty(t, u.Name)
}

func TestRandomFallsBackOnMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)

	u := c.Random(context.Background())
	assert.False(t, u.Authenticated())
}

func TestEmptyEndpointAlwaysFallsBack(t *testing.T) {
	c, err := NewClient("", time.Second, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)

	u := c.Random(context.Background())
	assert.False(t, u.Authenticated())
	assert.NotEmpty(t, u.Name)
}

func TestFallbacksAreCounted(t *testing.T) {
	c, err := NewClient("", time.Second, rng.New("users-test"), zerolog.Nop())
	require.NoError(t, err)
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_fallbacks_total"})
	c.CountFallbacks(counter)

	c.Random(context.Background())
	c.Random(context.Background())
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))
}
