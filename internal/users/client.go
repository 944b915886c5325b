// Package users fetches user records from the external user-provider
// service, falling back to synthetic users when it is unreachable.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goware/urlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/rng"
)

// User is the external contract with the user provider. A zero ID marks an
// anonymous (unauthenticated) user.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Authenticated reports whether the user came from the provider rather than
// the synthetic fallback.
func (u User) Authenticated() bool {
	return u.ID > 0
}

// Client talks to the user-provider HTTP API.
type Client struct {
	base      *url.URL
	client    *http.Client
	rng       rng.Rng
	log       zerolog.Logger
	fallbacks prometheus.Counter
}

// NewClient parses the provider endpoint and builds a client. An empty
// endpoint yields a client that always serves fallback users.
func NewClient(endpoint string, timeout time.Duration, r rng.Rng, log zerolog.Logger) (*Client, error) {
	c := &Client{rng: r, log: log}
	if endpoint != "" {
		u, err := urlx.ParseWithDefaultScheme(endpoint, "http")
		if err != nil {
			return nil, fmt.Errorf("users: parse endpoint: %w", err)
		}
		c.base = u
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c.client = &http.Client{Timeout: timeout}
	return c, nil
}

// Random fetches one user record. Provider failures never propagate: the
// caller always gets a usable user, just an anonymous synthetic one.
func (c *Client) Random(ctx context.Context) User {
	if c.base == nil {
		return c.fallback()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath("/user/random").String(), nil)
	if err != nil {
		return c.fallback()
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("user provider unreachable, using fallback user")
		return c.fallback()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn().Int("status", resp.StatusCode).Msg("user provider error, using fallback user")
		return c.fallback()
	}
	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		c.log.Warn().Err(err).Msg("bad user provider response, using fallback user")
		return c.fallback()
	}
	return u
}

// CountFallbacks registers a counter bumped each time the provider cannot
// serve a lookup.
func (c *Client) CountFallbacks(counter prometheus.Counter) {
	c.fallbacks = counter
}

func (c *Client) fallback() User {
	if c.fallbacks != nil {
		c.fallbacks.Inc()
	}
	return User{Name: c.rng.WordPair()}
}
