package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/emit"
	"github.com/loadhound/trafficgen/internal/geo"
	"github.com/loadhound/trafficgen/internal/rng"
	"github.com/loadhound/trafficgen/internal/users"
)

const (
	httpVersion = "1.1"
	// anonymous traffic errors about twice as often as authenticated traffic
	anonymousErrorMultiplier = 2.0
	cleanupInterval          = time.Minute
)

// UserSource is the external user-provider contract.
type UserSource interface {
	Random(ctx context.Context) users.User
}

// Instance is one live journey. It binds its user record, client address,
// geo origin, and resolved URL placeholders once at creation and keeps them
// for its whole lifetime; only StepIndex advances.
type Instance struct {
	SessionID string
	User      users.User
	ClientIP  string
	UserAgent string
	Geo       geo.Entry
	StepIndex int
	StartedAt time.Time

	def          *Definition
	placeholders map[string]string
}

// Config tunes the journey mix.
type Config struct {
	// RandomRequestPct is the percentage of ticks spent on one-off
	// anonymous requests instead of journeys.
	RandomRequestPct float64
	// AbandonProbability is the chance a journey is dropped instead of
	// advanced on any given tick, like a user closing the tab.
	AbandonProbability float64
	// MaxFlowAge evicts journeys that have lingered too long.
	MaxFlowAge time.Duration
}

// Engine decides each tick whether to start a journey, advance one, or emit
// a one-off request, and synthesizes the resulting event. The instance set
// is owned by the generation loop's goroutine; only ActiveCount is safe to
// call from elsewhere.
type Engine struct {
	defs    []Definition
	weights []float64
	catalog *geo.Catalog
	users   UserSource
	rng     rng.Rng
	log     zerolog.Logger
	cfg     Config

	active      []*Instance
	activeCount atomic.Int64
	lastCleanup time.Time
	now         func() time.Time
}

// NewEngine validates the definitions and builds an engine.
func NewEngine(defs []Definition, catalog *geo.Catalog, src UserSource, cfg Config, seed string, log zerolog.Logger) (*Engine, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("flow: no definitions")
	}
	weights := make([]float64, len(defs))
	for i, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		weights[i] = d.Weight
	}
	if cfg.MaxFlowAge <= 0 {
		cfg.MaxFlowAge = 5 * time.Minute
	}
	e := &Engine{
		defs:    defs,
		weights: weights,
		catalog: catalog,
		users:   src,
		rng:     rng.New(seed + "/flow"),
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
	e.lastCleanup = e.now()
	return e, nil
}

// ActiveCount reports the number of live journeys. Safe for concurrent use.
func (e *Engine) ActiveCount() int {
	return int(e.activeCount.Load())
}

// Tick produces exactly one event. During an overload window every event is
// a one-off drawn from the target region with the overload status
// distribution; journeys are left untouched until the window closes.
func (e *Engine) Tick(ctx context.Context, overload *geo.Region) (*emit.Event, error) {
	now := e.now()
	if now.Sub(e.lastCleanup) > cleanupInterval {
		e.cleanup(now)
	}

	if overload != nil {
		return e.overloadEvent(ctx, *overload)
	}
	if e.rng.BoolWithProb(e.cfg.RandomRequestPct) {
		return e.anonymousEvent()
	}
	if len(e.active) > 0 {
		idx := e.rng.Intn(len(e.active))
		if e.rng.Float64() < e.cfg.AbandonProbability {
			e.remove(idx)
			return e.startJourney(ctx)
		}
		return e.advance(idx), nil
	}
	return e.startJourney(ctx)
}

func (e *Engine) startJourney(ctx context.Context) (*emit.Event, error) {
	def := &e.defs[e.rng.WeightedIndex(e.weights)]
	entry, err := e.catalog.Sample(e.rng)
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		SessionID:    uuid.NewString(),
		User:         e.users.Random(ctx),
		ClientIP:     e.catalog.RandomIP(e.rng, entry.Region),
		UserAgent:    userAgent(e.rng),
		Geo:          entry,
		StartedAt:    e.now(),
		def:          def,
		placeholders: make(map[string]string),
	}
	e.active = append(e.active, inst)
	e.activeCount.Store(int64(len(e.active)))
	return e.advance(len(e.active) - 1), nil
}

// advance emits the instance's current step and moves it forward, removing
// it once the final step has been emitted. StepIndex never passes the step
// count, and a finished session is never reused.
func (e *Engine) advance(idx int) *emit.Event {
	inst := e.active[idx]
	step := inst.def.Steps[inst.StepIndex]
	url := e.resolveURL(inst, step.URLPattern)
	status := e.sampleStatus(step, inst.User.Authenticated())
	ev := e.buildEvent(step.Method, url, status, inst.User, inst.ClientIP, inst.UserAgent, inst.SessionID, &inst.Geo)
	ev.FlowName = inst.def.Name

	inst.StepIndex++
	if inst.StepIndex >= len(inst.def.Steps) {
		e.remove(idx)
	}
	return ev
}

func (e *Engine) anonymousEvent() (*emit.Event, error) {
	entry, err := e.catalog.Sample(e.rng)
	if err != nil {
		return nil, err
	}
	step := StepSpec{
		SuccessWeights:   defaultSuccess,
		ErrorWeights:     anonymousErrors,
		ErrorProbability: 0.15,
	}
	method := e.rng.Choice(randomMethods)
	url := randomPath(e.rng)
	status := e.sampleStatus(step, false)
	ip := e.catalog.RandomIP(e.rng, entry.Region)
	ev := e.buildEvent(method, url, status, users.User{Name: e.rng.WordPair()}, ip, userAgent(e.rng), uuid.NewString(), &entry)
	return ev, nil
}

func (e *Engine) overloadEvent(ctx context.Context, region geo.Region) (*emit.Event, error) {
	entry, err := e.catalog.SampleRegion(e.rng, region)
	if err != nil {
		return nil, fmt.Errorf("flow: overload sampling for %s: %w", region, err)
	}
	status := e.pickWeighted(overloadStatuses)
	method := e.rng.Choice(randomMethods)
	url := randomPath(e.rng)
	ip := e.catalog.RandomIP(e.rng, region)
	ev := e.buildEvent(method, url, status, e.users.Random(ctx), ip, userAgent(e.rng), uuid.NewString(), &entry)
	return ev, nil
}

func (e *Engine) buildEvent(method, url string, status int, u users.User, ip, ua, session string, entry *geo.Entry) *emit.Event {
	ev := &emit.Event{
		Timestamp:  e.now(),
		Level:      level(status),
		ClientIP:   ip,
		UserID:     u.ID,
		UserName:   u.Name,
		SessionID:  session,
		Method:     method,
		Referrer:   referrer(e.rng),
		StatusCode: status,
		Bytes:      responseBytes(e.rng, status),
		URL:        url,
		Version:    httpVersion,
		UserAgent:  ua,
		Message:    fmt.Sprintf("%s %s - %d", method, url, status),
		Geo:        entry,
	}
	if status >= 400 {
		ev.ErrorMsg = errorMessage(e.rng, status, url)
	}
	return ev
}

// sampleStatus decides success vs error per the step's probability, then
// draws from the matching weight table. Anonymous traffic errors more.
func (e *Engine) sampleStatus(step StepSpec, authenticated bool) int {
	p := step.ErrorProbability
	if !authenticated {
		p *= anonymousErrorMultiplier
	}
	if p > 0.95 {
		p = 0.95
	}
	if p > 0 && e.rng.Float64() < p {
		return e.pickWeighted(step.ErrorWeights)
	}
	return e.pickWeighted(step.SuccessWeights)
}

func (e *Engine) pickWeighted(table []StatusWeight) int {
	weights := make([]float64, len(table))
	for i, sw := range table {
		weights[i] = sw.Weight
	}
	return table[e.rng.WeightedIndex(weights)].Status
}

// resolveURL fills :placeholder segments, generating each value once per
// instance so a journey keeps referring to the same product or order.
func (e *Engine) resolveURL(inst *Instance, pattern string) string {
	if !strings.Contains(pattern, ":") {
		return pattern
	}
	parts := strings.Split(pattern, "/")
	for i, part := range parts {
		if !strings.HasPrefix(part, ":") {
			continue
		}
		name := part[1:]
		val, ok := inst.placeholders[name]
		if !ok {
			val = strconv.Itoa(e.rng.IntRange(1000, 9999))
			inst.placeholders[name] = val
		}
		parts[i] = val
	}
	return strings.Join(parts, "/")
}

func (e *Engine) remove(idx int) {
	e.active[idx] = e.active[len(e.active)-1]
	e.active = e.active[:len(e.active)-1]
	e.activeCount.Store(int64(len(e.active)))
}

func (e *Engine) cleanup(now time.Time) {
	kept := e.active[:0]
	for _, inst := range e.active {
		if now.Sub(inst.StartedAt) < e.cfg.MaxFlowAge {
			kept = append(kept, inst)
		}
	}
	if dropped := len(e.active) - len(kept); dropped > 0 {
		e.log.Debug().Int("dropped", dropped).Msg("evicted stale flows")
	}
	e.active = kept
	e.activeCount.Store(int64(len(e.active)))
	e.lastCleanup = now
}
