// trafficgen synthesizes realistic HTTP access-log traffic. It walks weighted
// multi-step user journeys across a catalog of geo-weighted locations, emits
// each request as a structured JSON log record, and exposes a control API for
// tuning the generation rate, pausing traffic, and simulating a regional
// DDoS burst.
package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/api"
	"github.com/loadhound/trafficgen/internal/emit"
	"github.com/loadhound/trafficgen/internal/flow"
	"github.com/loadhound/trafficgen/internal/geo"
	"github.com/loadhound/trafficgen/internal/metrics"
	"github.com/loadhound/trafficgen/internal/rate"
	"github.com/loadhound/trafficgen/internal/rng"
	"github.com/loadhound/trafficgen/internal/users"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cmdopts := newOptions()

	parser := flags.NewParser(cmdopts, flags.Default)
	parser.Usage = `[OPTIONS]

	trafficgen generates a continuous stream of synthetic HTTP access-log
	records. Simulated visitors are assigned a weighted geographic location
	and walk multi-step journeys (login, browse, checkout, ...) through a
	fictional storefront; each step becomes one JSON log record written to
	the configured sink.

	The generation rate is sampled uniformly from a configurable interval
	range. A control API lets you retune the interval at runtime, pause and
	resume generation, and trigger a time-bounded DDoS simulation that
	floods the stream with failing requests from a single region. Prometheus
	metrics are served on the same listener under /metrics.

	Options can be set in a config file, or on the command line; to specify
	them in the config file, write it with "--writecfg=FILENAME", edit it,
	and load it with "--config=FILENAME". Options marked with (*) cannot be
	set in the config file.
	`

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		stdlog.Fatalf("error reading command line: %v", err)
	}

	opts := newOptions()
	if cmdopts.Global.Config != "" {
		if err := ReadConfig(opts, cmdopts.Global.Config); err != nil {
			stdlog.Fatalf("err %v -- unable to read config file %s", err, cmdopts.Global.Config)
		}
		opts.CopyStarredFieldsFrom(cmdopts)
	} else {
		opts = cmdopts
	}

	if opts.Global.WriteCfg != "" {
		if err := WriteConfig(opts, opts.Global.WriteCfg); err != nil {
			stdlog.Fatalf("unable to write config: %s\n", err)
		}
		os.Exit(0)
	}

	if opts.Global.Seed == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "trafficgen"
		}
		opts.Global.Seed = host
	}

	log := zerolog.New(os.Stderr).Level(opts.ZerologLevel()).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Fatal().Err(err).Msg("trafficgen failed")
	}
}

func run(ctx context.Context, opts *Options, log zerolog.Logger) error {
	reg := metrics.New()

	catalog := geo.DefaultCatalog()

	ctrl, err := rate.NewController(rate.Config{
		MinInterval: opts.Generator.MinInterval,
		MaxInterval: opts.Generator.MaxInterval,
	}, opts.Global.Seed)
	if err != nil {
		return err
	}

	userClient, err := users.NewClient(opts.Users.Provider, opts.Users.Timeout,
		rng.New(opts.Global.Seed+"/users"), log)
	if err != nil {
		return err
	}
	userClient.CountFallbacks(reg.UserFallbacks)

	defs := flow.Catalog()
	if opts.Generator.Flows != "" {
		defs, err = flow.LoadDefinitions(opts.Generator.Flows)
		if err != nil {
			return err
		}
		log.Info().Str("file", opts.Generator.Flows).Int("flows", len(defs)).Msg("loaded journey definitions")
	}

	engine, err := flow.NewEngine(defs, catalog, userClient, flow.Config{
		RandomRequestPct:   opts.Generator.RandomPct,
		AbandonProbability: opts.Generator.AbandonProb,
		MaxFlowAge:         opts.Generator.MaxFlowAge,
	}, opts.Global.Seed, log)
	if err != nil {
		return err
	}

	sink, err := buildSink(opts)
	if err != nil {
		return err
	}

	emitter := emit.NewEmitter(sink, reg, log, ctrl.Snapshot, engine.ActiveCount)
	defer emitter.Close()

	server := api.NewServer(opts.API.Listen, ctrl, reg, engine.ActiveCount, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Str("addr", opts.API.Listen).Msg("control api stopped")
		}
	}()

	log.Info().
		Str("listen", opts.API.Listen).
		Str("sink", opts.Sink.Kind).
		Float64("min_interval", opts.Generator.MinInterval).
		Float64("max_interval", opts.Generator.MaxInterval).
		Msg("traffic generation started")

	runLoop(ctx, ctrl, engine, emitter, reg, log)

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildSink(opts *Options) (emit.Sink, error) {
	switch opts.Sink.Kind {
	case "file":
		return emit.NewFileSink(opts.Sink.Path), nil
	case "http":
		return emit.NewHTTPSink(opts.Sink.URL)
	default:
		return emit.NewStdoutSink(), nil
	}
}
