package main

import (
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Generator struct {
		MinInterval float64       `long:"min-interval" description:"minimum delay between generated events, in seconds" default:"0.1" yaml:"min_interval"`
		MaxInterval float64       `long:"max-interval" description:"maximum delay between generated events, in seconds" default:"3.0" yaml:"max_interval"`
		RandomPct   float64       `long:"random-pct" description:"percentage of events that are one-off anonymous requests instead of journey steps" default:"30" yaml:"random_request_percentage"`
		AbandonProb float64       `long:"abandon-prob" description:"probability that an in-progress journey is abandoned on any given event" default:"0.15" yaml:"abandon_probability"`
		MaxFlowAge  time.Duration `long:"max-flow-age" description:"evict journeys that have been in progress longer than this" default:"5m" yaml:"max_flow_age"`
		Flows       string        `long:"flows" description:"YAML file of journey definitions replacing the built-in catalog" yaml:"flows,omitempty"`
	} `group:"Generator Options" yaml:"generator"`
	Sink struct {
		Kind string `long:"sink" description:"where generated log records go" choice:"stdout" choice:"file" choice:"http" default:"stdout" yaml:"kind"`
		Path string `long:"sink-path" description:"log file path when sink is file" default:"access.log" yaml:"path,omitempty"`
		URL  string `long:"sink-url" description:"collector endpoint when sink is http" yaml:"url,omitempty"`
	} `group:"Sink Options" yaml:"sink"`
	Users struct {
		Provider string        `long:"user-provider" description:"base url of the user database service (empty disables lookups)" env:"USER_DB_URL" default:"http://user-database:8500" yaml:"provider"`
		Timeout  time.Duration `long:"user-timeout" description:"timeout for user database lookups" default:"2s" yaml:"timeout"`
	} `group:"User Provider Options" yaml:"users"`
	API struct {
		Listen string `long:"listen" description:"listen address for the control and metrics API" env:"LISTEN_ADDR" default:":8000" yaml:"listen"`
	} `group:"API Options" yaml:"api"`
	Global struct {
		LogLevel string `long:"loglevel" description:"level of diagnostic logging" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info" yaml:"loglevel"`
		Seed     string `long:"seed" description:"string seed for the random number generator (defaults to the hostname)" yaml:"seed,omitempty"`
		Config   string `long:"config" description:"name of config file to load(*)" default:"" yaml:"-"`
		WriteCfg string `long:"writecfg" description:"write effective YAML config to the specified output file and quit(*)" default:"" yaml:"-"`
	} `group:"Global Options" yaml:"global"`
}

func newOptions() *Options {
	return &Options{}
}

// Fields marked with (*) in the help text can only come from the command
// line, never from the config file.
func (o *Options) CopyStarredFieldsFrom(other *Options) {
	o.Global.Config = other.Global.Config
	o.Global.WriteCfg = other.Global.WriteCfg
}

func (o *Options) ZerologLevel() zerolog.Level {
	switch o.Global.LogLevel {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func ReadConfig(opts *Options, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(opts); err != nil {
		return err
	}
	log.Printf("read config from %s\n", filename)
	return nil
}

func WriteConfig(opts *Options, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	if err := enc.Encode(opts); err != nil {
		return err
	}
	log.Printf("wrote config to %s\n", filename)
	return nil
}
