// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Command plistdump decodes, scans and encodes RTPS parameter lists and
// inspects QoS defaults
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"go.e43.eu/ddsi"
	"go.e43.eu/ddsi/config"
	"go.e43.eu/ddsi/internal/metrics"
)

type flags struct {
	Log         FlagsLogs `embed:""                                   prefix:"log-"`
	Config      string    `help:"Path to a YAML configuration file." type:"existingfile"`
	Strict      bool      `help:"Reject anything the protocol version does not define."`
	Pedantic    bool      `help:"Follow the RTPS standard to the letter."`
	MetricsFile string    `help:"Write decode metrics in the Prometheus text format to this file on exit."`

	Decode   decodeCmd   `cmd:"" help:"Decode parameter lists and print them as YAML."`
	Scan     scanCmd     `cmd:"" help:"Quick scan the inline QoS of samples."`
	Encode   encodeCmd   `cmd:"" help:"Encode a YAML QoS as a parameter list."`
	Defaults defaultsCmd `cmd:"" help:"Print the effective default QoS of an entity kind."`
	Diff     diffCmd     `cmd:"" help:"List the policies in which two YAML QoS files differ."`
}

// FlagsLogs provides logging configuration flags.
type FlagsLogs struct {
	Level  string `default:"warn"   enum:"error,warn,info,debug" help:"Log level."`
	Format string `default:"logfmt" enum:"logfmt,json"           help:"Configure if structured logging as JSON or as logfmt"`
}

func (f FlagsLogs) logrusLevel() log.Level {
	switch f.Level {
	case "error":
		return log.ErrorLevel
	case "warn":
		return log.WarnLevel
	case "info":
		return log.InfoLevel
	case "debug":
		return log.DebugLevel
	default:
		return log.WarnLevel
	}
}

func (f FlagsLogs) logrusFormatter() log.Formatter {
	switch f.Format {
	case "json":
		return &log.JSONFormatter{}
	default:
		return &log.TextFormatter{}
	}
}

func (f FlagsLogs) ConfigureLogger() {
	log.SetLevel(f.logrusLevel())
	log.SetFormatter(f.logrusFormatter())
	log.SetOutput(os.Stderr)
}

// env is what every command runs against
type env struct {
	cfg   *config.Config
	codec *ddsi.Codec
}

func (f *flags) env(reg prometheus.Registerer) (*env, error) {
	cfg := &config.Config{}
	if f.Config != "" {
		var err error
		if cfg, err = config.LoadFile(f.Config); err != nil {
			return nil, err
		}
	}
	if f.Strict {
		cfg.Policy.Strict = true
	}
	if f.Pedantic {
		cfg.Policy.Pedantic = true
	}

	return &env{
		cfg: cfg,
		codec: &ddsi.Codec{
			Policy:   cfg.Policy,
			Logger:   log.StandardLogger(),
			Observer: metrics.NewObserver(reg),
		},
	}, nil
}

func main() {
	flags := flags{}
	kctx := kong.Parse(&flags,
		kong.Description("Inspect RTPS parameter lists."),
		kong.UsageOnError(),
	)
	flags.Log.ConfigureLogger()

	reg := prometheus.NewRegistry()
	e, err := flags.env(reg)
	if err != nil {
		log.WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	err = kctx.Run(e)
	if flags.MetricsFile != "" {
		if merr := prometheus.WriteToTextfile(flags.MetricsFile, reg); merr != nil {
			log.WithError(merr).Error("failed to write metrics")
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
