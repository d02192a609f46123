// Package main is an entrypoint for application
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"

	"github.com/deusflow/ainews/internal/app"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
)

var opts struct {
	Fetch    app.FetchCmd    `command:"fetch" description:"fetch and list the latest AI articles"`
	Generate app.GenerateCmd `command:"generate" description:"fetch articles and write a blog post about the picked ones"`

	Monitoring struct {
		Enabled bool   `long:"enabled" env:"ENABLE_HTTP_MONITORING" description:"serve /health and /metrics"`
		Port    string `long:"port" env:"MONITORING_PORT" default:"8080" description:"monitoring server port"`
	} `group:"monitoring" namespace:"monitoring"`

	JSONLogs bool `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" {
		return version
	}
	return v.Main.Version
}

func main() {
	fmt.Fprintf(os.Stderr, "ainews, version: %s\n", getVersion())

	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		lg := logger.Init(os.Stderr, logger.Options{Debug: opts.Debug, JSON: opts.JSONLogs})

		if opts.Monitoring.Enabled {
			srv := newMonitoringServer(":"+opts.Monitoring.Port, metrics.Global)
			go func() {
				lg.Info("starting monitoring server", slog.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil {
					lg.Warn("monitoring server stopped", slog.Any("err", err))
				}
			}()
		}

		if err := cmd.Execute(args); err != nil {
			lg.Error("failed to execute command", slog.Any("err", err))
			os.Exit(1)
		}

		return nil
	}

	// after failure command does not return non-zero code
	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			slog.Error("failed to parse flags", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
