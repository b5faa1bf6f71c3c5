// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/relabs-tech/dht_sensor/internal/app"
	"github.com/relabs-tech/dht_sensor/internal/config"
	"github.com/relabs-tech/dht_sensor/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "./dht_config.toml", "path to configuration file")
	count := flag.Int("count", -1, "number of readings (overrides config; 0 = until interrupted)")
	format := flag.String("format", "", "output format: text, json or xdr (overrides config)")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to load config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	cfg := applyFlags(config.Get(), *count, *format)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logging.Init("dht_reader", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.RunReader(ctx, cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

// applyFlags returns a copy of base with the command line overrides applied.
// A negative count or an empty format leaves the configured value.
func applyFlags(base *config.Config, count int, format string) *config.Config {
	cfg := *base
	if count >= 0 {
		cfg.Count = count
	}
	if f := strings.ToLower(strings.TrimSpace(format)); f != "" {
		cfg.Format = f
	}
	return &cfg
}
