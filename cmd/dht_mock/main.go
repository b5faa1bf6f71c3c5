// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/app"
	"github.com/relabs-tech/dht_sensor/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	opts := app.MockOptions{}
	flag.StringVar(&opts.Source, "source", "mock", "source label")
	flag.StringVar(&opts.Format, "format", "text", "output format: text, json or xdr")
	flag.DurationVar(&opts.Interval, "interval", time.Second, "time between readings")
	flag.IntVar(&opts.Count, "count", 10, "number of readings (0 = until interrupted)")
	flag.Float64Var(&opts.BaseTemperature, "temp", 21, "base temperature in °C")
	flag.Float64Var(&opts.BaseHumidity, "hum", 50, "base relative humidity in %")
	flag.IntVar(&opts.FaultEvery, "fault-every", 0, "make every n-th reading fail (0 = never)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init("dht_mock", *level)
	log.Info().Msg("starting DHT11 reader (simulated sensor)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.RunMock(ctx, opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
