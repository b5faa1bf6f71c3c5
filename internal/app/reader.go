// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/config"
	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"github.com/relabs-tech/dht_sensor/internal/env"
	"github.com/relabs-tech/dht_sensor/internal/sensors"
	"github.com/rs/zerolog/log"
)

// Measurer takes one DHT11 reading.
type Measurer interface {
	Measure() (dht11.Measurement, error)
}

// Stats counts the outcome of a run by failure kind.
type Stats struct {
	OK     int
	Failed map[string]int
}

func (s Stats) total() int {
	n := s.OK
	for _, c := range s.Failed {
		n += c
	}
	return n
}

// Reader takes readings on a fixed schedule and writes one formatted line
// per successful reading. A failed reading is logged and skipped; the next
// one happens at its scheduled time.
type Reader struct {
	Source   string
	Dev      Measurer
	Format   env.Formatter
	Interval time.Duration
	Count    int // 0 = until ctx is done
	Out      io.Writer

	// Before, if set, runs ahead of every reading.
	Before func(n int)
	Now    func() time.Time
}

// Run blocks until Count readings were taken or ctx is cancelled. The
// returned error is only set for output failures.
func (r *Reader) Run(ctx context.Context) (Stats, error) {
	stats := Stats{Failed: make(map[string]int)}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for n := 0; r.Count == 0 || n < r.Count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return stats, nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return stats, nil
		}

		if r.Before != nil {
			r.Before(n)
		}
		m, err := r.Dev.Measure()
		if err != nil {
			kind := dht11.Kind(err)
			stats.Failed[kind]++
			log.Warn().Err(err).Str("kind", kind).Int("reading", n+1).Msg("reading failed")
			continue
		}

		sample := env.FromMeasurement(r.Source, now(), m)
		line, err := r.Format(sample)
		if err != nil {
			return stats, err
		}
		if _, err := fmt.Fprintln(r.Out, line); err != nil {
			return stats, fmt.Errorf("write sample: %w", err)
		}
		stats.OK++
		log.Debug().Float64("temp_c", m.Temperature).Float64("humidity_pct", m.Humidity).Int("reading", n+1).Msg("reading ok")
	}
	return stats, nil
}

// RunReader reads the DHT11 configured in cfg and prints every sample to out.
func RunReader(ctx context.Context, cfg *config.Config, out io.Writer) (Stats, error) {
	format, err := env.NewFormatter(cfg.Format)
	if err != nil {
		return Stats{}, err
	}

	backend, err := sensors.Open(cfg)
	if err != nil {
		return Stats{}, fmt.Errorf("open DHT11 backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Str("backend", backend.Name).Msg("close backend")
		}
	}()

	dev := sensors.NewDev(backend)
	defer dev.Halt()

	log.Info().
		Str("dev", dev.String()).
		Str("source", cfg.Source).
		Dur("interval", cfg.SampleInterval).
		Int("count", cfg.Count).
		Msg("DHT11 reader started")

	r := &Reader{
		Source:   cfg.Source,
		Dev:      dev,
		Format:   format,
		Interval: cfg.SampleInterval,
		Count:    cfg.Count,
		Out:      out,
	}
	stats, err := r.Run(ctx)
	logStats(stats)
	return stats, err
}

func logStats(s Stats) {
	ev := log.Info().Int("readings", s.total()).Int("ok", s.OK)
	for kind, n := range s.Failed {
		ev = ev.Int(kind, n)
	}
	ev.Msg("DHT11 reader stopped")
}
