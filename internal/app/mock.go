// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"github.com/relabs-tech/dht_sensor/internal/dht11/dhtsim"
	"github.com/relabs-tech/dht_sensor/internal/env"
	"github.com/rs/zerolog/log"
)

// MockOptions configure RunMock.
type MockOptions struct {
	Source   string
	Format   string
	Interval time.Duration
	Count    int
	// BaseTemperature and BaseHumidity are the centre of the simulated drift.
	BaseTemperature float64
	BaseHumidity    float64
	// FaultEvery, when > 0, makes every n-th reading fail, cycling through
	// a silent sensor, a corrupted checksum and a stuck line.
	FaultEvery int
}

// mockSensor drifts smoothly around a base value and injects faults.
type mockSensor struct {
	sensor *dhtsim.Sensor
	drv    *dht11.Driver[*dhtsim.Sensor]
	opts   MockOptions
	faults int
}

func newMockSensor(opts MockOptions) *mockSensor {
	sensor := dhtsim.NewMeasurement(dht11.Measurement{
		Temperature: opts.BaseTemperature,
		Humidity:    opts.BaseHumidity,
	})
	return &mockSensor{sensor: sensor, drv: dht11.New(sensor), opts: opts}
}

// prepare sets up the simulated sensor for reading n.
func (m *mockSensor) prepare(n int) {
	s := m.sensor
	s.Silent = false
	s.HangAfterBits = -1

	x := float64(n)
	s.SetMeasurement(dht11.Measurement{
		Temperature: m.opts.BaseTemperature + 3*math.Sin(x/5),
		Humidity:    math.Max(0, math.Min(100, m.opts.BaseHumidity+10*math.Cos(x/7))),
	})

	if m.opts.FaultEvery <= 0 || (n+1)%m.opts.FaultEvery != 0 {
		return
	}
	switch m.faults % 3 {
	case 0:
		s.Silent = true
	case 1:
		s.Frame[4]++
	case 2:
		s.HangAfterBits = 20
	}
	m.faults++
}

func (m *mockSensor) Measure() (dht11.Measurement, error) {
	// Leave the line idle between readings as a real sensor requires.
	m.sensor.DelayMs(1000)
	return m.drv.Measure(m.sensor)
}

// RunMock runs the reader loop against a simulated DHT11.
func RunMock(ctx context.Context, opts MockOptions, out io.Writer) (Stats, error) {
	format, err := env.NewFormatter(opts.Format)
	if err != nil {
		return Stats{}, err
	}
	if opts.Source == "" {
		opts.Source = "mock"
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	sensor := newMockSensor(opts)
	log.Info().Str("source", opts.Source).Int("fault_every", opts.FaultEvery).Msg("DHT11 mock started")

	r := &Reader{
		Source:   opts.Source,
		Dev:      sensor,
		Format:   format,
		Interval: opts.Interval,
		Count:    opts.Count,
		Out:      out,
		Before:   sensor.prepare,
	}
	stats, err := r.Run(ctx)
	logStats(stats)
	return stats, err
}
