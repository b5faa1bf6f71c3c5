// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/relabs-tech/dht_sensor/internal/config"
	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"github.com/relabs-tech/dht_sensor/internal/dht11/dhtsim"
	"github.com/relabs-tech/dht_sensor/internal/timing"
	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	hostOnce    sync.Once
	hostInitErr error
)

// initHost initializes the periph host drivers once per process.
func initHost() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostInitErr = fmt.Errorf("periph host init: %w", err)
		}
	})
	return hostInitErr
}

// Backend is an opened data line plus the delay source to use with it.
type Backend struct {
	Name  string
	Line  dht11.Line
	Delay dht11.Delayer

	close func() error
}

// Close releases the hardware behind the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open prepares the line configured in cfg.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendPeriph:
		return openPeriph(cfg)
	case config.BackendRpio:
		return openRpio(cfg)
	case config.BackendSim:
		return openSim(cfg), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openPeriph(cfg *config.Config) (*Backend, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	delay, err := timing.New(cfg.Delay)
	if err != nil {
		return nil, err
	}

	pin := gpioreg.ByName(cfg.Pin)
	if pin == nil {
		return nil, fmt.Errorf("DHT pin %q not found", cfg.Pin)
	}
	line := NewPeriphLine(pin)
	if err := line.SetHigh(); err != nil {
		pin.Halt()
		return nil, fmt.Errorf("DHT pin %s: release line: %w", pin, err)
	}
	return &Backend{
		Name:  "periph:" + pin.Name(),
		Line:  line,
		Delay: delay,
		close: func() error { return pin.Halt() },
	}, nil
}

func openRpio(cfg *config.Config) (*Backend, error) {
	n, err := strconv.ParseUint(cfg.Pin, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid BCM pin %q: %w", cfg.Pin, err)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("rpio open: %w", err)
	}

	delay, err := timing.New(cfg.Delay)
	if err != nil {
		rpio.Close()
		return nil, err
	}
	return &Backend{
		Name:  fmt.Sprintf("rpio:%d", n),
		Line:  NewRpioLine(uint8(n)),
		Delay: delay,
		close: rpio.Close,
	}, nil
}

func openSim(cfg *config.Config) *Backend {
	sensor := dhtsim.NewMeasurement(dht11.Measurement{
		Temperature: cfg.SimTemperature,
		Humidity:    cfg.SimHumidity,
	})
	// The simulator runs on its own virtual clock.
	return &Backend{
		Name:  "sim",
		Line:  sensor,
		Delay: sensor,
	}
}

// Dev is a DHT11 bound to a backend.
type Dev struct {
	name  string
	drv   *dht11.Driver[dht11.Line]
	delay dht11.Delayer
}

// NewDev takes ownership of the backend's line.
func NewDev(b *Backend) *Dev {
	return &Dev{
		name:  b.Name,
		drv:   dht11.New(b.Line),
		delay: b.Delay,
	}
}

// Measure takes one reading.
func (d *Dev) Measure() (dht11.Measurement, error) {
	return d.drv.Measure(d.delay)
}

// Sense fills the temperature and humidity of e. Pressure is untouched.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.Measure()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(m.DeciCelsius())*(physic.Kelvin/10)
	e.Humidity = physic.RelativeHumidity(m.DeciRelHumidity()) * (physic.PercentRH / 10)
	return nil
}

// Halt releases the line; the Dev cannot be used afterwards.
func (d *Dev) Halt() dht11.Line {
	return d.drv.Release()
}

func (d *Dev) String() string {
	return "DHT11{" + d.name + "}"
}
