// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"time"

	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"periph.io/x/conn/v3/physic"
)

// Sample represents a single environmental measurement (DHT11).
type Sample struct {
	Source string    `json:"source"`
	Time   time.Time `json:"time"`

	Temperature float64 `json:"temp_c"`       // °C
	Humidity    float64 `json:"humidity_pct"` // %RH
}

// FromMeasurement stamps m with its source and acquisition time.
func FromMeasurement(source string, at time.Time, m dht11.Measurement) Sample {
	return Sample{
		Source:      source,
		Time:        at,
		Temperature: m.Temperature,
		Humidity:    m.Humidity,
	}
}

// Env converts the sample to periph units. Pressure is left at zero.
func (s Sample) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(s.DeciCelsius())*(physic.Kelvin/10),
		Humidity:    physic.RelativeHumidity(s.DeciRelHumidity()) * (physic.PercentRH / 10),
	}
}

// DeciCelsius returns the temperature in tenths of °C.
func (s Sample) DeciCelsius() int {
	return dht11.Measurement{Temperature: s.Temperature}.DeciCelsius()
}

// DeciRelHumidity returns the humidity in tenths of %RH.
func (s Sample) DeciRelHumidity() int {
	return dht11.Measurement{Humidity: s.Humidity}.DeciRelHumidity()
}
