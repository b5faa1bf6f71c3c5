// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dht11

import "math"

// Frame is the raw 40-bit payload sent by the sensor:
// humidity integer, humidity tenths, temperature integer with sign bit,
// temperature tenths, checksum.
type Frame [5]byte

const signBit = 0x80

// Checksum returns the truncated sum of the four data bytes.
func (f Frame) Checksum() byte {
	return f[0] + f[1] + f[2] + f[3]
}

// Valid reports whether the checksum byte matches the data.
func (f Frame) Valid() bool {
	return f.Checksum() == f[4]
}

// Decode validates the checksum and converts the frame to a Measurement.
func (f Frame) Decode() (Measurement, error) {
	if !f.Valid() {
		return Measurement{}, ErrCRCMismatch
	}

	hum := int(f[0])*10 + int(f[1])
	temp := int(f[2]&^signBit)*10 + int(f[3])
	if f[2]&signBit != 0 {
		temp = -temp
	}

	return Measurement{
		Temperature: float64(temp) / 10,
		Humidity:    float64(hum) / 10,
	}, nil
}

// EncodeFrame builds the frame a sensor would send for m. Values are rounded
// to one decimal and clamped to what the frame can carry.
func EncodeFrame(m Measurement) Frame {
	hum := clamp(int(math.Round(m.Humidity*10)), 0, 2559)
	temp := int(math.Round(m.Temperature * 10))

	var f Frame
	f[0] = byte(hum / 10)
	f[1] = byte(hum % 10)
	if temp < 0 {
		temp = clamp(-temp, 0, 1279)
		f[2] = signBit | byte(temp/10)
	} else {
		temp = clamp(temp, 0, 1279)
		f[2] = byte(temp / 10)
	}
	f[3] = byte(temp % 10)
	f[4] = f.Checksum()
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Measurement is one validated reading.
type Measurement struct {
	Temperature float64 `json:"temp_c"`       // °C
	Humidity    float64 `json:"humidity_pct"` // %RH
}

// DeciCelsius returns the temperature in tenths of °C.
func (m Measurement) DeciCelsius() int {
	return int(math.Round(m.Temperature * 10))
}

// DeciRelHumidity returns the humidity in tenths of %RH.
func (m Measurement) DeciRelHumidity() int {
	return int(math.Round(m.Humidity * 10))
}
