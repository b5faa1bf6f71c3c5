// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dht11

import (
	"errors"
	"testing"
)

func TestFrameDecode(t *testing.T) {
	tests := []struct {
		name     string
		frame    Frame
		wantTemp float64
		wantHum  float64
	}{
		{"room", Frame{0x32, 0x00, 0x15, 0x00, 0x47}, 21.0, 50.0},
		{"negative", Frame{0x14, 0x00, 0x8F, 0x02, 0xA5}, -15.2, 20.0},
		{"tenths", Frame{0x2D, 0x07, 0x17, 0x03, 0x4E}, 23.3, 45.7},
		{"negative zero", Frame{0x00, 0x00, 0x80, 0x05, 0x85}, -0.5, 0},
		{"uncapped humidity tenths", Frame{0x14, 0xC8, 0x00, 0x00, 0xDC}, 0, 40.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.frame.Decode()
			if err != nil {
				t.Fatalf("decode % x: %v", tt.frame[:], err)
			}
			if m.Temperature != tt.wantTemp {
				t.Errorf("temperature: got %v want %v", m.Temperature, tt.wantTemp)
			}
			if m.Humidity != tt.wantHum {
				t.Errorf("humidity: got %v want %v", m.Humidity, tt.wantHum)
			}
		})
	}
}

func TestFrameDecodeChecksumMismatch(t *testing.T) {
	// Every checksum byte except the right one must be rejected.
	data := Frame{0x32, 0x00, 0x15, 0x00}
	for sum := 0; sum < 256; sum++ {
		f := data
		f[4] = byte(sum)
		_, err := f.Decode()
		if byte(sum) == 0x47 {
			if err != nil {
				t.Fatalf("valid frame rejected: %v", err)
			}
			continue
		}
		if !errors.Is(err, ErrCRCMismatch) {
			t.Fatalf("checksum %#02x: got %v want %v", sum, err, ErrCRCMismatch)
		}
	}
}

func TestFrameChecksumWraps(t *testing.T) {
	f := Frame{0xFF, 0xFF, 0x02, 0x01}
	if got, want := f.Checksum(), byte(0x01); got != want {
		t.Errorf("got %#02x want %#02x", got, want)
	}
}

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		m    Measurement
		want Frame
	}{
		{Measurement{Temperature: 21, Humidity: 50}, Frame{0x32, 0x00, 0x15, 0x00, 0x47}},
		{Measurement{Temperature: -15.2, Humidity: 20}, Frame{0x14, 0x00, 0x8F, 0x02, 0xA5}},
		{Measurement{Temperature: 200, Humidity: -3}, Frame{0x00, 0x00, 0x7F, 0x09, 0x88}},
	}
	for _, tt := range tests {
		if got := EncodeFrame(tt.m); got != tt.want {
			t.Errorf("EncodeFrame(%+v): got % x want % x", tt.m, got[:], tt.want[:])
		}
	}
}

func TestMeasurementDeci(t *testing.T) {
	m := Measurement{Temperature: -15.2, Humidity: 45.7}
	if got := m.DeciCelsius(); got != -152 {
		t.Errorf("DeciCelsius: got %d want -152", got)
	}
	if got := m.DeciRelHumidity(); got != 457 {
		t.Errorf("DeciRelHumidity: got %d want 457", got)
	}
}
