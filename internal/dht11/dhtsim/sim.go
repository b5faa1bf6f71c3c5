// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package dhtsim simulates a DHT11 on a virtual-time data line.
//
// A Sensor implements both dht11.Line and dht11.Delayer. Time only moves
// forward through DelayUs/DelayMs, so the waveform seen by the driver is
// fully deterministic.
package dhtsim

import (
	"math"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/dht11"
)

// Protocol timings in µs.
const (
	StartLowMinUs = 18000

	responseWaitUs = 30
	ackLowUs       = 80
	ackHighUs      = 80
	bitLowUs       = 50
	zeroHighUs     = 26
	oneHighUs      = 70
	trailerLowUs   = 50
)

const forever = math.MaxInt64 / 4

type segment struct {
	high bool
	us   int64
}

// Sensor is a simulated DHT11. Configure the exported fields before a
// measurement; they are read when the host releases the start pulse.
type Sensor struct {
	Frame dht11.Frame

	// Silent sensors never answer the start signal.
	Silent bool
	// HangAfterBits, when >= 0, holds the line low forever once that many
	// data bits have been sent.
	HangAfterBits int
	// ZeroHighUs and OneHighUs are the high-phase widths for 0 and 1 bits.
	ZeroHighUs int64
	OneHighUs  int64

	// ReadErr is returned by IsHigh once more than FailAfterReads reads
	// have been made. DriveErr is returned by SetLow and SetHigh.
	ReadErr        error
	FailAfterReads int
	DriveErr       error

	now       int64
	driving   bool
	lowSince  int64
	respStart int64
	segs      []segment

	reads     int
	drives    int
	responses int
}

// New returns a sensor that answers with f.
func New(f dht11.Frame) *Sensor {
	return &Sensor{
		Frame:         f,
		HangAfterBits: -1,
		ZeroHighUs:    zeroHighUs,
		OneHighUs:     oneHighUs,
	}
}

// NewMeasurement returns a sensor that reports m.
func NewMeasurement(m dht11.Measurement) *Sensor {
	return New(dht11.EncodeFrame(m))
}

// SetMeasurement changes the value reported by the next response.
func (s *Sensor) SetMeasurement(m dht11.Measurement) {
	s.Frame = dht11.EncodeFrame(m)
}

func (s *Sensor) SetLow() error {
	s.drives++
	if s.DriveErr != nil {
		return s.DriveErr
	}
	if !s.driving {
		s.driving = true
		s.lowSince = s.now
		s.segs = nil
	}
	return nil
}

func (s *Sensor) SetHigh() error {
	s.drives++
	if s.DriveErr != nil {
		return s.DriveErr
	}
	if s.driving {
		s.driving = false
		if s.now-s.lowSince >= StartLowMinUs && !s.Silent {
			s.respond()
		}
	}
	return nil
}

func (s *Sensor) IsHigh() (bool, error) {
	s.reads++
	if s.ReadErr != nil && s.reads > s.FailAfterReads {
		return false, s.ReadErr
	}
	return s.level(s.now), nil
}

func (s *Sensor) DelayUs(us uint32) { s.now += int64(us) }
func (s *Sensor) DelayMs(ms uint32) { s.now += int64(ms) * 1000 }

// Reads returns the number of IsHigh calls so far.
func (s *Sensor) Reads() int { return s.reads }

// Drives returns the number of SetLow and SetHigh calls so far.
func (s *Sensor) Drives() int { return s.drives }

// Responses returns how many start signals the sensor answered.
func (s *Sensor) Responses() int { return s.responses }

// Elapsed returns the virtual time consumed so far.
func (s *Sensor) Elapsed() time.Duration {
	return time.Duration(s.now) * time.Microsecond
}

func (s *Sensor) respond() {
	s.responses++
	s.respStart = s.now
	s.segs = []segment{
		{high: true, us: responseWaitUs},
		{high: false, us: ackLowUs},
		{high: true, us: ackHighUs},
	}
	for i := 0; i < 40; i++ {
		if i == s.HangAfterBits {
			s.segs = append(s.segs, segment{high: false, us: forever})
			return
		}
		width := s.ZeroHighUs
		if s.Frame[i/8]&(0x80>>(i%8)) != 0 {
			width = s.OneHighUs
		}
		s.segs = append(s.segs,
			segment{high: false, us: bitLowUs},
			segment{high: true, us: width},
		)
	}
	if s.HangAfterBits == 40 {
		s.segs = append(s.segs, segment{high: false, us: forever})
		return
	}
	s.segs = append(s.segs, segment{high: false, us: trailerLowUs})
}

func (s *Sensor) level(t int64) bool {
	if s.driving {
		return false
	}
	at := s.respStart
	for _, seg := range s.segs {
		if t < at+seg.us {
			return seg.high
		}
		at += seg.us
	}
	// Released line idles high through the pull-up.
	return true
}
