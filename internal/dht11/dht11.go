// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package dht11 decodes the single-wire protocol of the DHT11
// temperature/humidity sensor.
//
// The driver is platform agnostic: it is built on two capabilities supplied
// by the host, a bidirectional open-drain Line and a blocking Delayer.
//
//	d := dht11.New(line)
//	m, err := d.Measure(delay)
//	line = d.Release()
//
// Measure blocks the calling goroutine for ~20-25 ms and polls the line in a
// busy loop. Pulse widths are approximated by counting 1 µs delays.
package dht11

import "fmt"

// timeoutUs bounds every pulse wait, in 1 µs polling increments.
const timeoutUs = 1000

const frameBits = 40

// Line is the data pin. SetHigh releases the line so that the external
// pull-up raises it; it does not drive it high.
type Line interface {
	SetLow() error
	SetHigh() error
	IsHigh() (bool, error)
}

// Delayer provides blocking waits.
type Delayer interface {
	DelayUs(us uint32)
	DelayMs(ms uint32)
}

// Driver owns one Line.
type Driver[L Line] struct {
	line     L
	released bool
}

// New wraps line. No I/O is performed.
func New[L Line](line L) *Driver[L] {
	return &Driver[L]{line: line}
}

// Release gives the line back to the caller. The driver must not be used
// afterwards.
func (d *Driver[L]) Release() L {
	d.released = true
	line := d.line
	var zero L
	d.line = zero
	return line
}

// Measure performs one complete reading.
func (d *Driver[L]) Measure(delay Delayer) (Measurement, error) {
	if d.released {
		return Measurement{}, ErrReleased
	}

	if err := d.handshake(delay); err != nil {
		return Measurement{}, phaseError(PhaseHandshake, -1, err)
	}

	var f Frame
	for i := 0; i < frameBits; i++ {
		f[i/8] <<= 1
		bit, err := d.readBit(delay)
		if err != nil {
			return Measurement{}, phaseError(PhaseBits, i, err)
		}
		if bit {
			f[i/8] |= 1
		}
	}

	// The sensor ends the frame with a short low pulse.
	if _, err := d.waitFor(true, delay); err != nil {
		return Measurement{}, phaseError(PhaseTrailer, -1, err)
	}

	m, err := f.Decode()
	if err != nil {
		return Measurement{}, &MeasureError{Phase: PhaseChecksum, Bit: -1, Frame: f, Err: err}
	}
	return m, nil
}

func (d *Driver[L]) handshake(delay Delayer) error {
	if err := d.setHigh(); err != nil {
		return err
	}
	delay.DelayMs(1)

	// Start signal, at least 18 ms.
	if err := d.setLow(); err != nil {
		return err
	}
	delay.DelayMs(20)

	if err := d.setHigh(); err != nil {
		return err
	}
	delay.DelayUs(40)

	// The sensor acknowledges with ~80 µs low then ~80 µs high.
	_, err := d.readBit(delay)
	return err
}

// readBit measures one low pulse and the high pulse after it. A bit is set
// when the high phase is strictly longer.
func (d *Driver[L]) readBit(delay Delayer) (bool, error) {
	low, err := d.waitFor(true, delay)
	if err != nil {
		return false, err
	}
	high, err := d.waitFor(false, delay)
	if err != nil {
		return false, err
	}
	return high > low, nil
}

// waitFor polls until the line reaches level and returns the number of 1 µs
// increments spent waiting.
func (d *Driver[L]) waitFor(level bool, delay Delayer) (int, error) {
	count := 0
	for {
		high, err := d.line.IsHigh()
		if err != nil {
			return count, &LineError{Err: err}
		}
		if high == level {
			return count, nil
		}
		count++
		if count > timeoutUs {
			return count, ErrTimeout
		}
		delay.DelayUs(1)
	}
}

func (d *Driver[L]) setHigh() error {
	if err := d.line.SetHigh(); err != nil {
		return &LineError{Err: err}
	}
	return nil
}

func (d *Driver[L]) setLow() error {
	if err := d.line.SetLow(); err != nil {
		return &LineError{Err: err}
	}
	return nil
}

// Phase identifies the protocol step in which a measurement failed.
type Phase int

const (
	// PhaseIdle is the zero value. No MeasureError carries it.
	PhaseIdle Phase = iota
	PhaseHandshake
	PhaseBits
	PhaseTrailer
	PhaseChecksum
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseHandshake:
		return "handshake"
	case PhaseBits:
		return "bits"
	case PhaseTrailer:
		return "trailer"
	case PhaseChecksum:
		return "checksum"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
