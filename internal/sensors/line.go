// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
)

// PeriphLine drives a DHT11 data pin through periph.io.
type PeriphLine struct {
	pin gpio.PinIO
}

// NewPeriphLine wraps pin. The pin is not touched.
func NewPeriphLine(pin gpio.PinIO) *PeriphLine {
	return &PeriphLine{pin: pin}
}

func (l *PeriphLine) SetLow() error {
	return l.pin.Out(gpio.Low)
}

// SetHigh switches the pin to input so the pull-up raises the line.
func (l *PeriphLine) SetHigh() error {
	return l.pin.In(gpio.PullUp, gpio.NoEdge)
}

func (l *PeriphLine) IsHigh() (bool, error) {
	return l.pin.Read() == gpio.High, nil
}

// Pin returns the wrapped pin.
func (l *PeriphLine) Pin() gpio.PinIO { return l.pin }

func (l *PeriphLine) String() string { return l.pin.Name() }

// RpioLine drives a DHT11 data pin through /dev/gpiomem. Register access
// is memory mapped, so a read costs far less than a 1 µs polling step.
// rpio.Open must have been called.
type RpioLine struct {
	pin rpio.Pin
}

// NewRpioLine wraps BCM pin n and enables its pull-up.
func NewRpioLine(n uint8) *RpioLine {
	pin := rpio.Pin(n)
	pin.Input()
	pin.PullUp()
	return &RpioLine{pin: pin}
}

// SetLow latches a low level before switching to output so the line never
// sees a high glitch.
func (l *RpioLine) SetLow() error {
	l.pin.Low()
	l.pin.Output()
	return nil
}

func (l *RpioLine) SetHigh() error {
	l.pin.Input()
	return nil
}

func (l *RpioLine) IsHigh() (bool, error) {
	return l.pin.Read() == rpio.High, nil
}
