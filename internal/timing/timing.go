// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package timing provides host implementations of dht11.Delayer.
package timing

import (
	"fmt"
	"strings"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"periph.io/x/host/v3/cpu"
)

// Names accepted by New.
const (
	KindSpin  = "spin"
	KindSleep = "sleep"
)

// Spin busy-waits for every delay with cpu.Nanospin, so microsecond delays
// stay close to their nominal length even when the scheduler timer
// resolution is coarse.
type Spin struct {
	spin func(time.Duration)
}

// NewSpin returns a Spin delayer.
func NewSpin() *Spin {
	return &Spin{spin: cpu.Nanospin}
}

func (s *Spin) DelayUs(us uint32) { wait(s.spin, time.Duration(us)*time.Microsecond) }
func (s *Spin) DelayMs(ms uint32) { wait(s.spin, time.Duration(ms)*time.Millisecond) }

// Sleep spins for microsecond delays and yields to the scheduler for
// millisecond ones. Only the handshake uses DelayMs, so the thread is
// released for the ~21 ms start phase while pulse counting stays accurate.
type Sleep struct {
	spin  func(time.Duration)
	sleep func(time.Duration)
}

// NewSleep returns a Sleep delayer.
func NewSleep() *Sleep {
	return &Sleep{spin: cpu.Nanospin, sleep: time.Sleep}
}

func (s *Sleep) DelayUs(us uint32) { wait(s.spin, time.Duration(us)*time.Microsecond) }
func (s *Sleep) DelayMs(ms uint32) { wait(s.sleep, time.Duration(ms)*time.Millisecond) }

func wait(fn func(time.Duration), d time.Duration) {
	if d <= 0 {
		return
	}
	fn(d)
}

// New returns the delayer registered under kind.
func New(kind string) (dht11.Delayer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSpin, "":
		return NewSpin(), nil
	case KindSleep:
		return NewSleep(), nil
	default:
		return nil, fmt.Errorf("unknown delay kind %q (want %q or %q)", kind, KindSpin, KindSleep)
	}
}
