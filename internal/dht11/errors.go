// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dht11

import (
	"errors"
	"fmt"
)

// Errors returned by the driver. A failed Measure wraps exactly one of
// ErrTimeout, ErrCRCMismatch or a *LineError.
var (
	ErrTimeout     = errors.New("dht11: timeout")
	ErrCRCMismatch = errors.New("dht11: checksum mismatch")
	ErrReleased    = errors.New("dht11: driver released")
)

// LineError is a failure reported by the Line itself. Err is the line's
// error, unchanged.
type LineError struct {
	Err error
}

func (e *LineError) Error() string { return "dht11: line fault: " + e.Err.Error() }
func (e *LineError) Unwrap() error { return e.Err }

// MeasureError records where in the protocol a measurement stopped.
// Bit is the frame bit being read, or -1 outside the bit loop. Frame is
// only populated for checksum failures.
type MeasureError struct {
	Phase Phase
	Bit   int
	Frame Frame
	Err   error
}

func (e *MeasureError) Error() string {
	switch {
	case e.Phase == PhaseBits:
		return fmt.Sprintf("dht11: bit %d: %v", e.Bit, e.Err)
	case e.Phase == PhaseChecksum:
		return fmt.Sprintf("dht11: frame % x: %v", e.Frame[:], e.Err)
	default:
		return fmt.Sprintf("dht11: %s: %v", e.Phase, e.Err)
	}
}

func (e *MeasureError) Unwrap() error { return e.Err }

func phaseError(p Phase, bit int, err error) error {
	return &MeasureError{Phase: p, Bit: bit, Err: err}
}

// Kind returns a short stable code for err: "ok", "timeout",
// "crc_mismatch", "line_fault", "released" or "error".
func Kind(err error) string {
	var le *LineError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &le):
		return "line_fault"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCRCMismatch):
		return "crc_mismatch"
	case errors.Is(err, ErrReleased):
		return "released"
	default:
		return "error"
	}
}
