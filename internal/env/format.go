// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Formatter renders one sample as a single output line (no newline).
type Formatter func(Sample) (string, error)

// Output formats.
const (
	FormatNameText = "text"
	FormatNameJSON = "json"
	FormatNameXDR  = "xdr"
)

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatNameText, "":
		return FormatText, nil
	case FormatNameJSON:
		return FormatJSON, nil
	case FormatNameXDR:
		return FormatXDR, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// FormatText renders a human readable console line.
func FormatText(s Sample) (string, error) {
	return fmt.Sprintf(
		"[DHT ]  %s  src=%s  TEMP=%6.1f°C  HUM=%5.1f%%",
		s.Time.UTC().Format(time.RFC3339), s.Source, s.Temperature, s.Humidity,
	), nil
}

// FormatJSON renders the sample as a JSON object.
func FormatJSON(s Sample) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("json marshal sample: %w", err)
	}
	return string(b), nil
}

// xdrTalker is the NMEA talker ID for weather instruments.
const xdrTalker = "WI"

// FormatXDR renders the sample as an NMEA 0183 XDR transducer sentence:
//
//	$WIXDR,C,21.0,C,<src>,H,50.0,P,<src>*hh
//
// Temperature uses transducer type C (unit C), humidity type H (unit P, percent).
func FormatXDR(s Sample) (string, error) {
	name := xdrName(s.Source)
	body := fmt.Sprintf("%sXDR,C,%.1f,C,%s,H,%.1f,P,%s",
		xdrTalker, s.Temperature, name, s.Humidity, name)
	return "$" + body + "*" + nmea.Checksum(body), nil
}

// ParseXDR reads a sentence produced by FormatXDR back into a Sample.
// Time is not carried by XDR and is left zero.
func ParseXDR(line string) (Sample, error) {
	sentence, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return Sample{}, fmt.Errorf("parse xdr: %w", err)
	}
	xdr, ok := sentence.(nmea.XDR)
	if !ok {
		return Sample{}, fmt.Errorf("parse xdr: unexpected sentence type %s", sentence.DataType())
	}

	var s Sample
	var haveTemp, haveHum bool
	for _, m := range xdr.Measurements {
		switch {
		case m.TransducerType == "C" && m.Unit == "C":
			s.Temperature = m.Value
			s.Source = m.TransducerName
			haveTemp = true
		case m.TransducerType == "H" && m.Unit == "P":
			s.Humidity = m.Value
			haveHum = true
		}
	}
	if !haveTemp || !haveHum {
		return Sample{}, fmt.Errorf("parse xdr: sentence lacks temperature or humidity: %q", line)
	}
	return s, nil
}

// xdrName makes source safe for an NMEA field.
func xdrName(source string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '*' || r == '$' || r == '!' || r == '\\':
			return '_'
		case r < 0x20 || r > 0x7e:
			return -1
		}
		return r
	}, source)
	if name == "" {
		return "DHT11"
	}
	return name
}
