// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/dht_sensor/internal/dht11"
	"periph.io/x/conn/v3/physic"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestFromMeasurement(t *testing.T) {
	s := FromMeasurement("porch", testTime, dht11.Measurement{Temperature: -15.2, Humidity: 20})
	if s.Source != "porch" || !s.Time.Equal(testTime) {
		t.Fatalf("unexpected stamp: %+v", s)
	}
	if s.Temperature != -15.2 || s.Humidity != 20 {
		t.Fatalf("unexpected values: %+v", s)
	}
}

func TestSampleEnv(t *testing.T) {
	s := Sample{Temperature: 21.5, Humidity: 45.7}
	e := s.Env()

	if got := e.Temperature.Celsius(); math.Abs(got-21.5) > 1e-9 {
		t.Errorf("temperature: got %v°C want 21.5°C", got)
	}
	if got, want := e.Humidity, 457*(physic.PercentRH/10); got != want {
		t.Errorf("humidity: got %v want %v", got, want)
	}
	if e.Pressure != 0 {
		t.Errorf("pressure: got %v want 0", e.Pressure)
	}

	neg := Sample{Temperature: -15.2}.Env()
	if got := neg.Temperature.Celsius(); math.Abs(got+15.2) > 1e-9 {
		t.Errorf("negative temperature: got %v°C want -15.2°C", got)
	}
}

func TestFormatText(t *testing.T) {
	got, err := FormatText(Sample{Source: "porch", Time: testTime, Temperature: -15.2, Humidity: 20})
	if err != nil {
		t.Fatal(err)
	}
	want := "[DHT ]  2026-03-14T09:26:53Z  src=porch  TEMP= -15.2°C  HUM= 20.0%"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	got, err := FormatJSON(Sample{Source: "porch", Time: testTime, Temperature: 21, Humidity: 50})
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if m["source"] != "porch" || m["temp_c"] != 21.0 || m["humidity_pct"] != 50.0 {
		t.Errorf("unexpected fields: %v", m)
	}
	if m["time"] != "2026-03-14T09:26:53Z" {
		t.Errorf("unexpected time: %v", m["time"])
	}
}

func TestFormatXDR(t *testing.T) {
	got, err := FormatXDR(Sample{Source: "porch", Temperature: 21, Humidity: 50})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "$WIXDR,C,21.0,C,porch,H,50.0,P,porch*") {
		t.Fatalf("unexpected sentence %q", got)
	}

	s, err := ParseXDR(got)
	if err != nil {
		t.Fatalf("parse own output: %v", err)
	}
	if s.Source != "porch" || s.Temperature != 21 || s.Humidity != 50 {
		t.Errorf("parsed %+v", s)
	}
}

func TestFormatXDRNegativeAndUnsafeName(t *testing.T) {
	got, err := FormatXDR(Sample{Source: "attic,north*", Temperature: -15.2, Humidity: 20})
	if err != nil {
		t.Fatal(err)
	}
	s, err := ParseXDR(got)
	if err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
	if s.Source != "attic_north_" || s.Temperature != -15.2 || s.Humidity != 20 {
		t.Errorf("parsed %+v from %q", s, got)
	}
}

func TestParseXDRRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"$WIXDR,C,21.0,C,porch,H,50.0,P,porch*00",
		"$WIXDR,C,21.0,C,porch*" + xdrChecksum("WIXDR,C,21.0,C,porch"),
	} {
		if _, err := ParseXDR(line); err == nil {
			t.Errorf("ParseXDR(%q): expected error", line)
		}
	}
}

func xdrChecksum(body string) string {
	var c byte
	for i := 0; i < len(body); i++ {
		c ^= body[i]
	}
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[c>>4], hex[c&0x0f]})
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "JSON", "xdr"} {
		if _, err := NewFormatter(name); err != nil {
			t.Errorf("NewFormatter(%q): %v", name, err)
		}
	}
	if _, err := NewFormatter("csv"); err == nil {
		t.Error("NewFormatter(csv): expected error")
	}
}
