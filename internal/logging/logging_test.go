// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q): got (%v, %v) want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	var buf bytes.Buffer
	InitWriter(&buf, "dht-test", "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("kind", "timeout").Msg("reading failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "reading failed") || !strings.Contains(out, "dht-test") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestInitWriterEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	var buf bytes.Buffer
	logger := InitWriter(&buf, "dht-test", "debug")
	if logger.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("level: got %v want %v", logger.GetLevel(), zerolog.ErrorLevel)
	}
}
