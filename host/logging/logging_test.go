package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected zerolog.Level
		ok       bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"trace", zerolog.TraceLevel, true},
		{"loud", zerolog.InfoLevel, false},
	}

	for _, tc := range testCases {
		lvl, ok := ParseLevel(tc.in)
		if lvl != tc.expected || ok != tc.ok {
			t.Errorf("ParseLevel(%q): expected (%v, %v), got (%v, %v)", tc.in, tc.expected, tc.ok, lvl, ok)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")
	t.Setenv(EnvLogTimestamp, "not-a-bool")

	cfg := DefaultConfig(ProfileRuntime)
	ApplyEnv(&cfg)

	if cfg.Level != zerolog.ErrorLevel {
		t.Errorf("Expected error level, got %v", cfg.Level)
	}
	if !cfg.NoColor {
		t.Error("Expected NoColor from env")
	}
	if !cfg.Timestamp {
		t.Error("Invalid bool must leave Timestamp unchanged")
	}
}

func TestNewWritesConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig(ProfileTest)
	cfg.Out = &buf

	logger := New("pardisplay-test", cfg)
	logger.Info().Str("device", "/dev/parport0").Msg("port opened")
	logger.Trace().Msg("dropped")

	out := buf.String()
	if !strings.Contains(out, "port opened") || !strings.Contains(out, "device=/dev/parport0") {
		t.Errorf("Unexpected log output: %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Errorf("Trace message logged at debug level: %q", out)
	}
}
