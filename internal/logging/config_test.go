package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := ParseLevel(""); ok {
		t.Fatalf("expected empty level to be rejected")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "true")
	t.Setenv(EnvLogNoColor, "1")

	cfg := defaultConfig(ProfileTest)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel || !cfg.Timestamp || !cfg.NoColor {
		t.Fatalf("unexpected config after env overrides: %+v", cfg)
	}
}

func TestInvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "verbose")
	t.Setenv(EnvLogTimestamp, "maybe")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg != defaultConfig(ProfileRuntime) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestNewWritesApp(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "locusctl")
	logger.Error().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("locusctl")) {
		t.Fatalf("expected app field in %q", buf.String())
	}
}
