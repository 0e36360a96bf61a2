package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seconds != 5 || cfg.Pulse != time.Second || cfg.Port != "5175" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("WHATWORD_SECONDS", "8")
	t.Setenv("WHATWORD_PULSE", "250ms")
	t.Setenv("WHATWORD_CATEGORIES", "/tmp/cats.yaml")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seconds != 8 || cfg.Pulse != 250*time.Millisecond || cfg.Categories != "/tmp/cats.yaml" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseError(t *testing.T) {
	t.Setenv("WHATWORD_SECONDS", "lots")

	_, err := Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseRejectsZeroPulse(t *testing.T) {
	t.Setenv("WHATWORD_PULSE", "0s")
	if _, err := Parse(); err == nil {
		t.Fatal("expected error for zero pulse")
	}
}
