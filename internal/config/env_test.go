package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_VALUE", "set")
	if got := GetEnv("INVADERS_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want %q", got, "set")
	}
	if got := GetEnv("INVADERS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv missing = %q, want %q", got, "fallback")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"nope", true, true},
	}
	for _, tt := range tests {
		t.Setenv("INVADERS_TEST_BOOL", tt.value)
		if got := GetEnvBool("INVADERS_TEST_BOOL", tt.fallback); got != tt.want {
			t.Errorf("GetEnvBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("INVADERS_TEST_DURATION", "250ms")
	if got := GetEnvDuration("INVADERS_TEST_DURATION", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, want 250ms", got)
	}

	t.Setenv("INVADERS_TEST_DURATION", "soon")
	if got := GetEnvDuration("INVADERS_TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration malformed = %v, want fallback", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("level = %v, want warn", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q, want only the warning", out)
	}
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if got := NewLogger(&bytes.Buffer{}, "").GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}
}
