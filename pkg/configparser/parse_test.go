package configparser

import (
	"testing"
	"time"
)

type testConfig struct {
	Nested testNested

	Name    string        `env:"PARSE_TEST_NAME" default:"fallback"`
	Count   int           `env:"PARSE_TEST_COUNT" default:"42"`
	Ratio   float64       `env:"PARSE_TEST_RATIO" default:"0.5"`
	Enabled bool          `env:"PARSE_TEST_ENABLED" default:"true"`
	Wait    time.Duration `env:"PARSE_TEST_WAIT" default:"5s"`
}

type testNested struct {
	Port string `env:"PARSE_TEST_PORT" default:"8080"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "fallback" {
		t.Errorf("expected fallback, got %q", cfg.Name)
	}
	if cfg.Count != 42 {
		t.Errorf("expected 42, got %d", cfg.Count)
	}
	if cfg.Ratio != 0.5 {
		t.Errorf("expected 0.5, got %v", cfg.Ratio)
	}
	if !cfg.Enabled {
		t.Error("expected enabled by default")
	}
	if cfg.Wait != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Wait)
	}
	if cfg.Nested.Port != "8080" {
		t.Errorf("expected nested default 8080, got %q", cfg.Nested.Port)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("PARSE_TEST_NAME", "from-env")
	t.Setenv("PARSE_TEST_COUNT", "7")
	t.Setenv("PARSE_TEST_PORT", "9090")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Errorf("expected from-env, got %q", cfg.Name)
	}
	if cfg.Count != 7 {
		t.Errorf("expected 7, got %d", cfg.Count)
	}
	if cfg.Nested.Port != "9090" {
		t.Errorf("expected 9090, got %q", cfg.Nested.Port)
	}
}

func TestParseEnvInvalidValue(t *testing.T) {
	t.Setenv("PARSE_TEST_COUNT", "not-a-number")

	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected an error for a non-numeric count")
	}
}

func TestParseEnvRejectsNonPointer(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(cfg); err == nil {
		t.Fatal("expected an error for a non-pointer argument")
	}
}
