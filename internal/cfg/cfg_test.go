package cfg

import (
	"flag"
	"strings"
	"testing"
)

// validBase returns a Config with all required fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
		ClaudeAPIKey:          "sk-test-key",
		ClaudeModel:           "claude-sonnet-4-20250514",
		JWTSecret:             "test-signing-secret",
		JWTExpiryHours:        24,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.ClaudeModel != "claude-sonnet-4-20250514" {
		t.Errorf("ClaudeModel = %q, want %q", c.ClaudeModel, "claude-sonnet-4-20250514")
	}
	if c.JWTExpiryHours != 24 {
		t.Errorf("JWTExpiryHours = %d, want 24", c.JWTExpiryHours)
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-http-port", "9090",
		"-drain-seconds", "10",
		"-shutdown-budget-seconds", "30",
		"-jwt-secret", "s3cret",
		"-database-url", "postgres://localhost/beacon",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.DrainSeconds != 10 {
		t.Errorf("DrainSeconds = %d, want 10", c.DrainSeconds)
	}
	if c.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q, want %q", c.JWTSecret, "s3cret")
	}
	if c.DatabaseURL != "postgres://localhost/beacon" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_NoClaudeKeyIsValid(t *testing.T) {
	t.Parallel()

	c := validBase()
	c.ClaudeAPIKey = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate without Claude key: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"zero drain", func(c *Config) { c.DrainSeconds = 0 }, "DRAIN_SECONDS"},
		{"drain too large", func(c *Config) { c.DrainSeconds = 301 }, "DRAIN_SECONDS"},
		{"zero shutdown budget", func(c *Config) { c.ShutdownBudgetSeconds = 0 }, "SHUTDOWN_BUDGET_SECONDS"},
		{"budget not above drain", func(c *Config) { c.ShutdownBudgetSeconds = c.DrainSeconds }, "must be greater than"},
		{"zero port", func(c *Config) { c.APIPort = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.APIPort = 70000 }, "HTTP_PORT"},
		{"key without model", func(c *Config) { c.ClaudeModel = "" }, "CLAUDE_MODEL"},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"zero expiry", func(c *Config) { c.JWTExpiryHours = 0 }, "JWT_EXPIRY_HOURS"},
		{"expiry too large", func(c *Config) { c.JWTExpiryHours = 169 }, "JWT_EXPIRY_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validBase()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}
