package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (stand-in for testing.T.Chdir,
// which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func unsetAll(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile,
		EnvHTTPPort,
		EnvCompressorURL,
		EnvCompressorAPIKey,
		EnvCompressorTimeout,
		EnvSweepSchedule,
		EnvLogLevel,
		EnvLogFormat,
	} {
		// Setenv registers the restore, Unsetenv clears the value for this test.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unsetAll(t)
		chdir(t, t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg != Default() {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
		if cfg.CompressionEnabled() {
			t.Fatalf("expected compression to be disabled without an API key")
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		unsetAll(t)
		chdir(t, t.TempDir())
		t.Setenv(EnvHTTPPort, "9090")
		t.Setenv(EnvCompressorURL, "http://localhost:9999")
		t.Setenv(EnvCompressorAPIKey, "key")
		t.Setenv(EnvCompressorTimeout, "3s")
		t.Setenv(EnvSweepSchedule, "")
		t.Setenv(EnvLogLevel, "debug")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.CompressorTimeout != 3*time.Second {
			t.Fatalf("expected 3s timeout, got %s", cfg.CompressorTimeout)
		}
		if cfg.SweepSchedule != "" {
			t.Fatalf("expected explicit empty schedule to disable the sweep, got %q", cfg.SweepSchedule)
		}
		if !cfg.CompressionEnabled() || cfg.CompressorURL != "http://localhost:9999" || cfg.LogLevel != "debug" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("reports invalid values", func(t *testing.T) {
		unsetAll(t)
		chdir(t, t.TempDir())
		t.Setenv(EnvHTTPPort, "http")
		t.Setenv(EnvCompressorTimeout, "-1s")

		_, err := Load("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid configuration values: REMINDERS_HTTP_PORT, REMINDERS_COMPRESSOR_TIMEOUT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoader_ConfigFile(t *testing.T) {
	t.Run("environment overrides file values", func(t *testing.T) {
		unsetAll(t)
		dir := t.TempDir()
		chdir(t, dir)

		path := filepath.Join(dir, "reminders.yaml")
		content := "http_port: 7070\ncompressor_timeout: 5s\nsweep_schedule: \"*/5 * * * *\"\nlog_format: text\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(EnvHTTPPort, "6060")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 6060 {
			t.Fatalf("expected environment port, got %d", cfg.HTTPPort)
		}
		if cfg.CompressorTimeout != 5*time.Second || cfg.SweepSchedule != "*/5 * * * *" || cfg.LogFormat != "text" {
			t.Fatalf("expected file values, got %+v", cfg)
		}
	})

	t.Run("config file named by environment", func(t *testing.T) {
		unsetAll(t)
		dir := t.TempDir()
		chdir(t, dir)

		path := filepath.Join(dir, "reminders.yaml")
		if err := os.WriteFile(path, []byte("compressor_api_key: from-file\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(EnvConfigFile, path)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.CompressorAPIKey != "from-file" {
			t.Fatalf("expected key from file, got %q", cfg.CompressorAPIKey)
		}
	})

	t.Run("dotenv file is applied", func(t *testing.T) {
		unsetAll(t)
		dir := t.TempDir()
		chdir(t, dir)

		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REMINDERS_LOG_LEVEL=warn\n"), 0o600); err != nil {
			t.Fatalf("write .env: %v", err)
		}

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.LogLevel != "warn" {
			t.Fatalf("expected level from .env, got %q", cfg.LogLevel)
		}
		// godotenv writes into the process environment.
		_ = os.Unsetenv(EnvLogLevel)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		unsetAll(t)
		chdir(t, t.TempDir())

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Fatalf("expected missing file error, got %v", err)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		unsetAll(t)
		dir := t.TempDir()
		chdir(t, dir)

		path := filepath.Join(dir, "reminders.yaml")
		if err := os.WriteFile(path, []byte("http_port: [\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}
