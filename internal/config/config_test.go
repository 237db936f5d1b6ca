package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Presence.Window != DefaultPresenceWindow {
		t.Errorf("presence.window: got %v, want %v", cfg.Server.Presence.Window, DefaultPresenceWindow)
	}
	if cfg.Server.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want %v", cfg.Server.Stream.Interval, DefaultStreamInterval)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-keygate-key
  presence:
    window: 3m
  store:
    seed_path: fixtures/seed.yaml
    watch: true
  stream:
    interval: 10s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if cfg.Server.Auth.Mode != "apikey" {
		t.Errorf("auth.mode: got %q, want apikey", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Auth.EffectiveHeader() != "x-keygate-key" {
		t.Errorf("header: got %q, want x-keygate-key", cfg.Server.Auth.EffectiveHeader())
	}
	if cfg.Server.Presence.Window != 3*time.Minute {
		t.Errorf("presence.window: got %v, want 3m", cfg.Server.Presence.Window)
	}
	if cfg.Server.Store.SeedPath != "fixtures/seed.yaml" || !cfg.Server.Store.Watch {
		t.Errorf("store: got %+v", cfg.Server.Store)
	}
	if cfg.Server.Stream.Interval != 10*time.Second {
		t.Errorf("stream.interval: got %v, want 10s", cfg.Server.Stream.Interval)
	}
}

func TestLoad_DefaultHeader(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: K
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := cfg.Server.Auth.EffectiveHeader(); h != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", h)
	}
}

func TestAuthKey_ResolvedFromEnv(t *testing.T) {
	t.Setenv("KEYGATE_TEST_KEY", "sekrit")
	a := AuthConfig{KeyEnv: "KEYGATE_TEST_KEY"}
	if got := a.Key(); got != "sekrit" {
		t.Errorf("Key: got %q, want sekrit", got)
	}
	if got := (AuthConfig{}).Key(); got != "" {
		t.Errorf("Key with no KeyEnv: got %q, want empty", got)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 99999
`)
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "http_port") {
		t.Errorf("err: got %v, want http_port range error", err)
	}
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: oauth
`)
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "auth.mode") {
		t.Errorf("err: got %v, want auth.mode error", err)
	}
}

func TestLoad_NegativeWindow(t *testing.T) {
	p := writeConfig(t, `server:
  presence:
    window: -1m
`)
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "presence.window") {
		t.Errorf("err: got %v, want presence.window error", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
