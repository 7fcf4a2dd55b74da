package config

import (
	"strings"
	"testing"
)

const validConfig = `
[http]
host = "0.0.0.0"
port = 8080

[engine]
addrs = ["localhost:6379"]

[search]
default_page_size = 20
max_page_size = 50

[auth]
enabled = false
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.HTTP.Host != "0.0.0.0" {
		t.Errorf("host: got %q", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port: got %d", cfg.HTTP.Port)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("default_page_size: got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 50 {
		t.Errorf("max_page_size: got %d", cfg.Search.MaxPageSize)
	}
}

func TestParse_DefaultsApplied(t *testing.T) {
	cfg, err := Parse([]byte("[engine]\naddrs = [\"localhost:6379\"]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.HTTP.Host != "127.0.0.1" {
		t.Errorf("host default: got %q", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("port default: got %d", cfg.HTTP.Port)
	}
	if cfg.Engine.KeyPrefix != "searchgate:" {
		t.Errorf("key_prefix default: got %q", cfg.Engine.KeyPrefix)
	}
	if cfg.Search.DefaultPageSize != 10 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page size defaults: got %d/%d", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
}

func TestParse_MissingEngineAddrs(t *testing.T) {
	_, err := Parse([]byte("[http]\nport = 3000\n"))
	if err == nil || !strings.Contains(err.Error(), "engine.addrs") {
		t.Fatalf("expected engine.addrs error, got %v", err)
	}
}

func TestParse_MaxBelowDefaultPageSize(t *testing.T) {
	data := `
[engine]
addrs = ["localhost:6379"]

[search]
default_page_size = 50
max_page_size = 10
`
	_, err := Parse([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "max_page_size") {
		t.Fatalf("expected max_page_size error, got %v", err)
	}
}

func TestParse_AuthEnabledRequiresSecrets(t *testing.T) {
	data := `
[engine]
addrs = ["localhost:6379"]

[auth]
enabled = true
read_secret = "JBSWY3DPEHPK3PXP"
`
	_, err := Parse([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "write_secret") {
		t.Fatalf("expected write_secret error, got %v", err)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_ENGINE_ADDR", "engine.internal:6379")

	data := `
[engine]
addrs = ["${TEST_ENGINE_ADDR}"]
password = "${TEST_ENGINE_PASSWORD:-fallback}"
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := cfg.Engine.Addrs[0]; got != "engine.internal:6379" {
		t.Errorf("addr: got %q", got)
	}
	if cfg.Engine.Password != "fallback" {
		t.Errorf("password default: got %q", cfg.Engine.Password)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	_, err := Parse([]byte("not toml ==="))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParse_PortOutOfRange(t *testing.T) {
	data := `
[http]
port = 70000

[engine]
addrs = ["localhost:6379"]
`
	_, err := Parse([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "http.port") {
		t.Fatalf("expected http.port error, got %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("default env: got %q, want local", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("env: got %q, want prod", got)
	}
}
