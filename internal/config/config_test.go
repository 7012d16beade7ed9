package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circ.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server: irc.example.net
port: 6697
nick: dave
username: dave
real_name: Dave Example
use_tls: true
verify_tls: true
use_sasl: true
autojoin:
  - "#linux"
  - "#go"
foreground: "#linux"
log_file: client.txt
debug: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server != "irc.example.net" {
		t.Errorf("Expected server irc.example.net, got %q", cfg.Server)
	}
	if cfg.Port != 6697 {
		t.Errorf("Expected port 6697, got %d", cfg.Port)
	}
	if !cfg.UseTLS || !cfg.VerifyTLS || !cfg.UseSASL {
		t.Error("TLS/SASL flags not loaded")
	}
	if len(cfg.Autojoin) != 2 || cfg.Autojoin[0] != "#linux" {
		t.Errorf("Wrong autojoin: %v", cfg.Autojoin)
	}
	if cfg.Foreground != "#linux" {
		t.Errorf("Expected foreground #linux, got %q", cfg.Foreground)
	}
	if cfg.Debug != 3 {
		t.Errorf("Expected debug 3, got %d", cfg.Debug)
	}
}

func TestLoadMinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: irc.example.net\nnick: dave\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 0 {
		t.Errorf("Expected port 0 (protocol default), got %d", cfg.Port)
	}
	if cfg.UseTLS {
		t.Error("TLS must default to off")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadDebugOutOfRange(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: s\nnick: n\ndebug: 11\n")); err == nil {
		t.Error("Expected error for out-of-range debug level")
	}
}
