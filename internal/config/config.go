package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration. Flags on the command line
// override values loaded from the file.
type Config struct {
	Server     string   `yaml:"server"`
	Port       int      `yaml:"port"` // 0 picks the protocol default
	Nick       string   `yaml:"nick"`
	Username   string   `yaml:"username"`
	RealName   string   `yaml:"real_name"`
	Password   string   `yaml:"password"`
	UseTLS     bool     `yaml:"use_tls"`
	VerifyTLS  bool     `yaml:"verify_tls"`
	UseSASL    bool     `yaml:"use_sasl"`
	Autojoin   []string `yaml:"autojoin"`
	Foreground string   `yaml:"foreground"` // default channel for bare input
	LogFile    string   `yaml:"log_file"`   // session transcript, empty disables
	Debug      int      `yaml:"debug"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Debug < 0 || cfg.Debug > 10 {
		return nil, fmt.Errorf("debug level %d out of range 0-10", cfg.Debug)
	}

	return &cfg, nil
}
