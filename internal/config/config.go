package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"nmea2web/internal/metric"
)

type Config struct {
	// UDPPort is the datagram port NMEA sentences arrive on.
	UDPPort int `yaml:"udp_port"`

	// WebAddr is the HTTP/WebSocket listen address, e.g. ":8000".
	WebAddr string `yaml:"web_addr"`

	// TauSeconds is the smoothing time constant. Zero disables smoothing.
	TauSeconds float64 `yaml:"tau_seconds"`

	// DisplayKeys selects which metric cells the dashboard shows.
	DisplayKeys []string `yaml:"display_keys"`

	Ingest IngestConfig `yaml:"ingest"`

	// LogLines bounds the in-memory log ring served at /api/logs.
	LogLines int `yaml:"log_lines"`
}

type IngestConfig struct {
	// Source selects the sentence source: "udp" (default) or "serial".
	Source string `yaml:"source"`

	// Device and Baud apply to Source=="serial".
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// Load reads the YAML config at path, applies defaults and validates.
// An empty path yields a default config (flag-only operation).
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Finalize applies defaults and validates. Callers that override fields
// after Load (flag overrides) must call it again.
func (c *Config) Finalize() error {
	if c.UDPPort == 0 {
		c.UDPPort = 2002
	}
	if c.WebAddr == "" {
		c.WebAddr = ":8000"
	}
	if len(c.DisplayKeys) == 0 {
		c.DisplayKeys = []string{"BSP", "TWA", "HDG"}
	}
	if c.LogLines <= 0 {
		c.LogLines = 2000
	}
	if c.Ingest.Source == "" {
		c.Ingest.Source = "udp"
	}
	if c.Ingest.Baud == 0 {
		c.Ingest.Baud = 4800
	}

	if c.UDPPort < 1 || c.UDPPort > 65535 {
		return fmt.Errorf("udp_port must be in [1,65535]")
	}
	if c.TauSeconds < 0 {
		return fmt.Errorf("tau_seconds must be >= 0")
	}
	switch c.Ingest.Source {
	case "udp", "serial":
	default:
		return fmt.Errorf("ingest.source must be \"udp\" or \"serial\"")
	}
	if c.Ingest.Source == "serial" && strings.TrimSpace(c.Ingest.Device) == "" {
		return fmt.Errorf("ingest.device is required when ingest.source is serial")
	}

	var unknown []string
	for _, k := range c.DisplayKeys {
		if _, ok := metric.Defs[metric.Key(k)]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown display key(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}
