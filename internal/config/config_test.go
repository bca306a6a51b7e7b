package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UDPPort != 2002 {
		t.Fatalf("udp_port=%d want 2002", cfg.UDPPort)
	}
	if cfg.WebAddr != ":8000" {
		t.Fatalf("web_addr=%q want :8000", cfg.WebAddr)
	}
	if cfg.TauSeconds != 0 {
		t.Fatalf("tau_seconds=%v want 0", cfg.TauSeconds)
	}
	if diff := cmp.Diff([]string{"BSP", "TWA", "HDG"}, cfg.DisplayKeys); diff != "" {
		t.Fatalf("display keys mismatch (-want +got):\n%s", diff)
	}
	if cfg.Ingest.Source != "udp" {
		t.Fatalf("source=%q want udp", cfg.Ingest.Source)
	}
	if cfg.Ingest.Baud != 4800 {
		t.Fatalf("baud=%d want 4800", cfg.Ingest.Baud)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, strings.Join([]string{
		"udp_port: 10110",
		"web_addr: ':9000'",
		"tau_seconds: 1.5",
		"display_keys: [SOG, COG]",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UDPPort != 10110 || cfg.WebAddr != ":9000" || cfg.TauSeconds != 1.5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"SOG", "COG"}, cfg.DisplayKeys); diff != "" {
		t.Fatalf("display keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownDisplayKeysRejectedByName(t *testing.T) {
	path := writeTempConfig(t, "display_keys: [BSP, ZZZ, AAA]\n")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	// Both offenders must be reported, sorted.
	if got := err.Error(); got != "unknown display key(s): AAA, ZZZ" {
		t.Fatalf("error=%q", got)
	}
}

func TestLoad_NegativeTauRejected(t *testing.T) {
	path := writeTempConfig(t, "tau_seconds: -1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_BadPortRejected(t *testing.T) {
	path := writeTempConfig(t, "udp_port: 70000\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_SerialRequiresDevice(t *testing.T) {
	path := writeTempConfig(t, "ingest:\n  source: serial\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}

	path = writeTempConfig(t, "ingest:\n  source: serial\n  device: /dev/ttyUSB0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Ingest.Device != "/dev/ttyUSB0" {
		t.Fatalf("device=%q", cfg.Ingest.Device)
	}
}

func TestLoad_UnknownSourceRejected(t *testing.T) {
	path := writeTempConfig(t, "ingest:\n  source: carrier-pigeon\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFinalize_RevalidatesAfterOverride(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.DisplayKeys = []string{"NOPE"}
	if err := cfg.Finalize(); err == nil {
		t.Fatalf("expected error after override")
	}
}
