package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.RPC.Addr != "127.0.0.1:8788" {
		t.Fatalf("default rpc addr = %q", cfg.RPC.Addr)
	}
	if cfg.Trajectory.FlushThreshold != 100 || cfg.Trajectory.MaxPending != 1000 {
		t.Fatalf("default trajectory config = %+v", cfg.Trajectory)
	}
	if cfg.Trust.PerBreadcrumb != 0.2 || cfg.Trust.HandleBonus != 10 {
		t.Fatalf("default trust weights = %+v", cfg.Trust)
	}
	if cfg.Storage.DataDir == "" {
		t.Fatal("default data dir must not be empty")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.RPC.Addr != Default().RPC.Addr {
		t.Fatalf("missing file must yield defaults, got addr %q", cfg.RPC.Addr)
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnsd.yaml")
	body := `
rpc:
  addr: "127.0.0.1:9900"
  token: "sekrit"
trajectory:
  flushThreshold: 25
trust:
  handleBonus: 15
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)
	if cfg.RPC.Addr != "127.0.0.1:9900" {
		t.Fatalf("rpc addr = %q, want file value", cfg.RPC.Addr)
	}
	if cfg.RPC.Token != "sekrit" {
		t.Fatalf("rpc token = %q, want file value", cfg.RPC.Token)
	}
	if cfg.Trajectory.FlushThreshold != 25 {
		t.Fatalf("flush threshold = %d, want 25", cfg.Trajectory.FlushThreshold)
	}
	if cfg.Trust.HandleBonus != 15 {
		t.Fatalf("handle bonus = %v, want file value", cfg.Trust.HandleBonus)
	}
	// Untouched fields keep their defaults.
	if cfg.Trajectory.MaxPending != 1000 {
		t.Fatalf("max pending = %d, want default 1000", cfg.Trajectory.MaxPending)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnsd.yaml")
	if err := os.WriteFile(path, []byte("rpc:\n  addr: \"127.0.0.1:9900\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GNS_RPC_ADDR", "127.0.0.1:7000")
	t.Setenv("GNS_RPC_TOKEN", "envtoken")
	t.Setenv("GNS_FLUSH_THRESHOLD", "7")
	t.Setenv("GNS_REGISTRY_URL", "http://registry.local")

	cfg := Load(path)
	if cfg.RPC.Addr != "127.0.0.1:7000" {
		t.Fatalf("rpc addr = %q, env must win", cfg.RPC.Addr)
	}
	if cfg.RPC.Token != "envtoken" {
		t.Fatalf("rpc token = %q, env must win", cfg.RPC.Token)
	}
	if cfg.Trajectory.FlushThreshold != 7 {
		t.Fatalf("flush threshold = %d, env must win", cfg.Trajectory.FlushThreshold)
	}
	if cfg.Registry.BaseURL != "http://registry.local" {
		t.Fatalf("registry url = %q, env must win", cfg.Registry.BaseURL)
	}
}

func TestEnvOverrideRejectsBadThreshold(t *testing.T) {
	t.Setenv("GNS_FLUSH_THRESHOLD", "not-a-number")
	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Trajectory.FlushThreshold != 100 {
		t.Fatalf("bad env value must be ignored, got %d", cfg.Trajectory.FlushThreshold)
	}
}
