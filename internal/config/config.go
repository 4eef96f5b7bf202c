package config

import (
	"os"
	"strconv"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/trust"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RPC        RPCConfig        `yaml:"rpc"`
	Storage    StorageConfig    `yaml:"storage"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Registry   RegistryConfig   `yaml:"registry"`
	Trust      trust.Weights    `yaml:"trust"`
}

type RPCConfig struct {
	Addr      string  `yaml:"addr"`
	Token     string  `yaml:"token"`
	RateRPS   float64 `yaml:"rateRps"`
	RateBurst int     `yaml:"rateBurst"`
}

type StorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

type TrajectoryConfig struct {
	// FlushThreshold is the pending count at which an epoch is published
	// automatically; 0 disables auto-publish.
	FlushThreshold int `yaml:"flushThreshold"`
	MaxPending     int `yaml:"maxPending"`
}

type RegistryConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		RPC: RPCConfig{
			Addr:      "127.0.0.1:8788",
			RateRPS:   20,
			RateBurst: 40,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Trajectory: TrajectoryConfig{
			FlushThreshold: 100,
			MaxPending:     1000,
		},
		Registry: RegistryConfig{
			Timeout: 10 * time.Second,
		},
		Trust: trust.DefaultWeights(),
	}
}

// Load reads the config file if present, layering it over defaults, then
// applies environment overrides. A missing or unreadable file falls back to
// defaults silently; the daemon must start without any configuration.
func Load(path string) Config {
	cfg := Default()

	candidates := []string{path}
	if path == "" {
		candidates = []string{"configs/gnsd.yaml", "gnsd.yaml"}
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			continue
		}
		break
	}

	applyEnvOverrides(&cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GNS_RPC_ADDR"); v != "" {
		cfg.RPC.Addr = v
	}
	if v := os.Getenv("GNS_RPC_TOKEN"); v != "" {
		cfg.RPC.Token = v
	}
	if v := os.Getenv("GNS_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("GNS_REGISTRY_URL"); v != "" {
		cfg.Registry.BaseURL = v
	}
	if v := os.Getenv("GNS_FLUSH_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Trajectory.FlushThreshold = n
		}
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gns"
	}
	return home + "/.gns"
}
