package daemon

import (
	"path/filepath"

	"github.com/GNS-Foundation/gns-go/internal/adapters/rpc"
	"github.com/GNS-Foundation/gns-go/internal/app"
	"github.com/GNS-Foundation/gns-go/internal/config"
	"github.com/GNS-Foundation/gns-go/internal/metrics"
	"github.com/GNS-Foundation/gns-go/internal/platform/ratelimiter"
	"github.com/GNS-Foundation/gns-go/internal/registry"
	"github.com/GNS-Foundation/gns-go/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

// Options are the command-line overrides layered on top of the config file.
type Options struct {
	ConfigPath string
	RPCAddr    string
	DataDir    string
	RPCToken   string
	// StatePassphrase unlocks the on-disk trajectory stores. Identity key
	// material always requires its own passphrase at the RPC layer.
	StatePassphrase string
}

// Build wires stores, registry client, metrics and the RPC server.
func Build(opts Options) (*rpc.Server, error) {
	cfg := config.Load(opts.ConfigPath)
	if opts.RPCAddr != "" {
		cfg.RPC.Addr = opts.RPCAddr
	}
	if opts.DataDir != "" {
		cfg.Storage.DataDir = opts.DataDir
	}
	if opts.RPCToken != "" {
		cfg.RPC.Token = opts.RPCToken
	}

	dataDir := cfg.Storage.DataDir

	var pending *storage.PendingStore
	var epochs *storage.EpochStore
	var err error
	if opts.StatePassphrase != "" {
		pending, err = storage.NewPersistentPendingStore(filepath.Join(dataDir, "pending.enc"), opts.StatePassphrase, cfg.Trajectory.MaxPending)
		if err != nil {
			return nil, err
		}
		epochs, err = storage.NewPersistentEpochStore(filepath.Join(dataDir, "epochs.enc"), opts.StatePassphrase)
		if err != nil {
			return nil, err
		}
	} else {
		pending = storage.NewPendingStore(cfg.Trajectory.MaxPending)
		epochs = storage.NewEpochStore()
	}

	var reg app.RegistryClient
	if cfg.Registry.BaseURL != "" {
		reg = registry.NewClient(cfg.Registry.BaseURL, cfg.Registry.Timeout)
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	svc := app.NewService(app.Options{
		IdentityStore:  storage.NewIdentityStore(filepath.Join(dataDir, "identity.enc")),
		PendingStore:   pending,
		EpochStore:     epochs,
		Registry:       reg,
		Weights:        cfg.Trust,
		FlushThreshold: cfg.Trajectory.FlushThreshold,
		Metrics:        m,
	})

	return rpc.NewServer(svc, rpc.ServerOptions{
		Addr:     cfg.RPC.Addr,
		Token:    cfg.RPC.Token,
		Limiter:  ratelimiter.New(cfg.RPC.RateRPS, cfg.RPC.RateBurst, 0),
		Metrics:  m,
		Gatherer: promReg,
	}), nil
}
