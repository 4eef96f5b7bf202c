package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GNS-Foundation/gns-go/internal/composition/daemon"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	rpcAddr := flag.String("rpc-addr", "", "JSON-RPC listen address (default 127.0.0.1:8788)")
	configPath := flag.String("config", "", "Path to gnsd.yaml (optional)")
	dataDir := flag.String("data-dir", "", "Directory for daemon local data (optional)")
	rpcToken := flag.String("rpc-token", "", "RPC token for Authorization/X-GNS-RPC-Token (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("gnsd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := daemon.Build(daemon.Options{
		ConfigPath:      *configPath,
		RPCAddr:         *rpcAddr,
		DataDir:         *dataDir,
		RPCToken:        *rpcToken,
		StatePassphrase: os.Getenv("GNS_STATE_PASSPHRASE"),
	})
	if err != nil {
		log.Fatalf("gnsd failed to initialize: %v", err)
	}

	log.Println("gnsd starting")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("gnsd failed: %v", err)
	}
	log.Println("gnsd stopped")
}
