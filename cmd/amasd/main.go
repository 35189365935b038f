// Command amasd is the long-running AMAS façade: an engine instance behind
// the minimal ops HTTP surface (/healthz, /metrics). It carries no
// business API of its own — an embedding application calls
// engine.Engine.ProcessEvent directly as a library, or fronts it with its
// own transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tutu-network/amas/internal/cli"
	"github.com/tutu-network/amas/internal/config"
	"github.com/tutu-network/amas/internal/ops"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file (defaults are used if empty)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("[amasd] load config: %v", err)
		}
		cfg = loaded
	}

	reg := prometheus.NewRegistry()
	_, closeStore, err := cli.NewEngine(cfg, reg)
	if err != nil {
		log.Fatalf("[amasd] wire engine: %v", err)
	}
	defer closeStore()

	server := ops.NewServer(reg, cfg.Metrics.Enabled, nil)
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[amasd] ops server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[amasd] ops server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[amasd] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[amasd] shutdown error: %v", err)
	}
}
