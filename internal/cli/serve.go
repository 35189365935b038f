package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tutu-network/amas/internal/config"
	"github.com/tutu-network/amas/internal/infra/engine"
	"github.com/tutu-network/amas/internal/infra/metrics"
	"github.com/tutu-network/amas/internal/ops"
	"github.com/tutu-network/amas/internal/store/memstore"
	"github.com/tutu-network/amas/internal/store/sqlitestore"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a TOML config file (defaults are used if empty)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the AMAS ops HTTP server (health and metrics only)",
	Long: `serve starts the long-running ops surface: /healthz and /metrics.
It does not expose a business API for submitting events — that is a
collaborator concern left to the embedding application, per the
engine's façade contract.`,
	RunE: runServe,
}

// NewEngine wires an engine.Engine from cfg, selecting the store adapter
// named by cfg.Store.Driver. It is exported so cmd/amasd can reuse the
// exact same wiring logic instead of duplicating it.
func NewEngine(cfg config.Config, reg *prometheus.Registry) (*engine.Engine, func() error, error) {
	metricsReg := metrics.NewRegistry(reg)

	switch cfg.Store.Driver {
	case "sqlite":
		s, err := sqlitestore.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		eng := engine.New(cfg.Engine, s, engine.SystemClock{}, engine.NewSeededRNG(), metricsReg)
		return eng, s.Close, nil
	default:
		s := memstore.New()
		eng := engine.New(cfg.Engine, s, engine.SystemClock{}, engine.NewSeededRNG(), metricsReg)
		return eng, func() error { return nil }, nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	reg := prometheus.NewRegistry()
	_, closeStore, err := NewEngine(cfg, reg)
	if err != nil {
		return err
	}
	defer closeStore()

	server := ops.NewServer(reg, cfg.Metrics.Enabled, nil)
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	log.Printf("[amasd] ops server listening on %s", addr)

	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "amasd: %v\n", err)
		return err
	}
	return nil
}
