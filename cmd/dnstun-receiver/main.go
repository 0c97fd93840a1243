// Command dnstun-receiver listens for DNS-over-TCP query packets encoding
// file chunks and reassembles them on disk.
//
// Usage:
//
//	dnstun-receiver [-config PATH] BASE_HOST DST_DIRPATH
//
// The positional arguments are the wire-protocol's only required inputs
// (§6). Everything else — transfer-history persistence, the read-only
// status HTTP surface, periodic host telemetry — is optional daemon
// configuration layered on top via internal/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnstun/dnstun/internal/config"
	"github.com/dnstun/dnstun/internal/history"
	"github.com/dnstun/dnstun/internal/hostinfo"
	"github.com/dnstun/dnstun/internal/logging"
	"github.com/dnstun/dnstun/internal/statusapi"
	"github.com/dnstun/dnstun/internal/tunnel"
)

const usageSynopsis = "usage: dnstun-receiver [-config PATH] BASE_HOST DST_DIRPATH"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "path to an optional YAML config file (see internal/config)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usageSynopsis)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		return fmt.Errorf("dnstun-receiver: expected BASE_HOST and DST_DIRPATH, got %d positional argument(s)", len(args))
	}
	host, destDir := args[0], args[1]

	if err := tunnel.ValidateHost(host); err != nil {
		return fmt.Errorf("dnstun-receiver: invalid BASE_HOST %q: %w", host, err)
	}
	if destDir == "" {
		return fmt.Errorf("dnstun-receiver: %w", tunnel.ErrEmptyDestDir)
	}

	cfg, err := config.Load(config.ResolveConfigPath(*configFlag))
	if err != nil {
		return fmt.Errorf("dnstun-receiver: load config: %w", err)
	}
	// Positional arguments always win over a config file's host/dest_dir.
	cfg.Host = host
	cfg.DestDir = destDir

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	historyStore, closeHistory, err := openHistoryStore(cfg)
	if err != nil {
		return fmt.Errorf("dnstun-receiver: %w", err)
	}
	defer closeHistory()

	hooks := tunnel.Hooks(tunnel.NoopHooks{})
	if historyStore != nil {
		hooks = history.NewHooks(historyStore, logger)
	}

	if cfg.HostInfo.Enabled {
		startHostInfo(ctx, cfg, logger)
	}

	var statusSrv *statusapi.Server
	if cfg.StatusAPI.Enabled {
		statusSrv = startStatusAPI(cfg, logger, historyStore)
	}

	ln, err := tunnel.ListenReusePort(ctx, fmt.Sprintf(":%d", 53))
	if err != nil {
		return fmt.Errorf("dnstun-receiver: listen: %w", err)
	}
	logger.Info("dnstun-receiver starting", "host", host, "dest_dir", destDir, "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
		if statusSrv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = statusSrv.Shutdown(shutdownCtx)
			shutdownCancel()
		}
	}()

	err = tunnel.Serve(ctx, ln, tunnel.ReceiverConfig{
		Host:    host,
		DestDir: destDir,
		Hooks:   hooks,
		Logger:  logger,
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("dnstun-receiver: serve: %w", err)
	}

	logger.Info("dnstun-receiver stopped")
	return nil
}

// openHistoryStore opens the shared sqlite history store when enabled, so
// both the receiver's hooks and the status API read/write the same
// database. The returned close function always runs, even when history is
// disabled (store is nil).
func openHistoryStore(cfg *config.Config) (*history.Store, func(), error) {
	if !cfg.History.Enabled {
		return nil, func() {}, nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open history store: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

func startHostInfo(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	interval, err := time.ParseDuration(cfg.HostInfo.Interval)
	if err != nil || interval <= 0 {
		logger.Warn("host_info: invalid interval, defaulting to 5m", "configured", cfg.HostInfo.Interval)
		interval = 5 * time.Minute
	}
	reporter := hostinfo.NewReporter(interval, logger)
	go reporter.Run(ctx)
}

func startStatusAPI(cfg *config.Config, logger *slog.Logger, store *history.Store) *statusapi.Server {
	srv := statusapi.New(cfg.StatusAPI.Host, cfg.StatusAPI.Port, logger, store)
	logger.Info("status API starting", "addr", srv.Addr())
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Warn("status API stopped", "error", err)
		}
	}()
	return srv
}
