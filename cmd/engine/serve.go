package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"remotejobs-engine/internal/httpapi"
	"remotejobs-engine/internal/scheduler"
	"remotejobs-engine/internal/store"
)

const tokenFile = "engine.token"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API, plus the scheduled cleanup of old jobs.

With the sqlite store the data directory is locked, so only one engine can
use it at a time. A local shutdown token is written to <data-dir>/engine.token;
POST it as X-Shutdown-Token to /shutdown from localhost to stop the engine.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver == store.DriverSQLite {
		if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
			return err
		}
		lock := flock.New(filepath.Join(cfg.App.DataDir, "engine.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("lock data dir: %w", err)
		}
		if !locked {
			return fmt.Errorf("data dir %s is in use by another engine", cfg.App.DataDir)
		}
		defer func() { _ = lock.Unlock() }()
	}

	a, err := openApp(ctx, cfg, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New()
	if a.cfg.Cleanup.Schedule != "" {
		maxAge := time.Duration(a.cfg.Cleanup.MaxAgeDays) * 24 * time.Hour
		cleanup := func(ctx context.Context) error {
			_, err := a.svc.Cleanup(ctx, maxAge)
			return err
		}
		if err := sched.Add(ctx, a.cfg.Cleanup.Schedule, "cleanup", cleanup, a.cfg.Cleanup.RunOnStart); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(a.cfg)

	var limiter *httpapi.ClientLimiter
	if a.cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = httpapi.NewClientLimiter(a.cfg.RateLimit.RequestsPerSecond, a.cfg.RateLimit.Burst)
	}

	shutdownToken, err := randomToken(32)
	if err != nil {
		return err
	}
	tokenPath := filepath.Join(a.cfg.App.DataDir, tokenFile)
	if err := os.WriteFile(tokenPath, []byte(shutdownToken), 0o600); err != nil {
		return fmt.Errorf("write shutdown token: %w", err)
	}
	defer os.Remove(tokenPath)

	mux := httpapi.NewMux(httpapi.Deps{
		Jobs:        a.svc,
		Hub:         a.hub,
		CfgVal:      &cfgVal,
		UserCfgPath: a.cfgPath,
	})
	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		// request contexts end with the process, which also closes SSE streams
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	mux.HandleFunc("/shutdown", shutdownHandler(shutdownToken, srv))
	srv.Handler = httpapi.WithMiddleware(mux, limiter)

	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	log.Printf("engine listening on http://%s (store=%s)", ln.Addr(), a.cfg.Store.Driver)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Printf("engine stopped via /shutdown")
		return nil
	case <-ctx.Done():
	}

	log.Printf("engine shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
