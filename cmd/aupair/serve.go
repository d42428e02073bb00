package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mudassir044/au-pair-connect-frontend/internal/config"
	"github.com/mudassir044/au-pair-connect-frontend/internal/crypto"
	"github.com/mudassir044/au-pair-connect-frontend/internal/messaging"
	"github.com/mudassir044/au-pair-connect-frontend/internal/metrics"
	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
	"github.com/mudassir044/au-pair-connect-frontend/internal/store/memory"
	"github.com/mudassir044/au-pair-connect-frontend/internal/store/postgres"
	"github.com/mudassir044/au-pair-connect-frontend/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web client server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	var (
		sessionStore   session.Store
		draftStore     onboarding.DraftStore
		analyticsStore onboarding.AnalyticsStore
	)

	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}
		slog.Info("connected to database")

		m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
			st := pool.Stat()
			return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
		})

		cipher, err := crypto.NewCipher(cfg.Sessions.SealKey)
		if err != nil {
			return err
		}
		if cipher == nil {
			slog.Warn("no seal key configured, session tokens are stored in the clear")
		}

		pgSessions := postgres.NewSessionStore(pool, cipher, cfg.Sessions.TTL)
		pgDrafts := postgres.NewDraftStore(pool, cfg.Onboarding.DraftTTL)
		pgAnalytics := postgres.NewAnalyticsStore(pool, cfg.Onboarding.AnalyticsTTL)
		sessionStore = pgSessions
		draftStore = pgDrafts
		analyticsStore = pgAnalytics

		go cleanExpiredRows(ctx, pgSessions, pgDrafts, pgAnalytics)

	default:
		sessionStore = memory.NewSessionStore(cfg.Sessions.TTL)
		draftStore = memory.NewDraftStore(cfg.Onboarding.DraftTTL)
		analyticsStore = memory.NewAnalyticsStore(cfg.Onboarding.AnalyticsTTL)
	}

	client := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Timeout)
	client.SetMetrics(m)

	flashes := web.NewFlashStore()
	sessions := session.NewManager(client, sessionStore, flashes.Notifier, cfg.Sessions.IdleTTL)
	go sessions.StartSweeper(ctx, cfg.Sessions.SweepInterval)

	router := web.NewRouter(web.RouterDeps{
		Sessions:  sessions,
		Platform:  client,
		Drafts:    draftStore,
		Analytics: analyticsStore,
		Messages:  messaging.NewStore(),
		Flashes:   flashes,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "platform", cfg.Platform.BaseURL, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// cleanExpiredRows periodically deletes expired session and draft rows.
// Reads already honor expires_at, so this is housekeeping, not correctness.
func cleanExpiredRows(ctx context.Context, sessions *postgres.SessionStore, drafts *postgres.DraftStore, analytics *postgres.AnalyticsStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	sweep := func(name string, fn func(context.Context) (int64, error)) {
		if n, err := fn(ctx); err != nil {
			slog.Warn("row cleanup failed", "table", name, "error", err)
		} else if n > 0 {
			slog.Info("cleaned expired rows", "table", name, "rows", n)
		}
	}

	for {
		select {
		case <-ticker.C:
			sweep("client_sessions", sessions.CleanExpired)
			sweep("onboarding_drafts", drafts.CleanExpired)
			sweep("onboarding_analytics", analytics.CleanExpired)
		case <-ctx.Done():
			return
		}
	}
}
