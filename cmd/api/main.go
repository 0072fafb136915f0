package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finboard.org/internal/auth"
	"finboard.org/internal/config"
	"finboard.org/internal/dashboard"
	"finboard.org/internal/events"
	"finboard.org/internal/httpapi"
	"finboard.org/internal/obs"
	"finboard.org/internal/repo"
	"finboard.org/internal/store"
	"finboard.org/internal/store/firestore"
	"finboard.org/internal/store/memstore"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	obs.SetupLogging(cfg.LogFormat, cfg.LogLevel)
	obs.Init()
	obs.InitBuildInfo(version, commit)

	ctx := context.Background()

	var st store.Store
	var provider auth.Provider
	if cfg.Demo {
		slog.Info("demo mode: in-memory store, demo credentials accepted")
		st = memstore.New()
	} else {
		fs, err := firestore.New(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			slog.Error("firestore", "err", err)
			os.Exit(1)
		}
		st = fs
		provider, err = auth.NewFirebaseProvider(ctx, cfg.Firebase.ProjectID, cfg.Firebase.WebAPIKey, cfg.Firebase.CredentialsFile)
		if err != nil {
			slog.Error("firebase auth", "err", err)
			os.Exit(1)
		}
	}

	tokens, err := auth.NewTokens(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	if err != nil {
		slog.Error("tokens", "err", err)
		os.Exit(1)
	}

	r := repo.New(st)
	authSvc := auth.NewService(provider, auth.WithDemoMode(cfg.Demo))
	dash := dashboard.New(r)
	feed := events.New()

	probe := httpapi.ReadyProbe{
		Check: func(ctx context.Context) error {
			// The store is process-local in demo mode; probing it is a
			// no-op there and a metadata read against Firestore otherwise.
			_, err := st.Query(ctx, store.Query{Collection: "companies", Limit: 1})
			return err
		},
	}

	api := httpapi.New(r, authSvc, tokens, dash, feed, probe, version)

	handler := api.Handler()
	handler = httpapi.RateLimit(handler, cfg.Server.RateBurst, cfg.Server.RatePerSec)
	handler = httpapi.MaxBodyBytes(handler, 1<<20)
	handler = httpapi.CORS(handler)
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.Logging(handler)
	handler = httpapi.RequestID(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	slog.Info("starting finboard-api", "version", version, "addr", srv.Addr, "demo", cfg.Demo)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = st.Close()
	slog.Info("stopped")
}
