package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/builderstudio/briefs-backend/config"
	"github.com/builderstudio/briefs-backend/internal/bootstrap"
	briefshttp "github.com/builderstudio/briefs-backend/internal/briefs/http"
	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/builderstudio/briefs-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.SetLevel(logging.ParseLevel(cfg.App.LogLevel))
	bootstrap.SetGinMode(cfg.App.Environment)
	logger := logging.New(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var gateway store.Gateway
	gw, err := bootstrap.OpenStore(ctx, bootstrap.StoreOptions{
		URL:       cfg.Database.URL,
		Name:      cfg.Database.Name,
		ConnectTO: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		// keep serving; /test reports the store as not initialized
		logger.LogWarnf("startup", "document store unavailable: %v", err)
	} else {
		gateway = gw
		logger.LogInfof("startup", "document store connected name=%s", gw.Name())
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.Name,
		Version:        cfg.App.Version,
		Gateway:        gateway,
		DatabaseURLSet: cfg.DatabaseURLSet(),
		TrustedProxies: cfg.Server.TrustedProxies,
		Briefs: briefshttp.Options{
			DefaultLimit: cfg.Briefs.DefaultLimit,
			MaxLimit:     cfg.Briefs.MaxLimit,
		},
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.LogInfof("startup", "listening on :%s env=%s", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.LogInfo("shutdown", "signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("shutdown", err)
	}

	if gateway != nil {
		if err := gateway.Close(); err != nil {
			logger.LogError("shutdown", err)
		}
	}
}
