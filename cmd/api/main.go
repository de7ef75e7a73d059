package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/set-night/swifthub/internal/api"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/service"
)

func main() {
	var level slog.LevelVar
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: &level,
	})))

	cfg, err := config.LoadAPI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(config.ParseLogLevel(cfg.LogLevel))
	if level.Level() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conversations := service.NewConversationRegistry()
	completion := service.NewCompletionClient(cfg.Assistant)
	gateway := service.NewAssistantGateway(completion, cfg.Assistant)

	go conversations.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.Handler(api.Deps{
			Conversations:  conversations,
			Gateway:        gateway,
			Catalogue:      completion,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	go func() {
		slog.Info("starting api server", "addr", srv.Addr, "model", gateway.Model(), "origins", cfg.AllowedOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("api server shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("api server stopped gracefully")
}
