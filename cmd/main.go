package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prism-talent/deal-desk/internal/agent"
	"github.com/prism-talent/deal-desk/internal/attachment"
	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/brand"
	"github.com/prism-talent/deal-desk/internal/calculator"
	"github.com/prism-talent/deal-desk/internal/config"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/logging"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/note"
	"github.com/prism-talent/deal-desk/internal/notify"
	"github.com/prism-talent/deal-desk/internal/schedule"
	"github.com/prism-talent/deal-desk/internal/server"
	dbutil "github.com/prism-talent/deal-desk/internal/utils/db"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("config", "error", err)
	}

	ctx := context.Background()
	db, err := dbutil.GetDB(ctx)
	if err != nil {
		logging.Fatal("connect database", "error", err)
	}

	// AutoMigrate every model
	if err := models.Migrate(db); err != nil {
		logging.Fatal("migrate", "error", err)
	}
	if err := db.AutoMigrate(&auth.RefreshToken{}); err != nil {
		logging.Fatal("migrate refresh tokens", "error", err)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		logging.Fatal("jwt", "error", err)
	}
	sessions := &auth.Sessions{DB: db, Tokens: tokens, CookieSecure: cfg.CookieSecure}
	webhook := notify.New(cfg.WebhookURL)
	notifier := notify.Multi{note.NewSystemNotes(db), webhook}

	deals := deal.NewRepository(db)
	handler := server.NewRouter(server.Deps{
		Tokens:         tokens,
		Sessions:       sessions,
		Agents:         agent.NewHandler(db, sessions),
		Brands:         brand.NewHandler(db),
		Deals:          deal.NewHandler(deals, notifier),
		Schedules:      schedule.NewHandler(schedule.NewRepository(db), deals),
		Attachments:    attachment.NewHandler(attachment.NewRepository(db), deals),
		Notes:          note.NewHandler(db, deals),
		Calculators:    calculator.NewHandler(),
		AllowedOrigins: cfg.AllowedOrigins,
		BodyLimitBytes: cfg.BodyLimitBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if wh, ok := webhook.(*notify.Webhook); ok {
		wh.Wait()
	}
}
