package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/yeremiapane/hotel-housekeeping/config"
	"github.com/yeremiapane/hotel-housekeeping/database"
	"github.com/yeremiapane/hotel-housekeeping/router"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/telemetry"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

func main() {
	migrateOnly := pflag.Bool("migrate-only", false, "run migrations and seeding, then exit")
	skipSeed := pflag.Bool("skip-seed", false, "do not provision the configured rooms and housekeepers")
	issueToken := pflag.String("issue-token", "", "print a signed access token for `role` (front_desk, housekeeping, manager) and exit")
	tokenSubject := pflag.String("token-subject", "staff", "subject claim for --issue-token")
	tokenTTL := pflag.Duration("token-ttl", 12*time.Hour, "lifetime of a token minted with --issue-token")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if *issueToken != "" {
		if !cfg.AuthEnabled() {
			utils.ErrorLogger.Fatal("JWT_SECRET must be set to issue tokens")
		}
		token, err := utils.GenerateToken([]byte(cfg.JWTSecret), *tokenSubject, *issueToken, *tokenTTL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialise tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			utils.ErrorLogger.Printf("Error flushing traces: %v", err)
		}
	}()

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	if !*skipSeed {
		if _, err := database.Seed(db, cfg.Seed.RoomNumbers, cfg.Seed.Housekeepers); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
		}
	}
	if *migrateOnly {
		return
	}

	if cfg.GinMode == gin.ReleaseMode || cfg.GinMode == gin.TestMode {
		gin.SetMode(cfg.GinMode)
	}

	manager := services.NewLifecycleManager(db,
		services.WithLocation(cfg.Location),
		services.WithLogger(utils.InfoLogger),
	)
	r, err := router.SetupRouter(manager, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.ErrorLogger.Printf("Error shutting down server: %v", err)
		}
	}()

	utils.InfoLogger.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"driver": cfg.Database.Driver,
		"auth":   cfg.AuthEnabled(),
	}).Info("Listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.ErrorLogger.Fatal(err)
	}
}
