package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashigram/internal/config"
	"fashigram/internal/db"
	"fashigram/internal/middleware"
	"fashigram/internal/router"
	"fashigram/internal/store"
	"fashigram/internal/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Log.Info("No .env file found, finding env vars from system")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	log.InitLogger("fashigram", cfg.GinMode)

	// Initialize Database
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Log.WithError(err).Fatal("Failed to initialize database")
	}

	st := store.NewGormStore(db.DB)
	svc, err := router.NewServices(st)
	if err != nil {
		log.Log.WithError(err).Fatal("Failed to build services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动时补齐缺失的作者 DECLARED 票
	if cfg.BackfillOnStart {
		go func() {
			if _, err := svc.Consensus.BackfillDeclaredVotes(ctx); err != nil {
				log.Log.WithError(err).Warn("declared vote backfill stopped")
			}
		}()
	}

	limiter := middleware.NewRateLimiter(cfg.VoteRatePerMinute, cfg.VoteRateBurst)
	go limiter.RunCleanup(10*time.Minute, ctx.Done())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(cfg, svc, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Log.Infof("Fashigram server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Log.WithError(err).Error("graceful shutdown failed")
	}
}
