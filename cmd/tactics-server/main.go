package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pefman/hex-tactics/internal/config"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/server"
	"github.com/pefman/hex-tactics/internal/stats"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Optional local persistence dir for battle logs
	battleLog := game.NewBattleLog(cfg.BattleLogDir)
	srv := server.New(cfg, battleLog, stats.NewStore())

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":      cfg.ListenAddr,
			"missions":  cfg.MissionDir,
			"battleLog": cfg.BattleLogDir,
			"seeded":    cfg.RNGSeed != nil,
			"version":   config.BuildVersion,
			"buildTime": config.BuildTime,
		}).Info("tactics server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Fatal("server shutdown failed")
	}
	logger.Log.Info("server stopped")
}
