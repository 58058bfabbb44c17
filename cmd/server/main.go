package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kosmonet/neon-sub001/internal/engine"
	"github.com/kosmonet/neon-sub001/internal/metrics"
	"github.com/kosmonet/neon-sub001/internal/server"
	"github.com/kosmonet/neon-sub001/internal/version"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()
	var seed int64
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Initial world seed (0 for random)")
	flag.IntVar(&cfg.Worlds, "worlds", cfg.Worlds, "Number of dungeon levels below the surface")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Real time between simulation ticks")
	flag.IntVar(&cfg.PointFill, "fill", cfg.PointFill, "Entity index leaf capacity")
	flag.Parse()

	logger.Log.Info("Starting Neon map server...")
	logger.Log.Info(version.String())

	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}

	port := os.Getenv("NEON_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	service := engine.NewService(cfg)
	if err := service.Bootstrap(); err != nil {
		logger.Log.Fatal("Failed to build worlds: ", err)
	}
	prometheus.MustRegister(metrics.NewTreeCollector(service))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loops := service.Start(ctx)

	// 3. Запуск сервера
	srv := server.New(service, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP server shutdown failed")
	}
	loops.Wait()

	logger.Log.Info("Done.")
}
