package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escaperoom/internal/assets"
	"escaperoom/internal/rooms"
	"escaperoom/internal/source"
	synchub "escaperoom/internal/sync"
	"escaperoom/pkg/logging"
	"escaperoom/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub, logger))
	tcpSrv := synchub.NewServer(cfg.SyncAddr, hub, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		if _, err := os.Stat(cfg.DataDir); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"data_error":  err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"data_dir":    cfg.DataDir,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Page and documents
	assets.NewHandler(cfg.DataDir).RegisterRoutes(router)

	// Rooms
	runCtx, stopRuns := context.WithCancel(context.Background())
	defer stopRuns()

	board := rooms.NewBoard(hub)
	hub.ReplayFrom(board.Events)
	svc := &rooms.Service{
		Base:         runCtx,
		Docs:         source.NewClient(cfg.DataURL),
		Board:        board,
		Pub:          hub,
		Delay:        cfg.StepDelay,
		Logger:       logger.Named("rooms"),
		SingleFlight: cfg.SingleFlight,
	}
	rooms.NewHandler(svc).RegisterRoutes(router.Group("/rooms"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("data_url", cfg.DataURL),
			zap.Duration("step_delay", cfg.StepDelay),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.Stringer("signal", sig))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("shutting down servers")
	// stop in-flight walks so Shutdown does not wait on their timers
	stopRuns()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	if err := tcpSrv.Close(); err != nil {
		logger.Error("tcp shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("servers stopped")
}
