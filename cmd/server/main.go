package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bridgetable/internal/config"
	"bridgetable/internal/history"
	"bridgetable/internal/httpapi"
	"bridgetable/internal/hub"
	"bridgetable/internal/room"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	var rec history.Recorder
	if cfg.DatabaseURL != "" {
		store, err := history.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalw("open history store", "err", err)
		}
		rec = store
		log.Infow("hand history backed by postgres")
	} else {
		rec = history.NewMemStore()
		log.Infow("hand history kept in memory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roomCfgs := make([]room.Config, 0, len(cfg.Rooms))
	for _, id := range cfg.Rooms {
		roomCfgs = append(roomCfgs, room.Config{
			ID:          id,
			DealDelay:   cfg.DealDelay,
			BotDelay:    cfg.BotDelay,
			RedealTick:  cfg.RedealTick,
			RedealTicks: cfg.RedealTicks,
			IdleTimeout: cfg.IdleTimeout,
			MaxDealHCP:  cfg.MaxDealHCP,
			Log:         log,
			Recorder:    rec,
		})
	}
	h := hub.New(ctx, log, roomCfgs)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, rec, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("listening", "addr", cfg.Addr, "rooms", cfg.Rooms)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalw("server exited", "err", err)
	}
	log.Infow("shutdown complete")
}
