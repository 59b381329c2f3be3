package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/logger"
	"github.com/iliyamo/cinema-seat-booking/internal/queue"
	"github.com/iliyamo/cinema-seat-booking/internal/router"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

func main() {
	hashPasscode := flag.String("hash-passcode", "", "print the bcrypt hash of a box-office passcode and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *hashPasscode != "" {
		hash, err := utils.HashPasscode(*hashPasscode, cfg.BcryptCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	log, err := logger.New(cfg.Env, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and chart cache disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.QueueEnabled {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL, log)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, cfg.QueueLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	venues := service.NewRegistry(publisher, log)
	if cfg.Venue.Title != "" {
		if _, err := venues.Create(cfg.Venue.Title, cfg.Venue.Rows, cfg.Venue.SeatsPerRow); err != nil {
			log.Fatal("create default venue", zap.Error(err))
		}
	}
	if !cfg.AuthEnabled() {
		log.Warn("JWT_SECRET not set, box-office routes are open")
	}

	e := router.New(router.Deps{Config: cfg, Venues: venues, Redis: rdb, Log: log})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
