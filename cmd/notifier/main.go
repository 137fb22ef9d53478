package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/config"
	"github.com/ridemarket/marketplace/internal/httpx"
	kafkax "github.com/ridemarket/marketplace/internal/kafka"
	"github.com/ridemarket/marketplace/internal/logger"
	"github.com/ridemarket/marketplace/internal/notify"
	"github.com/ridemarket/marketplace/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName+"-notifier", cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub(cfg.ServiceName, log)
	go hub.Run(ctx)

	relay := &notify.Relay{Hub: hub, Service: cfg.ServiceName, Log: log}
	if cfg.CacheEnabled {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		relay.RDB = rdb
	}

	// Consumer
	switch cfg.NotifyBackend {
	case "kafka":
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, cfg.NotifyTopic, cfg.NotifierWorkers, log)
		go func() {
			log.Info("kafka consumer started",
				zap.String("group", cfg.NotifierGroup),
				zap.String("topic", cfg.NotifyTopic),
				zap.Int("workers", cfg.NotifierWorkers),
			)
			if err := cons.Start(ctx, relay.HandleKafka); err != nil {
				log.Error("consumer exit", zap.Error(err))
				cancel()
			}
		}()
	case "amqp":
		mq, err := notify.DialAMQP(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.ServiceName, log)
		if err != nil {
			log.Fatal("rabbitmq", zap.Error(err))
		}
		defer mq.Close()
		go func() {
			log.Info("amqp consumer started", zap.String("queue", cfg.NotifierGroup))
			if err := mq.Consume(ctx, cfg.NotifierGroup, relay.Handle); err != nil {
				log.Error("consumer exit", zap.Error(err))
				cancel()
			}
		}()
	default:
		log.Warn("no notification backend configured; websocket clients will receive nothing",
			zap.String("backend", cfg.NotifyBackend))
	}

	router := httpx.NewRouter(log)
	router.Get("/ws", hub.ServeWS)
	srv := &http.Server{Addr: cfg.WSAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("websocket listening", zap.String("addr", cfg.WSAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down")

	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
