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

	"github.com/ridemarket/marketplace/internal/catalog"
	"github.com/ridemarket/marketplace/internal/complaints"
	"github.com/ridemarket/marketplace/internal/config"
	"github.com/ridemarket/marketplace/internal/deliveries"
	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/httpx"
	kafkax "github.com/ridemarket/marketplace/internal/kafka"
	"github.com/ridemarket/marketplace/internal/logger"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/ridemarket/marketplace/internal/notify"
	"github.com/ridemarket/marketplace/internal/orders"
	"github.com/ridemarket/marketplace/internal/payments"
	"github.com/ridemarket/marketplace/internal/postgres"
	"github.com/ridemarket/marketplace/internal/profiles"
	"github.com/ridemarket/marketplace/internal/redisx"
	"github.com/ridemarket/marketplace/internal/reviews"
	"github.com/ridemarket/marketplace/internal/rides"
	"github.com/ridemarket/marketplace/internal/trips"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	var store marketplace.Store
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		store = memstore.New()
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.DBMaxConns)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("db migrate", zap.Error(err))
		}
		store = &postgres.Store{DB: db}
	}

	// Cache
	var cache marketplace.Cache
	if cfg.CacheEnabled {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, reads go to the store", zap.Error(err))
		}
		cache = &redisx.Cache{RDB: rdb}
	}

	// Notifications
	var notifier marketplace.Notifier = marketplace.NopNotifier{}
	var prod *kafkax.Producer
	switch cfg.NotifyBackend {
	case "kafka":
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.NotifyTopic, 1024, log)
		prod.Start(ctx)
		notifier = &notify.KafkaNotifier{Producer: prod, Service: cfg.ServiceName, Log: log}
	case "amqp":
		mq, err := notify.DialAMQP(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.ServiceName, log)
		if err != nil {
			log.Fatal("rabbitmq", zap.Error(err))
		}
		defer mq.Close()
		notifier = mq
	}

	fx := effects.Effects{Cache: cache, Notifier: notifier, Log: log}
	api := &httpx.API{
		Profiles:   profiles.NewService(store, log),
		Catalog:    catalog.NewService(store, log),
		Orders:     orders.NewService(store, fx),
		Rides:      rides.NewService(store, fx),
		Trips:      trips.NewService(store, fx),
		Deliveries: deliveries.NewService(store, fx),
		Payments:   payments.NewService(store, fx),
		Reviews:    reviews.NewService(store, fx),
		Complaints: complaints.NewService(store, fx),
		Cache:      cache,
		Log:        log,
	}
	router := httpx.NewRouter(log)
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("http listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreDriver),
			zap.String("notify", cfg.NotifyBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush queued notifications
		cancel()
		prod.WaitClosed()
	}
}
