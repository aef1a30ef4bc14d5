package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/application/services/advisory"
	"github.com/healsync/dispatch/pkg/infrastructure/config"
	"github.com/healsync/dispatch/pkg/infrastructure/events"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
	"github.com/healsync/dispatch/pkg/infrastructure/metrics"
	"github.com/healsync/dispatch/pkg/infrastructure/repositories/memory"
	httpapi "github.com/healsync/dispatch/pkg/interfaces/http"
)

const (
	serviceName = "healsync-dispatch"
	version     = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(logging.DefaultConfig(serviceName)).WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	loggerCfg := cfg.LoggerConfig(serviceName)
	loggerCfg.Version = version
	logger := logging.New(loggerCfg)
	logger.SetDefault()

	logger.Info("Starting dispatch service", "addr", cfg.Server.Addr)

	m := metrics.New(metrics.DefaultConfig(serviceName))

	store := events.NewInMemoryEventStore(logger)
	publishers := []events.Publisher{events.NewStorePublisher(store)}

	if cfg.Messaging.AMQP.Enabled {
		amqpPublisher, err := events.DialAMQP(cfg.Messaging.AMQP)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to AMQP broker")
			os.Exit(1)
		}
		publishers = append(publishers, amqpPublisher)
		logger.Info("AMQP publisher enabled", "exchange", cfg.Messaging.AMQP.Exchange)
	}

	if cfg.Messaging.Kafka.Enabled {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.Messaging.Kafka))
		logger.Info("Kafka publisher enabled", "topic", cfg.Messaging.Kafka.Topic)
	}

	publisher := events.NewMultiPublisher(logger, publishers...)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close publishers")
		}
	}()

	tables, err := cfg.WeightTables()
	if err != nil {
		logger.WithError(err).Error("Invalid weight tables")
		os.Exit(1)
	}

	stock, err := cfg.DepotInventory()
	if err != nil {
		logger.WithError(err).Error("Invalid depot stock")
		os.Exit(1)
	}
	depot, err := memory.NewDepotRepository(stock, cfg.Depot.Fleet)
	if err != nil {
		logger.WithError(err).Error("Failed to create depot")
		os.Exit(1)
	}

	advisoryCfg := cfg.Advisory
	advisoryCfg.OnStateChange = m.SetCircuitBreakerState

	service := services.NewDispatchService(services.Dependencies{
		Tables:                  tables,
		Advisor:                 advisory.New(advisoryCfg, logger),
		Depot:                   depot,
		Publisher:               publisher,
		Metrics:                 m,
		Logger:                  logger,
		DefaultDeliveryCapacity: cfg.Allocation.DefaultDeliveryCapacity,
	})

	router := httpapi.NewRouter(httpapi.RouterOptions{
		Service: service,
		Logger:  logger,
		Metrics: m,
		Info:    httpapi.ServiceInfo{Name: serviceName, Version: version},
	})

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.WithError(err).Error("Server error")
		os.Exit(1)
	}
}
