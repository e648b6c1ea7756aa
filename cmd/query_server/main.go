package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/spyglass-dev/spyglass/internal/config"
	"github.com/spyglass-dev/spyglass/internal/events"
	"github.com/spyglass-dev/spyglass/internal/query_engine/query"
	"github.com/spyglass-dev/spyglass/internal/query_engine/stream"
	"github.com/spyglass-dev/spyglass/internal/query_server/router"
	"github.com/spyglass-dev/spyglass/internal/query_server/service"
	"github.com/spyglass-dev/spyglass/internal/transport/cloudwatch"
	"go.uber.org/zap"
)

// @title Spyglass API
// @version 1.0
// @description SQL-shaped querying of log sources, executed as live-tail
// fetches or asynchronous analytical queries against the log backend.

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	awsConfig := aws.NewConfig()
	if cfg.AWSRegion != "" {
		awsConfig = awsConfig.WithRegion(cfg.AWSRegion)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		logger.Fatal("Failed to create AWS session", zap.Error(err))
	}

	tp := cloudwatch.NewTransportImpl(cloudwatchlogs.New(sess), logger)
	streamFetcher := stream.NewStreamFetcherImpl(tp, logger)
	executor := query.NewQueryExecutorImpl(tp, logger)

	resultCache, err := service.NewResultCache()
	if err != nil {
		logger.Fatal("Failed to create result cache", zap.Error(err))
	}
	bus := events.NewBus[service.RunStatusEvent](EventBus.New(), logger)
	registry := service.NewRunRegistryImpl(executor, resultCache, bus, cfg.QueryTimeout, logger)

	err = bus.Subscribe(service.RunStatusTopic, func(event service.RunStatusEvent) error {
		logger.Info("Query run status changed",
			zap.String("runId", event.RunId),
			zap.String("status", string(event.Status)),
		)
		return nil
	}, false)
	if err != nil {
		logger.Fatal("Failed to subscribe to run status events", zap.Error(err))
	}

	r := router.CreateRouter(context.Background(), streamFetcher, registry, cfg.StreamLimit, logger)
	logger.Info("Starting query server", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
