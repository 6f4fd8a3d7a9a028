package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tnvu/storefront/internal/config"
	"github.com/tnvu/storefront/internal/log"
	"github.com/tnvu/storefront/internal/relay"
	"github.com/tnvu/storefront/internal/repository"
	"github.com/tnvu/storefront/internal/storage/db"
	"github.com/tnvu/storefront/internal/storage/mq"
	"github.com/tnvu/storefront/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Relay    config.Relay
		Kafka    config.Kafka
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
	cleanup := svc.Run(ctx)
	logger.InfoContext(ctx, "relay service started")

	<-cmdutil.InterruptChan()

	logger.InfoContext(ctx, "relay service is shutting down")
	cleanup()
	logger.InfoContext(ctx, "relay service is stopped")

	return nil
}
