package main

import (
	"context"
	"fmt"
	"os"

	"github.com/WoodenTech/fleetcover/internal/config"
	"github.com/WoodenTech/fleetcover/internal/db"
	"github.com/WoodenTech/fleetcover/internal/events"
	"github.com/WoodenTech/fleetcover/internal/excel"
	httphandler "github.com/WoodenTech/fleetcover/internal/http"
	"github.com/WoodenTech/fleetcover/internal/logger"
	"github.com/WoodenTech/fleetcover/internal/metrics"
	"github.com/WoodenTech/fleetcover/internal/pdf"
	"github.com/WoodenTech/fleetcover/internal/repository"
	"github.com/WoodenTech/fleetcover/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	productRepo := repository.NewProductRepository(database)
	quoteRepo := repository.NewQuoteRepository(database)
	policyRepo := repository.NewPolicyRepository(database)
	userRepo := repository.NewUserRepository(database)

	registry := metrics.NewRegistry()

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publisher enabled")
	}

	productService := service.NewProductService(productRepo, log)
	quoteService := service.NewQuoteService(productRepo, quoteRepo, cfg, registry, publisher, log)
	policyService := service.NewPolicyService(policyRepo, quoteRepo, productRepo, cfg, registry, publisher, log)
	reportService := service.NewReportService(policyRepo, userRepo, excel.NewGenerator(), pdf.NewGenerator(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go quoteService.RunExpirySweep(ctx)

	handler := httphandler.NewHandler(productService, quoteService, policyService, reportService, log)
	router := httphandler.NewRouter(handler, registry.Handler(), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleetcover service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
