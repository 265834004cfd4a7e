package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"divscope/pkg/analysis"
	"divscope/pkg/api"
	"divscope/pkg/config"
	"divscope/pkg/dividend"
	"divscope/pkg/eastmoney"
)

func main() {
	// .env is optional, env vars win either way.
	godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("DIVSCOPE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	client := eastmoney.NewClient(logger, cfg.Upstream.Timeout())
	if cfg.Upstream.KlineBase != "" {
		client.KlineBase = cfg.Upstream.KlineBase
	}
	if cfg.Upstream.DataCenterBase != "" {
		client.DataCenterBase = cfg.Upstream.DataCenterBase
	}
	if cfg.Upstream.FundAPIBase != "" {
		client.FundAPIBase = cfg.Upstream.FundAPIBase
	}
	if cfg.Upstream.FundPageBase != "" {
		client.FundPageBase = cfg.Upstream.FundPageBase
	}

	aggregator := dividend.NewAggregator(logger,
		&eastmoney.DetailSource{Client: client},
		&eastmoney.PlanSource{Client: client},
		&eastmoney.FundAPISource{Client: client},
		&eastmoney.FundPageSource{Client: client},
	)
	service := analysis.NewService(client, aggregator, logger)
	handler := api.NewHandler(service, logger)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("listening", zap.String("addr", cfg.Addr()))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server", zap.Error(err))
	}
}
