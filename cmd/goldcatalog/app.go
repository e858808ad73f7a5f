package main

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"GoldCatalog/internal/catalog"
	"GoldCatalog/internal/config"
	"GoldCatalog/internal/goldprice"
	"GoldCatalog/pkg/kit"
)

type app struct {
	cfg    *config.Config
	log    *zap.Logger
	reg    *prometheus.Registry
	oracle *goldprice.Oracle
	pricer *catalog.Pricer
	db     *sql.DB
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := kit.NewLogger(service, cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.Gold.APIKey == "" {
		log.Warn("GOLD_API_KEY is not set, serving fallback gold price",
			zap.String("fallback_per_gram", goldprice.FallbackPricePerGram.String()))
	}

	feed := goldprice.NewGoldAPIClient(cfg.Gold.URL, cfg.Gold.APIKey, cfg.Gold.Timeout)
	oracle := goldprice.NewOracle(feed,
		goldprice.WithTTL(cfg.Gold.CacheTTL),
		goldprice.WithLogger(log),
		goldprice.WithMetrics(goldprice.NewMetrics(reg)),
	)

	a := &app{cfg: cfg, log: log, reg: reg, oracle: oracle}

	var src catalog.Source
	if cfg.Products.DSN != "" {
		db, err := catalog.OpenPostgres(cfg.Products.DSN)
		if err != nil {
			_ = log.Sync()
			return nil, fmt.Errorf("open products db: %w", err)
		}
		a.db = db
		src = catalog.NewPostgresSource(db)
		log.Info("product source", zap.String("kind", "postgres"))
	} else {
		src = catalog.NewFileSource(cfg.Products.File)
		log.Info("product source", zap.String("kind", "file"), zap.String("path", cfg.Products.File))
	}

	a.pricer = &catalog.Pricer{Source: src, Oracle: oracle}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("close products db", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
