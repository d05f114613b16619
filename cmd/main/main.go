package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-reporter/src/analysis"
	"market-reporter/src/config"
	datasource "market-reporter/src/data_source"
	"market-reporter/src/data_source/yahoo"
	"market-reporter/src/helpers"
	"market-reporter/src/interfaces"
	"market-reporter/src/logger"
	"market-reporter/src/network"
	"market-reporter/src/pbit"
	"market-reporter/src/server"
	"market-reporter/src/storage"
	"market-reporter/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// 1. Storage backend
	var db interfaces.IDatabase

	switch cfg.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(cfg.MConfig, appLogger)
	default:
		// Default to SQLite
		db, err = storage.NewAsyncSQLiteDB(cfg.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
		os.Exit(1)
	}
	// Postgres may still be coming up when we are
	if _, err := helpers.RetryWithBackoff("database initialize", 3, 2*time.Second, func() (interface{}, error) {
		return nil, db.Initialize()
	}); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// 2. Network and data sources
	var networkManager interfaces.INetworkManager = network.NewAsyncNetworkManager(cfg.MConfig, appLogger)

	var sourceList []interfaces.IDataSource
	for _, srcCfg := range cfg.DataSource.Sources {
		sourceList = append(sourceList, yahoo.NewYahooFinanceSource(cfg.MConfig, srcCfg, networkManager))
	}
	if len(sourceList) == 0 {
		appLogger.Critical("No data sources configured")
		os.Exit(1)
	}
	sources := datasource.NewSourceManager(sourceList, appLogger)

	// 3. Analysis, assembler, cache
	builder := analysis.NewReportBuilder(cfg.MConfig, appLogger)
	assembler := pbit.NewAssembler(cfg.Report, appLogger)

	maxPoints := utils.CalculateMaxDataPoints(cfg.DataSource.DataRetentionDays)
	memLimit := helpers.GetRecommendedMemoryLimit()
	appLogger.Info("Memory limit set to: %d MB", memLimit)
	cache := utils.NewBarCache(memLimit, maxPoints, cfg.DataSource.CacheTTLSeconds)

	// 4. Market scheduler for the health probe
	var symbols []string
	for _, srcCfg := range cfg.DataSource.Sources {
		symbols = append(symbols, srcCfg.Symbols...)
	}
	scheduler := utils.NewMarketScheduler(symbols, appLogger)

	// 5. HTTP + websocket server
	var srv interfaces.IDataExchanger = server.NewReportServer(cfg.MConfig, appLogger, db, sources, cache, builder, assembler, scheduler)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
			os.Exit(1)
		}
	}()

	// 6. Daily retention cleanup
	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()
	go func() {
		for range cleanupTicker.C {
			if err := db.CleanupOldData(); err != nil {
				appLogger.Error("Retention cleanup failed: %v", err)
			}
		}
	}()

	appLogger.Info("Report generator ready on %s:%d", cfg.Host, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server stop error: %v", err)
	}
	cache.Cleanup()
}
