package main

import (
	"flag"
	"fmt"
	"os"

	"market-reporter/src/analysis"
	"market-reporter/src/config"
	"market-reporter/src/logger"
	"market-reporter/src/models"
	"market-reporter/src/pbit"
)

// Offline harness: builds a template archive from synthetic daily bars and
// writes it to disk so the output can be opened in Power BI Desktop without
// network access or a running server.
func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	outPath := flag.String("out", "harness_dashboard.pbit", "output archive path")
	ticker := flag.String("ticker", "TSLA", "synthetic ticker symbol")
	days := flag.Int("days", 30, "number of synthetic daily bars")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.LogLevel, "Harness")

	// 4. Synthetic series -> report rows
	bars := syntheticBars(*ticker, *days)
	builder := analysis.NewReportBuilder(conf.MConfig, appLogger)
	rows, summary, err := builder.BuildRows(*ticker, bars)
	if err != nil {
		appLogger.Critical("Row derivation failed: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Derived %d rows, %d anomalies", summary.Rows, summary.Anomalies)
	appLogger.Info("Narrative: %s", summary.Narrative)

	// 5. Assemble the archive
	assembler := pbit.NewAssembler(conf.Report, appLogger)
	meta := models.MReportMeta{
		Title:     fmt.Sprintf("%s Report", *ticker),
		Narrative: summary.Narrative,
		Charts:    pbit.DefaultCharts(),
	}

	payload, err := assembler.Build(rows, meta)
	if err != nil {
		appLogger.Critical("Archive assembly failed: %v", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
		appLogger.Critical("Failed to write %s: %v", *outPath, err)
		os.Exit(1)
	}

	appLogger.Info("Wrote %s (%d bytes)", *outPath, len(payload))
}
