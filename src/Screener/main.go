package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/marketdata"
	"github.com/optionlabs/screener/screener"
	"github.com/optionlabs/screener/settings"
	"github.com/optionlabs/screener/storage"
	"github.com/optionlabs/screener/telemetry"
)

func main() {
	settingsFile := flag.String("settings", "", "path to a JSON settings file")
	dryRun := flag.Bool("dry-run", false, "screen and print, but do not upload")
	flag.Parse()

	config := settings.Load(*settingsFile)
	logger.SetDisplayLevel(config.LogLevel)
	logger.Infof("Effective configuration: %v\n", config.Dump())

	if len(config.Tickers) == 0 {
		logger.Errorf("No tickers configured. Set SCREENER_TICKERS or the settings file.\n")
		os.Exit(1)
	}

	var store storage.ObjectStore
	if *dryRun {
		store = storage.NewMemoryStore()
	} else {
		s3, err := storage.NewS3Store(config.Bucket, config.Region)
		if err != nil {
			logger.Errorf("Storage setup failed: %v\n", err)
			os.Exit(1)
		}
		store = s3
	}

	market := marketdata.NewYahooClient()
	rates := marketdata.NewFredClient(config.FredAPIKey)

	start := time.Now()
	s := screener.NewScreener(config.Tickers, config.Criteria, market, rates, store)
	key, count, err := s.ExportSnapshot()
	if err != nil {
		if errors.Is(err, screener.ErrNoData) {
			logger.Errorf("No market data for any configured ticker.\n")
		} else {
			logger.Errorf("Screening run failed: %v\n", err)
		}
		os.Exit(1)
	}

	telemetry.ReportScreenerRun(len(config.Tickers), count, key, time.Since(start))
	logger.Infof("Screening run finished in %v.\n", time.Since(start))
}
