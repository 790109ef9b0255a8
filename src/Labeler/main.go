package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/optionlabs/screener/database"
	"github.com/optionlabs/screener/labeling"
	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/marketdata"
	"github.com/optionlabs/screener/settings"
	"github.com/optionlabs/screener/storage"
	"github.com/optionlabs/screener/telemetry"
)

func main() {
	settingsFile := flag.String("settings", "", "path to a JSON settings file")
	flag.Parse()

	config := settings.Load(*settingsFile)
	logger.SetDisplayLevel(config.LogLevel)

	store, err := storage.NewS3Store(config.Bucket, config.Region)
	if err != nil {
		logger.Errorf("Storage setup failed: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	pipeline := labeling.NewPipeline(store, marketdata.NewYahooClient())
	result, err := pipeline.Run()
	if err != nil {
		if errors.Is(err, labeling.ErrNoRawData) {
			logger.Errorf("Nothing to label: no raw snapshots found.\n")
		} else {
			logger.Errorf("Labeling run failed: %v\n", err)
		}
		os.Exit(1)
	}

	mirrorTrades(result)
	telemetry.ReportLabelingRun(len(result.Labeled), len(result.ArchivedKeys), result.WinRate, time.Since(start))
	logger.Infof("Labeling run finished in %v.\n", time.Since(start))
}

// mirrorTrades pushes the batch into Postgres when DATABASE_URL is set.
// Mirror trouble never fails the run; the batch file is already durable.
func mirrorTrades(result *labeling.Result) {
	if len(result.Labeled) == 0 {
		return
	}
	db, err := database.Connect()
	if err != nil {
		logger.Errorf("Database mirror unavailable: %v\n", err)
		return
	}
	if db == nil {
		return
	}
	defer db.Close()
	if err := db.InsertLabeledTrades(result.Labeled); err != nil {
		logger.Errorf("Database mirror insert failed: %v\n", err)
		return
	}
	if count, err := db.CountLabeledTrades(); err == nil {
		logger.Infof("Database mirror now holds %v labeled trades.\n", count)
	}
}
