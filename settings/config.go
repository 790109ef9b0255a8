// Package settings loads the runtime configuration: a JSON settings file
// layered under environment overrides (.env supported via godotenv).
package settings

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/fatih/structs"
	"github.com/joho/godotenv"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/utils"
)

type Config struct {
	Tickers    []string                `json:"tickers"`
	Bucket     string                  `json:"bucket"`
	Region     string                  `json:"region"`
	FredAPIKey string                  `json:"fred_api_key"`
	LogLevel   string                  `json:"log_level"`
	Criteria   models.ScreenerCriteria `json:"criteria"`
}

func Default() Config {
	return Config{
		Region:   "us-east-1",
		LogLevel: "info",
		Criteria: models.DefaultCriteria(),
	}
}

// Load layers an optional JSON settings file and then environment
// variables over the defaults. A missing file is not an error; the
// environment alone can configure a run.
func Load(file string) Config {
	godotenv.Load()

	config := Default()
	if file != "" {
		configFile, err := os.Open(file)
		if err != nil {
			logger.Errorf("Could not open settings file %v: %v\n", file, err)
		} else {
			defer configFile.Close()
			jsonParser := json.NewDecoder(configFile)
			if err := jsonParser.Decode(&config); err != nil {
				logger.Errorf("Could not parse settings file %v: %v\n", file, err)
			}
		}
	}
	applyEnv(&config)
	return config
}

func applyEnv(config *Config) {
	if tickers := os.Getenv("SCREENER_TICKERS"); tickers != "" {
		config.Tickers = splitTickers(tickers)
	}
	if bucket := os.Getenv("SCREENER_BUCKET"); bucket != "" {
		config.Bucket = bucket
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Region = region
	}
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		config.FredAPIKey = key
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
}

func splitTickers(raw string) []string {
	var tickers []string
	for _, ticker := range strings.Split(raw, ",") {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker != "" && !utils.StringInSlice(ticker, tickers) {
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}

// Dump renders the effective configuration for the startup log.
func (c Config) Dump() string {
	return utils.CreateKeyValuePairs(structs.Map(c), true)
}
