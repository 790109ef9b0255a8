package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadLayersFileOverDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.json")
	body := `{"tickers": ["AAPL", "MSFT"], "bucket": "options-screener", "criteria": {"min_volume": 250}}`
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	config := Load(file)
	if !reflect.DeepEqual(config.Tickers, []string{"AAPL", "MSFT"}) {
		t.Errorf("Bad tickers: %v", config.Tickers)
	}
	if config.Bucket != "options-screener" {
		t.Errorf("Bad bucket: %v", config.Bucket)
	}
	if config.Criteria.MinVolume != 250 {
		t.Errorf("File override lost: %v", config.Criteria.MinVolume)
	}
	// Fields absent from the file keep their defaults.
	if config.Criteria.MinPremium != 0.3 || config.Region != "us-east-1" {
		t.Errorf("Defaults lost: %+v", config)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SCREENER_TICKERS", "nvda, amd,nvda,")
	t.Setenv("SCREENER_BUCKET", "env-bucket")

	config := Load("")
	if !reflect.DeepEqual(config.Tickers, []string{"NVDA", "AMD"}) {
		t.Errorf("Ticker env parsing broken: %v", config.Tickers)
	}
	if config.Bucket != "env-bucket" {
		t.Errorf("Bad bucket: %v", config.Bucket)
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	config := Load(filepath.Join(t.TempDir(), "nope.json"))
	if config.Criteria.MinVolume != 100 || config.LogLevel != "info" {
		t.Errorf("Defaults not applied: %+v", config)
	}
}
