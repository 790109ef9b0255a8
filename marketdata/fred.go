package marketdata

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fastjson"

	"github.com/optionlabs/screener/logger"
)

// DefaultRiskFreeRate is used whenever FRED cannot be reached or parsed.
const DefaultRiskFreeRate = 0.0425

// FredClient reads the 3-month treasury bill rate (series DTB3) from the
// FRED API. It carries no cache: fetch the rate once per run and pass the
// value down instead of sharing a memo across callers.
type FredClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewFredClient(apiKey string) *FredClient {
	return &FredClient{
		APIKey:  apiKey,
		BaseURL: "https://api.stlouisfed.org",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *FredClient) RiskFreeRate() float64 {
	rate, err := f.fetchRate()
	if err != nil {
		logger.Errorf("Error getting risk-free rate from FRED, using default %v: %v\n", DefaultRiskFreeRate, err)
		return DefaultRiskFreeRate
	}
	return rate
}

func (f *FredClient) fetchRate() (float64, error) {
	params := url.Values{}
	params.Set("series_id", "DTB3")
	params.Set("api_key", f.APIKey)
	params.Set("file_type", "json")
	params.Set("sort_order", "desc")
	params.Set("limit", "1")

	resp, err := f.client.Get(f.BaseURL + "/fred/series/observations?" + params.Encode())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fred status %v", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	return parseFredRate(body)
}

func parseFredRate(data []byte) (float64, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return 0, err
	}
	obs := v.GetArray("observations")
	if len(obs) == 0 {
		return 0, fmt.Errorf("no observations in fred response")
	}
	raw := string(obs[0].GetStringBytes("value"))
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad observation value %q: %w", raw, err)
	}
	return pct / 100, nil
}
