package marketdata

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fastjson"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/utils"
)

const quoteSummaryModules = "price,summaryDetail,assetProfile,financialData,calendarEvents,earnings,earningsHistory"

// YahooClient implements Provider over the Yahoo Finance JSON API.
type YahooClient struct {
	BaseURL string
	client  *http.Client
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		BaseURL: "https://query2.finance.yahoo.com",
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (y *YahooClient) get(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, y.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo status %v for %v", resp.StatusCode, path)
	}
	return io.ReadAll(resp.Body)
}

func (y *YahooClient) StockMetadata(tickers []string) map[string]models.StockMetadataEntry {
	batch := make(map[string]models.StockMetadataEntry)
	for _, ticker := range tickers {
		body, err := y.get("/v10/finance/quoteSummary/" + ticker + "?modules=" + quoteSummaryModules)
		if err != nil {
			logger.Errorf("Could not fetch info for %v: %v\n", ticker, err)
			continue
		}
		entry, err := parseQuoteSummary(ticker, body)
		if err != nil {
			logger.Errorf("Metadata fetch failed for %v: %v\n", ticker, err)
			continue
		}
		batch[ticker] = entry
	}
	return batch
}

func (y *YahooClient) ExpirationDates(ticker string) ([]string, error) {
	body, err := y.get("/v7/finance/options/" + ticker)
	if err != nil {
		return nil, err
	}
	return parseExpirationDates(body)
}

func (y *YahooClient) OptionChainForDate(ticker string, date string) ([]models.ContractRow, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("bad expiration date %q: %w", date, err)
	}
	body, err := y.get(fmt.Sprintf("/v7/finance/options/%s?date=%d", ticker, day.UTC().Unix()))
	if err != nil {
		return nil, err
	}
	return parseOptionCalls(ticker, body)
}

func (y *YahooClient) HistoricalCloses(ticker string, start time.Time, end time.Time) (map[string]float64, error) {
	body, err := y.get(fmt.Sprintf("/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		ticker, start.UTC().Unix(), end.UTC().Unix()))
	if err != nil {
		return nil, err
	}
	return parseChartCloses(body)
}

func quoteSummaryResult(data []byte) (*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	results := v.GetArray("quoteSummary", "result")
	if len(results) == 0 {
		return nil, fmt.Errorf("empty quoteSummary result")
	}
	return results[0], nil
}

func parseQuoteSummary(ticker string, data []byte) (models.StockMetadataEntry, error) {
	result, err := quoteSummaryResult(data)
	if err != nil {
		return models.StockMetadataEntry{}, err
	}

	// Price resolution order matches the provider's quirks: the regular
	// market price is missing for some funds, which expose NAV instead.
	price := result.GetFloat64("price", "regularMarketPrice", "raw")
	if price == 0 {
		price = result.GetFloat64("financialData", "currentPrice", "raw")
	}
	if price == 0 {
		price = result.GetFloat64("summaryDetail", "navPrice", "raw")
	}
	if price == 0 {
		return models.StockMetadataEntry{}, fmt.Errorf("no usable price for %v", ticker)
	}

	industry := string(result.GetStringBytes("assetProfile", "industry"))
	if industry == "" {
		if string(result.GetStringBytes("price", "quoteType")) == "ETF" {
			industry = "ETF"
		} else {
			industry = "Unknown"
		}
	}

	companyName := string(result.GetStringBytes("price", "shortName"))
	if companyName == "" {
		companyName = "Unknown"
	}

	rating := string(result.GetStringBytes("financialData", "recommendationKey"))
	if rating == "" {
		rating = "Unknown"
	}

	dividendDate := "N/A"
	if raw := result.GetInt64("calendarEvents", "dividendDate", "raw"); raw != 0 {
		dividendDate = time.Unix(raw, 0).UTC().Format("01/02/2006")
	}

	return models.StockMetadataEntry{
		Ticker:               ticker,
		CompanyName:          companyName,
		StockPrice:           price,
		PERatio:              result.GetFloat64("summaryDetail", "trailingPE", "raw"),
		StockVolume:          result.GetInt64("price", "regularMarketVolume", "raw"),
		StockAverageVolume:   result.GetInt64("summaryDetail", "averageVolume", "raw"),
		MarketCap:            result.GetFloat64("price", "marketCap", "raw"),
		StockBeta:            result.GetFloat64("summaryDetail", "beta", "raw"),
		Industry:             industry,
		AverageAnalystRating: rating,
		EarningsDate:         nextEarningsDate(result, time.Now()),
		DividendDate:         dividendDate,
		DividendYield:        result.GetFloat64("summaryDetail", "dividendYield", "raw"),
	}, nil
}

func optionChainResult(data []byte) (*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	results := v.GetArray("optionChain", "result")
	if len(results) == 0 {
		return nil, fmt.Errorf("empty optionChain result")
	}
	return results[0], nil
}

func parseExpirationDates(data []byte) ([]string, error) {
	result, err := optionChainResult(data)
	if err != nil {
		return nil, err
	}
	var dates []string
	for _, epoch := range result.GetArray("expirationDates") {
		ts, err := epoch.Int64()
		if err != nil {
			continue
		}
		dates = append(dates, time.Unix(ts, 0).UTC().Format(models.DateLayout))
	}
	return dates, nil
}

func parseOptionCalls(ticker string, data []byte) ([]models.ContractRow, error) {
	result, err := optionChainResult(data)
	if err != nil {
		return nil, err
	}
	chains := result.GetArray("options")
	if len(chains) == 0 {
		return nil, nil
	}

	var rows []models.ContractRow
	for _, call := range chains[0].GetArray("calls") {
		row := models.ContractRow{
			Ticker:            ticker,
			ContractName:      string(call.GetStringBytes("contractSymbol")),
			Strike:            call.GetFloat64("strike"),
			Premium:           call.GetFloat64("lastPrice"),
			Bid:               call.GetFloat64("bid"),
			Ask:               call.GetFloat64("ask"),
			Change:            call.GetFloat64("change"),
			PercentChange:     call.GetFloat64("percentChange"),
			Volume:            call.GetInt("volume"),
			OpenInterest:      call.GetInt("openInterest"),
			ImpliedVolatility: call.GetFloat64("impliedVolatility"),
			InTheMoney:        call.GetBool("inTheMoney"),
			ContractSize:      string(call.GetStringBytes("contractSize")),
		}
		if ts := call.GetInt64("lastTradeDate"); ts != 0 {
			row.LastTradeDate = time.Unix(ts, 0).UTC().Format(models.DateLayout)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseChartCloses(data []byte) (map[string]float64, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	results := v.GetArray("chart", "result")
	if len(results) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}
	timestamps := results[0].GetArray("timestamp")
	quotes := results[0].GetArray("indicators", "quote")
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quote indicators in chart result")
	}
	closes := quotes[0].GetArray("close")

	prices := make(map[string]float64, len(timestamps))
	for i, tsVal := range timestamps {
		if i >= len(closes) {
			break
		}
		// Holidays come through as JSON nulls.
		if closes[i].Type() != fastjson.TypeNumber {
			continue
		}
		ts, err := tsVal.Int64()
		if err != nil {
			continue
		}
		prices[time.Unix(ts, 0).UTC().Format(models.DateLayout)] = closes[i].GetFloat64()
	}
	return prices, nil
}
