package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shopspring/decimal"
	converter "go-currency-converter"
)

const ApiUrlBase = "https://api.coinbase.com/v2"

// Service wraps the coinbase REST API
type Service interface {
	ExchangeRates(ctx context.Context, currency converter.Currency) (converter.Rates, error)
}

// service coinbase API
type service struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client

	// logger reports rates the converter cannot store
	logger log.Logger
}

// NewService constructs a valid coinbase Service. An empty url selects ApiUrlBase.
func NewService(url string, timeout time.Duration, logger log.Logger) Service {
	if url == "" {
		url = ApiUrlBase
	}
	return &service{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ExchangeRates loads the current exchanges for a given currency.
// Coinbase rates change every minute.
// Rates that are not positive are dropped, the converter cannot store them.
func (s *service) ExchangeRates(ctx context.Context, currency converter.Currency) (converter.Rates, error) {
	type Response struct {
		Data struct {
			Currency string
			Rates    map[string]string // maps currency codes to rates
		}
	}

	url := fmt.Sprintf("%v/exchange-rates?currency=%v", s.url, currency)

	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http get: unexpected status %v", httpResponse.Status)
	}

	var response Response
	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	rates := converter.Rates{}
	var dropped []string
	for k, v := range response.Data.Rates {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("bad rate value: %w", err)
		}
		if !d.IsPositive() {
			dropped = append(dropped, k)
			continue
		}
		f, _ := d.Float64()
		rates[converter.Currency(k)] = converter.Rate(f)
	}

	if len(dropped) > 0 {
		sort.Strings(dropped)
		level.Warn(s.logger).Log("msg", "dropped non-positive rates", "currency", currency, "count", len(dropped), "codes", strings.Join(dropped, ","))
	}

	return rates, nil
}
