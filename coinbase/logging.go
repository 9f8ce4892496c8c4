package coinbase

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	converter "go-currency-converter"
)

// loggingService decorates a coinbase.Service with leveled logging:
// failed fetches at error, successful ones at debug with the spread of returned rates.
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) ExchangeRates(ctx context.Context, currency converter.Currency) (rates converter.Rates, err error) {
	defer func(begin time.Time) {
		if err != nil {
			level.Error(s.logger).Log("method", "exchange_rates", "currency", currency, "took", time.Since(begin), "err", err)
			return
		}
		lowest, highest := spread(rates)
		level.Debug(s.logger).Log(
			"method", "exchange_rates",
			"currency", currency,
			"targets", len(rates),
			"lowest", lowest,
			"highest", highest,
			"took", time.Since(begin),
		)
	}(time.Now())
	return s.next.ExchangeRates(ctx, currency)
}

// spread returns the smallest and largest rate, zero for no rates
func spread(rates converter.Rates) (lowest, highest converter.Rate) {
	first := true
	for _, r := range rates {
		if first || r < lowest {
			lowest = r
		}
		if first || r > highest {
			highest = r
		}
		first = false
	}
	return lowest, highest
}
