package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"
	converter "go-currency-converter"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) SetExchangeRate(ctx context.Context, from converter.Currency, to converter.Currency, rate converter.Rate) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "set_exchange_rate",
			"from", from,
			"to", to,
			"rate", rate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SetExchangeRate(ctx, from, to, rate)
}

func (s *loggingService) Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}

func (s *loggingService) ConvertToTarget(ctx context.Context, amount converter.Amount, from converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert_to_target",
			"amount", amount,
			"from", from,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ConvertToTarget(ctx, amount, from)
}

func (s *loggingService) IsValidCurrency(ctx context.Context, code converter.Currency) bool {
	return s.next.IsValidCurrency(ctx, code)
}

func (s *loggingService) SupportedCurrencies(ctx context.Context) []converter.Currency {
	return s.next.SupportedCurrencies(ctx)
}

func (s *loggingService) UpdateRatesAutomatically(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "update_rates_automatically",
			"currencies", len(s.next.SupportedCurrencies(ctx)),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateRatesAutomatically(ctx)
}

func (s *loggingService) String() string {
	return s.next.String()
}
