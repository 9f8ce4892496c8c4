package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	converter "go-currency-converter"
)

// instrumentingService decorates an exchange.Service with prometheus metrics
type instrumentingService struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	next     Service
}

// NewInstrumentingService registers its collectors with reg and returns a
// Service recording request counts and latencies per method and outcome.
func NewInstrumentingService(reg prometheus.Registerer, s Service) (Service, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "converter",
		Subsystem: "exchange",
		Name:      "requests_total",
		Help:      "Number of converter requests.",
	}, []string{"method", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "converter",
		Subsystem: "exchange",
		Name:      "request_duration_seconds",
		Help:      "Duration of converter requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	for _, c := range []prometheus.Collector{requests, latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &instrumentingService{
		requests: requests,
		latency:  latency,
		next:     s,
	}, nil
}

func (s *instrumentingService) observe(method string, begin time.Time, err error) {
	s.requests.WithLabelValues(method, outcome(err)).Inc()
	s.latency.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

// outcome classifies err for the outcome label
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, converter.ErrPrecondition):
		return "precondition"
	case errors.Is(err, converter.ErrUnsupported):
		return "unsupported"
	default:
		return "error"
	}
}

func (s *instrumentingService) SetExchangeRate(ctx context.Context, from converter.Currency, to converter.Currency, rate converter.Rate) (err error) {
	defer func(begin time.Time) { s.observe("set_exchange_rate", begin, err) }(time.Now())
	return s.next.SetExchangeRate(ctx, from, to, rate)
}

func (s *instrumentingService) Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) { s.observe("convert", begin, err) }(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}

func (s *instrumentingService) ConvertToTarget(ctx context.Context, amount converter.Amount, from converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) { s.observe("convert_to_target", begin, err) }(time.Now())
	return s.next.ConvertToTarget(ctx, amount, from)
}

func (s *instrumentingService) IsValidCurrency(ctx context.Context, code converter.Currency) bool {
	return s.next.IsValidCurrency(ctx, code)
}

func (s *instrumentingService) SupportedCurrencies(ctx context.Context) []converter.Currency {
	return s.next.SupportedCurrencies(ctx)
}

func (s *instrumentingService) UpdateRatesAutomatically(ctx context.Context) (err error) {
	defer func(begin time.Time) { s.observe("update_rates_automatically", begin, err) }(time.Now())
	return s.next.UpdateRatesAutomatically(ctx)
}

func (s *instrumentingService) String() string {
	return s.next.String()
}
