package coinbase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	converter "go-currency-converter"
	"golang.org/x/sync/singleflight"
)

// cached rates of one currency and when they were fetched
type cached struct {
	rates   converter.Rates
	fetched time.Time
}

// cachingService decorates a coinbase.Service with a short-lived cache of exchange rates.
// It does not refresh on its own: callers (the converter's update loop) drive fetches,
// and the cache only absorbs lookups that arrive within ttl of the last fetch.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// ttl how long fetched rates are served without asking next
	ttl time.Duration

	// now clock, replaced in tests
	now func() time.Time

	// cache the cache of rates
	cache map[converter.Currency]cached
	lock  sync.RWMutex

	// inflight collapses concurrent misses for the same currency into one upstream call
	inflight singleflight.Group

	logger log.Logger
}

// NewCachingService returns a new caching Service. ttl should be shorter than the
// interval rates are updated at, so scheduled updates always reach the upstream.
func NewCachingService(ttl time.Duration, logger log.Logger, s Service) Service {
	return &cachingService{
		next:   s,
		ttl:    ttl,
		now:    time.Now,
		cache:  map[converter.Currency]cached{},
		logger: logger,
	}
}

// ExchangeRates returns rates fetched less than ttl ago, otherwise fetches them from next
func (s *cachingService) ExchangeRates(ctx context.Context, currency converter.Currency) (converter.Rates, error) {
	if rates, ok := s.fresh(currency); ok {
		level.Debug(s.logger).Log("msg", "cache hit", "currency", currency)
		return rates, nil
	}

	v, err, shared := s.inflight.Do(string(currency), func() (interface{}, error) {
		rates, err := s.next.ExchangeRates(ctx, currency)
		if err != nil {
			return nil, err
		}
		s.lock.Lock()
		defer s.lock.Unlock()
		s.cache[currency] = cached{rates: rates, fetched: s.now()}
		return rates, nil
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing cache [%v]: %w", currency, err)
	}
	if shared {
		level.Debug(s.logger).Log("msg", "shared upstream fetch", "currency", currency)
	}
	return v.(converter.Rates), nil
}

// fresh returns the cached rates of currency if they are younger than ttl
func (s *cachingService) fresh(currency converter.Currency) (converter.Rates, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	c, ok := s.cache[currency]
	if !ok || s.now().Sub(c.fetched) >= s.ttl {
		return nil, false
	}
	return c.rates, true
}
