// Package jitter simulates a live rate feed by nudging the rates a store
// already holds by a random factor.
package jitter

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	converter "go-currency-converter"
	"go-currency-converter/store"
)

// DefaultSpread rates move by at most ±5% per update
const DefaultSpread = 0.05

// Feed produces perturbed copies of the direct rates recorded in a store.
// It satisfies exchange.RateFeed.
type Feed struct {
	// source the store whose current rates are perturbed
	source store.RateStore

	// spread maximum relative change of a rate
	spread float64

	// rnd random source, guarded by lock since rand.Rand is not concurrency safe
	rnd  *rand.Rand
	lock sync.Mutex
}

// New constructs a Feed. rnd must not be nil; seed it for reproducible runs.
// spread must be in [0, 1).
func New(source store.RateStore, rnd *rand.Rand, spread float64) (*Feed, error) {
	if rnd == nil {
		return nil, fmt.Errorf("jitter: nil random source")
	}
	if spread < 0 || spread >= 1 {
		return nil, fmt.Errorf("jitter: spread %v out of range [0, 1)", spread)
	}
	return &Feed{
		source: source,
		spread: spread,
		rnd:    rnd,
	}, nil
}

// ExchangeRates returns every direct rate of currency multiplied by a factor
// drawn uniformly from [1-spread, 1+spread).
func (f *Feed) ExchangeRates(ctx context.Context, currency converter.Currency) (converter.Rates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !f.source.IsValidCurrency(currency) {
		return nil, fmt.Errorf("jitter [%v]: %w", currency, converter.ErrUnknownCurrency)
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	rates := converter.Rates{}
	for _, to := range f.source.Targets(currency) {
		rate, err := f.source.Convert(1, currency, to)
		if err != nil {
			return nil, fmt.Errorf("jitter [%v -> %v]: %w", currency, to, err)
		}
		factor := 1 - f.spread + f.rnd.Float64()*2*f.spread
		rates[to] = converter.Rate(float64(rate) * factor)
	}
	return rates, nil
}
