package exchange

import (
	"context"
	"fmt"
	"sort"
	"sync"

	converter "go-currency-converter"
	"go-currency-converter/derived"
	"go-currency-converter/store"
)

// DefaultTarget currency used by ConvertToTarget unless configured otherwise
const DefaultTarget converter.Currency = "CNY"

// Service the enhanced converter interface
type Service interface {
	// SetExchangeRate records the direct rate from -> to
	SetExchangeRate(ctx context.Context, from converter.Currency, to converter.Currency, rate converter.Rate) error

	// Convert converts amount using the direct rate from -> to
	Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error)

	// ConvertToTarget converts amount into the configured target currency
	ConvertToTarget(ctx context.Context, amount converter.Amount, from converter.Currency) (converter.Exchanged, error)

	IsValidCurrency(ctx context.Context, code converter.Currency) bool

	// SupportedCurrencies lists known source currencies in insertion order
	SupportedCurrencies(ctx context.Context) []converter.Currency

	// UpdateRatesAutomatically refreshes rates from the configured RateFeed.
	// Returns converter.ErrUnsupported when there is no feed.
	UpdateRatesAutomatically(ctx context.Context) error

	fmt.Stringer
}

// RateFeed an external source of exchange rates, e.g. coinbase.Service
type RateFeed interface {
	ExchangeRates(ctx context.Context, currency converter.Currency) (converter.Rates, error)
}

// Option configures a Converter
type Option func(*Converter)

// WithTarget sets the currency used by ConvertToTarget
func WithTarget(target converter.Currency) Option {
	return func(c *Converter) {
		c.target = target
	}
}

// WithFeed plugs in the source used by UpdateRatesAutomatically
func WithFeed(feed RateFeed) Option {
	return func(c *Converter) {
		c.feed = feed
	}
}

// Converter composes a RateStore with the derived operations
type Converter struct {
	// rates the kernel store
	rates store.RateStore

	// target for ConvertToTarget
	target converter.Currency

	// feed for automatic updates, may be nil
	feed RateFeed

	// writeLock serializes writers so an update is never interleaved with a set
	writeLock sync.Mutex
}

// NewService constructs a Converter over rates
func NewService(rates store.RateStore, opts ...Option) *Converter {
	c := &Converter{
		rates:  rates,
		target: DefaultTarget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the kernel store, e.g. for derived.StructuralEquals
func (c *Converter) Store() store.RateStore {
	return c.rates
}

// Target the currency used by ConvertToTarget
func (c *Converter) Target() converter.Currency {
	return c.target
}

func (c *Converter) SetExchangeRate(_ context.Context, from converter.Currency, to converter.Currency, rate converter.Rate) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	return c.rates.SetExchangeRate(from, to, rate)
}

func (c *Converter) Convert(_ context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error) {
	return c.exchange(amount, from, to, c.rates.Convert)
}

func (c *Converter) ConvertToTarget(_ context.Context, amount converter.Amount, from converter.Currency) (converter.Exchanged, error) {
	return c.exchange(amount, from, c.target, func(amount converter.Amount, from, to converter.Currency) (converter.Amount, error) {
		return derived.ConvertToFixedTarget(c.rates, amount, from, to)
	})
}

// exchange reads the unit rate once and derives the amount from it, so Rate and
// Amount always come from the same table even while an update runs
func (c *Converter) exchange(amount converter.Amount, from, to converter.Currency,
	convert func(converter.Amount, converter.Currency, converter.Currency) (converter.Amount, error)) (converter.Exchanged, error) {
	if !amount.Valid() {
		return converter.Exchanged{}, fmt.Errorf("convert %v: %w", amount, converter.ErrNegativeAmount)
	}
	rate, err := convert(1, from, to)
	if err != nil {
		return converter.Exchanged{}, err
	}
	return converter.Exchanged{
		Rate:   converter.Rate(rate),
		Amount: converter.Amount(float64(amount) * float64(rate)),
	}, nil
}

func (c *Converter) IsValidCurrency(_ context.Context, code converter.Currency) bool {
	return c.rates.IsValidCurrency(code)
}

func (c *Converter) SupportedCurrencies(_ context.Context) []converter.Currency {
	return c.rates.SupportedCurrencies()
}

// UpdateRatesAutomatically fetches fresh rates for every supported currency
// and merges them in. Rates the feed does not mention are kept. Either every
// fetched rate is applied or none is.
func (c *Converter) UpdateRatesAutomatically(ctx context.Context) error {
	if c.feed == nil {
		return fmt.Errorf("update rates: %w", converter.ErrUnsupported)
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	staged := c.rates.NewInstance()
	if err := staged.CopyFrom(c.rates); err != nil {
		return fmt.Errorf("update rates: staging: %w", err)
	}

	for _, from := range c.rates.SupportedCurrencies() {
		rates, err := c.feed.ExchangeRates(ctx, from)
		if err != nil {
			return fmt.Errorf("update rates [%v]: %w", from, err)
		}
		// feed rates come back as a map; sort so new targets are recorded deterministically
		targets := make([]converter.Currency, 0, len(rates))
		for to := range rates {
			targets = append(targets, to)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, to := range targets {
			if err := staged.SetExchangeRate(from, to, rates[to]); err != nil {
				return fmt.Errorf("update rates [%v]: %w", from, err)
			}
		}
	}

	if err := c.rates.TransferFrom(staged); err != nil {
		return fmt.Errorf("update rates: %w", err)
	}
	return nil
}

// String renders the supported currencies
func (c *Converter) String() string {
	return derived.Render(c.rates)
}

// Equal reports whether two converters behave identically
func Equal(a, b *Converter) bool {
	return derived.StructuralEquals(a.rates, b.rates)
}

// Hash is consistent with Equal
func Hash(c *Converter) uint32 {
	return derived.StructuralHash(c.rates)
}
