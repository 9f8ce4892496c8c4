package store

import (
	"fmt"
	"math"

	converter "go-currency-converter"
)

// rateSet outgoing rates of one source currency, in insertion order
type rateSet struct {
	order []converter.Currency
	rates converter.Rates
}

func (rs *rateSet) clone() *rateSet {
	c := &rateSet{
		order: make([]converter.Currency, len(rs.order)),
		rates: make(converter.Rates, len(rs.rates)),
	}
	copy(c.order, rs.order)
	for k, v := range rs.rates {
		c.rates[k] = v
	}
	return c
}

// memoryStore in-memory RateStore keeping source and target codes in insertion order
type memoryStore struct {
	// sources source codes in the order they were first used
	sources []converter.Currency

	// rates maps a source code to its outgoing rates
	rates map[converter.Currency]*rateSet
}

// New constructs an empty in-memory RateStore.
func New() RateStore {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rates: map[converter.Currency]*rateSet{},
	}
}

func (s *memoryStore) SetExchangeRate(from, to converter.Currency, rate converter.Rate) error {
	if from == "" || to == "" {
		return fmt.Errorf("set exchange rate [%v -> %v]: %w", from, to, converter.ErrEmptyCurrency)
	}
	if !(rate > 0) || math.IsInf(float64(rate), 1) {
		return fmt.Errorf("set exchange rate [%v -> %v] %v: %w", from, to, rate, converter.ErrNonPositiveRate)
	}

	rs, ok := s.rates[from]
	if !ok {
		rs = &rateSet{rates: converter.Rates{}}
		s.rates[from] = rs
		s.sources = append(s.sources, from)
	}
	if _, ok := rs.rates[to]; !ok {
		rs.order = append(rs.order, to)
	}
	rs.rates[to] = rate
	return nil
}

func (s *memoryStore) Convert(amount converter.Amount, from, to converter.Currency) (converter.Amount, error) {
	if !amount.Valid() {
		return 0, fmt.Errorf("convert %v: %w", amount, converter.ErrNegativeAmount)
	}
	if !s.IsValidCurrency(from) {
		return 0, fmt.Errorf("convert from [%v]: %w", from, converter.ErrUnknownCurrency)
	}
	rate, ok := s.rates[from].rates[to]
	if !ok {
		return 0, fmt.Errorf("convert [%v -> %v]: %w", from, to, converter.ErrNoDirectRate)
	}
	return converter.Amount(float64(amount) * float64(rate)), nil
}

func (s *memoryStore) IsValidCurrency(code converter.Currency) bool {
	rs, ok := s.rates[code]
	return ok && len(rs.rates) > 0
}

func (s *memoryStore) SupportedCurrencies() []converter.Currency {
	codes := make([]converter.Currency, len(s.sources))
	copy(codes, s.sources)
	return codes
}

func (s *memoryStore) Targets(from converter.Currency) []converter.Currency {
	rs, ok := s.rates[from]
	if !ok {
		return nil
	}
	targets := make([]converter.Currency, len(rs.order))
	copy(targets, rs.order)
	return targets
}

func (s *memoryStore) Clear() {
	s.sources = nil
	s.rates = map[converter.Currency]*rateSet{}
}

func (s *memoryStore) CopyFrom(source RateStore) error {
	src, err := s.compatible(source)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	sources := make([]converter.Currency, len(src.sources))
	copy(sources, src.sources)
	rates := make(map[converter.Currency]*rateSet, len(src.rates))
	for code, rs := range src.rates {
		rates[code] = rs.clone()
	}
	s.sources = sources
	s.rates = rates
	return nil
}

func (s *memoryStore) TransferFrom(source RateStore) error {
	src, err := s.compatible(source)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	s.sources, s.rates = src.sources, src.rates
	src.sources, src.rates = nil, map[converter.Currency]*rateSet{}
	return nil
}

func (s *memoryStore) NewInstance() RateStore {
	return newMemoryStore()
}

// compatible checks source can be copied or moved into s
func (s *memoryStore) compatible(source RateStore) (*memoryStore, error) {
	src, ok := source.(*memoryStore)
	if !ok {
		return nil, fmt.Errorf("source %T: %w", source, converter.ErrIncompatibleStore)
	}
	if src == s {
		return nil, converter.ErrSameStore
	}
	return src, nil
}
