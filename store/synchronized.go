package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	converter "go-currency-converter"
)

// lockOrder hands out the ids that fix the order locks are taken in
var lockOrder atomic.Uint64

// synchronizedStore decorates a RateStore with a lock to make it concurrency safe
type synchronizedStore struct {
	// id orders lock acquisition when two stores are locked together
	id uint64

	// next the store being decorated
	next RateStore

	// lock synchronizes access to next
	lock sync.RWMutex
}

// NewSynchronized returns a RateStore safe for concurrent use.
// Copies and transfers between two synchronized stores hold both locks, so
// a reader never sees a partially moved table.
func NewSynchronized(s RateStore) RateStore {
	return &synchronizedStore{
		id:   lockOrder.Add(1),
		next: s,
	}
}

func (s *synchronizedStore) SetExchangeRate(from, to converter.Currency, rate converter.Rate) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.next.SetExchangeRate(from, to, rate)
}

func (s *synchronizedStore) Convert(amount converter.Amount, from, to converter.Currency) (converter.Amount, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.next.Convert(amount, from, to)
}

func (s *synchronizedStore) IsValidCurrency(code converter.Currency) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.next.IsValidCurrency(code)
}

func (s *synchronizedStore) SupportedCurrencies() []converter.Currency {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.next.SupportedCurrencies()
}

func (s *synchronizedStore) Targets(from converter.Currency) []converter.Currency {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.next.Targets(from)
}

func (s *synchronizedStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.next.Clear()
}

func (s *synchronizedStore) CopyFrom(source RateStore) error {
	src, ok := source.(*synchronizedStore)
	if !ok {
		return fmt.Errorf("copy: source %T: %w", source, converter.ErrIncompatibleStore)
	}
	if src == s {
		return fmt.Errorf("copy: %w", converter.ErrSameStore)
	}
	unlock := lockPair(s, src)
	defer unlock()
	return s.next.CopyFrom(src.next)
}

func (s *synchronizedStore) TransferFrom(source RateStore) error {
	src, ok := source.(*synchronizedStore)
	if !ok {
		return fmt.Errorf("transfer: source %T: %w", source, converter.ErrIncompatibleStore)
	}
	if src == s {
		return fmt.Errorf("transfer: %w", converter.ErrSameStore)
	}
	unlock := lockPair(s, src)
	defer unlock()
	return s.next.TransferFrom(src.next)
}

func (s *synchronizedStore) NewInstance() RateStore {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return NewSynchronized(s.next.NewInstance())
}

// lockPair write-locks both stores in id order so that two opposite
// transfers cannot deadlock. The returned func releases both locks.
func lockPair(a, b *synchronizedStore) func() {
	first, second := a, b
	if b.id < a.id {
		first, second = b, a
	}
	first.lock.Lock()
	second.lock.Lock()
	return func() {
		second.lock.Unlock()
		first.lock.Unlock()
	}
}
