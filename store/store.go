// Package store holds the kernel of the converter: a table of direct exchange
// rates and the minimal set of operations on it.
package store

import (
	converter "go-currency-converter"
)

// RateStore is the kernel capability set. Everything else in the module is
// built on these methods only.
//
// Implementations are not required to be safe for concurrent use; wrap them
// with NewSynchronized when they are shared.
type RateStore interface {
	// SetExchangeRate stores or overwrites the direct rate from -> to.
	// Both codes must be non-empty and rate must be positive.
	SetExchangeRate(from, to converter.Currency, rate converter.Rate) error

	// Convert returns amount * rate(from -> to). amount must be non-negative,
	// from must be a valid currency and a direct rate must be recorded.
	Convert(amount converter.Amount, from, to converter.Currency) (converter.Amount, error)

	// IsValidCurrency reports whether code is a source with at least one rate.
	IsValidCurrency(code converter.Currency) bool

	// SupportedCurrencies returns the valid codes in insertion order.
	SupportedCurrencies() []converter.Currency

	// Targets returns the recorded targets of from in insertion order.
	Targets(from converter.Currency) []converter.Currency

	// Clear removes all rates.
	Clear()

	// CopyFrom replaces the contents of the store with a copy of source.
	CopyFrom(source RateStore) error

	// TransferFrom moves the contents of source into the store. source is
	// left empty but remains usable.
	TransferFrom(source RateStore) error

	// NewInstance returns an empty store of the same kind.
	NewInstance() RateStore
}
