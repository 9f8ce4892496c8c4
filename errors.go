package converter

import (
	"errors"
	"fmt"
)

// ErrPrecondition is the parent of every caller contract violation.
// Callers are expected to check IsValidCurrency before converting.
var ErrPrecondition = errors.New("precondition violated")

var (
	ErrEmptyCurrency   = fmt.Errorf("%w: empty currency code", ErrPrecondition)
	ErrNonPositiveRate = fmt.Errorf("%w: exchange rate must be positive", ErrPrecondition)
	ErrNegativeAmount  = fmt.Errorf("%w: amount must be non-negative", ErrPrecondition)
	ErrUnknownCurrency = fmt.Errorf("%w: unknown currency", ErrPrecondition)
	ErrNoDirectRate    = fmt.Errorf("%w: no direct exchange rate", ErrPrecondition)
	ErrSameStore       = fmt.Errorf("%w: source and destination are the same store", ErrPrecondition)
)

// ErrUnsupported is returned by operations with no backing implementation,
// e.g. automatic updates without a rate feed.
var ErrUnsupported = errors.New("unsupported operation")

// ErrIncompatibleStore is returned when copying or transferring between stores of different kinds.
var ErrIncompatibleStore = errors.New("incompatible rate store")
