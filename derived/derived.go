// Package derived implements the secondary converter operations. Every
// function here is written against the store.RateStore interface only and
// never sees how rates are represented.
package derived

import (
	"fmt"
	"math"
	"sort"
	"strings"

	converter "go-currency-converter"
	"go-currency-converter/store"
)

const (
	hashSeed  uint32 = 17
	hashPrime uint32 = 31
)

// ConvertToFixedTarget converts amount from a valid currency into target.
func ConvertToFixedTarget(s store.RateStore, amount converter.Amount, from, target converter.Currency) (converter.Amount, error) {
	if !s.IsValidCurrency(from) {
		return 0, fmt.Errorf("convert to %v from [%v]: %w", target, from, converter.ErrUnknownCurrency)
	}
	return s.Convert(amount, from, target)
}

// Render lists the supported currencies in enumeration order, e.g.
// "Supported currencies: USD CNY".
func Render(s store.RateStore) string {
	var sb strings.Builder
	sb.WriteString("Supported currencies:")
	for _, code := range s.SupportedCurrencies() {
		sb.WriteString(" ")
		sb.WriteString(string(code))
	}
	return sb.String()
}

// StructuralEquals reports whether a and b convert identically. Both stores
// must know the same source currencies, and for every source and probe target
// Convert(1, from, to) must either fail on both sides or return the same value.
func StructuralEquals(a, b store.RateStore) bool {
	codes := sorted(a.SupportedCurrencies())
	if !equalCodes(codes, sorted(b.SupportedCurrencies())) {
		return false
	}
	for _, from := range codes {
		for _, to := range probe(codes, a.Targets(from), b.Targets(from)) {
			ra, errA := a.Convert(1, from, to)
			rb, errB := b.Convert(1, from, to)
			if (errA == nil) != (errB == nil) {
				return false
			}
			if errA == nil && ra != rb {
				return false
			}
		}
	}
	return true
}

// StructuralHash hashes the conversion behavior of s in the same order
// StructuralEquals compares it, so equal stores hash equally regardless of
// the order their rates were set in.
func StructuralHash(s store.RateStore) uint32 {
	result := hashSeed
	codes := sorted(s.SupportedCurrencies())
	for _, from := range codes {
		for _, to := range probe(codes, s.Targets(from)) {
			r, err := s.Convert(1, from, to)
			if err != nil {
				continue
			}
			result = hashPrime*result + hashFloat(float64(r))
		}
	}
	return result
}

// hashFloat folds the IEEE-754 bits of f into 32 bits
func hashFloat(f float64) uint32 {
	bits := math.Float64bits(f)
	return uint32(bits ^ bits>>32)
}

// probe returns the sorted union of the known codes and extra targets
func probe(codes []converter.Currency, targets ...[]converter.Currency) []converter.Currency {
	seen := make(map[converter.Currency]struct{}, len(codes))
	union := make([]converter.Currency, 0, len(codes))
	add := func(c converter.Currency) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		union = append(union, c)
	}
	for _, c := range codes {
		add(c)
	}
	for _, ts := range targets {
		for _, c := range ts {
			add(c)
		}
	}
	return sorted(union)
}

func sorted(codes []converter.Currency) []converter.Currency {
	out := make([]converter.Currency, len(codes))
	copy(out, codes)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalCodes(a, b []converter.Currency) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
