package store

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	converter "go-currency-converter"
)

func TestMemoryStore_SetAndConvert(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.2))

	got, err := s.Convert(10, "USD", "CNY")

	assert.NoError(t, err)
	assert.InDelta(t, 72.0, float64(got), 1e-9)
}

func TestMemoryStore_ConvertScenario(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 6.90))
	require.NoError(t, s.SetExchangeRate("USD", "EUR", 0.93))
	require.NoError(t, s.SetExchangeRate("CNY", "USD", 0.145))
	require.NoError(t, s.SetExchangeRate("CNY", "EUR", 0.135))

	type args struct {
		amount converter.Amount
		from   converter.Currency
		to     converter.Currency
	}
	tests := []struct {
		name    string
		args    args
		want    converter.Amount
		wantErr error
	}{
		{"usd -> cny", args{100, "USD", "CNY"}, 690.0, nil},
		{"cny -> eur", args{100, "CNY", "EUR"}, 13.5, nil},
		{"usd -> eur", args{0, "USD", "EUR"}, 0, nil},
		{"eur -> cny", args{50, "EUR", "CNY"}, 0, converter.ErrUnknownCurrency},
		{"usd -> usd", args{1, "USD", "USD"}, 0, converter.ErrNoDirectRate},
		{"eur -> usd", args{1, "EUR", "USD"}, 0, converter.ErrUnknownCurrency},
		{"negative amount", args{-1, "USD", "CNY"}, 0, converter.ErrNegativeAmount},
		{"nan amount", args{converter.Amount(math.NaN()), "USD", "CNY"}, 0, converter.ErrNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Convert(tt.args.amount, tt.args.from, tt.args.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, converter.ErrPrecondition)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, float64(tt.want), float64(got), 1e-9)
		})
	}
}

func TestMemoryStore_NoInverseOrCrossRate(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("AAA", "BBB", 2))
	require.NoError(t, s.SetExchangeRate("BBB", "CCC", 3))

	_, err := s.Convert(1, "AAA", "CCC")
	assert.ErrorIs(t, err, converter.ErrNoDirectRate)

	_, err = s.Convert(1, "BBB", "AAA")
	assert.ErrorIs(t, err, converter.ErrNoDirectRate)
}

func TestMemoryStore_SetExchangeRateRejects(t *testing.T) {
	tests := []struct {
		name    string
		from    converter.Currency
		to      converter.Currency
		rate    converter.Rate
		wantErr error
	}{
		{"empty from", "", "CNY", 1, converter.ErrEmptyCurrency},
		{"empty to", "USD", "", 1, converter.ErrEmptyCurrency},
		{"zero rate", "USD", "CNY", 0, converter.ErrNonPositiveRate},
		{"negative rate", "USD", "CNY", -2, converter.ErrNonPositiveRate},
		{"nan rate", "USD", "CNY", converter.Rate(math.NaN()), converter.ErrNonPositiveRate},
		{"infinite rate", "USD", "CNY", converter.Rate(math.Inf(1)), converter.ErrNonPositiveRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.SetExchangeRate(tt.from, tt.to, tt.rate)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.SupportedCurrencies())
		})
	}
}

func TestMemoryStore_IsValidCurrency(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))

	assert.True(t, s.IsValidCurrency("USD"))
	assert.False(t, s.IsValidCurrency("CNY"), "target only codes are not valid")
	assert.False(t, s.IsValidCurrency("EUR"))
	assert.False(t, s.IsValidCurrency(""))
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))
	require.NoError(t, s.SetExchangeRate("USD", "EUR", 0.9))
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.1))
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.1))

	got, err := s.Convert(1, "USD", "CNY")
	assert.NoError(t, err)
	assert.Equal(t, converter.Amount(7.1), got)
	assert.Equal(t, []converter.Currency{"CNY", "EUR"}, s.Targets("USD"))
	assert.Equal(t, []converter.Currency{"USD"}, s.SupportedCurrencies())
}

func TestMemoryStore_InsertionOrder(t *testing.T) {
	s := New()
	for _, code := range []converter.Currency{"JPY", "USD", "AUD", "CNY"} {
		require.NoError(t, s.SetExchangeRate(code, "GBP", 1.5))
	}
	require.NoError(t, s.SetExchangeRate("USD", "EUR", 0.9))

	assert.Equal(t, []converter.Currency{"JPY", "USD", "AUD", "CNY"}, s.SupportedCurrencies())
	assert.Nil(t, s.Targets("GBP"))
}

func TestMemoryStore_ReturnedSlicesAreCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))

	codes := s.SupportedCurrencies()
	codes[0] = "XXX"
	targets := s.Targets("USD")
	targets[0] = "YYY"

	assert.Equal(t, []converter.Currency{"USD"}, s.SupportedCurrencies())
	assert.Equal(t, []converter.Currency{"CNY"}, s.Targets("USD"))
}

func TestMemoryStore_Clear(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))
	require.NoError(t, s.SetExchangeRate("CNY", "USD", 0.14))

	s.Clear()

	assert.False(t, s.IsValidCurrency("USD"))
	assert.False(t, s.IsValidCurrency("CNY"))
	assert.Empty(t, s.SupportedCurrencies())

	require.NoError(t, s.SetExchangeRate("EUR", "USD", 1.1))
	assert.Equal(t, []converter.Currency{"EUR"}, s.SupportedCurrencies())
}

func TestMemoryStore_CopyFrom(t *testing.T) {
	src := New()
	require.NoError(t, src.SetExchangeRate("USD", "CNY", 7.0))
	require.NoError(t, src.SetExchangeRate("CNY", "USD", 0.14))

	dst := New()
	require.NoError(t, dst.SetExchangeRate("EUR", "USD", 1.1))
	require.NoError(t, dst.CopyFrom(src))

	assert.Equal(t, src.SupportedCurrencies(), dst.SupportedCurrencies())
	assert.False(t, dst.IsValidCurrency("EUR"))

	// the copy must not alias the source table
	require.NoError(t, src.SetExchangeRate("USD", "CNY", 8.0))
	require.NoError(t, src.SetExchangeRate("USD", "JPY", 150))
	got, err := dst.Convert(1, "USD", "CNY")
	assert.NoError(t, err)
	assert.Equal(t, converter.Amount(7.0), got)
	assert.Equal(t, []converter.Currency{"CNY"}, dst.Targets("USD"))
}

func TestMemoryStore_TransferFrom(t *testing.T) {
	src := New()
	require.NoError(t, src.SetExchangeRate("USD", "CNY", 7.0))
	require.NoError(t, src.SetExchangeRate("CNY", "EUR", 0.13))

	dst := New()
	require.NoError(t, dst.SetExchangeRate("EUR", "USD", 1.1))
	require.NoError(t, dst.TransferFrom(src))

	assert.Empty(t, src.SupportedCurrencies())
	assert.False(t, src.IsValidCurrency("USD"))
	assert.Equal(t, []converter.Currency{"USD", "CNY"}, dst.SupportedCurrencies())
	got, err := dst.Convert(100, "CNY", "EUR")
	assert.NoError(t, err)
	assert.InDelta(t, 13.0, float64(got), 1e-9)

	// the source stays usable and independent
	require.NoError(t, src.SetExchangeRate("GBP", "USD", 1.3))
	assert.False(t, dst.IsValidCurrency("GBP"))
}

type otherStore struct {
	RateStore
}

func TestMemoryStore_IncompatibleSource(t *testing.T) {
	s := New()

	err := s.CopyFrom(otherStore{New()})
	assert.True(t, errors.Is(err, converter.ErrIncompatibleStore))

	err = s.TransferFrom(NewSynchronized(New()))
	assert.True(t, errors.Is(err, converter.ErrIncompatibleStore))
}

func TestMemoryStore_SameStore(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))

	assert.ErrorIs(t, s.TransferFrom(s), converter.ErrSameStore)
	assert.ErrorIs(t, s.CopyFrom(s), converter.ErrSameStore)
	assert.True(t, s.IsValidCurrency("USD"))
}

func TestMemoryStore_NewInstance(t *testing.T) {
	s := New()
	require.NoError(t, s.SetExchangeRate("USD", "CNY", 7.0))

	fresh := s.NewInstance()

	assert.Empty(t, fresh.SupportedCurrencies())
	assert.NoError(t, fresh.TransferFrom(s))
}
